package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/examcell/results-api/internal/dto"
	"github.com/examcell/results-api/internal/middleware"
	"github.com/examcell/results-api/internal/repository"
)

// ErrInvalidCredentials is returned for every login failure. Unknown email,
// wrong password and role mismatch are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken is returned when a bearer token fails validation for any reason.
var ErrInvalidToken = errors.New("invalid token")

// Principal is an authenticated identity, either an administrator or a student.
type Principal struct {
	ID    string
	Email string
	Name  string
	Role  string

	passwordHash string
}

// AuthService issues and validates bearer tokens.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	ParseToken(token string) (Principal, error)
}

type principalResolver func(ctx context.Context, email string) (Principal, bool, error)

type authService struct {
	resolvers []principalResolver
	validator *validator.Validate
	secret    []byte
	expiry    time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the authentication service. Principals are
// resolved by an ordered chain: administrators first, then students that
// have a password hash set.
func NewAuthService(admins repository.AdminRepository, students repository.StudentRepository, validate *validator.Validate, secret string, expiry time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		resolvers: []principalResolver{
			adminResolver(admins),
			studentResolver(students),
		},
		validator: validate,
		secret:    []byte(secret),
		expiry:    expiry,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func adminResolver(admins repository.AdminRepository) principalResolver {
	return func(ctx context.Context, email string) (Principal, bool, error) {
		admin, err := admins.GetByEmail(ctx, email)
		if err != nil {
			return Principal{}, false, err
		}
		return Principal{
			ID:           strconv.FormatUint(uint64(admin.ID), 10),
			Email:        admin.Email,
			Name:         admin.Name,
			Role:         middleware.RoleAdmin,
			passwordHash: admin.Password,
		}, true, nil
	}
}

func studentResolver(students repository.StudentRepository) principalResolver {
	return func(ctx context.Context, email string) (Principal, bool, error) {
		student, err := students.GetByEmail(ctx, email)
		if err != nil {
			return Principal{}, false, err
		}
		// A student without credentials cannot authenticate.
		if student.Password == nil || *student.Password == "" {
			return Principal{}, false, nil
		}
		return Principal{
			ID:           student.ID,
			Email:        student.Email,
			Name:         student.Name,
			Role:         middleware.RoleStudent,
			passwordHash: *student.Password,
		}, true, nil
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, err
	}

	principal, found := s.resolve(ctx, req.Email)
	if !found {
		s.logger.Warn().Str("email", req.Email).Msg("login failed: principal not resolved")
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(principal.passwordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("email", req.Email).Msg("login failed: password mismatch")
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	if principal.Role != strings.ToLower(strings.TrimSpace(req.Role)) {
		s.logger.Warn().Str("email", req.Email).Str("claimed_role", req.Role).Msg("login failed: role mismatch")
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(principal)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Str("email", principal.Email).Str("role", principal.Role).Msg("login succeeded")
	return dto.LoginResponse{
		Token: token,
		ID:    principal.ID,
		Email: principal.Email,
		Name:  principal.Name,
		Role:  principal.Role,
	}, nil
}

// resolve walks the resolver chain; first match wins. Repository errors are
// treated as not-found so the caller sees the uniform credentials failure.
func (s *authService) resolve(ctx context.Context, email string) (Principal, bool) {
	for _, resolver := range s.resolvers {
		principal, found, err := resolver(ctx, email)
		if err != nil {
			continue
		}
		if found {
			return principal, true
		}
	}
	return Principal{}, false
}

func (s *authService) issueToken(principal Principal) (string, error) {
	issuedAt := s.now()
	claims := jwt.MapClaims{
		"sub":  principal.Email,
		"id":   principal.ID,
		"role": principal.Role,
		"iat":  issuedAt.Unix(),
		"exp":  issuedAt.Add(s.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// ParseToken validates signature, structure and expiry. The specific failure
// is logged only; callers always observe ErrInvalidToken.
func (s *authService) ParseToken(tokenString string) (Principal, error) {
	if strings.TrimSpace(tokenString) == "" {
		return Principal{}, ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !token.Valid {
		s.logger.Debug().Err(err).Msg("token validation failed")
		return Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, ErrInvalidToken
	}

	principal := Principal{}
	if email, ok := claims["sub"].(string); ok {
		principal.Email = email
	}
	if id, ok := claims["id"].(string); ok {
		principal.ID = id
	}
	if role, ok := claims["role"].(string); ok {
		principal.Role = strings.ToLower(strings.TrimSpace(role))
	}

	if principal.Email == "" || principal.Role == "" {
		return Principal{}, ErrInvalidToken
	}

	return principal, nil
}
