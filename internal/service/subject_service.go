package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/examcell/results-api/internal/dto"
	"github.com/examcell/results-api/internal/models"
	"github.com/examcell/results-api/internal/repository"
)

// ErrSubjectNotFound indicates the subject code does not exist.
var ErrSubjectNotFound = errors.New("subject not found")

// ErrSubjectExists indicates the subject code is already taken.
var ErrSubjectExists = errors.New("subject already exists")

// SubjectService manages the subject reference data.
type SubjectService interface {
	List(ctx context.Context) ([]dto.SubjectResponse, error)
	Get(ctx context.Context, code string) (dto.SubjectResponse, error)
	Create(ctx context.Context, req dto.SubjectCreateRequest) (dto.SubjectResponse, error)
	Update(ctx context.Context, code string, req dto.SubjectUpdateRequest) (dto.SubjectResponse, error)
	Delete(ctx context.Context, code string) error
}

type subjectService struct {
	subjects  repository.SubjectRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSubjectService constructs a subject service.
func NewSubjectService(subjects repository.SubjectRepository, validate *validator.Validate, logger zerolog.Logger) SubjectService {
	return &subjectService{
		subjects:  subjects,
		validator: validate,
		logger:    logger.With().Str("component", "subject_service").Logger(),
	}
}

func (s *subjectService) List(ctx context.Context) ([]dto.SubjectResponse, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewSubjectResponses(subjects), nil
}

func (s *subjectService) Get(ctx context.Context, code string) (dto.SubjectResponse, error) {
	subject, err := s.subjects.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubjectResponse{}, ErrSubjectNotFound
		}
		return dto.SubjectResponse{}, err
	}

	return dto.NewSubjectResponse(subject), nil
}

func (s *subjectService) Create(ctx context.Context, req dto.SubjectCreateRequest) (dto.SubjectResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SubjectResponse{}, err
	}

	if _, err := s.subjects.GetByCode(ctx, req.Code); err == nil {
		return dto.SubjectResponse{}, ErrSubjectExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubjectResponse{}, err
	}

	subject := models.Subject{
		Code:       req.Code,
		Name:       req.Name,
		Department: req.Department,
		Credits:    req.Credits,
	}
	if err := s.subjects.Create(ctx, &subject); err != nil {
		return dto.SubjectResponse{}, err
	}

	s.logger.Info().Str("subject_code", subject.Code).Msg("subject created")
	return dto.NewSubjectResponse(subject), nil
}

func (s *subjectService) Update(ctx context.Context, code string, req dto.SubjectUpdateRequest) (dto.SubjectResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SubjectResponse{}, err
	}

	subject, err := s.subjects.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubjectResponse{}, ErrSubjectNotFound
		}
		return dto.SubjectResponse{}, err
	}

	changed := false
	if req.Name != nil && *req.Name != subject.Name {
		subject.Name = *req.Name
		changed = true
	}
	if req.Department != nil && *req.Department != subject.Department {
		subject.Department = *req.Department
		changed = true
	}
	if req.Credits != nil && *req.Credits != subject.Credits {
		subject.Credits = *req.Credits
		changed = true
	}

	if !changed {
		return dto.NewSubjectResponse(subject), nil
	}

	if err := s.subjects.Save(ctx, &subject); err != nil {
		return dto.SubjectResponse{}, err
	}

	s.logger.Info().Str("subject_code", subject.Code).Msg("subject updated")
	return dto.NewSubjectResponse(subject), nil
}

func (s *subjectService) Delete(ctx context.Context, code string) error {
	if err := s.subjects.Delete(ctx, code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubjectNotFound
		}
		return err
	}

	s.logger.Info().Str("subject_code", code).Msg("subject deleted")
	return nil
}
