package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/examcell/results-api/internal/utils"
)

// JWTProtected returns a middleware that validates JWT bearer tokens. Every
// failure mode collapses to the same 401 response; the reason is logged only.
func JWTProtected(secret string, logger zerolog.Logger) fiber.Handler {
	authLogger := logger.With().Str("component", "jwt_middleware").Logger()

	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c.Get("Authorization"))
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			authLogger.Debug().Err(err).Msg("token rejected")
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		if email, ok := claims["sub"].(string); ok && email != "" {
			c.Locals("user_email", email)
		}
		if id, ok := claims["id"].(string); ok && id != "" {
			c.Locals("user_id", id)
		}
		if role := normalizeRoleValue(claims["role"]); role != "" {
			c.Locals("user_role", role)
		}

		return c.Next()
	}
}

func bearerToken(header string) string {
	const bearer = "bearer "
	if len(header) < len(bearer) || !strings.EqualFold(header[:len(bearer)], bearer) {
		return ""
	}
	return strings.TrimSpace(header[len(bearer):])
}
