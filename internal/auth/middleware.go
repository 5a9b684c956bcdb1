package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bp-tracker/internal/domain"
	"github.com/spec-kit/bp-tracker/internal/repository"
	apperrors "github.com/spec-kit/bp-tracker/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated patient.
type Principal struct {
	SubjectType domain.SubjectType
	Patient     *domain.Patient
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	patients repository.PatientRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, patients repository.PatientRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, patients: patients}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if claims.Subject != domain.SubjectTypePatient {
		return apperrors.NewUnauthorized("unknown subject")
	}

	patient, err := m.patients.GetByID(c.Context(), claims.SubjectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("patient not found")
		}
		return apperrors.MapError(err)
	}
	if patient.Status != domain.PatientStatusActive {
		return apperrors.NewForbidden("account suspended")
	}

	c.Locals(principalKey, &Principal{SubjectType: claims.Subject, Patient: patient})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated patient.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// RequirePatient ensures a patient is authenticated.
func RequirePatient() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypePatient || principal.Patient == nil {
			return apperrors.NewForbidden("patient account required")
		}
		return c.Next()
	}
}
