package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bp-tracker/internal/api/dto"
	"github.com/spec-kit/bp-tracker/internal/auth"
	"github.com/spec-kit/bp-tracker/internal/service"
	apperrors "github.com/spec-kit/bp-tracker/pkg/util"
)

// PatientsHandler exposes account endpoints.
type PatientsHandler struct {
	auth *service.AuthService
}

// NewPatientsHandler constructs handler.
func NewPatientsHandler(authService *service.AuthService) *PatientsHandler {
	return &PatientsHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *PatientsHandler) Register(c *fiber.Ctx) error {
	var req dto.PatientRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	patient, token, exp, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"patient": dto.PatientResponse{ID: patient.ID, Name: patient.Name, Email: patient.Email},
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/login.
func (h *PatientsHandler) Login(c *fiber.Ctx) error {
	var req dto.PatientLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	patient, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"patient": dto.PatientResponse{ID: patient.ID, Name: patient.Name, Email: patient.Email},
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Me handles GET /api/me.
func (h *PatientsHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Patient == nil {
		return apperrors.NewUnauthorized("not authenticated")
	}
	patient := principal.Patient
	return c.JSON(fiber.Map{
		"data": dto.PatientResponse{ID: patient.ID, Name: patient.Name, Email: patient.Email},
	})
}
