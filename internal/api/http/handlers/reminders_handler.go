package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bp-tracker/internal/api/dto"
	"github.com/spec-kit/bp-tracker/internal/auth"
	"github.com/spec-kit/bp-tracker/internal/service"
	apperrors "github.com/spec-kit/bp-tracker/pkg/util"
)

// RemindersHandler exposes reminder CRUD endpoints.
type RemindersHandler struct {
	reminders *service.ReminderService
}

// NewRemindersHandler constructs handler.
func NewRemindersHandler(reminders *service.ReminderService) *RemindersHandler {
	return &RemindersHandler{reminders: reminders}
}

// Create handles POST /api/reminders.
func (h *RemindersHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Patient == nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.ReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	reminder, err := h.reminders.Create(c.Context(), principal.Patient.ID, service.ReminderInput{
		Label:     req.Label,
		TimeOfDay: req.TimeOfDay,
		Enabled:   req.Enabled,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewReminderResponse(*reminder)})
}

// List handles GET /api/reminders.
func (h *RemindersHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Patient == nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	reminders, err := h.reminders.List(c.Context(), principal.Patient.ID)
	if err != nil {
		return err
	}

	responses := make([]dto.ReminderResponse, 0, len(reminders))
	for _, r := range reminders {
		responses = append(responses, dto.NewReminderResponse(r))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Update handles PUT /api/reminders/:id.
func (h *RemindersHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Patient == nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	id := c.Params("id")
	if id == "" {
		return apperrors.NewValidationError("reminder id required", nil)
	}

	var req dto.ReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	reminder, err := h.reminders.Update(c.Context(), principal.Patient.ID, id, service.ReminderInput{
		Label:     req.Label,
		TimeOfDay: req.TimeOfDay,
		Enabled:   req.Enabled,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReminderResponse(*reminder)})
}

// Delete handles DELETE /api/reminders/:id.
func (h *RemindersHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Patient == nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	id := c.Params("id")
	if id == "" {
		return apperrors.NewValidationError("reminder id required", nil)
	}

	if err := h.reminders.Delete(c.Context(), principal.Patient.ID, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
