package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bp-tracker/internal/api/dto"
	"github.com/spec-kit/bp-tracker/internal/auth"
	"github.com/spec-kit/bp-tracker/internal/service"
	apperrors "github.com/spec-kit/bp-tracker/pkg/util"
)

// MeasurementsHandler exposes measurement CRUD endpoints.
type MeasurementsHandler struct {
	measurements *service.MeasurementService
}

// NewMeasurementsHandler constructs handler.
func NewMeasurementsHandler(measurements *service.MeasurementService) *MeasurementsHandler {
	return &MeasurementsHandler{measurements: measurements}
}

// Create handles POST /api/measurements.
func (h *MeasurementsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Patient == nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.MeasurementCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	measurement, classification, err := h.measurements.Record(c.Context(), principal.Patient.ID, service.MeasurementInput{
		Systolic:   req.Systolic,
		Diastolic:  req.Diastolic,
		HeartRate:  req.HeartRate,
		Tags:       req.Tags,
		RecordedAt: req.RecordedAt,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewMeasurementResponse(*measurement, classification),
	})
}

// List handles GET /api/measurements.
func (h *MeasurementsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Patient == nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "0"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	measurements, err := h.measurements.List(c.Context(), principal.Patient.ID, limit, offset)
	if err != nil {
		return err
	}

	responses := make([]dto.MeasurementResponse, 0, len(measurements))
	for _, m := range measurements {
		responses = append(responses, dto.NewMeasurementResponse(m, h.measurements.Classify(&m)))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Delete handles DELETE /api/measurements/:id.
func (h *MeasurementsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Patient == nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	id := c.Params("id")
	if id == "" {
		return apperrors.NewValidationError("measurement id required", nil)
	}

	if err := h.measurements.Delete(c.Context(), principal.Patient.ID, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
