package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bp-tracker/internal/domain"
	"github.com/spec-kit/bp-tracker/internal/events"
	"github.com/spec-kit/bp-tracker/internal/repository"
	"github.com/spec-kit/bp-tracker/internal/vitals"
	apperrors "github.com/spec-kit/bp-tracker/pkg/util"
)

const defaultListLimit = 50

// MeasurementService coordinates recording and retrieval of readings.
type MeasurementService struct {
	measurements repository.MeasurementRepository
	thresholds   vitals.CrisisThresholds
	dispatcher   events.Dispatcher
}

// NewMeasurementService constructs the service.
func NewMeasurementService(measurements repository.MeasurementRepository, thresholds vitals.CrisisThresholds, dispatcher events.Dispatcher) *MeasurementService {
	return &MeasurementService{
		measurements: measurements,
		thresholds:   thresholds,
		dispatcher:   dispatcher,
	}
}

// MeasurementInput describes a reading submitted by a patient.
type MeasurementInput struct {
	Systolic   int
	Diastolic  int
	HeartRate  int
	Tags       []string
	RecordedAt *time.Time
}

// Classification reports how a reading classified against the crisis cutoffs.
type Classification struct {
	HypertensiveCrisis bool
	HypotensiveCrisis  bool
}

// Classify evaluates a stored reading against the configured thresholds.
func (s *MeasurementService) Classify(m *domain.Measurement) Classification {
	sys := float64(m.Systolic)
	dia := float64(m.Diastolic)
	return Classification{
		HypertensiveCrisis: s.thresholds.IsHypertensiveCrisis(&sys, &dia),
		HypotensiveCrisis:  s.thresholds.IsHypotensiveCrisis(&sys, &dia),
	}
}

// Record validates, persists, and classifies a new reading. A crisis
// classification additionally publishes a crisis event for notification
// delivery.
func (s *MeasurementService) Record(ctx context.Context, patientID string, input MeasurementInput) (*domain.Measurement, Classification, error) {
	if input.Systolic <= 0 || input.Diastolic <= 0 {
		return nil, Classification{}, apperrors.NewValidationError("systolic and diastolic must be positive", map[string]any{
			"systolic":  input.Systolic,
			"diastolic": input.Diastolic,
		})
	}
	if input.HeartRate < 0 {
		return nil, Classification{}, apperrors.NewValidationError("heart rate must not be negative", nil)
	}

	recordedAt := time.Now()
	if input.RecordedAt != nil {
		recordedAt = *input.RecordedAt
	}

	measurement := &domain.Measurement{
		PatientID:  patientID,
		Systolic:   input.Systolic,
		Diastolic:  input.Diastolic,
		HeartRate:  input.HeartRate,
		Tags:       input.Tags,
		RecordedAt: recordedAt,
	}
	if measurement.Tags == nil {
		measurement.Tags = []string{}
	}

	if err := s.measurements.Create(ctx, measurement); err != nil {
		return nil, Classification{}, err
	}

	classification := s.Classify(measurement)
	s.publish(ctx, events.EventMeasurementRecorded, patientID, events.MeasurementRecordedPayload{
		MeasurementID: measurement.ID,
		Systolic:      measurement.Systolic,
		Diastolic:     measurement.Diastolic,
		HeartRate:     measurement.HeartRate,
	})
	if classification.HypertensiveCrisis || classification.HypotensiveCrisis {
		s.publish(ctx, events.EventCrisisDetected, patientID, events.CrisisDetectedPayload{
			MeasurementID: measurement.ID,
			Systolic:      measurement.Systolic,
			Diastolic:     measurement.Diastolic,
			Hypertensive:  classification.HypertensiveCrisis,
			Hypotensive:   classification.HypotensiveCrisis,
		})
	}

	return measurement, classification, nil
}

// List returns the patient's readings newest-first.
func (s *MeasurementService) List(ctx context.Context, patientID string, limit, offset int) ([]domain.Measurement, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.measurements.ListByPatient(ctx, patientID, limit, offset)
}

// Delete removes one of the patient's own readings. A reading owned by
// someone else reports not-found rather than forbidden.
func (s *MeasurementService) Delete(ctx context.Context, patientID, measurementID string) error {
	measurement, err := s.measurements.GetByID(ctx, measurementID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("measurement", nil)
		}
		return err
	}
	if measurement.PatientID != patientID {
		return apperrors.NewNotFound("measurement", nil)
	}
	return s.measurements.Delete(ctx, measurementID)
}

func (s *MeasurementService) publish(ctx context.Context, eventType events.EventType, patientID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		PatientID: patientID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
