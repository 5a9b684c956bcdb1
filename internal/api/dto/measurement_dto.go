package dto

import (
	"time"

	"github.com/spec-kit/bp-tracker/internal/domain"
	"github.com/spec-kit/bp-tracker/internal/service"
)

// MeasurementCreateRequest payload for recording a reading.
type MeasurementCreateRequest struct {
	Systolic   int        `json:"systolic"`
	Diastolic  int        `json:"diastolic"`
	HeartRate  int        `json:"heart_rate"`
	Tags       []string   `json:"tags"`
	RecordedAt *time.Time `json:"recorded_at"`
}

// MeasurementResponse is a reading plus its crisis classification.
type MeasurementResponse struct {
	ID                 string    `json:"id"`
	Systolic           int       `json:"systolic"`
	Diastolic          int       `json:"diastolic"`
	HeartRate          int       `json:"heart_rate"`
	Tags               []string  `json:"tags"`
	RecordedAt         time.Time `json:"recorded_at"`
	HypertensiveCrisis bool      `json:"hypertensive_crisis"`
	HypotensiveCrisis  bool      `json:"hypotensive_crisis"`
}

// NewMeasurementResponse maps a domain measurement and its classification.
func NewMeasurementResponse(m domain.Measurement, c service.Classification) MeasurementResponse {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return MeasurementResponse{
		ID:                 m.ID,
		Systolic:           m.Systolic,
		Diastolic:          m.Diastolic,
		HeartRate:          m.HeartRate,
		Tags:               tags,
		RecordedAt:         m.RecordedAt,
		HypertensiveCrisis: c.HypertensiveCrisis,
		HypotensiveCrisis:  c.HypotensiveCrisis,
	}
}
