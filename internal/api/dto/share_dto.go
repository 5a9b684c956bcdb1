package dto

import (
	"time"

	"github.com/spec-kit/bp-tracker/internal/service"
)

// ShareLinkResponse is the issued shareable URL.
type ShareLinkResponse struct {
	ShareURL  string    `json:"share_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SharedMeasurementResponse is a display-formatted reading behind a share link.
type SharedMeasurementResponse struct {
	ID         string    `json:"id"`
	Systolic   int       `json:"systolic"`
	Diastolic  int       `json:"diastolic"`
	HeartRate  int       `json:"heart_rate"`
	Tags       string    `json:"tags"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ShareTokenInfoResponse exposes token metadata for "valid until" display.
type ShareTokenInfoResponse struct {
	UserID    string    `json:"user_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SharedHistoryResponse is the full bundle returned for a valid share token.
type SharedHistoryResponse struct {
	User         PatientSummary              `json:"user"`
	Measurements []SharedMeasurementResponse `json:"measurements"`
	TokenInfo    ShareTokenInfoResponse      `json:"token_info"`
}

// PatientSummary is the subset of patient data exposed to link holders.
type PatientSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewSharedHistoryResponse maps the service bundle.
func NewSharedHistoryResponse(h *service.SharedHistory) SharedHistoryResponse {
	measurements := make([]SharedMeasurementResponse, 0, len(h.Measurements))
	for _, m := range h.Measurements {
		measurements = append(measurements, SharedMeasurementResponse{
			ID:         m.ID,
			Systolic:   m.Systolic,
			Diastolic:  m.Diastolic,
			HeartRate:  m.HeartRate,
			Tags:       m.Tags,
			RecordedAt: m.RecordedAt,
		})
	}
	return SharedHistoryResponse{
		User: PatientSummary{Name: h.Patient.Name, Email: h.Patient.Email},
		Measurements: measurements,
		TokenInfo: ShareTokenInfoResponse{
			UserID:    h.TokenInfo.UserID,
			IssuedAt:  h.TokenInfo.IssuedAt,
			ExpiresAt: h.TokenInfo.ExpiresAt,
		},
	}
}
