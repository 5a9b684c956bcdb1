package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/bp-tracker/internal/auth"
	"github.com/spec-kit/bp-tracker/internal/config"
	"github.com/spec-kit/bp-tracker/internal/events"
	"github.com/spec-kit/bp-tracker/internal/repository"
	apperrors "github.com/spec-kit/bp-tracker/pkg/util"
)

// ShareService issues time-boxed read-only share links and serves the
// history behind them. Tokens are self-contained; there is no server-side
// revocation list, so validity rests on signature, expiry, and type alone.
type ShareService struct {
	patients     repository.PatientRepository
	measurements repository.MeasurementRepository
	tokens       *auth.ShareTokenManager
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	baseURL      string
}

// NewShareService builds the service. Fails when the share signing secret is
// not configured so misconfiguration is caught at startup, not per request.
func NewShareService(cfg config.ShareConfig, patients repository.PatientRepository, measurements repository.MeasurementRepository, dispatcher events.Dispatcher, logger *zap.Logger) (*ShareService, error) {
	tokens, err := auth.NewShareTokenManager(cfg.Secret, cfg.TTL())
	if err != nil {
		return nil, err
	}
	return &ShareService{
		patients:     patients,
		measurements: measurements,
		tokens:       tokens,
		dispatcher:   dispatcher,
		logger:       logger,
		baseURL:      strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// ShareLink is the issued shareable URL.
type ShareLink struct {
	ShareURL  string
	ExpiresAt time.Time
}

// ShareTokenInfo exposes decoded token metadata for display.
type ShareTokenInfo struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SharedPatient is the subset of patient data exposed to link holders.
type SharedPatient struct {
	Name  string
	Email string
}

// SharedMeasurement is a display-formatted reading.
type SharedMeasurement struct {
	ID         string
	Systolic   int
	Diastolic  int
	HeartRate  int
	Tags       string
	RecordedAt time.Time
}

// SharedHistory is the complete bundle returned for a valid share token.
type SharedHistory struct {
	Patient      SharedPatient
	Measurements []SharedMeasurement
	TokenInfo    ShareTokenInfo
}

// IssueShareLink mints a share token for an existing patient and returns the
// fully-qualified URL embedding it.
func (s *ShareService) IssueShareLink(ctx context.Context, userID string) (*ShareLink, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user id required", nil)
	}

	if _, err := s.patients.GetByID(ctx, userID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("patient", nil)
		}
		return nil, err
	}

	token, _, expiresAt, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventShareLinkIssued,
			PatientID: userID,
			Timestamp: time.Now(),
			Payload:   events.ShareLinkIssuedPayload{ExpiresAt: expiresAt},
		})
	}

	return &ShareLink{
		ShareURL:  fmt.Sprintf("%s/shared/%s", s.baseURL, token),
		ExpiresAt: expiresAt,
	}, nil
}

// VerifyAndFetch validates a presented token and, when valid, returns the
// patient's full measurement history newest-first. Every verification
// failure maps to the same generic rejection; the concrete reason is only
// logged server-side.
func (s *ShareService) VerifyAndFetch(ctx context.Context, token string) (*SharedHistory, error) {
	if token == "" {
		return nil, apperrors.NewValidationError("share token required", nil)
	}

	claims, reason := s.tokens.Verify(token)
	if reason != auth.ShareRejectNone {
		if s.logger != nil {
			s.logger.Debug("share token rejected", zap.String("reason", reason.String()))
		}
		return nil, apperrors.NewShareLinkRejected()
	}

	// cryptographic validity does not guarantee the record still exists
	patient, err := s.patients.GetByID(ctx, claims.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("patient", nil)
		}
		return nil, err
	}

	measurements, err := s.measurements.ListByPatient(ctx, patient.ID, 0, 0)
	if err != nil {
		return nil, err
	}

	formatted := make([]SharedMeasurement, 0, len(measurements))
	for _, m := range measurements {
		formatted = append(formatted, SharedMeasurement{
			ID:         m.ID,
			Systolic:   m.Systolic,
			Diastolic:  m.Diastolic,
			HeartRate:  m.HeartRate,
			Tags:       m.TagList(),
			RecordedAt: m.RecordedAt,
		})
	}

	return &SharedHistory{
		Patient:      SharedPatient{Name: patient.Name, Email: patient.Email},
		Measurements: formatted,
		TokenInfo: ShareTokenInfo{
			UserID:    claims.UserID,
			IssuedAt:  claims.IssuedAt.Time,
			ExpiresAt: claims.ExpiresAt.Time,
		},
	}, nil
}
