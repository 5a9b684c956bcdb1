package service

import (
	"context"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/bp-tracker/internal/auth"
	"github.com/spec-kit/bp-tracker/internal/config"
	"github.com/spec-kit/bp-tracker/internal/domain"
	apperrors "github.com/spec-kit/bp-tracker/pkg/util"
)

const (
	shareTestSecret  = "share-service-test-secret"
	shareTestBaseURL = "https://bp.example.com"
)

func newShareFixture(t *testing.T) (*ShareService, *fakePatientRepo, *fakeMeasurementRepo) {
	t.Helper()
	patients := newFakePatientRepo()
	measurements := newFakeMeasurementRepo()

	svc, err := NewShareService(config.ShareConfig{
		Secret:        shareTestSecret,
		TTLHours:      48,
		PublicBaseURL: shareTestBaseURL,
	}, patients, measurements, &capturingDispatcher{}, zap.NewNop())
	require.NoError(t, err)
	return svc, patients, measurements
}

func seedPatient(t *testing.T, patients *fakePatientRepo) *domain.Patient {
	t.Helper()
	patient := &domain.Patient{
		Name:   "Ada Martin",
		Email:  "ada@example.com",
		Status: domain.PatientStatusActive,
	}
	require.NoError(t, patients.Create(context.Background(), patient))
	return patient
}

func tokenFromURL(t *testing.T, shareURL string) string {
	t.Helper()
	prefix := shareTestBaseURL + "/shared/"
	require.True(t, strings.HasPrefix(shareURL, prefix), "unexpected share url %q", shareURL)
	return strings.TrimPrefix(shareURL, prefix)
}

func TestNewShareServiceRequiresSecret(t *testing.T) {
	_, err := NewShareService(config.ShareConfig{PublicBaseURL: shareTestBaseURL},
		newFakePatientRepo(), newFakeMeasurementRepo(), nil, zap.NewNop())
	assert.Error(t, err)
}

func TestIssueShareLinkUnknownPatient(t *testing.T) {
	svc, _, _ := newShareFixture(t)

	link, err := svc.IssueShareLink(context.Background(), "nonexistent-id")
	assert.Nil(t, link)

	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "NOT_FOUND", de.Code)
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	svc, patients, measurements := newShareFixture(t)
	patient := seedPatient(t, patients)

	base := time.Now().Add(-time.Hour)
	older := domain.Measurement{PatientID: patient.ID, Systolic: 120, Diastolic: 80, HeartRate: 66,
		Tags: []string{"morning", "rested"}, RecordedAt: base}
	newer := domain.Measurement{PatientID: patient.ID, Systolic: 132, Diastolic: 88, HeartRate: 74,
		Tags: []string{}, RecordedAt: base.Add(30 * time.Minute)}
	require.NoError(t, measurements.Create(context.Background(), &older))
	require.NoError(t, measurements.Create(context.Background(), &newer))

	link, err := svc.IssueShareLink(context.Background(), patient.ID)
	require.NoError(t, err)
	token := tokenFromURL(t, link.ShareURL)

	history, err := svc.VerifyAndFetch(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, patient.ID, history.TokenInfo.UserID)
	assert.WithinDuration(t, link.ExpiresAt, history.TokenInfo.ExpiresAt, time.Second)
	assert.Equal(t, "Ada Martin", history.Patient.Name)
	assert.Equal(t, "ada@example.com", history.Patient.Email)

	require.Len(t, history.Measurements, 2)
	// newest first, tags joined for display
	assert.Equal(t, newer.ID, history.Measurements[0].ID)
	assert.Equal(t, "", history.Measurements[0].Tags)
	assert.Equal(t, older.ID, history.Measurements[1].ID)
	assert.Equal(t, "morning, rested", history.Measurements[1].Tags)
}

func TestVerifyAndFetchEmptyToken(t *testing.T) {
	svc, _, _ := newShareFixture(t)

	_, err := svc.VerifyAndFetch(context.Background(), "")
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	// a structural precondition, not a token-validity judgment
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
}

func signTestClaims(t *testing.T, claims *auth.ShareClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(shareTestSecret))
	require.NoError(t, err)
	return signed
}

func TestVerifyAndFetchExpiredToken(t *testing.T) {
	svc, patients, _ := newShareFixture(t)
	patient := seedPatient(t, patients)

	expired := signTestClaims(t, &auth.ShareClaims{
		UserID:    patient.ID,
		TokenType: domain.TokenTypeShare,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-72 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
	})

	_, err := svc.VerifyAndFetch(context.Background(), expired)
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "SHARE_LINK_REJECTED", de.Code)
	assert.Equal(t, true, de.Details["expired"])
}

func TestVerifyAndFetchWrongTypeMatchesExpiredShape(t *testing.T) {
	svc, patients, _ := newShareFixture(t)
	patient := seedPatient(t, patients)

	wrongType := signTestClaims(t, &auth.ShareClaims{
		UserID:    patient.ID,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	expired := signTestClaims(t, &auth.ShareClaims{
		UserID:    patient.ID,
		TokenType: domain.TokenTypeShare,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-72 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
	})

	_, wrongTypeErr := svc.VerifyAndFetch(context.Background(), wrongType)
	_, expiredErr := svc.VerifyAndFetch(context.Background(), expired)

	wrongTypeDE := apperrors.ToDomainError(wrongTypeErr)
	expiredDE := apperrors.ToDomainError(expiredErr)
	require.NotNil(t, wrongTypeDE)
	require.NotNil(t, expiredDE)

	// wrong-type, bad-signature, and expired all look identical outward
	assert.Equal(t, expiredDE.Code, wrongTypeDE.Code)
	assert.Equal(t, expiredDE.HTTPStatus, wrongTypeDE.HTTPStatus)
	assert.Equal(t, expiredDE.Message, wrongTypeDE.Message)
	assert.Equal(t, expiredDE.Details, wrongTypeDE.Details)
}

func TestVerifyAndFetchPatientDeletedAfterIssuance(t *testing.T) {
	svc, patients, _ := newShareFixture(t)
	patient := seedPatient(t, patients)

	link, err := svc.IssueShareLink(context.Background(), patient.ID)
	require.NoError(t, err)
	token := tokenFromURL(t, link.ShareURL)

	patients.delete(patient.ID)

	_, err = svc.VerifyAndFetch(context.Background(), token)
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "NOT_FOUND", de.Code)
}

func TestVerifyAndFetchIsIdempotent(t *testing.T) {
	svc, patients, measurements := newShareFixture(t)
	patient := seedPatient(t, patients)

	m := domain.Measurement{PatientID: patient.ID, Systolic: 118, Diastolic: 76, HeartRate: 60,
		Tags: []string{"evening"}, RecordedAt: time.Now()}
	require.NoError(t, measurements.Create(context.Background(), &m))

	link, err := svc.IssueShareLink(context.Background(), patient.ID)
	require.NoError(t, err)
	token := tokenFromURL(t, link.ShareURL)

	first, err := svc.VerifyAndFetch(context.Background(), token)
	require.NoError(t, err)
	second, err := svc.VerifyAndFetch(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, first.Measurements, second.Measurements)
	assert.Equal(t, first.Patient, second.Patient)
	assert.Equal(t, first.TokenInfo, second.TokenInfo)
}
