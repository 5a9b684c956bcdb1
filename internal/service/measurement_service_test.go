package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/bp-tracker/internal/events"
	"github.com/spec-kit/bp-tracker/internal/vitals"
	apperrors "github.com/spec-kit/bp-tracker/pkg/util"
)

func newMeasurementFixture() (*MeasurementService, *fakeMeasurementRepo, *capturingDispatcher) {
	repo := newFakeMeasurementRepo()
	dispatcher := &capturingDispatcher{}
	svc := NewMeasurementService(repo, vitals.DefaultThresholds(), dispatcher)
	return svc, repo, dispatcher
}

func TestRecordRejectsNonPositiveReadings(t *testing.T) {
	svc, _, _ := newMeasurementFixture()

	for _, in := range []MeasurementInput{
		{Systolic: 0, Diastolic: 80},
		{Systolic: 120, Diastolic: 0},
		{Systolic: -5, Diastolic: -5},
	} {
		_, _, err := svc.Record(context.Background(), "patient-1", in)
		de := apperrors.ToDomainError(err)
		require.NotNil(t, de)
		assert.Equal(t, "VALIDATION_FAILED", de.Code)
	}
}

func TestRecordNormalReading(t *testing.T) {
	svc, _, dispatcher := newMeasurementFixture()

	m, classification, err := svc.Record(context.Background(), "patient-1", MeasurementInput{
		Systolic: 120, Diastolic: 80, HeartRate: 65, Tags: []string{"morning"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.False(t, classification.HypertensiveCrisis)
	assert.False(t, classification.HypotensiveCrisis)

	assert.Len(t, dispatcher.byType(events.EventMeasurementRecorded), 1)
	assert.Empty(t, dispatcher.byType(events.EventCrisisDetected))
}

func TestRecordCrisisReadingPublishesEvent(t *testing.T) {
	svc, _, dispatcher := newMeasurementFixture()

	_, classification, err := svc.Record(context.Background(), "patient-1", MeasurementInput{
		Systolic: 185, Diastolic: 95, HeartRate: 88,
	})
	require.NoError(t, err)
	assert.True(t, classification.HypertensiveCrisis)
	assert.False(t, classification.HypotensiveCrisis)

	crisisEvents := dispatcher.byType(events.EventCrisisDetected)
	require.Len(t, crisisEvents, 1)
	payload, ok := crisisEvents[0].Payload.(events.CrisisDetectedPayload)
	require.True(t, ok)
	assert.True(t, payload.Hypertensive)
	assert.Equal(t, 185, payload.Systolic)
}

func TestRecordBoundaryReadingIsCrisis(t *testing.T) {
	svc, _, _ := newMeasurementFixture()

	_, classification, err := svc.Record(context.Background(), "patient-1", MeasurementInput{
		Systolic: 180, Diastolic: 80,
	})
	require.NoError(t, err)
	assert.True(t, classification.HypertensiveCrisis)

	_, classification, err = svc.Record(context.Background(), "patient-1", MeasurementInput{
		Systolic: 100, Diastolic: 60,
	})
	require.NoError(t, err)
	assert.True(t, classification.HypotensiveCrisis)
}

func TestListAppliesDefaultLimit(t *testing.T) {
	svc, repo, _ := newMeasurementFixture()

	_, err := svc.List(context.Background(), "patient-1", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultListLimit, repo.lastLimit)
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	svc, _, _ := newMeasurementFixture()

	m, _, err := svc.Record(context.Background(), "patient-1", MeasurementInput{
		Systolic: 120, Diastolic: 80, RecordedAt: timePtr(time.Now()),
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "patient-2", m.ID)
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "NOT_FOUND", de.Code)

	require.NoError(t, svc.Delete(context.Background(), "patient-1", m.ID))
}

func timePtr(t time.Time) *time.Time { return &t }
