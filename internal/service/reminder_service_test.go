package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/spec-kit/bp-tracker/pkg/util"
)

func TestValidateReminderInput(t *testing.T) {
	assert.NoError(t, validateReminderInput(ReminderInput{Label: "morning reading", TimeOfDay: "08:30", Enabled: true}))

	for _, in := range []ReminderInput{
		{Label: "", TimeOfDay: "08:30"},
		{Label: "x", TimeOfDay: "8am"},
		{Label: "x", TimeOfDay: "25:00"},
		{Label: "x", TimeOfDay: ""},
	} {
		err := validateReminderInput(in)
		de := apperrors.ToDomainError(err)
		if assert.NotNil(t, de) {
			assert.Equal(t, "VALIDATION_FAILED", de.Code)
		}
	}
}

func TestNextFireTime(t *testing.T) {
	now := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)

	later := nextFireTime("08:30", now)
	assert.Equal(t, time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC), later)

	// already past today, rolls to tomorrow
	earlier := nextFireTime("06:00", now)
	assert.Equal(t, time.Date(2025, 3, 11, 6, 0, 0, 0, time.UTC), earlier)

	// exactly now rolls to tomorrow
	exact := nextFireTime("07:00", now)
	assert.Equal(t, time.Date(2025, 3, 11, 7, 0, 0, 0, time.UTC), exact)

	// unparsable defers a day rather than firing immediately
	bad := nextFireTime("not-a-time", now)
	assert.Equal(t, now.Add(24*time.Hour), bad)
}
