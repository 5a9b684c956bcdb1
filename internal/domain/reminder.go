package domain

import "time"

// Reminder schedules a recurring prompt to record a measurement.
type Reminder struct {
	ID        string
	PatientID string
	Label     string
	// TimeOfDay is the local wall-clock fire time in "HH:MM" form.
	TimeOfDay string
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
