package domain

import "time"

// PatientStatus represents lifecycle states for a patient account.
type PatientStatus string

const (
	PatientStatusActive    PatientStatus = "ACTIVE"
	PatientStatusSuspended PatientStatus = "SUSPENDED"
)

// Patient is the domain model for account holders who record measurements.
type Patient struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Status       PatientStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
