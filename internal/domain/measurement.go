package domain

import (
	"strings"
	"time"
)

// Measurement is a single blood-pressure/heart-rate reading.
type Measurement struct {
	ID         string
	PatientID  string
	Systolic   int
	Diastolic  int
	HeartRate  int
	Tags       []string
	RecordedAt time.Time
	CreatedAt  time.Time
}

// TagList renders the tag names as a single comma-separated display string.
func (m Measurement) TagList() string {
	return strings.Join(m.Tags, ", ")
}
