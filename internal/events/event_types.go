package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventMeasurementRecorded EventType = "measurement_recorded"
	EventCrisisDetected      EventType = "crisis_detected"
	EventReminderDue         EventType = "reminder_due"
	EventShareLinkIssued     EventType = "share_link_issued"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	PatientID string      `json:"patient_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// MeasurementRecordedPayload payload.
type MeasurementRecordedPayload struct {
	MeasurementID string `json:"measurement_id"`
	Systolic      int    `json:"systolic"`
	Diastolic     int    `json:"diastolic"`
	HeartRate     int    `json:"heart_rate"`
}

// CrisisDetectedPayload payload.
type CrisisDetectedPayload struct {
	MeasurementID string `json:"measurement_id"`
	Systolic      int    `json:"systolic"`
	Diastolic     int    `json:"diastolic"`
	Hypertensive  bool   `json:"hypertensive"`
	Hypotensive   bool   `json:"hypotensive"`
}

// ReminderDuePayload payload.
type ReminderDuePayload struct {
	ReminderID string `json:"reminder_id"`
	Label      string `json:"label"`
	TimeOfDay  string `json:"time_of_day"`
}

// ShareLinkIssuedPayload payload.
type ShareLinkIssuedPayload struct {
	ExpiresAt time.Time `json:"expires_at"`
}
