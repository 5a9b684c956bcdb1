package dto

import "github.com/spec-kit/bp-tracker/internal/domain"

// ReminderRequest payload for creating or updating a reminder.
type ReminderRequest struct {
	Label     string `json:"label"`
	TimeOfDay string `json:"time_of_day"`
	Enabled   bool   `json:"enabled"`
}

// ReminderResponse is the public reminder representation.
type ReminderResponse struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	TimeOfDay string `json:"time_of_day"`
	Enabled   bool   `json:"enabled"`
}

// NewReminderResponse maps a domain reminder.
func NewReminderResponse(r domain.Reminder) ReminderResponse {
	return ReminderResponse{
		ID:        r.ID,
		Label:     r.Label,
		TimeOfDay: r.TimeOfDay,
		Enabled:   r.Enabled,
	}
}
