package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/bp-tracker/internal/events"
	"github.com/spec-kit/bp-tracker/internal/service"
)

// StartReminderWorker polls the reminder due-queue and publishes a
// reminder-due event for each fired reminder. It runs until ctx is canceled.
func StartReminderWorker(ctx context.Context, reminders *service.ReminderService, dispatcher events.Dispatcher, interval time.Duration, logger *zap.Logger) {
	if reminders == nil || dispatcher == nil {
		return
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				drainDueReminders(ctx, reminders, dispatcher, now, logger)
			}
		}
	}()
}

func drainDueReminders(ctx context.Context, reminders *service.ReminderService, dispatcher events.Dispatcher, now time.Time, logger *zap.Logger) {
	due, err := reminders.PopDue(ctx, now)
	if err != nil {
		logger.Warn("reminder due-queue poll failed", zap.Error(err))
		return
	}

	for _, reminder := range due {
		_ = dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventReminderDue,
			PatientID: reminder.PatientID,
			Timestamp: now,
			Payload: events.ReminderDuePayload{
				ReminderID: reminder.ID,
				Label:      reminder.Label,
				TimeOfDay:  reminder.TimeOfDay,
			},
		})
	}
}
