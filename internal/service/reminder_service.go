package service

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/bp-tracker/internal/domain"
	"github.com/spec-kit/bp-tracker/internal/persistence"
	"github.com/spec-kit/bp-tracker/internal/repository"
	apperrors "github.com/spec-kit/bp-tracker/pkg/util"
)

// dueQueueKey is the redis sorted set of reminder ids scored by next fire
// time (unix seconds).
const dueQueueKey = "reminders:due"

// ReminderService manages measurement reminders and their due-queue.
type ReminderService struct {
	reminders repository.ReminderRepository
	redis     *persistence.Redis
	logger    *zap.Logger
}

// NewReminderService constructs the service.
func NewReminderService(reminders repository.ReminderRepository, redisClient *persistence.Redis, logger *zap.Logger) *ReminderService {
	return &ReminderService{reminders: reminders, redis: redisClient, logger: logger}
}

// ReminderInput describes a reminder create/update payload.
type ReminderInput struct {
	Label     string
	TimeOfDay string
	Enabled   bool
}

func validateReminderInput(input ReminderInput) error {
	if input.Label == "" {
		return apperrors.NewValidationError("label required", nil)
	}
	if _, err := time.Parse("15:04", input.TimeOfDay); err != nil {
		return apperrors.NewValidationError("time_of_day must be HH:MM", map[string]any{"time_of_day": input.TimeOfDay})
	}
	return nil
}

// Create stores a reminder and enqueues its next fire time.
func (s *ReminderService) Create(ctx context.Context, patientID string, input ReminderInput) (*domain.Reminder, error) {
	if err := validateReminderInput(input); err != nil {
		return nil, err
	}

	reminder := &domain.Reminder{
		PatientID: patientID,
		Label:     input.Label,
		TimeOfDay: input.TimeOfDay,
		Enabled:   input.Enabled,
	}
	if err := s.reminders.Create(ctx, reminder); err != nil {
		return nil, err
	}

	if reminder.Enabled {
		s.schedule(ctx, reminder)
	}
	return reminder, nil
}

// Update modifies one of the patient's reminders and reschedules it.
func (s *ReminderService) Update(ctx context.Context, patientID, reminderID string, input ReminderInput) (*domain.Reminder, error) {
	if err := validateReminderInput(input); err != nil {
		return nil, err
	}

	reminder, err := s.getOwned(ctx, patientID, reminderID)
	if err != nil {
		return nil, err
	}

	reminder.Label = input.Label
	reminder.TimeOfDay = input.TimeOfDay
	reminder.Enabled = input.Enabled
	if err := s.reminders.Update(ctx, reminder); err != nil {
		return nil, err
	}

	if reminder.Enabled {
		s.schedule(ctx, reminder)
	} else {
		s.unschedule(ctx, reminder.ID)
	}
	return reminder, nil
}

// List returns the patient's reminders.
func (s *ReminderService) List(ctx context.Context, patientID string) ([]domain.Reminder, error) {
	return s.reminders.ListByPatient(ctx, patientID)
}

// Delete removes one of the patient's reminders and dequeues it.
func (s *ReminderService) Delete(ctx context.Context, patientID, reminderID string) error {
	if _, err := s.getOwned(ctx, patientID, reminderID); err != nil {
		return err
	}
	if err := s.reminders.Delete(ctx, reminderID); err != nil {
		return err
	}
	s.unschedule(ctx, reminderID)
	return nil
}

// PopDue removes and returns reminders whose fire time has passed. Disabled
// or deleted reminders drain silently; enabled ones are returned and
// rescheduled for the next day.
func (s *ReminderService) PopDue(ctx context.Context, now time.Time) ([]domain.Reminder, error) {
	if s.redis == nil || s.redis.Client == nil {
		return nil, nil
	}

	ids, err := s.redis.Client.ZRangeByScore(ctx, dueQueueKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: formatScore(now),
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	if err := s.redis.Client.ZRem(ctx, dueQueueKey, members...).Err(); err != nil {
		return nil, err
	}

	due := make([]domain.Reminder, 0, len(ids))
	for _, id := range ids {
		reminder, err := s.reminders.GetByID(ctx, id)
		if err != nil {
			if err != pgx.ErrNoRows && s.logger != nil {
				s.logger.Warn("due reminder lookup failed", zap.String("reminder_id", id), zap.Error(err))
			}
			continue
		}
		if !reminder.Enabled {
			continue
		}
		due = append(due, *reminder)
		s.schedule(ctx, reminder)
	}
	return due, nil
}

func (s *ReminderService) getOwned(ctx context.Context, patientID, reminderID string) (*domain.Reminder, error) {
	reminder, err := s.reminders.GetByID(ctx, reminderID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("reminder", nil)
		}
		return nil, err
	}
	if reminder.PatientID != patientID {
		return nil, apperrors.NewNotFound("reminder", nil)
	}
	return reminder, nil
}

func (s *ReminderService) schedule(ctx context.Context, reminder *domain.Reminder) {
	if s.redis == nil || s.redis.Client == nil {
		return
	}
	next := nextFireTime(reminder.TimeOfDay, time.Now())
	err := s.redis.Client.ZAdd(ctx, dueQueueKey, redis.Z{
		Score:  float64(next.Unix()),
		Member: reminder.ID,
	}).Err()
	if err != nil && s.logger != nil {
		s.logger.Warn("failed to schedule reminder", zap.String("reminder_id", reminder.ID), zap.Error(err))
	}
}

func (s *ReminderService) unschedule(ctx context.Context, reminderID string) {
	if s.redis == nil || s.redis.Client == nil {
		return
	}
	if err := s.redis.Client.ZRem(ctx, dueQueueKey, reminderID).Err(); err != nil && s.logger != nil {
		s.logger.Warn("failed to unschedule reminder", zap.String("reminder_id", reminderID), zap.Error(err))
	}
}

// nextFireTime resolves the next wall-clock occurrence of HH:MM after now.
func nextFireTime(timeOfDay string, now time.Time) time.Time {
	parsed, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return now.Add(24 * time.Hour)
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

func formatScore(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
