package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/bp-tracker/internal/domain"
)

// ReminderRepository encapsulates reminder persistence.
type ReminderRepository interface {
	Create(ctx context.Context, reminder *domain.Reminder) error
	Update(ctx context.Context, reminder *domain.Reminder) error
	GetByID(ctx context.Context, id string) (*domain.Reminder, error)
	ListByPatient(ctx context.Context, patientID string) ([]domain.Reminder, error)
	Delete(ctx context.Context, id string) error
}

type reminderRepository struct {
	pool *pgxpool.Pool
}

// NewReminderRepository instantiates repository.
func NewReminderRepository(pool *pgxpool.Pool) ReminderRepository {
	return &reminderRepository{pool: pool}
}

func (r *reminderRepository) Create(ctx context.Context, reminder *domain.Reminder) error {
	const query = `
        INSERT INTO reminders (patient_id, label, time_of_day, enabled)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		reminder.PatientID,
		reminder.Label,
		reminder.TimeOfDay,
		reminder.Enabled,
	).Scan(&reminder.ID, &reminder.CreatedAt, &reminder.UpdatedAt)
}

func (r *reminderRepository) Update(ctx context.Context, reminder *domain.Reminder) error {
	const query = `
        UPDATE reminders SET label=$1, time_of_day=$2, enabled=$3, updated_at=NOW()
        WHERE id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		reminder.Label,
		reminder.TimeOfDay,
		reminder.Enabled,
		reminder.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reminderRepository) GetByID(ctx context.Context, id string) (*domain.Reminder, error) {
	const query = `
        SELECT id, patient_id, label, time_of_day, enabled, created_at, updated_at
        FROM reminders WHERE id=$1`

	var reminder domain.Reminder
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&reminder.ID,
		&reminder.PatientID,
		&reminder.Label,
		&reminder.TimeOfDay,
		&reminder.Enabled,
		&reminder.CreatedAt,
		&reminder.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (r *reminderRepository) ListByPatient(ctx context.Context, patientID string) ([]domain.Reminder, error) {
	const query = `
        SELECT id, patient_id, label, time_of_day, enabled, created_at, updated_at
        FROM reminders WHERE patient_id=$1
        ORDER BY time_of_day ASC`

	rows, err := r.pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := make([]domain.Reminder, 0)
	for rows.Next() {
		var reminder domain.Reminder
		if err := rows.Scan(
			&reminder.ID,
			&reminder.PatientID,
			&reminder.Label,
			&reminder.TimeOfDay,
			&reminder.Enabled,
			&reminder.CreatedAt,
			&reminder.UpdatedAt,
		); err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	return reminders, rows.Err()
}

func (r *reminderRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM reminders WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
