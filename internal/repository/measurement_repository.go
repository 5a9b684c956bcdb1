package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/bp-tracker/internal/domain"
)

// MeasurementRepository encapsulates measurement persistence.
type MeasurementRepository interface {
	Create(ctx context.Context, measurement *domain.Measurement) error
	GetByID(ctx context.Context, id string) (*domain.Measurement, error)
	// ListByPatient returns measurements newest-first. A non-positive limit
	// returns the full history.
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]domain.Measurement, error)
	Delete(ctx context.Context, id string) error
}

type measurementRepository struct {
	pool *pgxpool.Pool
}

// NewMeasurementRepository instantiates repository.
func NewMeasurementRepository(pool *pgxpool.Pool) MeasurementRepository {
	return &measurementRepository{pool: pool}
}

func (r *measurementRepository) Create(ctx context.Context, measurement *domain.Measurement) error {
	const query = `
        INSERT INTO measurements (patient_id, systolic, diastolic, heart_rate, tags, recorded_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		measurement.PatientID,
		measurement.Systolic,
		measurement.Diastolic,
		measurement.HeartRate,
		measurement.Tags,
		measurement.RecordedAt,
	).Scan(&measurement.ID, &measurement.CreatedAt)
}

func (r *measurementRepository) GetByID(ctx context.Context, id string) (*domain.Measurement, error) {
	const query = `
        SELECT id, patient_id, systolic, diastolic, heart_rate, tags, recorded_at, created_at
        FROM measurements WHERE id=$1`

	var m domain.Measurement
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.PatientID,
		&m.Systolic,
		&m.Diastolic,
		&m.HeartRate,
		&m.Tags,
		&m.RecordedAt,
		&m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *measurementRepository) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]domain.Measurement, error) {
	query := `
        SELECT id, patient_id, systolic, diastolic, heart_rate, tags, recorded_at, created_at
        FROM measurements WHERE patient_id=$1
        ORDER BY recorded_at DESC, created_at DESC`
	args := []any{patientID}

	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	measurements := make([]domain.Measurement, 0)
	for rows.Next() {
		var m domain.Measurement
		if err := rows.Scan(
			&m.ID,
			&m.PatientID,
			&m.Systolic,
			&m.Diastolic,
			&m.HeartRate,
			&m.Tags,
			&m.RecordedAt,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		measurements = append(measurements, m)
	}
	return measurements, rows.Err()
}

func (r *measurementRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM measurements WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
