package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/bp-tracker/internal/domain"
)

// PatientRepository defines persistence access for patient accounts.
type PatientRepository interface {
	Create(ctx context.Context, patient *domain.Patient) error
	Update(ctx context.Context, patient *domain.Patient) error
	GetByID(ctx context.Context, id string) (*domain.Patient, error)
	GetByEmail(ctx context.Context, email string) (*domain.Patient, error)
}

type patientRepository struct {
	pool *pgxpool.Pool
}

// NewPatientRepository returns a Postgres-backed implementation.
func NewPatientRepository(pool *pgxpool.Pool) PatientRepository {
	return &patientRepository{pool: pool}
}

func (r *patientRepository) Create(ctx context.Context, patient *domain.Patient) error {
	const query = `
        INSERT INTO patients (name, email, password_hash, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		patient.Name,
		patient.Email,
		patient.PasswordHash,
		patient.Status,
	).Scan(&patient.ID, &patient.CreatedAt, &patient.UpdatedAt)
}

func (r *patientRepository) Update(ctx context.Context, patient *domain.Patient) error {
	const query = `
        UPDATE patients SET name=$1, email=$2, password_hash=$3, status=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		patient.Name,
		patient.Email,
		patient.PasswordHash,
		patient.Status,
		patient.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *patientRepository) GetByID(ctx context.Context, id string) (*domain.Patient, error) {
	const query = `
        SELECT id, name, email, password_hash, status, created_at, updated_at
        FROM patients WHERE id=$1`

	var patient domain.Patient
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&patient.ID,
		&patient.Name,
		&patient.Email,
		&patient.PasswordHash,
		&patient.Status,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) GetByEmail(ctx context.Context, email string) (*domain.Patient, error) {
	const query = `
        SELECT id, name, email, password_hash, status, created_at, updated_at
        FROM patients WHERE email=$1`

	var patient domain.Patient
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&patient.ID,
		&patient.Name,
		&patient.Email,
		&patient.PasswordHash,
		&patient.Status,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &patient, nil
}
