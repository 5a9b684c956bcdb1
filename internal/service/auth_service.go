package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bp-tracker/internal/auth"
	"github.com/spec-kit/bp-tracker/internal/config"
	"github.com/spec-kit/bp-tracker/internal/domain"
	"github.com/spec-kit/bp-tracker/internal/repository"
	apperrors "github.com/spec-kit/bp-tracker/pkg/util"
)

// AuthService coordinates patient registration and login flows.
type AuthService struct {
	patients   repository.PatientRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, patients repository.PatientRepository) *AuthService {
	return &AuthService{
		patients:   patients,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new patient account and returns a login token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.Patient, string, time.Time, error) {
	if _, err := s.patients.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	patient := &domain.Patient{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Status:       domain.PatientStatusActive,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(patient.ID, domain.SubjectTypePatient)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return patient, token, exp, nil
}

// Login authenticates a patient by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Patient, string, time.Time, error) {
	patient, err := s.patients.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(patient.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if patient.Status != domain.PatientStatusActive {
		return nil, "", time.Time{}, apperrors.NewForbidden("account suspended")
	}

	token, exp, err := s.tokenMgr.GenerateToken(patient.ID, domain.SubjectTypePatient)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return patient, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
