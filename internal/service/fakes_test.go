package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bp-tracker/internal/domain"
	"github.com/spec-kit/bp-tracker/internal/events"
)

type fakePatientRepo struct {
	mu       sync.Mutex
	patients map[string]domain.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[string]domain.Patient)}
}

func (r *fakePatientRepo) Create(_ context.Context, patient *domain.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if patient.ID == "" {
		patient.ID = "patient-" + strconv.Itoa(len(r.patients)+1)
	}
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt
	r.patients[patient.ID] = *patient
	return nil
}

func (r *fakePatientRepo) Update(_ context.Context, patient *domain.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patients[patient.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.patients[patient.ID] = *patient
	return nil
}

func (r *fakePatientRepo) GetByID(_ context.Context, id string) (*domain.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	patient, ok := r.patients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &patient, nil
}

func (r *fakePatientRepo) GetByEmail(_ context.Context, email string) (*domain.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, patient := range r.patients {
		if patient.Email == email {
			p := patient
			return &p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakePatientRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.patients, id)
}

type fakeMeasurementRepo struct {
	mu           sync.Mutex
	measurements map[string]domain.Measurement
	lastLimit    int
}

func newFakeMeasurementRepo() *fakeMeasurementRepo {
	return &fakeMeasurementRepo{measurements: make(map[string]domain.Measurement)}
}

func (r *fakeMeasurementRepo) Create(_ context.Context, m *domain.Measurement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == "" {
		m.ID = "measurement-" + strconv.Itoa(len(r.measurements)+1)
	}
	m.CreatedAt = time.Now()
	r.measurements[m.ID] = *m
	return nil
}

func (r *fakeMeasurementRepo) GetByID(_ context.Context, id string) (*domain.Measurement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.measurements[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &m, nil
}

func (r *fakeMeasurementRepo) ListByPatient(_ context.Context, patientID string, limit, offset int) ([]domain.Measurement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLimit = limit

	out := make([]domain.Measurement, 0)
	for _, m := range r.measurements {
		if m.PatientID == patientID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	if offset > 0 {
		if offset >= len(out) {
			return []domain.Measurement{}, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMeasurementRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.measurements[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.measurements, id)
	return nil
}

type capturingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *capturingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.Event, 0)
	for _, e := range d.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
