package pharmacy

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
)

// fakeMedicineRepo is an in-memory MedicineRepository keyed by ID.
type fakeMedicineRepo struct {
	medicines map[uuid.UUID]*model.Medicine
	updated   []*model.Medicine
}

func newFakeMedicineRepo() *fakeMedicineRepo {
	return &fakeMedicineRepo{medicines: make(map[uuid.UUID]*model.Medicine)}
}

func (f *fakeMedicineRepo) Create(_ context.Context, m *model.Medicine) error {
	f.medicines[m.ID] = m
	return nil
}

func (f *fakeMedicineRepo) Get(_ context.Context, id uuid.UUID) (*model.Medicine, error) {
	return f.medicines[id], nil
}

func (f *fakeMedicineRepo) Update(_ context.Context, m *model.Medicine) error {
	f.medicines[m.ID] = m
	f.updated = append(f.updated, m)
	return nil
}

func (f *fakeMedicineRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.medicines, id)
	return nil
}

func (f *fakeMedicineRepo) DeleteAll(_ context.Context, hospitalID uuid.UUID) (int64, error) {
	var n int64
	for id, m := range f.medicines {
		if m.HospitalID == hospitalID {
			delete(f.medicines, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeMedicineRepo) List(_ context.Context, hospitalID uuid.UUID, _ *model.MedicineFilters) ([]*model.Medicine, int, error) {
	var out []*model.Medicine
	for _, m := range f.medicines {
		if m.HospitalID == hospitalID {
			out = append(out, m)
		}
	}
	return out, len(out), nil
}

func (f *fakeMedicineRepo) GetSummary(_ context.Context, hospitalID uuid.UUID, now time.Time) (*model.PharmacySummary, error) {
	summary := &model.PharmacySummary{}
	for _, m := range f.medicines {
		if m.HospitalID != hospitalID {
			continue
		}
		summary.TotalMedicines++
		if m.IsLowStock() {
			summary.LowStockCount++
		}
		if m.IsExpired(now) {
			summary.ExpiredCount++
		}
	}
	return summary, nil
}

func (f *fakeMedicineRepo) GetDashboardStats(_ context.Context, hospitalID uuid.UUID, _ time.Time) (*model.PharmacyDashboardStats, error) {
	stats := &model.PharmacyDashboardStats{}
	for _, m := range f.medicines {
		if m.HospitalID == hospitalID {
			stats.TotalMedicines++
		}
	}
	return stats, nil
}

func (f *fakeMedicineRepo) ExistsByNameAndBatch(_ context.Context, hospitalID uuid.UUID, name, batch string) (bool, error) {
	for _, m := range f.medicines {
		if m.HospitalID == hospitalID && m.Name == name && m.BatchNumber == batch {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMedicineRepo) GetActiveByName(_ context.Context, hospitalID uuid.UUID, name string) (*model.Medicine, error) {
	for _, m := range f.medicines {
		if m.HospitalID == hospitalID && m.IsActive && strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMedicineRepo) byName(name string) *model.Medicine {
	for _, m := range f.medicines {
		if m.Name == name {
			return m
		}
	}
	return nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, evt *model.OutboxEvent) error {
	f.events = append(f.events, evt)
	return nil
}

func (f *fakeOutboxRepo) CreateTx(_ context.Context, _ *sql.Tx, evt *model.OutboxEvent) error {
	f.events = append(f.events, evt)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEventsWithLock(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeOutboxRepo) BeginTx(_ context.Context) (*sql.Tx, error) { return nil, nil }

func (f *fakeOutboxRepo) UpdateStatusTx(_ context.Context, _ *sql.Tx, _ uuid.UUID, _ string, _ *string, _ *time.Time) error {
	return nil
}

func (f *fakeOutboxRepo) MoveToDeadLetter(_ context.Context, _ *sql.Tx, _ *model.OutboxEvent) error {
	return nil
}

func (f *fakeOutboxRepo) DeleteProcessedBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
