package hospital

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
)

type fakeHospitalRepo struct {
	hospitals  map[uuid.UUID]*model.Hospital
	stats      model.HospitalStats
	active     int
	registered int
	deleted    []uuid.UUID
}

func newFakeHospitalRepo(hospitals ...*model.Hospital) *fakeHospitalRepo {
	f := &fakeHospitalRepo{hospitals: make(map[uuid.UUID]*model.Hospital)}
	for _, h := range hospitals {
		f.hospitals[h.ID] = h
	}
	return f
}

func (f *fakeHospitalRepo) Create(_ context.Context, h *model.Hospital) error {
	f.hospitals[h.ID] = h
	return nil
}

func (f *fakeHospitalRepo) Get(_ context.Context, id uuid.UUID) (*model.Hospital, error) {
	return f.hospitals[id], nil
}

func (f *fakeHospitalRepo) GetByEmail(_ context.Context, email string) (*model.Hospital, error) {
	for _, h := range f.hospitals {
		if strings.EqualFold(h.Email, email) {
			return h, nil
		}
	}
	return nil, nil
}

func (f *fakeHospitalRepo) Update(_ context.Context, h *model.Hospital) error {
	f.hospitals[h.ID] = h
	return nil
}

func (f *fakeHospitalRepo) SoftDelete(_ context.Context, id uuid.UUID, now time.Time) error {
	f.deleted = append(f.deleted, id)
	if h, ok := f.hospitals[id]; ok {
		h.Name = model.DeletedNamePrefix + h.Name
		h.DeletedAt = &now
	}
	return nil
}

func (f *fakeHospitalRepo) List(_ context.Context, _ *model.HospitalFilters) ([]*model.Hospital, int, error) {
	out := make([]*model.Hospital, 0, len(f.hospitals))
	for _, h := range f.hospitals {
		if !h.IsDeleted() {
			out = append(out, h)
		}
	}
	return out, len(out), nil
}

func (f *fakeHospitalRepo) GetStats(_ context.Context, _ uuid.UUID) (*model.HospitalStats, error) {
	stats := f.stats
	return &stats, nil
}

func (f *fakeHospitalRepo) CountActive(_ context.Context) (int, error) {
	return f.active, nil
}

func (f *fakeHospitalRepo) CountRegisteredSince(_ context.Context, _ time.Time) (int, error) {
	return f.registered, nil
}

type fakeUserRepo struct {
	admins   []*model.User
	password string
}

func (f *fakeUserRepo) Create(_ context.Context, _ *model.User) error { return nil }
func (f *fakeUserRepo) Get(_ context.Context, _ uuid.UUID) (*model.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) GetByEmailAndHospital(_ context.Context, _ string, _ uuid.UUID) (*model.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Update(_ context.Context, _ *model.User) error { return nil }
func (f *fakeUserRepo) UpdatePassword(_ context.Context, _ uuid.UUID, hash string) error {
	f.password = hash
	return nil
}
func (f *fakeUserRepo) RecordFailedLogin(_ context.Context, _ uuid.UUID, _ int, _ time.Time) error {
	return nil
}
func (f *fakeUserRepo) ResetLoginAttempts(_ context.Context, _ uuid.UUID, _ time.Time) error {
	return nil
}
func (f *fakeUserRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (f *fakeUserRepo) CountByRole(_ context.Context, _ uuid.UUID, _ ...string) (int, error) {
	return 0, nil
}
func (f *fakeUserRepo) ListByHospitalAndRole(_ context.Context, _ uuid.UUID, role string) ([]*model.User, error) {
	if role != model.RoleAdmin {
		return nil, nil
	}
	return f.admins, nil
}

type fakeSubRepo struct {
	sub *model.Subscription
}

func (f *fakeSubRepo) Create(_ context.Context, _ *model.Subscription) error { return nil }
func (f *fakeSubRepo) GetByHospital(_ context.Context, _ uuid.UUID) (*model.Subscription, error) {
	return f.sub, nil
}
func (f *fakeSubRepo) Update(_ context.Context, _ *model.Subscription) error      { return nil }
func (f *fakeSubRepo) DeactivateForHospital(_ context.Context, _ uuid.UUID) error { return nil }
func (f *fakeSubRepo) ListExpiringBefore(_ context.Context, _ time.Time) ([]*model.Subscription, error) {
	return nil, nil
}
func (f *fakeSubRepo) List(_ context.Context, _ *model.SubscriptionFilters) ([]*model.Subscription, int, error) {
	return nil, 0, nil
}
func (f *fakeSubRepo) CreateBillingRecord(_ context.Context, _ *model.BillingRecord) error {
	return nil
}
func (f *fakeSubRepo) ListBillingRecords(_ context.Context, _ uuid.UUID) ([]*model.BillingRecord, error) {
	return nil, nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepo) CreateTx(_ context.Context, _ *sql.Tx, event *model.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEventsWithLock(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return nil, nil
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

type fakeAnalyticsRepo struct {
	users        int
	patients     int
	appointments int
	doctors      int
	byPlan       map[string]float64
	currRevenue  float64
	prevRevenue  float64
	active       int
	trial        int
	windows      int
}

func (f *fakeAnalyticsRepo) CountUsers(_ context.Context, _ *uuid.UUID) (int, error) {
	return f.users, nil
}
func (f *fakeAnalyticsRepo) CountPatientsInWindow(_ context.Context, _ *uuid.UUID, _, _ time.Time) (int, error) {
	return f.patients, nil
}
func (f *fakeAnalyticsRepo) CountAppointmentsInWindow(_ context.Context, _ *uuid.UUID, _, _ time.Time) (int, error) {
	return f.appointments, nil
}
func (f *fakeAnalyticsRepo) CountDoctors(_ context.Context, _ *uuid.UUID) (int, error) {
	return f.doctors, nil
}
func (f *fakeAnalyticsRepo) RevenueInWindow(_ context.Context, _ *uuid.UUID, _, _ time.Time) (float64, error) {
	f.windows++
	if f.windows == 1 {
		return f.currRevenue, nil
	}
	return f.prevRevenue, nil
}
func (f *fakeAnalyticsRepo) AppointmentsByStatus(_ context.Context, _ *uuid.UUID, _, _ time.Time) ([]*model.LabelCount, error) {
	return nil, nil
}
func (f *fakeAnalyticsRepo) AppointmentsByType(_ context.Context, _ *uuid.UUID, _, _ time.Time) ([]*model.LabelCount, error) {
	return nil, nil
}
func (f *fakeAnalyticsRepo) AppointmentsByDay(_ context.Context, _ *uuid.UUID, _, _ time.Time) ([]*model.TimeSeriesPoint, error) {
	return nil, nil
}
func (f *fakeAnalyticsRepo) PatientsByGender(_ context.Context, _ *uuid.UUID) ([]*model.LabelCount, error) {
	return nil, nil
}
func (f *fakeAnalyticsRepo) PatientsByBloodGroup(_ context.Context, _ *uuid.UUID) ([]*model.LabelCount, error) {
	return nil, nil
}
func (f *fakeAnalyticsRepo) PatientsByAgeGroup(_ context.Context, _ *uuid.UUID) ([]*model.LabelCount, error) {
	return nil, nil
}
func (f *fakeAnalyticsRepo) PatientRegistrationTrend(_ context.Context, _ *uuid.UUID, _, _ time.Time) ([]*model.TimeSeriesPoint, error) {
	return nil, nil
}
func (f *fakeAnalyticsRepo) DoctorsBySpecialization(_ context.Context, _ *uuid.UUID) ([]*model.LabelCount, error) {
	return nil, nil
}
func (f *fakeAnalyticsRepo) CountAvailableDoctors(_ context.Context, _ *uuid.UUID) (int, error) {
	return 0, nil
}
func (f *fakeAnalyticsRepo) TopDoctorsByAppointments(_ context.Context, _ *uuid.UUID, _, _ time.Time, _ int) ([]*model.DoctorBooking, error) {
	return nil, nil
}
func (f *fakeAnalyticsRepo) RevenueByPlan(_ context.Context, _ *uuid.UUID) (map[string]float64, error) {
	return f.byPlan, nil
}
func (f *fakeAnalyticsRepo) RevenueMonthlyTrend(_ context.Context, _ *uuid.UUID, _, _ time.Time) ([]*model.TimeSeriesPoint, error) {
	return nil, nil
}
func (f *fakeAnalyticsRepo) SubscriptionCounts(_ context.Context, _ *uuid.UUID) (int, int, error) {
	return f.active, f.trial, nil
}

type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (stubHasher) Compare(hashed, password string) error {
	if hashed != "hashed:"+password {
		return errMismatch
	}
	return nil
}

type mismatchError struct{}

func (mismatchError) Error() string { return "password mismatch" }

var errMismatch = mismatchError{}
