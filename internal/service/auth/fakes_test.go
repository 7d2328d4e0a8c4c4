package auth

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
)

type fakeUserRepo struct {
	users     map[uuid.UUID]*model.User
	passwords map[uuid.UUID]string
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	f := &fakeUserRepo{
		users:     make(map[uuid.UUID]*model.User),
		passwords: make(map[uuid.UUID]string),
	}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmailAndHospital(_ context.Context, email string, hospitalID uuid.UUID) (*model.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) && u.HospitalID != nil && *u.HospitalID == hospitalID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.passwords[id] = hash
	if u, ok := f.users[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (f *fakeUserRepo) RecordFailedLogin(_ context.Context, id uuid.UUID, attempts int, at time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return nil
	}
	u.LoginAttempts = attempts
	u.LastLoginAttempt = &at
	u.Status = model.UserStatusActive
	if attempts >= model.MaxLoginAttempts {
		u.Status = model.UserStatusLocked
	}
	return nil
}

func (f *fakeUserRepo) ResetLoginAttempts(_ context.Context, id uuid.UUID, loginAt time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return nil
	}
	u.LoginAttempts = 0
	u.Status = model.UserStatusActive
	u.LastLoginAt = &loginAt
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, _ uuid.UUID, _ ...string) (int, error) {
	return 0, nil
}

func (f *fakeUserRepo) ListByHospitalAndRole(_ context.Context, hospitalID uuid.UUID, role string) ([]*model.User, error) {
	var out []*model.User
	for _, u := range f.users {
		if u.HospitalID != nil && *u.HospitalID == hospitalID && u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeHospitalRepo struct {
	hospitals map[uuid.UUID]*model.Hospital
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
	if h, ok := f.hospitals[id]; ok {
		h.Name = model.DeletedNamePrefix + h.Name
		h.DeletedAt = &now
	}
	return nil
}

func (f *fakeHospitalRepo) List(_ context.Context, _ *model.HospitalFilters) ([]*model.Hospital, int, error) {
	return nil, 0, nil
}

func (f *fakeHospitalRepo) GetStats(_ context.Context, _ uuid.UUID) (*model.HospitalStats, error) {
	return &model.HospitalStats{}, nil
}

func (f *fakeHospitalRepo) CountActive(_ context.Context) (int, error) { return 0, nil }

func (f *fakeHospitalRepo) CountRegisteredSince(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

type fakeSubRepo struct {
	subs    map[uuid.UUID]*model.Subscription
	created []*model.Subscription
}

func newFakeSubRepo() *fakeSubRepo {
	return &fakeSubRepo{subs: make(map[uuid.UUID]*model.Subscription)}
}

func (f *fakeSubRepo) Create(_ context.Context, sub *model.Subscription) error {
	f.subs[sub.HospitalID] = sub
	f.created = append(f.created, sub)
	return nil
}

func (f *fakeSubRepo) GetByHospital(_ context.Context, hospitalID uuid.UUID) (*model.Subscription, error) {
	return f.subs[hospitalID], nil
}

func (f *fakeSubRepo) Update(_ context.Context, sub *model.Subscription) error {
	f.subs[sub.HospitalID] = sub
	return nil
}

func (f *fakeSubRepo) DeactivateForHospital(_ context.Context, hospitalID uuid.UUID) error {
	delete(f.subs, hospitalID)
	return nil
}

func (f *fakeSubRepo) List(_ context.Context, _ *model.SubscriptionFilters) ([]*model.Subscription, int, error) {
	return nil, 0, nil
}

func (f *fakeSubRepo) ListExpiringBefore(_ context.Context, _ time.Time) ([]*model.Subscription, error) {
	return nil, nil
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
