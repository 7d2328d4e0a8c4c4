package worker

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anshuman/hospital-api/internal/config"
	"github.com/anshuman/hospital-api/internal/email"
	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/pkg/logger"
)

type fakeSubRepo struct {
	expiring []*model.Subscription
}

func (f *fakeSubRepo) Create(_ context.Context, _ *model.Subscription) error { return nil }
func (f *fakeSubRepo) GetByHospital(_ context.Context, _ uuid.UUID) (*model.Subscription, error) {
	return nil, nil
}
func (f *fakeSubRepo) Update(_ context.Context, _ *model.Subscription) error      { return nil }
func (f *fakeSubRepo) DeactivateForHospital(_ context.Context, _ uuid.UUID) error { return nil }
func (f *fakeSubRepo) List(_ context.Context, _ *model.SubscriptionFilters) ([]*model.Subscription, int, error) {
	return nil, 0, nil
}
func (f *fakeSubRepo) ListExpiringBefore(_ context.Context, _ time.Time) ([]*model.Subscription, error) {
	return f.expiring, nil
}
func (f *fakeSubRepo) CreateBillingRecord(_ context.Context, _ *model.BillingRecord) error {
	return nil
}
func (f *fakeSubRepo) ListBillingRecords(_ context.Context, _ uuid.UUID) ([]*model.BillingRecord, error) {
	return nil, nil
}

type fakeHospitalRepo struct {
	hospitals map[uuid.UUID]*model.Hospital
}

func (f *fakeHospitalRepo) Create(_ context.Context, h *model.Hospital) error {
	f.hospitals[h.ID] = h
	return nil
}
func (f *fakeHospitalRepo) Get(_ context.Context, id uuid.UUID) (*model.Hospital, error) {
	return f.hospitals[id], nil
}
func (f *fakeHospitalRepo) GetByEmail(_ context.Context, _ string) (*model.Hospital, error) {
	return nil, nil
}
func (f *fakeHospitalRepo) Update(_ context.Context, _ *model.Hospital) error { return nil }
func (f *fakeHospitalRepo) SoftDelete(_ context.Context, _ uuid.UUID, _ time.Time) error {
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

type fakeUserRepo struct {
	admins []*model.User
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
func (f *fakeUserRepo) UpdatePassword(_ context.Context, _ uuid.UUID, _ string) error {
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

func expiringSub(hospitalID uuid.UUID) *model.Subscription {
	return &model.Subscription{
		Base:            model.Base{ID: uuid.New()},
		HospitalID:      hospitalID,
		PlanName:        "basic",
		SubscriptionEnd: time.Now().AddDate(0, 0, 3),
		IsActive:        true,
	}
}

func newTestNotifier(subs *fakeSubRepo, hospitals *fakeHospitalRepo, users *fakeUserRepo, outbox *fakeOutboxRepo) *ExpiryNotifier {
	emailSvc := email.NewService(config.SMTPConfig{Enabled: false}, zerolog.Nop())
	return NewExpiryNotifier(subs, hospitals, users, outbox, emailSvc,
		ExpiryNotifierConfig{LeadDays: 7}, logger.NewLogger(nil))
}

func TestNotifierEmitsOutboxEvent(t *testing.T) {
	hospital := &model.Hospital{Base: model.Base{ID: uuid.New()}, Name: "City Care", IsActive: true}
	subs := &fakeSubRepo{expiring: []*model.Subscription{expiringSub(hospital.ID)}}
	hospitals := &fakeHospitalRepo{hospitals: map[uuid.UUID]*model.Hospital{hospital.ID: hospital}}
	users := &fakeUserRepo{admins: []*model.User{{Base: model.Base{ID: uuid.New()}, Email: "admin@citycare.test"}}}
	outbox := &fakeOutboxRepo{}
	n := newTestNotifier(subs, hospitals, users, outbox)

	n.run(context.Background())

	require.Len(t, outbox.events, 1)
	assert.Equal(t, model.EventSubscriptionExpiring, outbox.events[0].EventType)
}

func TestNotifierSkipsMissingHospital(t *testing.T) {
	subs := &fakeSubRepo{expiring: []*model.Subscription{expiringSub(uuid.New())}}
	hospitals := &fakeHospitalRepo{hospitals: map[uuid.UUID]*model.Hospital{}}
	outbox := &fakeOutboxRepo{}
	n := newTestNotifier(subs, hospitals, &fakeUserRepo{}, outbox)

	n.run(context.Background())

	assert.Empty(t, outbox.events)
}

func TestNotifierDedupesWithinADay(t *testing.T) {
	hospital := &model.Hospital{Base: model.Base{ID: uuid.New()}, Name: "City Care", IsActive: true}
	subs := &fakeSubRepo{expiring: []*model.Subscription{expiringSub(hospital.ID)}}
	hospitals := &fakeHospitalRepo{hospitals: map[uuid.UUID]*model.Hospital{hospital.ID: hospital}}
	outbox := &fakeOutboxRepo{}
	n := newTestNotifier(subs, hospitals, &fakeUserRepo{}, outbox)

	n.run(context.Background())
	n.run(context.Background())

	assert.Len(t, outbox.events, 1)
}
