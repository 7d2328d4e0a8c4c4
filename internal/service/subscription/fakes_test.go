package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
)

type fakeSubscriptionRepo struct {
	current     *model.Subscription
	subs        []*model.Subscription
	created     []*model.Subscription
	updated     *model.Subscription
	billing     []*model.BillingRecord
	deactivated bool
}

func (f *fakeSubscriptionRepo) Create(_ context.Context, sub *model.Subscription) error {
	f.created = append(f.created, sub)
	return nil
}

func (f *fakeSubscriptionRepo) GetByHospital(_ context.Context, _ uuid.UUID) (*model.Subscription, error) {
	return f.current, nil
}

func (f *fakeSubscriptionRepo) Update(_ context.Context, sub *model.Subscription) error {
	f.updated = sub
	return nil
}

func (f *fakeSubscriptionRepo) DeactivateForHospital(_ context.Context, _ uuid.UUID) error {
	f.deactivated = true
	return nil
}

func (f *fakeSubscriptionRepo) List(_ context.Context, filters *model.SubscriptionFilters) ([]*model.Subscription, int, error) {
	all := f.subs
	if all == nil && f.current != nil {
		all = []*model.Subscription{f.current}
	}
	total := len(all)
	if filters.PerPage > 0 {
		all = model.Page(all, filters.Pagination)
	}
	return all, total, nil
}

func (f *fakeSubscriptionRepo) ListExpiringBefore(_ context.Context, _ time.Time) ([]*model.Subscription, error) {
	return nil, nil
}

func (f *fakeSubscriptionRepo) CreateBillingRecord(_ context.Context, rec *model.BillingRecord) error {
	f.billing = append(f.billing, rec)
	return nil
}

func (f *fakeSubscriptionRepo) ListBillingRecords(_ context.Context, _ uuid.UUID) ([]*model.BillingRecord, error) {
	return f.billing, nil
}

type fakePatientCounter struct {
	count int
}

func (f *fakePatientCounter) Create(_ context.Context, _ *model.Patient) error { return nil }
func (f *fakePatientCounter) Get(_ context.Context, _ uuid.UUID) (*model.Patient, error) {
	return nil, nil
}
func (f *fakePatientCounter) Update(_ context.Context, _ *model.Patient) error { return nil }
func (f *fakePatientCounter) Delete(_ context.Context, _ uuid.UUID) error      { return nil }
func (f *fakePatientCounter) List(_ context.Context, _ uuid.UUID, _ *model.PatientFilters) ([]*model.Patient, int, error) {
	return nil, 0, nil
}
func (f *fakePatientCounter) ExistsByPhone(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	return false, nil
}
func (f *fakePatientCounter) ExistsByEmail(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	return false, nil
}
func (f *fakePatientCounter) Count(_ context.Context, _ uuid.UUID) (int, error) {
	return f.count, nil
}

type fakeUserCounter struct {
	count int
}

func (f *fakeUserCounter) Create(_ context.Context, _ *model.User) error { return nil }
func (f *fakeUserCounter) Get(_ context.Context, _ uuid.UUID) (*model.User, error) {
	return nil, nil
}
func (f *fakeUserCounter) GetByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, nil
}
func (f *fakeUserCounter) GetByEmailAndHospital(_ context.Context, _ string, _ uuid.UUID) (*model.User, error) {
	return nil, nil
}
func (f *fakeUserCounter) Update(_ context.Context, _ *model.User) error { return nil }
func (f *fakeUserCounter) UpdatePassword(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}
func (f *fakeUserCounter) RecordFailedLogin(_ context.Context, _ uuid.UUID, _ int, _ time.Time) error {
	return nil
}
func (f *fakeUserCounter) ResetLoginAttempts(_ context.Context, _ uuid.UUID, _ time.Time) error {
	return nil
}
func (f *fakeUserCounter) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (f *fakeUserCounter) CountByRole(_ context.Context, _ uuid.UUID, _ ...string) (int, error) {
	return f.count, nil
}
func (f *fakeUserCounter) ListByHospitalAndRole(_ context.Context, _ uuid.UUID, _ string) ([]*model.User, error) {
	return nil, nil
}

type fakeHospitalDirectory struct {
	hospitals map[uuid.UUID]*model.Hospital
}

func newFakeHospitalDirectory(hospitals ...*model.Hospital) *fakeHospitalDirectory {
	f := &fakeHospitalDirectory{hospitals: make(map[uuid.UUID]*model.Hospital)}
	for _, h := range hospitals {
		f.hospitals[h.ID] = h
	}
	return f
}

func (f *fakeHospitalDirectory) Create(_ context.Context, h *model.Hospital) error {
	f.hospitals[h.ID] = h
	return nil
}

func (f *fakeHospitalDirectory) Get(_ context.Context, id uuid.UUID) (*model.Hospital, error) {
	return f.hospitals[id], nil
}

func (f *fakeHospitalDirectory) GetByEmail(_ context.Context, _ string) (*model.Hospital, error) {
	return nil, nil
}

func (f *fakeHospitalDirectory) Update(_ context.Context, h *model.Hospital) error {
	f.hospitals[h.ID] = h
	return nil
}

func (f *fakeHospitalDirectory) SoftDelete(_ context.Context, _ uuid.UUID, _ time.Time) error {
	return nil
}

func (f *fakeHospitalDirectory) List(_ context.Context, _ *model.HospitalFilters) ([]*model.Hospital, int, error) {
	return nil, 0, nil
}

func (f *fakeHospitalDirectory) GetStats(_ context.Context, _ uuid.UUID) (*model.HospitalStats, error) {
	return &model.HospitalStats{}, nil
}

func (f *fakeHospitalDirectory) CountActive(_ context.Context) (int, error) { return 0, nil }

func (f *fakeHospitalDirectory) CountRegisteredSince(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}
