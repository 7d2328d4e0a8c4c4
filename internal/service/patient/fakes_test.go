package patient

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/repository"
	"github.com/anshuman/hospital-api/internal/service/subscription"
)

// fakePatientRepo is an in-memory PatientRepository keyed by ID.
type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]*model.Patient)}
}

func (f *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
	f.patients[p.ID] = p
	return nil
}

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	return f.patients[id], nil
}

func (f *fakePatientRepo) Update(_ context.Context, p *model.Patient) error {
	f.patients[p.ID] = p
	return nil
}

func (f *fakePatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.patients, id)
	return nil
}

func (f *fakePatientRepo) List(_ context.Context, hospitalID uuid.UUID, _ *model.PatientFilters) ([]*model.Patient, int, error) {
	var out []*model.Patient
	for _, p := range f.patients {
		if p.HospitalID == hospitalID {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (f *fakePatientRepo) ExistsByPhone(_ context.Context, hospitalID uuid.UUID, phone string) (bool, error) {
	for _, p := range f.patients {
		if p.HospitalID == hospitalID && p.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePatientRepo) ExistsByEmail(_ context.Context, hospitalID uuid.UUID, email string) (bool, error) {
	for _, p := range f.patients {
		if p.HospitalID == hospitalID && p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePatientRepo) Count(_ context.Context, hospitalID uuid.UUID) (int, error) {
	n := 0
	for _, p := range f.patients {
		if p.HospitalID == hospitalID {
			n++
		}
	}
	return n, nil
}

func (f *fakePatientRepo) byPhone(phone string) *model.Patient {
	for _, p := range f.patients {
		if p.Phone == phone {
			return p
		}
	}
	return nil
}

// fakeSubRepo serves one fixed subscription for every hospital.
type fakeSubRepo struct {
	sub *model.Subscription
}

func (f *fakeSubRepo) Create(_ context.Context, _ *model.Subscription) error { return nil }
func (f *fakeSubRepo) GetByHospital(_ context.Context, _ uuid.UUID) (*model.Subscription, error) {
	return f.sub, nil
}
func (f *fakeSubRepo) Update(_ context.Context, _ *model.Subscription) error      { return nil }
func (f *fakeSubRepo) DeactivateForHospital(_ context.Context, _ uuid.UUID) error { return nil }
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

type fakeUserRepo struct{}

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
func (f *fakeUserRepo) Update(_ context.Context, _ *model.User) error                 { return nil }
func (f *fakeUserRepo) UpdatePassword(_ context.Context, _ uuid.UUID, _ string) error { return nil }
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
func (f *fakeUserRepo) ListByHospitalAndRole(_ context.Context, _ uuid.UUID, _ string) ([]*model.User, error) {
	return nil, nil
}

// newTestService wires a patient service whose plan allows maxPatients.
func newTestService(repo repository.PatientRepository, maxPatients int) *Service {
	subRepo := &fakeSubRepo{sub: &model.Subscription{
		PlanName:        "enterprise",
		MaxPatients:     maxPatients,
		MaxDoctors:      model.Unlimited,
		MaxStaff:        model.Unlimited,
		SubscriptionEnd: time.Now().AddDate(1, 0, 0),
		IsActive:        true,
		MonthlyFee:      17999,
	}}
	subSvc := subscription.NewService(subRepo, nil, repo, &fakeUserRepo{}, nil)
	return NewService(repo, subSvc)
}
