package staff

import (
	"context"
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

func (f *fakeUserRepo) GetByEmailAndHospital(_ context.Context, _ string, _ uuid.UUID) (*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.passwords[id] = hash
	return nil
}

func (f *fakeUserRepo) RecordFailedLogin(_ context.Context, _ uuid.UUID, _ int, _ time.Time) error {
	return nil
}

func (f *fakeUserRepo) ResetLoginAttempts(_ context.Context, _ uuid.UUID, _ time.Time) error {
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, hospitalID uuid.UUID, roles ...string) (int, error) {
	n := 0
	for _, u := range f.users {
		if u.HospitalID == nil || *u.HospitalID != hospitalID {
			continue
		}
		for _, role := range roles {
			if u.Role == role {
				n++
				break
			}
		}
	}
	return n, nil
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

type fakeStaffRepo struct {
	profiles map[uuid.UUID]*model.DoctorProfile
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{profiles: make(map[uuid.UUID]*model.DoctorProfile)}
}

func (f *fakeStaffRepo) CreateDoctorProfile(_ context.Context, profile *model.DoctorProfile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeStaffRepo) GetDoctorProfile(_ context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	return f.profiles[userID], nil
}

func (f *fakeStaffRepo) UpdateDoctorProfile(_ context.Context, profile *model.DoctorProfile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeStaffRepo) List(_ context.Context, _ uuid.UUID, _ *model.StaffFilters) ([]*model.StaffMember, int, error) {
	return nil, 0, nil
}

func (f *fakeStaffRepo) ListAvailableDoctors(_ context.Context, _ uuid.UUID) ([]*model.AvailableDoctor, error) {
	return nil, nil
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
