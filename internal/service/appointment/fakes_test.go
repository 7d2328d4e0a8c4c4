package appointment

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
)

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
	conflict     bool
	lastExclude  *uuid.UUID
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	f.appointments[apt.ID] = apt
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	return f.appointments[id], nil
}

func (f *fakeAppointmentRepo) Update(_ context.Context, apt *model.Appointment) error {
	f.appointments[apt.ID] = apt
	return nil
}

func (f *fakeAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.appointments, id)
	return nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, hospitalID uuid.UUID, _ *model.AppointmentFilters) ([]*model.Appointment, int, error) {
	var out []*model.Appointment
	for _, apt := range f.appointments {
		if apt.HospitalID == hospitalID {
			out = append(out, apt)
		}
	}
	return out, len(out), nil
}

func (f *fakeAppointmentRepo) CheckConflict(_ context.Context, _ uuid.UUID, _, _ time.Time, excludeID *uuid.UUID) (bool, error) {
	f.lastExclude = excludeID
	return f.conflict, nil
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

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
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

func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetByEmailAndHospital(_ context.Context, _ string, _ uuid.UUID) (*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, _ uuid.UUID, _ string) error { return nil }

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

func (f *fakeUserRepo) CountByRole(_ context.Context, _ uuid.UUID, _ ...string) (int, error) {
	return 0, nil
}

func (f *fakeUserRepo) ListByHospitalAndRole(_ context.Context, _ uuid.UUID, _ string) ([]*model.User, error) {
	return nil, nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func newFakePatientRepo(patients ...*model.Patient) *fakePatientRepo {
	f := &fakePatientRepo{patients: make(map[uuid.UUID]*model.Patient)}
	for _, p := range patients {
		f.patients[p.ID] = p
	}
	return f
}

func (f *fakePatientRepo) Create(_ context.Context, patient *model.Patient) error {
	f.patients[patient.ID] = patient
	return nil
}

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	return f.patients[id], nil
}

func (f *fakePatientRepo) Update(_ context.Context, patient *model.Patient) error {
	f.patients[patient.ID] = patient
	return nil
}

func (f *fakePatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.patients, id)
	return nil
}

func (f *fakePatientRepo) List(_ context.Context, _ uuid.UUID, _ *model.PatientFilters) ([]*model.Patient, int, error) {
	return nil, 0, nil
}

func (f *fakePatientRepo) ExistsByPhone(_ context.Context, hospitalID uuid.UUID, phone string) (bool, error) {
	for _, p := range f.patients {
		if p.HospitalID == hospitalID && p.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePatientRepo) ExistsByEmail(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
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
