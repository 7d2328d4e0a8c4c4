package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
)

// All repository interfaces in one file
type (
	HospitalRepository interface {
		Create(ctx context.Context, hospital *model.Hospital) error
		Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error)
		GetByEmail(ctx context.Context, email string) (*model.Hospital, error)
		Update(ctx context.Context, hospital *model.Hospital) error
		SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error
		List(ctx context.Context, filters *model.HospitalFilters) ([]*model.Hospital, int, error)
		GetStats(ctx context.Context, hospitalID uuid.UUID) (*model.HospitalStats, error)
		CountActive(ctx context.Context) (int, error)
		CountRegisteredSince(ctx context.Context, since time.Time) (int, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		GetByEmailAndHospital(ctx context.Context, email string, hospitalID uuid.UUID) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
		RecordFailedLogin(ctx context.Context, id uuid.UUID, attempts int, at time.Time) error
		ResetLoginAttempts(ctx context.Context, id uuid.UUID, loginAt time.Time) error
		Delete(ctx context.Context, id uuid.UUID) error
		CountByRole(ctx context.Context, hospitalID uuid.UUID, roles ...string) (int, error)
		ListByHospitalAndRole(ctx context.Context, hospitalID uuid.UUID, role string) ([]*model.User, error)
	}

	StaffRepository interface {
		CreateDoctorProfile(ctx context.Context, profile *model.DoctorProfile) error
		GetDoctorProfile(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error)
		UpdateDoctorProfile(ctx context.Context, profile *model.DoctorProfile) error
		List(ctx context.Context, hospitalID uuid.UUID, filters *model.StaffFilters) ([]*model.StaffMember, int, error)
		ListAvailableDoctors(ctx context.Context, hospitalID uuid.UUID) ([]*model.AvailableDoctor, error)
	}

	SubscriptionRepository interface {
		Create(ctx context.Context, sub *model.Subscription) error
		GetByHospital(ctx context.Context, hospitalID uuid.UUID) (*model.Subscription, error)
		Update(ctx context.Context, sub *model.Subscription) error
		DeactivateForHospital(ctx context.Context, hospitalID uuid.UUID) error
		List(ctx context.Context, filters *model.SubscriptionFilters) ([]*model.Subscription, int, error)
		ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*model.Subscription, error)
		CreateBillingRecord(ctx context.Context, rec *model.BillingRecord) error
		ListBillingRecords(ctx context.Context, hospitalID uuid.UUID) ([]*model.BillingRecord, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, hospitalID uuid.UUID, filters *model.PatientFilters) ([]*model.Patient, int, error)
		ExistsByPhone(ctx context.Context, hospitalID uuid.UUID, phone string) (bool, error)
		ExistsByEmail(ctx context.Context, hospitalID uuid.UUID, email string) (bool, error)
		Count(ctx context.Context, hospitalID uuid.UUID) (int, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, hospitalID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, int, error)
		CheckConflict(ctx context.Context, doctorUserID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error)
	}

	MedicineRepository interface {
		Create(ctx context.Context, medicine *model.Medicine) error
		Get(ctx context.Context, id uuid.UUID) (*model.Medicine, error)
		Update(ctx context.Context, medicine *model.Medicine) error
		Delete(ctx context.Context, id uuid.UUID) error
		DeleteAll(ctx context.Context, hospitalID uuid.UUID) (int64, error)
		List(ctx context.Context, hospitalID uuid.UUID, filters *model.MedicineFilters) ([]*model.Medicine, int, error)
		GetSummary(ctx context.Context, hospitalID uuid.UUID, now time.Time) (*model.PharmacySummary, error)
		GetDashboardStats(ctx context.Context, hospitalID uuid.UUID, now time.Time) (*model.PharmacyDashboardStats, error)
		ExistsByNameAndBatch(ctx context.Context, hospitalID uuid.UUID, name, batch string) (bool, error)
		GetActiveByName(ctx context.Context, hospitalID uuid.UUID, name string) (*model.Medicine, error)
	}

	SettingsRepository interface {
		Get(ctx context.Context) (map[string]interface{}, error)
		Save(ctx context.Context, settings map[string]interface{}) error
	}

	// AnalyticsRepository aggregates for the dashboard reports. A nil
	// hospitalID means platform-wide; a concrete id scopes to that tenant.
	AnalyticsRepository interface {
		CountUsers(ctx context.Context, hospitalID *uuid.UUID) (int, error)
		CountPatientsInWindow(ctx context.Context, hospitalID *uuid.UUID, start, end time.Time) (int, error)
		CountAppointmentsInWindow(ctx context.Context, hospitalID *uuid.UUID, start, end time.Time) (int, error)
		CountDoctors(ctx context.Context, hospitalID *uuid.UUID) (int, error)
		RevenueInWindow(ctx context.Context, hospitalID *uuid.UUID, start, end time.Time) (float64, error)
		AppointmentsByStatus(ctx context.Context, hospitalID *uuid.UUID, start, end time.Time) ([]*model.LabelCount, error)
		AppointmentsByType(ctx context.Context, hospitalID *uuid.UUID, start, end time.Time) ([]*model.LabelCount, error)
		AppointmentsByDay(ctx context.Context, hospitalID *uuid.UUID, start, end time.Time) ([]*model.TimeSeriesPoint, error)
		PatientsByGender(ctx context.Context, hospitalID *uuid.UUID) ([]*model.LabelCount, error)
		PatientsByBloodGroup(ctx context.Context, hospitalID *uuid.UUID) ([]*model.LabelCount, error)
		PatientsByAgeGroup(ctx context.Context, hospitalID *uuid.UUID) ([]*model.LabelCount, error)
		PatientRegistrationTrend(ctx context.Context, hospitalID *uuid.UUID, start, end time.Time) ([]*model.TimeSeriesPoint, error)
		DoctorsBySpecialization(ctx context.Context, hospitalID *uuid.UUID) ([]*model.LabelCount, error)
		CountAvailableDoctors(ctx context.Context, hospitalID *uuid.UUID) (int, error)
		TopDoctorsByAppointments(ctx context.Context, hospitalID *uuid.UUID, start, end time.Time, limit int) ([]*model.DoctorBooking, error)
		RevenueByPlan(ctx context.Context, hospitalID *uuid.UUID) (map[string]float64, error)
		RevenueMonthlyTrend(ctx context.Context, hospitalID *uuid.UUID, start, end time.Time) ([]*model.TimeSeriesPoint, error)
		SubscriptionCounts(ctx context.Context, hospitalID *uuid.UUID) (active, trial int, err error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		CreateTx(ctx context.Context, tx *sql.Tx, event *model.OutboxEvent) error
		GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		BeginTx(ctx context.Context) (*sql.Tx, error)
		UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uuid.UUID, status string, errorMessage *string, retryAt *time.Time) error
		MoveToDeadLetter(ctx context.Context, tx *sql.Tx, evt *model.OutboxEvent) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
