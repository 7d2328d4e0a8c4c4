package appointment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anshuman/hospital-api/internal/model"
	patientsvc "github.com/anshuman/hospital-api/internal/service/patient"
	"github.com/anshuman/hospital-api/internal/service/subscription"
	apperrors "github.com/anshuman/hospital-api/pkg/errors"
)

type testEnv struct {
	svc        *Service
	repo       *fakeAppointmentRepo
	staff      *fakeStaffRepo
	users      *fakeUserRepo
	patients   *fakePatientRepo
	outbox     *fakeOutboxRepo
	hospitalID uuid.UUID
	doctor     *model.User
	patient    *model.Patient
}

func newTestEnv() *testEnv {
	hospitalID := uuid.New()
	doctor := &model.User{
		Base:       model.Base{ID: uuid.New()},
		HospitalID: &hospitalID,
		Email:      "dr.rao@citycare.test",
		FirstName:  "Arjun",
		LastName:   "Rao",
		Role:       model.RoleDoctor,
		IsActive:   true,
	}
	patient := &model.Patient{
		Base:       model.Base{ID: uuid.New()},
		HospitalID: hospitalID,
		PatientID:  model.NewCode(model.CodePrefixPatient),
		FirstName:  "Meera",
		LastName:   "Iyer",
		Phone:      "9876543210",
	}

	repo := newFakeAppointmentRepo()
	staff := newFakeStaffRepo()
	users := newFakeUserRepo(doctor)
	patients := newFakePatientRepo(patient)
	outbox := &fakeOutboxRepo{}

	sub := &model.Subscription{
		Base:            model.Base{ID: uuid.New()},
		HospitalID:      hospitalID,
		PlanName:        "enterprise",
		MaxPatients:     model.Unlimited,
		MaxDoctors:      model.Unlimited,
		MaxStaff:        model.Unlimited,
		SubscriptionEnd: time.Now().AddDate(1, 0, 0),
		IsActive:        true,
		MonthlyFee:      17999,
	}
	subSvc := subscription.NewService(&fakeSubRepo{sub: sub}, nil, patients, users, nil)
	patientSvc := patientsvc.NewService(patients, subSvc)

	return &testEnv{
		svc:        NewService(repo, staff, users, patientSvc, outbox),
		repo:       repo,
		staff:      staff,
		users:      users,
		patients:   patients,
		outbox:     outbox,
		hospitalID: hospitalID,
		doctor:     doctor,
		patient:    patient,
	}
}

func (e *testEnv) createRequest() *model.CreateAppointmentRequest {
	tomorrow := time.Now().AddDate(0, 0, 1)
	return &model.CreateAppointmentRequest{
		PatientID:       e.patient.ID,
		DoctorUserID:    e.doctor.ID,
		AppointmentDate: tomorrow.Format("2006-01-02"),
		AppointmentTime: "10:30",
		Symptoms:        "fever, headache",
	}
}

func TestCreateAppointment(t *testing.T) {
	env := newTestEnv()
	env.staff.profiles[env.doctor.ID] = &model.DoctorProfile{
		UserID:          env.doctor.ID,
		ConsultationFee: 500,
	}

	apt, err := env.svc.Create(context.Background(), env.hospitalID, env.createRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(apt.AppointmentID, model.CodePrefixAppointment))
	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
	assert.Equal(t, model.PriorityNormal, apt.Priority)
	assert.Equal(t, "consultation", apt.AppointmentType)
	assert.Equal(t, 30, apt.EstimatedDuration)
	assert.Equal(t, 500.0, apt.ConsultationFee)
	assert.Equal(t, "pending", apt.PaymentStatus)
	assert.Equal(t, 10, apt.AppointmentDate.Hour())
	assert.Equal(t, 30, apt.AppointmentDate.Minute())

	require.Len(t, env.outbox.events, 1)
	assert.Equal(t, model.EventAppointmentScheduled, env.outbox.events[0].EventType)
}

func TestCreateAppointmentNoProfileFee(t *testing.T) {
	env := newTestEnv()

	apt, err := env.svc.Create(context.Background(), env.hospitalID, env.createRequest())
	require.NoError(t, err)
	assert.Zero(t, apt.ConsultationFee)
}

func TestCreateAppointmentInPast(t *testing.T) {
	env := newTestEnv()
	req := env.createRequest()
	req.AppointmentDate = time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	_, err := env.svc.Create(context.Background(), env.hospitalID, req)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestCreateAppointmentBadTime(t *testing.T) {
	env := newTestEnv()
	req := env.createRequest()
	req.AppointmentTime = "half past ten"

	_, err := env.svc.Create(context.Background(), env.hospitalID, req)
	assert.Error(t, err)
}

func TestCreateAppointmentConflict(t *testing.T) {
	env := newTestEnv()
	env.repo.conflict = true

	_, err := env.svc.Create(context.Background(), env.hospitalID, env.createRequest())

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 409, appErr.StatusCode())
}

func TestCreateAppointmentUnknownPatient(t *testing.T) {
	env := newTestEnv()
	req := env.createRequest()
	req.PatientID = uuid.New()

	_, err := env.svc.Create(context.Background(), env.hospitalID, req)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 404, appErr.StatusCode())
}

func TestCreateAppointmentDoctorFromOtherHospital(t *testing.T) {
	env := newTestEnv()
	otherHospital := uuid.New()
	env.doctor.HospitalID = &otherHospital

	_, err := env.svc.Create(context.Background(), env.hospitalID, env.createRequest())

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 404, appErr.StatusCode())
}

func TestCreateAppointmentInactiveDoctor(t *testing.T) {
	env := newTestEnv()
	env.doctor.IsActive = false

	_, err := env.svc.Create(context.Background(), env.hospitalID, env.createRequest())

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestUpdateReschedules(t *testing.T) {
	env := newTestEnv()
	apt, err := env.svc.Create(context.Background(), env.hospitalID, env.createRequest())
	require.NoError(t, err)

	newTime := "14:00"
	updated, err := env.svc.Update(context.Background(), env.hospitalID, apt.ID, &model.UpdateAppointmentRequest{
		AppointmentTime: &newTime,
	})
	require.NoError(t, err)
	assert.Equal(t, 14, updated.AppointmentDate.Hour())
	require.NotNil(t, env.repo.lastExclude)
	assert.Equal(t, apt.ID, *env.repo.lastExclude)
}

func TestUpdateInvalidStatus(t *testing.T) {
	env := newTestEnv()
	apt, err := env.svc.Create(context.Background(), env.hospitalID, env.createRequest())
	require.NoError(t, err)

	bogus := model.AppointmentStatus("rescheduled")
	_, err = env.svc.Update(context.Background(), env.hospitalID, apt.ID, &model.UpdateAppointmentRequest{
		Status: &bogus,
	})

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestCancel(t *testing.T) {
	env := newTestEnv()
	apt, err := env.svc.Create(context.Background(), env.hospitalID, env.createRequest())
	require.NoError(t, err)

	cancelled, err := env.svc.Cancel(context.Background(), env.hospitalID, apt.ID, "patient request")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
	assert.Contains(t, cancelled.Notes, "Cancelled: patient request")

	require.Len(t, env.outbox.events, 2)
	assert.Equal(t, model.EventAppointmentCancelled, env.outbox.events[1].EventType)

	_, err = env.svc.Cancel(context.Background(), env.hospitalID, apt.ID, "again")
	assert.Error(t, err)
}

func TestCancelCompleted(t *testing.T) {
	env := newTestEnv()
	apt, err := env.svc.Create(context.Background(), env.hospitalID, env.createRequest())
	require.NoError(t, err)
	apt.Status = model.AppointmentStatusCompleted

	_, err = env.svc.Cancel(context.Background(), env.hospitalID, apt.ID, "")

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestGetEnforcesTenant(t *testing.T) {
	env := newTestEnv()
	apt, err := env.svc.Create(context.Background(), env.hospitalID, env.createRequest())
	require.NoError(t, err)

	_, err = env.svc.Get(context.Background(), uuid.New(), apt.ID)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 404, appErr.StatusCode())
}

func TestQuickCreatePatient(t *testing.T) {
	env := newTestEnv()

	patient, err := env.svc.QuickCreatePatient(context.Background(), env.hospitalID, &model.QuickPatientRequest{
		FirstName:   "Rohan",
		LastName:    "Desai",
		Phone:       "9123456780",
		DateOfBirth: "1988-06-12",
		Gender:      "Male",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(patient.PatientID, model.CodePrefixPatient))
	assert.Equal(t, env.hospitalID, patient.HospitalID)
	assert.Equal(t, "9123456780", patient.Phone)
}

func TestParseDateTime(t *testing.T) {
	when, err := parseDateTime("2027-03-15", "09:45")
	require.NoError(t, err)
	assert.Equal(t, 2027, when.Year())
	assert.Equal(t, 45, when.Minute())

	when, err = parseDateTime("2027-03-15", "09:45:30")
	require.NoError(t, err)
	assert.Equal(t, 30, when.Second())

	_, err = parseDateTime("15/03/2027", "09:45")
	assert.Error(t, err)
}
