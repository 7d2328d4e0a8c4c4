package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/repository"
	patientsvc "github.com/anshuman/hospital-api/internal/service/patient"
	apperrors "github.com/anshuman/hospital-api/pkg/errors"
)

// DefaultDuration is assumed when the request does not carry one.
const DefaultDuration = 30 * time.Minute

type Service struct {
	repo       repository.AppointmentRepository
	staffRepo  repository.StaffRepository
	userRepo   repository.UserRepository
	patientSvc *patientsvc.Service
	outboxRepo repository.OutboxRepository
}

func NewService(
	repo repository.AppointmentRepository,
	staffRepo repository.StaffRepository,
	userRepo repository.UserRepository,
	patientSvc *patientsvc.Service,
	outboxRepo repository.OutboxRepository,
) *Service {
	return &Service{
		repo:       repo,
		staffRepo:  staffRepo,
		userRepo:   userRepo,
		patientSvc: patientSvc,
		outboxRepo: outboxRepo,
	}
}

// Create books an appointment after checking the doctor's calendar for
// overlaps.
func (s *Service) Create(ctx context.Context, hospitalID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	when, err := parseDateTime(req.AppointmentDate, req.AppointmentTime)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), nil)
	}
	if when.Before(time.Now()) {
		return nil, apperrors.BadRequest("appointment cannot be scheduled in the past", nil)
	}

	if _, err := s.patientSvc.Get(ctx, hospitalID, req.PatientID); err != nil {
		return nil, err
	}

	doctor, err := s.userRepo.Get(ctx, req.DoctorUserID)
	if err != nil {
		return nil, err
	}
	if doctor == nil || doctor.Role != model.RoleDoctor ||
		doctor.HospitalID == nil || *doctor.HospitalID != hospitalID {
		return nil, apperrors.NotFound("doctor", nil)
	}
	if !doctor.IsActive {
		return nil, apperrors.BadRequest("doctor is not available", nil)
	}

	duration := DefaultDuration
	end := when.Add(duration)
	conflict, err := s.repo.CheckConflict(ctx, req.DoctorUserID, when, end, nil)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, apperrors.Conflict("doctor already has an appointment at this time", nil)
	}

	var fee float64
	if profile, err := s.staffRepo.GetDoctorProfile(ctx, req.DoctorUserID); err == nil && profile != nil {
		fee = profile.ConsultationFee
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}
	aptType := req.AppointmentType
	if aptType == "" {
		aptType = "consultation"
	}

	apt := &model.Appointment{
		Base:              model.Base{ID: uuid.New()},
		HospitalID:        hospitalID,
		AppointmentID:     model.NewCode(model.CodePrefixAppointment),
		PatientID:         req.PatientID,
		DoctorUserID:      req.DoctorUserID,
		AppointmentDate:   when,
		AppointmentType:   aptType,
		Status:            model.AppointmentStatusScheduled,
		Symptoms:          req.Symptoms,
		Notes:             req.Notes,
		Priority:          priority,
		EstimatedDuration: int(duration.Minutes()),
		ConsultationFee:   fee,
		PaymentStatus:     "pending",
	}
	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, err
	}

	s.emit(ctx, model.EventAppointmentScheduled, map[string]interface{}{
		"appointment_id": apt.ID,
		"hospital_id":    hospitalID,
		"doctor_user_id": req.DoctorUserID,
		"patient_id":     req.PatientID,
		"scheduled_for":  when,
	})
	return apt, nil
}

func (s *Service) Get(ctx context.Context, hospitalID, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if apt == nil || apt.HospitalID != hospitalID {
		return nil, apperrors.NotFound("appointment", nil)
	}
	return apt, nil
}

func (s *Service) Update(ctx context.Context, hospitalID, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.Get(ctx, hospitalID, id)
	if err != nil {
		return nil, err
	}

	if req.AppointmentDate != nil || req.AppointmentTime != nil {
		date := apt.AppointmentDate.Format("2006-01-02")
		clock := apt.AppointmentDate.Format("15:04")
		if req.AppointmentDate != nil {
			date = *req.AppointmentDate
		}
		if req.AppointmentTime != nil {
			clock = *req.AppointmentTime
		}
		when, err := parseDateTime(date, clock)
		if err != nil {
			return nil, apperrors.BadRequest(err.Error(), nil)
		}

		end := when.Add(time.Duration(apt.EstimatedDuration) * time.Minute)
		conflict, err := s.repo.CheckConflict(ctx, apt.DoctorUserID, when, end, &apt.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, apperrors.Conflict("doctor already has an appointment at this time", nil)
		}
		apt.AppointmentDate = when
	}

	if req.AppointmentType != nil {
		apt.AppointmentType = *req.AppointmentType
	}
	if req.Status != nil {
		if !validStatus(*req.Status) {
			return nil, apperrors.BadRequest(fmt.Sprintf("invalid status %q", *req.Status), nil)
		}
		apt.Status = *req.Status
	}
	if req.Symptoms != nil {
		apt.Symptoms = *req.Symptoms
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}
	if req.Priority != nil {
		apt.Priority = *req.Priority
	}
	if req.PaymentStatus != nil {
		apt.PaymentStatus = *req.PaymentStatus
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, err
	}
	return apt, nil
}

// Cancel marks the appointment cancelled, keeping the reason in the notes.
func (s *Service) Cancel(ctx context.Context, hospitalID, id uuid.UUID, reason string) (*model.Appointment, error) {
	apt, err := s.Get(ctx, hospitalID, id)
	if err != nil {
		return nil, err
	}
	if apt.Status == model.AppointmentStatusCancelled {
		return nil, apperrors.BadRequest("appointment is already cancelled", nil)
	}
	if apt.Status == model.AppointmentStatusCompleted {
		return nil, apperrors.BadRequest("completed appointment cannot be cancelled", nil)
	}

	apt.Status = model.AppointmentStatusCancelled
	if reason != "" {
		if apt.Notes != "" {
			apt.Notes += "\n"
		}
		apt.Notes += "Cancelled: " + reason
	}
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, err
	}

	s.emit(ctx, model.EventAppointmentCancelled, map[string]interface{}{
		"appointment_id": apt.ID,
		"hospital_id":    hospitalID,
		"reason":         reason,
	})
	return apt, nil
}

func (s *Service) Delete(ctx context.Context, hospitalID, id uuid.UUID) error {
	if _, err := s.Get(ctx, hospitalID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, hospitalID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, model.PageInfo, error) {
	filters.Normalize(100)
	appointments, total, err := s.repo.List(ctx, hospitalID, filters)
	if err != nil {
		return nil, model.PageInfo{}, err
	}
	return appointments, model.NewPageInfo(filters.Pagination, total), nil
}

// QuickCreatePatient registers a minimal patient from the booking wizard.
func (s *Service) QuickCreatePatient(ctx context.Context, hospitalID uuid.UUID, req *model.QuickPatientRequest) (*model.Patient, error) {
	return s.patientSvc.Create(ctx, hospitalID, &model.CreatePatientRequest{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
	})
}

func parseDateTime(date, clock string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, date+" "+clock, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid appointment date/time: %s %s", date, clock)
}

func validStatus(status model.AppointmentStatus) bool {
	switch status {
	case model.AppointmentStatusScheduled, model.AppointmentStatusCompleted,
		model.AppointmentStatusCancelled, model.AppointmentStatusNoShow:
		return true
	}
	return false
}

func (s *Service) emit(ctx context.Context, eventType string, payload map[string]interface{}) {
	if s.outboxRepo == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = s.outboxRepo.Create(ctx, &model.OutboxEvent{EventType: eventType, Payload: raw})
}
