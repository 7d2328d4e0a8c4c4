package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no-show"
)

type AppointmentPriority string

const (
	PriorityLow       AppointmentPriority = "low"
	PriorityNormal    AppointmentPriority = "normal"
	PriorityHigh      AppointmentPriority = "high"
	PriorityEmergency AppointmentPriority = "emergency"
)

type Appointment struct {
	Base
	HospitalID        uuid.UUID           `json:"hospital_id" db:"hospital_id"`
	AppointmentID     string              `json:"appointment_id" db:"appointment_id"`
	PatientID         uuid.UUID           `json:"patient_id" db:"patient_id"`
	DoctorUserID      uuid.UUID           `json:"doctor_user_id" db:"doctor_user_id"`
	AppointmentDate   time.Time           `json:"appointment_date" db:"appointment_date"`
	AppointmentType   string              `json:"appointment_type" db:"appointment_type"`
	Status            AppointmentStatus   `json:"status" db:"status"`
	Symptoms          string              `json:"symptoms" db:"symptoms"`
	Notes             string              `json:"notes" db:"notes"`
	Priority          AppointmentPriority `json:"priority" db:"priority"`
	EstimatedDuration int                 `json:"estimated_duration" db:"estimated_duration"`
	ConsultationFee   float64             `json:"consultation_fee" db:"consultation_fee"`
	PaymentStatus     string              `json:"payment_status" db:"payment_status"`

	// Joined display fields
	PatientName          string `json:"patient_name,omitempty" db:"patient_name"`
	DoctorName           string `json:"doctor_name,omitempty" db:"doctor_name"`
	DoctorSpecialization string `json:"doctor_specialization,omitempty" db:"doctor_specialization"`
}

type CreateAppointmentRequest struct {
	PatientID       uuid.UUID           `json:"patient_id" binding:"required"`
	DoctorUserID    uuid.UUID           `json:"doctor_user_id" binding:"required"`
	AppointmentDate string              `json:"appointment_date" binding:"required"`
	AppointmentTime string              `json:"appointment_time" binding:"required"`
	AppointmentType string              `json:"appointment_type"`
	Symptoms        string              `json:"symptoms"`
	Notes           string              `json:"notes"`
	Priority        AppointmentPriority `json:"priority"`
}

type UpdateAppointmentRequest struct {
	AppointmentDate *string              `json:"appointment_date"`
	AppointmentTime *string              `json:"appointment_time"`
	AppointmentType *string              `json:"appointment_type"`
	Status          *AppointmentStatus   `json:"status"`
	Symptoms        *string              `json:"symptoms"`
	Notes           *string              `json:"notes"`
	Priority        *AppointmentPriority `json:"priority"`
	PaymentStatus   *string              `json:"payment_status"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type AppointmentFilters struct {
	Pagination
	Date         string    `form:"date"`
	Status       string    `form:"status"`
	DoctorUserID uuid.UUID `form:"doctor_user_id"`
	PatientID    uuid.UUID `form:"patient_id"`
}

// QuickPatientRequest is the minimal create used by the booking wizard's
// first step.
type QuickPatientRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	DateOfBirth string `json:"date_of_birth" binding:"required"`
	Gender      string `json:"gender" binding:"required"`
}
