package model

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	Base
	HospitalID            uuid.UUID  `json:"hospital_id" db:"hospital_id"`
	PatientID             string     `json:"patient_id" db:"patient_id"`
	FirstName             string     `json:"first_name" db:"first_name"`
	LastName              string     `json:"last_name" db:"last_name"`
	Email                 string     `json:"email" db:"email"`
	Phone                 string     `json:"phone" db:"phone"`
	DateOfBirth           *time.Time `json:"date_of_birth" db:"date_of_birth"`
	Gender                string     `json:"gender" db:"gender"`
	BloodGroup            string     `json:"blood_group" db:"blood_group"`
	Address               string     `json:"address" db:"address"`
	EmergencyContactName  string     `json:"emergency_contact_name" db:"emergency_contact_name"`
	EmergencyContactPhone string     `json:"emergency_contact_phone" db:"emergency_contact_phone"`
	MedicalHistory        string     `json:"medical_history" db:"medical_history"`
	Allergies             string     `json:"allergies" db:"allergies"`
	InsuranceNumber       string     `json:"insurance_number" db:"insurance_number"`
}

func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Age derives the patient's age from the date of birth, nil when unknown.
func (p *Patient) Age(now time.Time) *int {
	if p.DateOfBirth == nil {
		return nil
	}
	dob := *p.DateOfBirth
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return &age
}

// PatientResponse is the patient row as the dashboards consume it, with
// the derived fields populated.
type PatientResponse struct {
	Patient
	FullNameField string `json:"full_name"`
	AgeField      *int   `json:"age"`
}

func (p *Patient) ToResponse(now time.Time) *PatientResponse {
	return &PatientResponse{
		Patient:       *p,
		FullNameField: p.FullName(),
		AgeField:      p.Age(now),
	}
}

var ValidGenders = []string{"Male", "Female", "Other"}

var ValidBloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

type CreatePatientRequest struct {
	FirstName             string `json:"first_name" validate:"required"`
	LastName              string `json:"last_name" validate:"required"`
	Email                 string `json:"email" validate:"omitempty,email"`
	Phone                 string `json:"phone" validate:"required"`
	DateOfBirth           string `json:"date_of_birth"`
	Gender                string `json:"gender"`
	BloodGroup            string `json:"blood_group"`
	Address               string `json:"address"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone" validate:"omitempty,phone"`
	MedicalHistory        string `json:"medical_history"`
	Allergies             string `json:"allergies"`
	InsuranceNumber       string `json:"insurance_number"`
}

type UpdatePatientRequest struct {
	FirstName             *string `json:"first_name"`
	LastName              *string `json:"last_name"`
	Email                 *string `json:"email" binding:"omitempty,email"`
	Phone                 *string `json:"phone"`
	DateOfBirth           *string `json:"date_of_birth"`
	Gender                *string `json:"gender"`
	BloodGroup            *string `json:"blood_group"`
	Address               *string `json:"address"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
	MedicalHistory        *string `json:"medical_history"`
	Allergies             *string `json:"allergies"`
	InsuranceNumber       *string `json:"insurance_number"`
}

type PatientFilters struct {
	Pagination
	Search string `form:"search"`
	Gender string `form:"gender"`
}

type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required"`
}

// BulkDeleteResult reports one item of a bulk delete. Every requested id
// gets a result; a failure never aborts the remaining items.
type BulkDeleteResult struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
	Error  string    `json:"error,omitempty"`
}

// ImportReport is the summary returned by the CSV/spreadsheet importers.
type ImportReport struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}
