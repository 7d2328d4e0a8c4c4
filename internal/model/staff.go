package model

import (
	"github.com/google/uuid"
)

// DoctorProfile is the clinical profile attached to users with the doctor
// role.
type DoctorProfile struct {
	Base
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	DoctorID        string    `json:"doctor_id" db:"doctor_id"`
	Specialization  string    `json:"specialization" db:"specialization"`
	Qualification   string    `json:"qualification" db:"qualification"`
	ExperienceYears int       `json:"experience_years" db:"experience_years"`
	LicenseNumber   string    `json:"license_number" db:"license_number"`
	ConsultationFee float64   `json:"consultation_fee" db:"consultation_fee"`
	AvailableDays   string    `json:"available_days" db:"available_days"`
	AvailableHours  string    `json:"available_hours" db:"available_hours"`
	IsAvailable     bool      `json:"is_available" db:"is_available"`
	Rating          float64   `json:"rating" db:"rating"`
}

// StaffMember is a hospital user plus the optional doctor profile.
type StaffMember struct {
	User
	DoctorProfile *DoctorProfile `json:"doctor_profile,omitempty"`
}

type StaffFilters struct {
	Pagination
	Role   string `form:"role"`
	Search string `form:"search"`
}

type CreateStaffRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Role      string `json:"role" binding:"required"`
	Password  string `json:"password" binding:"required"`

	// Doctor-only fields
	Specialization  string  `json:"specialization"`
	Qualification   string  `json:"qualification"`
	ExperienceYears int     `json:"experience_years"`
	ConsultationFee float64 `json:"consultation_fee"`
	AvailableDays   string  `json:"available_days"`
	AvailableHours  string  `json:"available_hours"`
	LicenseNumber   string  `json:"license_number"`
}

type UpdateStaffRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone"`
	Role      *string `json:"role"`

	// Optional password-change sub-flow; only applied when provided.
	Password *string `json:"password"`

	Specialization  *string  `json:"specialization"`
	Qualification   *string  `json:"qualification"`
	ExperienceYears *int     `json:"experience_years"`
	ConsultationFee *float64 `json:"consultation_fee"`
	AvailableDays   *string  `json:"available_days"`
	AvailableHours  *string  `json:"available_hours"`
}

// StaffRole is one entry of the roles dropdown.
type StaffRole struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// AvailableDoctor backs the booking wizard's doctor picker.
type AvailableDoctor struct {
	UserID          uuid.UUID `json:"doctor_user_id"`
	DoctorID        string    `json:"doctor_id"`
	FullName        string    `json:"full_name"`
	Specialization  string    `json:"specialization"`
	ConsultationFee float64   `json:"consultation_fee"`
	AvailableDays   string    `json:"available_days"`
	AvailableHours  string    `json:"available_hours"`
}
