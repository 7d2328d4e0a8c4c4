package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DeletedNamePrefix marks soft-deleted hospitals. Rows carrying it are
// excluded from every admin listing and platform stat.
const DeletedNamePrefix = "[DELETED] "

type Hospital struct {
	Base
	Name          string `json:"name" db:"name"`
	Address       string `json:"address" db:"address"`
	Phone         string `json:"phone" db:"phone"`
	Email         string `json:"email" db:"email"`
	LicenseNumber string `json:"license_number" db:"license_number"`
	IsActive      bool   `json:"is_active" db:"is_active"`
}

func (h *Hospital) IsDeleted() bool {
	return strings.HasPrefix(h.Name, DeletedNamePrefix)
}

// HospitalFilters drives the admin hospital listing.
type HospitalFilters struct {
	Pagination
	Search string `form:"search"`
	Status string `form:"status"`
	Plan   string `form:"plan"`
}

// HospitalSubscriptionSummary is the subscription block embedded in admin
// hospital rows.
type HospitalSubscriptionSummary struct {
	Plan       string     `json:"plan"`
	Status     string     `json:"status"`
	MonthlyFee float64    `json:"monthlyFee"`
	ExpiryDate *time.Time `json:"expiryDate"`
}

type HospitalStats struct {
	TotalPatients     int     `json:"totalPatients" db:"total_patients"`
	TotalDoctors      int     `json:"totalDoctors" db:"total_doctors"`
	TotalStaff        int     `json:"totalStaff" db:"total_staff"`
	TotalAppointments int     `json:"totalAppointments" db:"total_appointments"`
	MonthlyRevenue    float64 `json:"monthlyRevenue" db:"-"`
}

// AdminHospital is the denormalized row served to the platform admin
// dashboard.
type AdminHospital struct {
	ID             uuid.UUID                   `json:"id"`
	Name           string                      `json:"name"`
	Email          string                      `json:"email"`
	Phone          string                      `json:"phone"`
	Address        string                      `json:"address"`
	RegisteredDate time.Time                   `json:"registeredDate"`
	LastLogin      *time.Time                  `json:"lastLogin"`
	Subscription   HospitalSubscriptionSummary `json:"subscription"`
	Stats          HospitalStats               `json:"stats"`
}

type UpdateHospitalRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type ChangePasswordRequest struct {
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type DeleteHospitalRequest struct {
	ConfirmationName string `json:"confirmationName"`
}

// PlatformStats backs the admin dashboard header cards.
type PlatformStats struct {
	TotalHospitals        int     `json:"totalHospitals"`
	ActiveSubscriptions   int     `json:"activeSubscriptions"`
	TotalRevenue          float64 `json:"totalRevenue"`
	TotalUsers            int     `json:"totalUsers"`
	TotalPatients         int     `json:"totalPatients"`
	TotalDoctors          int     `json:"totalDoctors"`
	TotalAppointments     int     `json:"totalAppointments"`
	NewHospitalsThisMonth int     `json:"newHospitalsThisMonth"`
	RevenueGrowth         float64 `json:"revenueGrowth"`
}
