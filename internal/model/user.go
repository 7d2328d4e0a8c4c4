package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Persona roles. PlatformAdmin is the super-admin dashboard; the rest are
// hospital-scoped.
const (
	RolePlatformAdmin = "platform_admin"
	RoleAdmin         = "admin"
	RoleDoctor        = "doctor"
	RoleNurse         = "nurse"
	RoleReceptionist  = "receptionist"
	RolePharmacist    = "pharmacist"
	RolePatient       = "patient"
)

type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusLocked UserStatus = "locked"
)

// Account lockout policy.
const (
	MaxLoginAttempts = 5
	LockoutDuration  = 15 * time.Minute
)

type User struct {
	Base
	HospitalID       *uuid.UUID `json:"hospital_id" db:"hospital_id"`
	Email            string     `json:"email" db:"email"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	FirstName        string     `json:"first_name" db:"first_name"`
	LastName         string     `json:"last_name" db:"last_name"`
	Phone            string     `json:"phone" db:"phone"`
	Role             string     `json:"role" db:"role"`
	IsActive         bool       `json:"is_active" db:"is_active"`
	Status           UserStatus `json:"status" db:"status"`
	LoginAttempts    int        `json:"-" db:"login_attempts"`
	LastLoginAttempt *time.Time `json:"-" db:"last_login_attempt"`
	LastLoginAt      *time.Time `json:"last_login_at" db:"last_login_at"`
}

func (u *User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RegisterHospitalRequest onboards a hospital together with its admin user.
type RegisterHospitalRequest struct {
	HospitalName    string `json:"hospital_name" binding:"required"`
	HospitalEmail   string `json:"hospital_email"`
	HospitalPhone   string `json:"hospital_phone" binding:"required"`
	HospitalAddress string `json:"hospital_address" binding:"required"`
	LicenseNumber   string `json:"license_number"`
	AdminFirstName  string `json:"admin_first_name" binding:"required"`
	AdminLastName   string `json:"admin_last_name" binding:"required"`
	AdminEmail      string `json:"admin_email" binding:"required,email"`
	AdminPassword   string `json:"admin_password" binding:"required"`
	AdminPhone      string `json:"admin_phone"`
}

// HospitalLoginResponse carries tokens plus the tenant context the
// dashboards bootstrap from.
type HospitalLoginResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *User         `json:"user"`
	Hospital     *Hospital     `json:"hospital,omitempty"`
	Subscription *Subscription `json:"subscription,omitempty"`
}
