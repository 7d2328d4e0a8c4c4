package model

import (
	"time"

	"github.com/google/uuid"
)

// Unlimited marks a plan limit with no cap.
const Unlimited = -1

type BillingCycle string

const (
	BillingMonthly BillingCycle = "monthly"
	BillingAnnual  BillingCycle = "annual"
)

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrial    SubscriptionStatus = "trial"
	SubscriptionExpired  SubscriptionStatus = "expired"
	SubscriptionInactive SubscriptionStatus = "inactive"
)

type Subscription struct {
	Base
	HospitalID        uuid.UUID    `json:"hospital_id" db:"hospital_id"`
	PlanName          string       `json:"plan_name" db:"plan_name"`
	MaxPatients       int          `json:"max_patients" db:"max_patients"`
	MaxDoctors        int          `json:"max_doctors" db:"max_doctors"`
	MaxStaff          int          `json:"max_staff" db:"max_staff"`
	FeaturesJSON      string       `json:"-" db:"features"`
	Features          []string     `json:"features" db:"-"`
	SubscriptionStart time.Time    `json:"subscription_start" db:"subscription_start"`
	SubscriptionEnd   time.Time    `json:"subscription_end" db:"subscription_end"`
	IsActive          bool         `json:"is_active" db:"is_active"`
	MonthlyFee        float64      `json:"monthly_fee" db:"monthly_fee"`
	BillingCycle      BillingCycle `json:"billing_cycle" db:"billing_cycle"`
}

// Status derives the subscription status the way the admin dashboard
// consumes it: inactive wins over expired, expired over trial, trial
// (zero fee) over active.
func (s *Subscription) Status(now time.Time) SubscriptionStatus {
	switch {
	case !s.IsActive:
		return SubscriptionInactive
	case s.SubscriptionEnd.Before(now):
		return SubscriptionExpired
	case s.MonthlyFee == 0:
		return SubscriptionTrial
	default:
		return SubscriptionActive
	}
}

func (s *Subscription) HasFeature(name string) bool {
	for _, f := range s.Features {
		if f == name {
			return true
		}
	}
	return false
}

// Plan is a tier in the platform catalog. The catalog is the single source
// of truth served to every screen; see service/subscription.
type Plan struct {
	Name        string   `json:"name"`
	MonthlyFee  float64  `json:"monthly_fee"`
	AnnualFee   float64  `json:"annual_fee"`
	MaxPatients int      `json:"max_patients"`
	MaxDoctors  int      `json:"max_doctors"`
	MaxStaff    int      `json:"max_staff"`
	Features    []string `json:"features"`
}

// ResourceUsage is one resource's consumption against its plan limit.
type ResourceUsage struct {
	Current    int     `json:"current"`
	Limit      int     `json:"limit"`
	Percentage float64 `json:"percentage"`
}

type UsageStats struct {
	Patients ResourceUsage `json:"patients"`
	Doctors  ResourceUsage `json:"doctors"`
	Staff    ResourceUsage `json:"staff"`
}

// AdminSubscription is the denormalized row served to the admin
// subscriptions dashboard.
type AdminSubscription struct {
	ID           uuid.UUID          `json:"id"`
	HospitalID   uuid.UUID          `json:"hospitalId"`
	HospitalName string             `json:"hospitalName"`
	CurrentPlan  string             `json:"currentPlan"`
	Status       SubscriptionStatus `json:"status"`
	MonthlyFee   float64            `json:"monthlyFee"`
	BillingCycle BillingCycle       `json:"billingCycle"`
	StartDate    time.Time          `json:"startDate"`
	ExpiryDate   time.Time          `json:"expiryDate"`
	AutoRenew    bool               `json:"autoRenew"`
	Usage        SubscriptionUsage  `json:"usage"`
	Limits       SubscriptionLimits `json:"limits"`
}

type SubscriptionUsage struct {
	Patients int     `json:"patients"`
	Doctors  int     `json:"doctors"`
	Storage  float64 `json:"storage"`
}

type SubscriptionLimits struct {
	Patients int `json:"patients"`
	Doctors  int `json:"doctors"`
	Storage  int `json:"storage"`
}

type SubscriptionFilters struct {
	Pagination
	Search string `form:"search"`
	Status string `form:"status"`
	Plan   string `form:"plan"`
}

type UpgradeSubscriptionRequest struct {
	NewPlan       string       `json:"newPlan" binding:"required"`
	BillingCycle  BillingCycle `json:"billingCycle"`
	EffectiveDate string       `json:"effectiveDate"`
}

type ExtendSubscriptionRequest struct {
	Days int `json:"days"`
}

type CheckLimitsRequest struct {
	Resource string `json:"resource" binding:"required"`
}

type CheckLimitsResponse struct {
	Resource string `json:"resource"`
	Allowed  bool   `json:"allowed"`
	Current  int    `json:"current"`
	Limit    int    `json:"limit"`
}

// BillingRecord is one line of a hospital's billing history.
type BillingRecord struct {
	ID         uuid.UUID `json:"id" db:"id"`
	HospitalID uuid.UUID `json:"hospital_id" db:"hospital_id"`
	PlanName   string    `json:"plan_name" db:"plan_name"`
	Amount     float64   `json:"amount" db:"amount"`
	PeriodFrom time.Time `json:"period_from" db:"period_from"`
	PeriodTo   time.Time `json:"period_to" db:"period_to"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
