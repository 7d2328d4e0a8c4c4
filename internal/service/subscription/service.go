package subscription

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/repository"
	apperrors "github.com/anshuman/hospital-api/pkg/errors"
)

// AnnualDiscount is applied to the monthly fee when a hospital commits to
// annual billing.
const AnnualDiscount = 0.8

const TrialDays = 30

// planCatalog is the single source of truth for plan tiers. Every screen
// that renders plans reads this catalog through the service.
var planCatalog = []model.Plan{
	{
		Name:        "trial",
		MonthlyFee:  0,
		MaxPatients: 50,
		MaxDoctors:  3,
		MaxStaff:    5,
		Features:    []string{"basic_management", "appointments", "medical_records"},
	},
	{
		Name:        "basic",
		MonthlyFee:  2999.0,
		MaxPatients: 25,
		MaxDoctors:  2,
		MaxStaff:    5,
		Features:    []string{"appointments", "billing", "records", "email_support", "mobile_app"},
	},
	{
		Name:        "standard",
		MonthlyFee:  7499.0,
		MaxPatients: 100,
		MaxDoctors:  10,
		MaxStaff:    20,
		Features: []string{
			"appointments", "billing", "records", "email_support", "mobile_app",
			"analytics", "whatsapp_notifications", "data_export", "priority_support",
			"patient_portal", "inventory",
		},
	},
	{
		Name:        "enterprise",
		MonthlyFee:  17999.0,
		MaxPatients: model.Unlimited,
		MaxDoctors:  model.Unlimited,
		MaxStaff:    model.Unlimited,
		Features: []string{
			"appointments", "billing", "records", "email_support", "mobile_app",
			"analytics", "whatsapp_notifications", "data_export", "priority_support",
			"patient_portal", "inventory", "role_based_access", "advanced_analytics",
			"api_access", "multi_location", "custom_integrations", "account_manager", "sla",
		},
	},
}

type Service struct {
	repo         repository.SubscriptionRepository
	hospitalRepo repository.HospitalRepository
	patientRepo  repository.PatientRepository
	userRepo     repository.UserRepository
	outboxRepo   repository.OutboxRepository
}

func NewService(
	repo repository.SubscriptionRepository,
	hospitalRepo repository.HospitalRepository,
	patientRepo repository.PatientRepository,
	userRepo repository.UserRepository,
	outboxRepo repository.OutboxRepository,
) *Service {
	return &Service{
		repo:         repo,
		hospitalRepo: hospitalRepo,
		patientRepo:  patientRepo,
		userRepo:     userRepo,
		outboxRepo:   outboxRepo,
	}
}

// Catalog returns every plan tier with the annual fee derived from the
// monthly fee and the annual discount.
func (s *Service) Catalog() []model.Plan {
	plans := make([]model.Plan, len(planCatalog))
	copy(plans, planCatalog)
	for i := range plans {
		plans[i].AnnualFee = plans[i].MonthlyFee * AnnualDiscount * 12
	}
	return plans
}

func (s *Service) GetPlan(name string) (*model.Plan, error) {
	for _, p := range s.Catalog() {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, apperrors.BadRequest(fmt.Sprintf("invalid plan %q", name), nil)
}

// EffectiveMonthlyFee is the monthly-equivalent fee for the plan under the
// given billing cycle.
func EffectiveMonthlyFee(plan *model.Plan, cycle model.BillingCycle) float64 {
	if cycle == model.BillingAnnual {
		return plan.MonthlyFee * AnnualDiscount
	}
	return plan.MonthlyFee
}

// NewTrialSubscription builds the 30-day trial created at hospital
// registration.
func (s *Service) NewTrialSubscription(hospitalID uuid.UUID, now time.Time) *model.Subscription {
	trial, _ := s.GetPlan("trial")
	return &model.Subscription{
		Base:              model.Base{ID: uuid.New()},
		HospitalID:        hospitalID,
		PlanName:          trial.Name,
		MaxPatients:       trial.MaxPatients,
		MaxDoctors:        trial.MaxDoctors,
		MaxStaff:          trial.MaxStaff,
		Features:          trial.Features,
		SubscriptionStart: now,
		SubscriptionEnd:   now.AddDate(0, 0, TrialDays),
		IsActive:          true,
		MonthlyFee:        0,
		BillingCycle:      model.BillingMonthly,
	}
}

// CreateSubscription persists a subscription built elsewhere, such as the
// registration trial.
func (s *Service) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	return s.repo.Create(ctx, sub)
}

// GetForHospital returns the hospital's current subscription, creating a
// default basic one when the hospital has none yet.
func (s *Service) GetForHospital(ctx context.Context, hospitalID uuid.UUID) (*model.Subscription, error) {
	sub, err := s.repo.GetByHospital(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		return sub, nil
	}

	basic, _ := s.GetPlan("basic")
	now := time.Now()
	sub = &model.Subscription{
		Base:              model.Base{ID: uuid.New()},
		HospitalID:        hospitalID,
		PlanName:          basic.Name,
		MaxPatients:       basic.MaxPatients,
		MaxDoctors:        basic.MaxDoctors,
		MaxStaff:          basic.MaxStaff,
		Features:          basic.Features,
		SubscriptionStart: now,
		SubscriptionEnd:   now.AddDate(0, 0, 30),
		IsActive:          true,
		MonthlyFee:        basic.MonthlyFee,
		BillingCycle:      model.BillingMonthly,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// CurrentForHospital returns the hospital's subscription as stored, without
// the provisioning fallback. Nil with no error means the hospital has none.
func (s *Service) CurrentForHospital(ctx context.Context, hospitalID uuid.UUID) (*model.Subscription, error) {
	return s.repo.GetByHospital(ctx, hospitalID)
}

// Upgrade deactivates the current subscription and starts a new one on the
// requested plan.
func (s *Service) Upgrade(ctx context.Context, hospitalID uuid.UUID, req *model.UpgradeSubscriptionRequest) (*model.Subscription, error) {
	plan, err := s.GetPlan(req.NewPlan)
	if err != nil {
		return nil, err
	}

	cycle := req.BillingCycle
	if cycle == "" {
		cycle = model.BillingMonthly
	}
	if cycle != model.BillingMonthly && cycle != model.BillingAnnual {
		return nil, apperrors.BadRequest("billing cycle must be monthly or annual", nil)
	}

	if err := s.repo.DeactivateForHospital(ctx, hospitalID); err != nil {
		return nil, err
	}

	now := time.Now()
	end := now.AddDate(0, 1, 0)
	if cycle == model.BillingAnnual {
		end = now.AddDate(1, 0, 0)
	}

	sub := &model.Subscription{
		Base:              model.Base{ID: uuid.New()},
		HospitalID:        hospitalID,
		PlanName:          plan.Name,
		MaxPatients:       plan.MaxPatients,
		MaxDoctors:        plan.MaxDoctors,
		MaxStaff:          plan.MaxStaff,
		Features:          plan.Features,
		SubscriptionStart: now,
		SubscriptionEnd:   end,
		IsActive:          true,
		MonthlyFee:        EffectiveMonthlyFee(plan, cycle),
		BillingCycle:      cycle,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	amount := sub.MonthlyFee
	if cycle == model.BillingAnnual {
		amount = sub.MonthlyFee * 12
	}
	rec := &model.BillingRecord{
		ID:         uuid.New(),
		HospitalID: hospitalID,
		PlanName:   plan.Name,
		Amount:     amount,
		PeriodFrom: now,
		PeriodTo:   end,
		Status:     "paid",
	}
	if err := s.repo.CreateBillingRecord(ctx, rec); err != nil {
		return nil, err
	}

	s.emit(ctx, model.EventSubscriptionUpgraded, map[string]interface{}{
		"hospital_id": hospitalID,
		"plan":        plan.Name,
		"cycle":       cycle,
	})
	return sub, nil
}

// Extend pushes the expiry date out by the given number of days.
func (s *Service) Extend(ctx context.Context, hospitalID uuid.UUID, days int) (*model.Subscription, error) {
	if days < 1 {
		return nil, apperrors.BadRequest("days must be at least 1", nil)
	}
	sub, err := s.repo.GetByHospital(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperrors.NotFound("subscription", nil)
	}

	sub.SubscriptionEnd = sub.SubscriptionEnd.AddDate(0, 0, days)
	sub.IsActive = true
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.emit(ctx, model.EventSubscriptionExtended, map[string]interface{}{
		"hospital_id": hospitalID,
		"days":        days,
	})
	return sub, nil
}

// Usage reports resource consumption against plan limits. Unlimited
// resources report zero percent.
func (s *Service) Usage(ctx context.Context, hospitalID uuid.UUID) (*model.UsageStats, error) {
	sub, err := s.GetForHospital(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	patients, err := s.patientRepo.Count(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	doctors, err := s.userRepo.CountByRole(ctx, hospitalID, model.RoleDoctor)
	if err != nil {
		return nil, err
	}
	staff, err := s.userRepo.CountByRole(ctx, hospitalID,
		model.RoleNurse, model.RoleReceptionist, model.RolePharmacist)
	if err != nil {
		return nil, err
	}

	return &model.UsageStats{
		Patients: resourceUsage(patients, sub.MaxPatients),
		Doctors:  resourceUsage(doctors, sub.MaxDoctors),
		Staff:    resourceUsage(staff, sub.MaxStaff),
	}, nil
}

// CheckLimit reports whether one more of the given resource fits under the
// hospital's plan.
func (s *Service) CheckLimit(ctx context.Context, hospitalID uuid.UUID, resource string) (*model.CheckLimitsResponse, error) {
	usage, err := s.Usage(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	var u model.ResourceUsage
	switch resource {
	case "patients":
		u = usage.Patients
	case "doctors":
		u = usage.Doctors
	case "staff":
		u = usage.Staff
	default:
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown resource %q", resource), nil)
	}

	allowed := u.Limit == model.Unlimited || u.Current < u.Limit
	return &model.CheckLimitsResponse{
		Resource: resource,
		Allowed:  allowed,
		Current:  u.Current,
		Limit:    u.Limit,
	}, nil
}

// AdminList builds the denormalized rows for the admin subscriptions
// dashboard.
func (s *Service) AdminList(ctx context.Context, filters *model.SubscriptionFilters) ([]*model.AdminSubscription, int, error) {
	filters.Normalize(100)

	// The status filter runs over the derived status, so rows are fetched
	// unpaginated and the page is cut after filtering.
	fetch := *filters
	if filters.Status != "" {
		fetch.PerPage = 0
	}
	subs, total, err := s.repo.List(ctx, &fetch)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	out := make([]*model.AdminSubscription, 0, len(subs))
	for _, sub := range subs {
		status := sub.Status(now)
		if filters.Status != "" && string(status) != filters.Status {
			continue
		}

		hospital, err := s.hospitalRepo.Get(ctx, sub.HospitalID)
		if err != nil {
			return nil, 0, err
		}
		name := ""
		if hospital != nil {
			name = hospital.Name
		}

		patients, _ := s.patientRepo.Count(ctx, sub.HospitalID)
		doctors, _ := s.userRepo.CountByRole(ctx, sub.HospitalID, model.RoleDoctor)

		out = append(out, &model.AdminSubscription{
			ID:           sub.ID,
			HospitalID:   sub.HospitalID,
			HospitalName: name,
			CurrentPlan:  sub.PlanName,
			Status:       status,
			MonthlyFee:   sub.MonthlyFee,
			BillingCycle: sub.BillingCycle,
			StartDate:    sub.SubscriptionStart,
			ExpiryDate:   sub.SubscriptionEnd,
			AutoRenew:    sub.IsActive && sub.MonthlyFee > 0,
			Usage: model.SubscriptionUsage{
				Patients: patients,
				Doctors:  doctors,
			},
			Limits: model.SubscriptionLimits{
				Patients: sub.MaxPatients,
				Doctors:  sub.MaxDoctors,
			},
		})
	}
	if filters.Status != "" {
		total = len(out)
		out = model.Page(out, filters.Pagination)
	}
	return out, total, nil
}

func (s *Service) BillingHistory(ctx context.Context, hospitalID uuid.UUID) ([]*model.BillingRecord, error) {
	return s.repo.ListBillingRecords(ctx, hospitalID)
}

// DaysRemaining is clamped at zero for expired subscriptions.
func DaysRemaining(sub *model.Subscription, now time.Time) int {
	days := int(sub.SubscriptionEnd.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func resourceUsage(current, limit int) model.ResourceUsage {
	u := model.ResourceUsage{Current: current, Limit: limit}
	if limit > 0 {
		u.Percentage = float64(current) / float64(limit) * 100
	}
	return u
}

func (s *Service) emit(ctx context.Context, eventType string, payload map[string]interface{}) {
	if s.outboxRepo == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	// Best effort; event loss here is acceptable.
	_ = s.outboxRepo.Create(ctx, &model.OutboxEvent{EventType: eventType, Payload: raw})
}
