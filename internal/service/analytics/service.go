package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/repository"
	apperrors "github.com/anshuman/hospital-api/pkg/errors"
)

// Service builds the analytics reports for both surfaces: the platform admin
// console (nil hospitalID) and the per-hospital dashboards. Reports are cached
// per scope and period; DemoMode substitutes canned numbers when a fresh
// install has no data so dashboards still render.
type Service struct {
	repo     repository.AnalyticsRepository
	cache    *cache.Cache
	demoMode bool
}

type Config struct {
	CacheTTL time.Duration
	DemoMode bool
}

func NewService(repo repository.AnalyticsRepository, cfg Config) *Service {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		repo:     repo,
		cache:    cache.New(ttl, 2*ttl),
		demoMode: cfg.DemoMode,
	}
}

func cacheKey(hospitalID *uuid.UUID, report, period string) string {
	scope := "platform"
	if hospitalID != nil {
		scope = hospitalID.String()
	}
	return scope + ":" + report + ":" + period
}

func (s *Service) Overview(ctx context.Context, hospitalID *uuid.UUID, period string) (*model.AnalyticsOverview, error) {
	key := cacheKey(hospitalID, "overview", period)
	if cached, found := s.cache.Get(key); found {
		return cached.(*model.AnalyticsOverview), nil
	}

	start, end, prevStart, prevEnd, err := model.PeriodWindow(period, time.Now())
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), nil)
	}

	revenue, err := s.repo.RevenueInWindow(ctx, hospitalID, start, end)
	if err != nil {
		return nil, err
	}
	prevRevenue, err := s.repo.RevenueInWindow(ctx, hospitalID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}
	patients, err := s.repo.CountPatientsInWindow(ctx, hospitalID, start, end)
	if err != nil {
		return nil, err
	}
	prevPatients, err := s.repo.CountPatientsInWindow(ctx, hospitalID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}
	appointments, err := s.repo.CountAppointmentsInWindow(ctx, hospitalID, start, end)
	if err != nil {
		return nil, err
	}
	prevAppointments, err := s.repo.CountAppointmentsInWindow(ctx, hospitalID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}
	doctors, err := s.repo.CountDoctors(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	if s.demoMode && revenue == 0 && patients == 0 && appointments == 0 {
		return model.DemoOverview(period), nil
	}

	overview := &model.AnalyticsOverview{
		Period:            period,
		TotalRevenue:      revenue,
		TotalPatients:     patients,
		TotalDoctors:      doctors,
		TotalAppointments: appointments,
		RevenueGrowth:     model.GrowthRate(revenue, prevRevenue),
		PatientGrowth:     model.GrowthRate(float64(patients), float64(prevPatients)),
		AppointmentGrowth: model.GrowthRate(float64(appointments), float64(prevAppointments)),
	}
	s.cache.SetDefault(key, overview)
	return overview, nil
}

func (s *Service) Appointments(ctx context.Context, hospitalID *uuid.UUID, period string) (*model.AppointmentAnalytics, error) {
	key := cacheKey(hospitalID, "appointments", period)
	if cached, found := s.cache.Get(key); found {
		return cached.(*model.AppointmentAnalytics), nil
	}

	start, end, prevStart, prevEnd, err := model.PeriodWindow(period, time.Now())
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), nil)
	}

	total, err := s.repo.CountAppointmentsInWindow(ctx, hospitalID, start, end)
	if err != nil {
		return nil, err
	}
	prevTotal, err := s.repo.CountAppointmentsInWindow(ctx, hospitalID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.AppointmentsByStatus(ctx, hospitalID, start, end)
	if err != nil {
		return nil, err
	}
	byType, err := s.repo.AppointmentsByType(ctx, hospitalID, start, end)
	if err != nil {
		return nil, err
	}
	byDay, err := s.repo.AppointmentsByDay(ctx, hospitalID, start, end)
	if err != nil {
		return nil, err
	}

	report := &model.AppointmentAnalytics{
		Period:   period,
		Total:    total,
		Growth:   model.GrowthRate(float64(total), float64(prevTotal)),
		ByDay:    byDay,
		ByType:   byType,
		ByStatus: byStatus,
	}
	for _, lc := range byStatus {
		switch model.AppointmentStatus(lc.Label) {
		case model.AppointmentStatusCompleted:
			report.Completed = lc.Count
		case model.AppointmentStatusCancelled:
			report.Cancelled = lc.Count
		case model.AppointmentStatusNoShow:
			report.NoShow = lc.Count
		}
	}
	s.cache.SetDefault(key, report)
	return report, nil
}

func (s *Service) Patients(ctx context.Context, hospitalID *uuid.UUID, period string) (*model.PatientAnalytics, error) {
	key := cacheKey(hospitalID, "patients", period)
	if cached, found := s.cache.Get(key); found {
		return cached.(*model.PatientAnalytics), nil
	}

	start, end, prevStart, prevEnd, err := model.PeriodWindow(period, time.Now())
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), nil)
	}

	newInPeriod, err := s.repo.CountPatientsInWindow(ctx, hospitalID, start, end)
	if err != nil {
		return nil, err
	}
	prevNew, err := s.repo.CountPatientsInWindow(ctx, hospitalID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}
	byGender, err := s.repo.PatientsByGender(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	byBloodGroup, err := s.repo.PatientsByBloodGroup(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	byAgeGroup, err := s.repo.PatientsByAgeGroup(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	trend, err := s.repo.PatientRegistrationTrend(ctx, hospitalID, start, end)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, lc := range byGender {
		total += lc.Count
	}

	report := &model.PatientAnalytics{
		Period:       period,
		Total:        total,
		NewInPeriod:  newInPeriod,
		Growth:       model.GrowthRate(float64(newInPeriod), float64(prevNew)),
		ByGender:     byGender,
		ByBloodGroup: byBloodGroup,
		ByAgeGroup:   byAgeGroup,
		Registration: trend,
	}
	s.cache.SetDefault(key, report)
	return report, nil
}

func (s *Service) Doctors(ctx context.Context, hospitalID *uuid.UUID, period string) (*model.DoctorAnalytics, error) {
	key := cacheKey(hospitalID, "doctors", period)
	if cached, found := s.cache.Get(key); found {
		return cached.(*model.DoctorAnalytics), nil
	}

	start, end, _, _, err := model.PeriodWindow(period, time.Now())
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), nil)
	}

	total, err := s.repo.CountDoctors(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	available, err := s.repo.CountAvailableDoctors(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	bySpecialization, err := s.repo.DoctorsBySpecialization(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	topBookings, err := s.repo.TopDoctorsByAppointments(ctx, hospitalID, start, end, 10)
	if err != nil {
		return nil, err
	}

	report := &model.DoctorAnalytics{
		Period:           period,
		Total:            total,
		Available:        available,
		BySpecialization: bySpecialization,
		TopBookings:      topBookings,
	}
	s.cache.SetDefault(key, report)
	return report, nil
}

func (s *Service) Revenue(ctx context.Context, hospitalID *uuid.UUID, period string) (*model.RevenueAnalytics, error) {
	key := cacheKey(hospitalID, "revenue", period)
	if cached, found := s.cache.Get(key); found {
		return cached.(*model.RevenueAnalytics), nil
	}

	start, end, prevStart, prevEnd, err := model.PeriodWindow(period, time.Now())
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), nil)
	}

	revenue, err := s.repo.RevenueInWindow(ctx, hospitalID, start, end)
	if err != nil {
		return nil, err
	}
	prevRevenue, err := s.repo.RevenueInWindow(ctx, hospitalID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}
	byPlan, err := s.repo.RevenueByPlan(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	trend, err := s.repo.RevenueMonthlyTrend(ctx, hospitalID, start, end)
	if err != nil {
		return nil, err
	}
	active, trial, err := s.repo.SubscriptionCounts(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	report := &model.RevenueAnalytics{
		Period:       period,
		TotalRevenue: revenue,
		Growth:       model.GrowthRate(revenue, prevRevenue),
		ByPlan:       sortedPlanRevenue(byPlan),
		MonthlyTrend: trend,
		ActiveSubs:   active,
		TrialSubs:    trial,
	}
	s.cache.SetDefault(key, report)
	return report, nil
}

// Invalidate drops all cached reports. Called after writes that move the
// numbers, like subscription upgrades.
func (s *Service) Invalidate() {
	s.cache.Flush()
}

func sortedPlanRevenue(byPlan map[string]float64) []*model.PlanRevenue {
	out := make([]*model.PlanRevenue, 0, len(byPlan))
	for plan, revenue := range byPlan {
		out = append(out, &model.PlanRevenue{Plan: plan, Revenue: revenue})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return out
}
