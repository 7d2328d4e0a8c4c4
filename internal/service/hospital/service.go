package hospital

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/repository"
	authsvc "github.com/anshuman/hospital-api/internal/service/auth"
	"github.com/anshuman/hospital-api/internal/service/subscription"
	apperrors "github.com/anshuman/hospital-api/pkg/errors"
	"github.com/anshuman/hospital-api/pkg/security"
	"github.com/anshuman/hospital-api/pkg/validator"
)

type Service struct {
	repo       repository.HospitalRepository
	userRepo   repository.UserRepository
	subSvc     *subscription.Service
	outboxRepo repository.OutboxRepository
	hasher     security.PasswordHasher
}

func NewService(
	repo repository.HospitalRepository,
	userRepo repository.UserRepository,
	subSvc *subscription.Service,
	outboxRepo repository.OutboxRepository,
	hasher security.PasswordHasher,
) *Service {
	return &Service{
		repo:       repo,
		userRepo:   userRepo,
		subSvc:     subSvc,
		outboxRepo: outboxRepo,
		hasher:     hasher,
	}
}

// AdminList returns the denormalized hospital rows for the platform admin
// dashboard, subscription and usage stats included.
func (s *Service) AdminList(ctx context.Context, filters *model.HospitalFilters) ([]*model.AdminHospital, int, error) {
	filters.Normalize(100)

	// The status filter runs over the derived subscription status, so the
	// rows are fetched unpaginated and the page is cut after filtering.
	fetch := *filters
	if filters.Status != "" {
		fetch.PerPage = 0
	}
	hospitals, total, err := s.repo.List(ctx, &fetch)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	out := make([]*model.AdminHospital, 0, len(hospitals))
	for _, h := range hospitals {
		row, err := s.adminRow(ctx, h, now)
		if err != nil {
			return nil, 0, err
		}
		if filters.Status != "" && row.Subscription.Status != filters.Status {
			continue
		}
		out = append(out, row)
	}
	if filters.Status != "" {
		total = len(out)
		out = model.Page(out, filters.Pagination)
	}
	return out, total, nil
}

func (s *Service) AdminGet(ctx context.Context, id uuid.UUID) (*model.AdminHospital, error) {
	h, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if h == nil || h.IsDeleted() {
		return nil, apperrors.NotFound("hospital", nil)
	}
	return s.adminRow(ctx, h, time.Now())
}

func (s *Service) adminRow(ctx context.Context, h *model.Hospital, now time.Time) (*model.AdminHospital, error) {
	row := &model.AdminHospital{
		ID:             h.ID,
		Name:           h.Name,
		Email:          h.Email,
		Phone:          h.Phone,
		Address:        h.Address,
		RegisteredDate: h.CreatedAt,
	}

	if admins, err := s.userRepo.ListByHospitalAndRole(ctx, h.ID, model.RoleAdmin); err != nil {
		return nil, err
	} else if len(admins) > 0 {
		row.LastLogin = admins[0].LastLoginAt
	}

	sub, err := s.subSvc.GetForHospital(ctx, h.ID)
	if err != nil {
		return nil, err
	}
	row.Subscription = model.HospitalSubscriptionSummary{
		Plan:       sub.PlanName,
		Status:     string(sub.Status(now)),
		MonthlyFee: sub.MonthlyFee,
		ExpiryDate: &sub.SubscriptionEnd,
	}

	stats, err := s.repo.GetStats(ctx, h.ID)
	if err != nil {
		return nil, err
	}
	stats.MonthlyRevenue = sub.MonthlyFee
	row.Stats = *stats

	return row, nil
}

// Update applies the provided fields only.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateHospitalRequest) (*model.Hospital, error) {
	h, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if h == nil || h.IsDeleted() {
		return nil, apperrors.NotFound("hospital", nil)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperrors.BadRequest("hospital name cannot be empty", nil)
		}
		h.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		if !validator.IsValidEmail(*req.Email) {
			return nil, apperrors.BadRequest("invalid email", nil)
		}
		other, err := s.repo.GetByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != h.ID {
			return nil, apperrors.Conflict("email already in use", nil)
		}
		h.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		h.Phone = *req.Phone
	}
	if req.Address != nil {
		h.Address = *req.Address
	}

	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// ChangeAdminPassword resets the hospital admin's password from the
// platform admin dashboard. Both fields must match.
func (s *Service) ChangeAdminPassword(ctx context.Context, hospitalID uuid.UUID, req *model.ChangePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return apperrors.BadRequest("passwords do not match", nil)
	}
	if !validator.IsValidPassword(req.NewPassword) {
		return apperrors.BadRequest("password must be at least 6 characters", nil)
	}

	admin, err := s.findAdmin(ctx, hospitalID)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return apperrors.Internal(err)
	}
	return s.userRepo.UpdatePassword(ctx, admin.ID, hash)
}

// ResetAdminPassword sets the hospital admin's password back to the platform
// default and returns it so the dashboard can show it once.
func (s *Service) ResetAdminPassword(ctx context.Context, hospitalID uuid.UUID) (string, error) {
	admin, err := s.findAdmin(ctx, hospitalID)
	if err != nil {
		return "", err
	}

	hash, err := s.hasher.Hash(authsvc.DefaultResetPassword)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	if err := s.userRepo.UpdatePassword(ctx, admin.ID, hash); err != nil {
		return "", err
	}
	return authsvc.DefaultResetPassword, nil
}

// Delete soft-deletes a hospital. The caller must type the hospital's exact
// name to confirm; the match is case sensitive.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, confirmationName string) error {
	h, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if h == nil || h.IsDeleted() {
		return apperrors.NotFound("hospital", nil)
	}
	if confirmationName != h.Name {
		return apperrors.BadRequest("confirmation name does not match hospital name", nil)
	}

	if err := s.repo.SoftDelete(ctx, id, time.Now()); err != nil {
		return err
	}

	s.emit(ctx, model.EventHospitalDeleted, map[string]interface{}{
		"hospital_id": id,
		"name":        h.Name,
	})
	return nil
}

// PlatformStats aggregates the header cards of the admin dashboard.
func (s *Service) PlatformStats(ctx context.Context, analyticsRepo repository.AnalyticsRepository) (*model.PlatformStats, error) {
	now := time.Now()
	stats := &model.PlatformStats{}

	total, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalHospitals = total

	active, _, err := analyticsRepo.SubscriptionCounts(ctx, nil)
	if err != nil {
		return nil, err
	}
	stats.ActiveSubscriptions = active

	revenueByPlan, err := analyticsRepo.RevenueByPlan(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, revenue := range revenueByPlan {
		stats.TotalRevenue += revenue
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	stats.TotalPatients, err = analyticsRepo.CountPatientsInWindow(ctx, nil, time.Time{}, now)
	if err != nil {
		return nil, err
	}
	stats.TotalDoctors, err = analyticsRepo.CountDoctors(ctx, nil)
	if err != nil {
		return nil, err
	}
	stats.TotalAppointments, err = analyticsRepo.CountAppointmentsInWindow(ctx, nil, time.Time{}, now)
	if err != nil {
		return nil, err
	}
	stats.TotalUsers, err = analyticsRepo.CountUsers(ctx, nil)
	if err != nil {
		return nil, err
	}
	stats.NewHospitalsThisMonth, err = s.repo.CountRegisteredSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	currRevenue, err := analyticsRepo.RevenueInWindow(ctx, nil, monthStart, now)
	if err != nil {
		return nil, err
	}
	prevRevenue, err := analyticsRepo.RevenueInWindow(ctx, nil, monthStart.AddDate(0, -1, 0), monthStart)
	if err != nil {
		return nil, err
	}
	stats.RevenueGrowth = model.GrowthRate(currRevenue, prevRevenue)

	return stats, nil
}

func (s *Service) findAdmin(ctx context.Context, hospitalID uuid.UUID) (*model.User, error) {
	admins, err := s.userRepo.ListByHospitalAndRole(ctx, hospitalID, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if len(admins) == 0 {
		return nil, apperrors.NotFound("hospital admin", nil)
	}
	return admins[0], nil
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
