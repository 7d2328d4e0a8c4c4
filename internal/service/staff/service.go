package staff

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/repository"
	authsvc "github.com/anshuman/hospital-api/internal/service/auth"
	"github.com/anshuman/hospital-api/internal/service/subscription"
	apperrors "github.com/anshuman/hospital-api/pkg/errors"
	"github.com/anshuman/hospital-api/pkg/security"
	"github.com/anshuman/hospital-api/pkg/validator"
)

// Roles assignable from the staff screen. The admin role is created only
// through hospital registration.
var assignableRoles = []model.StaffRole{
	{Value: model.RoleDoctor, Label: "Doctor", Description: "Clinical staff with appointment schedules"},
	{Value: model.RoleNurse, Label: "Nurse", Description: "Nursing and ward staff"},
	{Value: model.RoleReceptionist, Label: "Receptionist", Description: "Front desk and appointment booking"},
	{Value: model.RolePharmacist, Label: "Pharmacist", Description: "Pharmacy inventory access"},
}

type Service struct {
	userRepo repository.UserRepository
	repo     repository.StaffRepository
	subSvc   *subscription.Service
	hasher   security.PasswordHasher
}

func NewService(
	userRepo repository.UserRepository,
	repo repository.StaffRepository,
	subSvc *subscription.Service,
	hasher security.PasswordHasher,
) *Service {
	return &Service{
		userRepo: userRepo,
		repo:     repo,
		subSvc:   subSvc,
		hasher:   hasher,
	}
}

func (s *Service) Roles() []model.StaffRole {
	return assignableRoles
}

// Create adds a staff user; doctors also get a clinical profile.
func (s *Service) Create(ctx context.Context, hospitalID uuid.UUID, req *model.CreateStaffRequest) (*model.StaffMember, error) {
	if !isAssignable(req.Role) {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid role %q", req.Role), nil)
	}
	if !validator.IsValidPassword(req.Password) {
		return nil, apperrors.BadRequest("password must be at least 6 characters", nil)
	}
	if req.Role == model.RoleDoctor && strings.TrimSpace(req.Specialization) == "" {
		return nil, apperrors.BadRequest("specialization is required for doctors", nil)
	}

	resource := "staff"
	if req.Role == model.RoleDoctor {
		resource = "doctors"
	}
	if limit, err := s.subSvc.CheckLimit(ctx, hospitalID, resource); err != nil {
		return nil, err
	} else if !limit.Allowed {
		return nil, apperrors.Forbidden(fmt.Sprintf("%s limit reached for current plan", resource), nil)
	}

	if existing, err := s.userRepo.GetByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperrors.Conflict("email already registered", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		HospitalID:   &hospitalID,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         req.Role,
		IsActive:     true,
		Status:       model.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	member := &model.StaffMember{User: *user}
	if req.Role == model.RoleDoctor {
		profile := &model.DoctorProfile{
			Base:            model.Base{ID: uuid.New()},
			UserID:          user.ID,
			DoctorID:        model.NewCode(model.CodePrefixDoctor),
			Specialization:  req.Specialization,
			Qualification:   req.Qualification,
			ExperienceYears: req.ExperienceYears,
			LicenseNumber:   req.LicenseNumber,
			ConsultationFee: req.ConsultationFee,
			AvailableDays:   req.AvailableDays,
			AvailableHours:  req.AvailableHours,
			IsAvailable:     true,
		}
		if err := s.repo.CreateDoctorProfile(ctx, profile); err != nil {
			return nil, err
		}
		member.DoctorProfile = profile
	}
	return member, nil
}

func (s *Service) Get(ctx context.Context, hospitalID, id uuid.UUID) (*model.StaffMember, error) {
	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.HospitalID == nil || *user.HospitalID != hospitalID || user.Role == model.RolePatient {
		return nil, apperrors.NotFound("staff member", nil)
	}

	member := &model.StaffMember{User: *user}
	if user.Role == model.RoleDoctor {
		profile, err := s.repo.GetDoctorProfile(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		member.DoctorProfile = profile
	}
	return member, nil
}

func (s *Service) Update(ctx context.Context, hospitalID, id uuid.UUID, req *model.UpdateStaffRequest) (*model.StaffMember, error) {
	member, err := s.Get(ctx, hospitalID, id)
	if err != nil {
		return nil, err
	}
	user := &member.User

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil && *req.Email != user.Email {
		if existing, err := s.userRepo.GetByEmail(ctx, *req.Email); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, apperrors.Conflict("email already registered", nil)
		}
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil && *req.Role != user.Role {
		if !isAssignable(*req.Role) {
			return nil, apperrors.BadRequest(fmt.Sprintf("invalid role %q", *req.Role), nil)
		}
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if req.Password != nil && *req.Password != "" {
		if !validator.IsValidPassword(*req.Password) {
			return nil, apperrors.BadRequest("password must be at least 6 characters", nil)
		}
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
			return nil, err
		}
	}

	if user.Role == model.RoleDoctor && member.DoctorProfile != nil {
		profile := member.DoctorProfile
		if req.Specialization != nil {
			profile.Specialization = *req.Specialization
		}
		if req.Qualification != nil {
			profile.Qualification = *req.Qualification
		}
		if req.ExperienceYears != nil {
			profile.ExperienceYears = *req.ExperienceYears
		}
		if req.ConsultationFee != nil {
			profile.ConsultationFee = *req.ConsultationFee
		}
		if req.AvailableDays != nil {
			profile.AvailableDays = *req.AvailableDays
		}
		if req.AvailableHours != nil {
			profile.AvailableHours = *req.AvailableHours
		}
		if err := s.repo.UpdateDoctorProfile(ctx, profile); err != nil {
			return nil, err
		}
	}
	return member, nil
}

// ToggleActive flips the staff member's active flag and returns the new
// state.
func (s *Service) ToggleActive(ctx context.Context, hospitalID, id uuid.UUID) (bool, error) {
	member, err := s.Get(ctx, hospitalID, id)
	if err != nil {
		return false, err
	}
	member.User.IsActive = !member.User.IsActive
	if err := s.userRepo.Update(ctx, &member.User); err != nil {
		return false, err
	}
	return member.User.IsActive, nil
}

// ResetPassword sets the staff member's password back to the temporary
// default. Only members of the caller's own hospital are reachable.
func (s *Service) ResetPassword(ctx context.Context, hospitalID, id uuid.UUID) (*model.StaffMember, string, error) {
	member, err := s.Get(ctx, hospitalID, id)
	if err != nil {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(authsvc.DefaultResetPassword)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	if err := s.userRepo.UpdatePassword(ctx, member.User.ID, hash); err != nil {
		return nil, "", err
	}
	return member, authsvc.DefaultResetPassword, nil
}

func (s *Service) Delete(ctx context.Context, hospitalID, id uuid.UUID) error {
	member, err := s.Get(ctx, hospitalID, id)
	if err != nil {
		return err
	}
	if member.User.Role == model.RoleAdmin {
		return apperrors.Forbidden("hospital admin cannot be deleted", nil)
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, hospitalID uuid.UUID, filters *model.StaffFilters) ([]*model.StaffMember, model.PageInfo, error) {
	filters.Normalize(100)
	members, total, err := s.repo.List(ctx, hospitalID, filters)
	if err != nil {
		return nil, model.PageInfo{}, err
	}
	return members, model.NewPageInfo(filters.Pagination, total), nil
}

func (s *Service) AvailableDoctors(ctx context.Context, hospitalID uuid.UUID) ([]*model.AvailableDoctor, error) {
	return s.repo.ListAvailableDoctors(ctx, hospitalID)
}

func isAssignable(role string) bool {
	for _, r := range assignableRoles {
		if r.Value == role {
			return true
		}
	}
	return false
}
