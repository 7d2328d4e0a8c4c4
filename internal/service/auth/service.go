package auth

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/repository"
	"github.com/anshuman/hospital-api/internal/service/subscription"
	"github.com/anshuman/hospital-api/pkg/auth"
	apperrors "github.com/anshuman/hospital-api/pkg/errors"
	"github.com/anshuman/hospital-api/pkg/security"
	"github.com/anshuman/hospital-api/pkg/validator"
)

// DefaultResetPassword is what staff and admin passwords are reset to; the
// user is expected to change it on first login.
const DefaultResetPassword = "123"

type Service struct {
	userRepo     repository.UserRepository
	hospitalRepo repository.HospitalRepository
	outboxRepo   repository.OutboxRepository
	subSvc       *subscription.Service
	jwtSvc       auth.JWTService
	hasher       security.PasswordHasher
}

func NewService(
	userRepo repository.UserRepository,
	hospitalRepo repository.HospitalRepository,
	outboxRepo repository.OutboxRepository,
	subSvc *subscription.Service,
	jwtSvc auth.JWTService,
	hasher security.PasswordHasher,
) *Service {
	return &Service{
		userRepo:     userRepo,
		hospitalRepo: hospitalRepo,
		outboxRepo:   outboxRepo,
		subSvc:       subSvc,
		jwtSvc:       jwtSvc,
		hasher:       hasher,
	}
}

// RegisterHospital onboards a hospital: the hospital row, its admin user and
// a 30-day trial subscription, atomically from the caller's point of view.
func (s *Service) RegisterHospital(ctx context.Context, req *model.RegisterHospitalRequest) (*model.Hospital, *model.User, error) {
	if !validator.IsValidEmail(req.AdminEmail) {
		return nil, nil, apperrors.BadRequest("invalid admin email", nil)
	}
	if !validator.IsValidPassword(req.AdminPassword) {
		return nil, nil, apperrors.BadRequest("password must be at least 6 characters", nil)
	}

	hospitalEmail := req.HospitalEmail
	if hospitalEmail == "" {
		hospitalEmail = req.AdminEmail
	}
	hospitalEmail = strings.ToLower(strings.TrimSpace(hospitalEmail))

	existing, err := s.hospitalRepo.GetByEmail(ctx, hospitalEmail)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, apperrors.Conflict("hospital email already registered", nil)
	}
	if u, err := s.userRepo.GetByEmail(ctx, req.AdminEmail); err != nil {
		return nil, nil, err
	} else if u != nil {
		return nil, nil, apperrors.Conflict("admin email already registered", nil)
	}

	license := req.LicenseNumber
	if license == "" {
		license = model.NewCode(model.CodePrefixLicense)
	}

	hospital := &model.Hospital{
		Base:          model.Base{ID: uuid.New()},
		Name:          strings.TrimSpace(req.HospitalName),
		Address:       req.HospitalAddress,
		Phone:         req.HospitalPhone,
		Email:         hospitalEmail,
		LicenseNumber: license,
		IsActive:      true,
	}
	if err := s.hospitalRepo.Create(ctx, hospital); err != nil {
		return nil, nil, err
	}

	hash, err := s.hasher.Hash(req.AdminPassword)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	admin := &model.User{
		Base:         model.Base{ID: uuid.New()},
		HospitalID:   &hospital.ID,
		Email:        strings.ToLower(strings.TrimSpace(req.AdminEmail)),
		PasswordHash: hash,
		FirstName:    req.AdminFirstName,
		LastName:     req.AdminLastName,
		Phone:        req.AdminPhone,
		Role:         model.RoleAdmin,
		IsActive:     true,
		Status:       model.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return nil, nil, err
	}

	trial := s.subSvc.NewTrialSubscription(hospital.ID, time.Now())
	if err := s.subSvc.CreateSubscription(ctx, trial); err != nil {
		return nil, nil, err
	}

	s.emit(ctx, model.EventHospitalRegistered, map[string]interface{}{
		"hospital_id": hospital.ID,
		"name":        hospital.Name,
	})
	return hospital, admin, nil
}

// Login authenticates a hospital user. Five consecutive failures lock the
// account for fifteen minutes.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.HospitalLoginResponse, error) {
	email := req.Email
	if email == "" {
		email = req.Username
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.BadRequest("email is required", nil)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.Unauthorized(nil)
	}

	now := time.Now()
	if user.Status == model.UserStatusLocked {
		if user.LastLoginAttempt != nil && now.Sub(*user.LastLoginAttempt) < model.LockoutDuration {
			return nil, apperrors.Forbidden("account locked, try again later", nil)
		}
		// Lockout window elapsed; counter restarts with this attempt.
		user.LoginAttempts = 0
	}

	if !user.IsActive {
		return nil, apperrors.Forbidden("account is deactivated", nil)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		attempts := user.LoginAttempts + 1
		if err := s.userRepo.RecordFailedLogin(ctx, user.ID, attempts, now); err != nil {
			return nil, err
		}
		if attempts >= model.MaxLoginAttempts {
			return nil, apperrors.Forbidden("account locked, try again later", nil)
		}
		return nil, apperrors.Unauthorized(nil)
	}

	if err := s.userRepo.ResetLoginAttempts(ctx, user.ID, now); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	resp := &model.HospitalLoginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user,
	}
	if user.HospitalID != nil {
		hospital, err := s.hospitalRepo.Get(ctx, *user.HospitalID)
		if err != nil {
			return nil, err
		}
		if hospital == nil || hospital.IsDeleted() || !hospital.IsActive {
			return nil, apperrors.Forbidden("hospital is deactivated", nil)
		}
		resp.Hospital = hospital

		sub, err := s.subSvc.CurrentForHospital(ctx, *user.HospitalID)
		if err != nil {
			return nil, err
		}
		if sub == nil || sub.SubscriptionEnd.Before(now) {
			return nil, apperrors.Forbidden("hospital subscription has expired", nil)
		}
		resp.Subscription = sub
	}
	return resp, nil
}

// Profile returns the authenticated user's account with its tenant context.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*model.User, *model.Hospital, *model.Subscription, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	if user == nil {
		return nil, nil, nil, apperrors.NotFound("user", nil)
	}

	var hospital *model.Hospital
	var sub *model.Subscription
	if user.HospitalID != nil {
		hospital, err = s.hospitalRepo.Get(ctx, *user.HospitalID)
		if err != nil {
			return nil, nil, nil, err
		}
		sub, err = s.subSvc.GetForHospital(ctx, *user.HospitalID)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return user, hospital, sub, nil
}

// Refresh trades a valid refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperrors.Unauthorized(nil)
	}
	return s.issueTokens(user)
}

// ChangePassword verifies the current password before applying the new one.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, newPassword string) error {
	if !validator.IsValidPassword(newPassword) {
		return apperrors.BadRequest("password must be at least 6 characters", nil)
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("user", nil)
	}
	if err := s.hasher.Compare(user.PasswordHash, current); err != nil {
		return apperrors.BadRequest("current password is incorrect", nil)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.Internal(err)
	}
	return s.userRepo.UpdatePassword(ctx, userID, hash)
}

func (s *Service) issueTokens(user *model.User) (*model.TokenResponse, error) {
	claims := &auth.Claims{
		UserID:     user.ID,
		HospitalID: user.HospitalID,
		Email:      user.Email,
		Role:       user.Role,
	}
	access, err := s.jwtSvc.GenerateAccessToken(claims)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	refresh, err := s.jwtSvc.GenerateRefreshToken(claims)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.TokenResponse{AccessToken: access, RefreshToken: refresh}, nil
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
