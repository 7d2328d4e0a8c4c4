package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
	apperrors "github.com/anshuman/hospital-api/pkg/errors"
)

// SuperAdminCredentials provisions the platform admin account at startup.
type SuperAdminCredentials struct {
	Username string
	Email    string
	Password string
}

// EnsureSuperAdmin creates the platform admin user on first boot. An
// existing account is left untouched so password changes survive restarts.
func (s *Service) EnsureSuperAdmin(ctx context.Context, creds SuperAdminCredentials) error {
	if creds.Email == "" || creds.Password == "" {
		return apperrors.BadRequest("super admin email and password must be configured", nil)
	}

	existing, err := s.userRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := s.hasher.Hash(creds.Password)
	if err != nil {
		return apperrors.Internal(err)
	}

	admin := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Email:        strings.ToLower(creds.Email),
		PasswordHash: hash,
		FirstName:    creds.Username,
		LastName:     "Platform Admin",
		Role:         model.RolePlatformAdmin,
		IsActive:     true,
		Status:       model.UserStatusActive,
	}
	return s.userRepo.Create(ctx, admin)
}

// AdminLogin authenticates the platform admin. The username maps to the
// configured account; lockout rules apply the same as hospital logins.
func (s *Service) AdminLogin(ctx context.Context, username, password string, creds SuperAdminCredentials) (*model.TokenResponse, *model.User, error) {
	if username != creds.Username {
		return nil, nil, apperrors.Unauthorized(nil)
	}

	user, err := s.userRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || user.Role != model.RolePlatformAdmin {
		return nil, nil, apperrors.Unauthorized(nil)
	}

	now := time.Now()
	if user.Status == model.UserStatusLocked {
		if user.LastLoginAttempt != nil && now.Sub(*user.LastLoginAttempt) < model.LockoutDuration {
			return nil, nil, apperrors.Forbidden("account locked, try again later", nil)
		}
		user.LoginAttempts = 0
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		attempts := user.LoginAttempts + 1
		if err := s.userRepo.RecordFailedLogin(ctx, user.ID, attempts, now); err != nil {
			return nil, nil, err
		}
		return nil, nil, apperrors.Unauthorized(nil)
	}

	if err := s.userRepo.ResetLoginAttempts(ctx, user.ID, now); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}
