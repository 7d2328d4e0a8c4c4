package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/repository"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, hospital_id, email, password_hash, first_name, last_name,
			phone, role, is_active, status, login_attempts, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.HospitalID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Role,
		user.IsActive,
		user.Status,
		user.LoginAttempts,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT * FROM users WHERE id = $1`
	var user model.User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM users WHERE LOWER(email) = LOWER($1)`
	var user model.User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmailAndHospital(ctx context.Context, email string, hospitalID uuid.UUID) (*model.User, error) {
	query := `SELECT * FROM users WHERE LOWER(email) = LOWER($1) AND hospital_id = $2`
	var user model.User
	err := r.db.GetContext(ctx, &user, query, email, hospitalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, phone = $4,
			role = $5, is_active = $6, status = $7, updated_at = $8
		WHERE id = $9
	`
	_, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Role,
		user.IsActive,
		user.Status,
		time.Now(),
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, passwordHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (r *userRepository) RecordFailedLogin(ctx context.Context, id uuid.UUID, attempts int, at time.Time) error {
	status := model.UserStatusActive
	if attempts >= model.MaxLoginAttempts {
		status = model.UserStatusLocked
	}
	query := `
		UPDATE users
		SET login_attempts = $1, last_login_attempt = $2, status = $3, updated_at = $2
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, attempts, at, status, id)
	return err
}

func (r *userRepository) ResetLoginAttempts(ctx context.Context, id uuid.UUID, loginAt time.Time) error {
	query := `
		UPDATE users
		SET login_attempts = 0, status = $1, last_login_at = $2, updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, model.UserStatusActive, loginAt, id)
	return err
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *userRepository) ListByHospitalAndRole(ctx context.Context, hospitalID uuid.UUID, role string) ([]*model.User, error) {
	query := `SELECT * FROM users WHERE hospital_id = $1 AND role = $2 ORDER BY created_at ASC`
	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, hospitalID, role); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) CountByRole(ctx context.Context, hospitalID uuid.UUID, roles ...string) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE hospital_id = $1 AND role = ANY($2) AND is_active = TRUE`
	var count int
	err := r.db.GetContext(ctx, &count, query, hospitalID, pq.Array(roles))
	return count, err
}
