package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/repository"
)

type staffRepository struct {
	BaseRepository
}

func NewStaffRepository(base BaseRepository) repository.StaffRepository {
	return &staffRepository{base}
}

func (r *staffRepository) CreateDoctorProfile(ctx context.Context, profile *model.DoctorProfile) error {
	query := `
		INSERT INTO doctor_profiles (
			id, user_id, doctor_id, specialization, qualification, experience_years,
			license_number, consultation_fee, available_days, available_hours,
			is_available, rating, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.UserID,
		profile.DoctorID,
		profile.Specialization,
		profile.Qualification,
		profile.ExperienceYears,
		profile.LicenseNumber,
		profile.ConsultationFee,
		profile.AvailableDays,
		profile.AvailableHours,
		profile.IsAvailable,
		profile.Rating,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor profile: %w", err)
	}
	return nil
}

func (r *staffRepository) GetDoctorProfile(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	query := `SELECT * FROM doctor_profiles WHERE user_id = $1`
	var profile model.DoctorProfile
	err := r.db.GetContext(ctx, &profile, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor profile: %w", err)
	}
	return &profile, nil
}

func (r *staffRepository) UpdateDoctorProfile(ctx context.Context, profile *model.DoctorProfile) error {
	query := `
		UPDATE doctor_profiles
		SET specialization = $1, qualification = $2, experience_years = $3,
			license_number = $4, consultation_fee = $5, available_days = $6,
			available_hours = $7, is_available = $8, updated_at = $9
		WHERE user_id = $10
	`
	_, err := r.db.ExecContext(ctx, query,
		profile.Specialization,
		profile.Qualification,
		profile.ExperienceYears,
		profile.LicenseNumber,
		profile.ConsultationFee,
		profile.AvailableDays,
		profile.AvailableHours,
		profile.IsAvailable,
		time.Now(),
		profile.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor profile: %w", err)
	}
	return nil
}

func (r *staffRepository) List(ctx context.Context, hospitalID uuid.UUID, filters *model.StaffFilters) ([]*model.StaffMember, int, error) {
	conditions := []string{"hospital_id = $1", "role <> 'patient'"}
	args := []interface{}{hospitalID}
	idx := 2

	if filters.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", idx))
		args = append(args, filters.Role)
		idx++
	}
	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", idx, idx, idx))
		args = append(args, "%"+filters.Search+"%")
		idx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count staff: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT * FROM users %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, idx, idx+1,
	)
	args = append(args, filters.PerPage, filters.Offset())

	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list staff: %w", err)
	}

	members := make([]*model.StaffMember, 0, len(users))
	for _, u := range users {
		member := &model.StaffMember{User: *u}
		if u.Role == model.RoleDoctor {
			profile, err := r.GetDoctorProfile(ctx, u.ID)
			if err != nil {
				return nil, 0, err
			}
			member.DoctorProfile = profile
		}
		members = append(members, member)
	}
	return members, total, nil
}

func (r *staffRepository) ListAvailableDoctors(ctx context.Context, hospitalID uuid.UUID) ([]*model.AvailableDoctor, error) {
	query := `
		SELECT u.id AS doctor_user_id,
			dp.doctor_id,
			u.first_name || ' ' || u.last_name AS full_name,
			dp.specialization,
			dp.consultation_fee,
			dp.available_days,
			dp.available_hours
		FROM users u
		JOIN doctor_profiles dp ON dp.user_id = u.id
		WHERE u.hospital_id = $1
			AND u.role = 'doctor'
			AND u.is_active = TRUE
			AND dp.is_available = TRUE
		ORDER BY full_name
	`
	rows, err := r.db.QueryxContext(ctx, query, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list available doctors: %w", err)
	}
	defer rows.Close()

	var doctors []*model.AvailableDoctor
	for rows.Next() {
		var d model.AvailableDoctor
		if err := rows.Scan(
			&d.UserID, &d.DoctorID, &d.FullName, &d.Specialization,
			&d.ConsultationFee, &d.AvailableDays, &d.AvailableHours,
		); err != nil {
			return nil, fmt.Errorf("failed to scan doctor: %w", err)
		}
		doctors = append(doctors, &d)
	}
	return doctors, rows.Err()
}
