package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/repository"
)

type hospitalRepository struct {
	BaseRepository
}

func NewHospitalRepository(base BaseRepository) repository.HospitalRepository {
	return &hospitalRepository{base}
}

func (r *hospitalRepository) Create(ctx context.Context, hospital *model.Hospital) error {
	query := `
		INSERT INTO hospitals (id, name, address, phone, email, license_number, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	hospital.CreatedAt = time.Now()
	hospital.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		hospital.ID,
		hospital.Name,
		hospital.Address,
		hospital.Phone,
		hospital.Email,
		hospital.LicenseNumber,
		hospital.IsActive,
		hospital.CreatedAt,
		hospital.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create hospital: %w", err)
	}
	return nil
}

func (r *hospitalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	query := `SELECT * FROM hospitals WHERE id = $1`
	var hospital model.Hospital
	err := r.db.GetContext(ctx, &hospital, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hospital: %w", err)
	}
	return &hospital, nil
}

func (r *hospitalRepository) GetByEmail(ctx context.Context, email string) (*model.Hospital, error) {
	query := `SELECT * FROM hospitals WHERE LOWER(email) = LOWER($1)`
	var hospital model.Hospital
	err := r.db.GetContext(ctx, &hospital, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hospital by email: %w", err)
	}
	return &hospital, nil
}

func (r *hospitalRepository) Update(ctx context.Context, hospital *model.Hospital) error {
	query := `
		UPDATE hospitals
		SET name = $1, address = $2, phone = $3, email = $4, license_number = $5, is_active = $6, updated_at = $7
		WHERE id = $8
	`
	_, err := r.db.ExecContext(ctx, query,
		hospital.Name,
		hospital.Address,
		hospital.Phone,
		hospital.Email,
		hospital.LicenseNumber,
		hospital.IsActive,
		time.Now(),
		hospital.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update hospital: %w", err)
	}
	return nil
}

// SoftDelete renames the hospital, rewrites its email so the original address
// can be reused, and deactivates its subscriptions. The row itself stays for
// historical reporting.
func (r *hospitalRepository) SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE hospitals
			SET name = $1 || name,
				email = 'deleted_' || id::text || '@deleted.com',
				is_active = FALSE,
				deleted_at = $2,
				updated_at = $2
			WHERE id = $3 AND name NOT LIKE $1 || '%'
		`
		res, err := tx.ExecContext(ctx, query, model.DeletedNamePrefix, now, id)
		if err != nil {
			return fmt.Errorf("failed to delete hospital: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("hospital not found or already deleted")
		}

		deactivate := `UPDATE subscriptions SET is_active = FALSE, updated_at = $1 WHERE hospital_id = $2`
		if _, err := tx.ExecContext(ctx, deactivate, now, id); err != nil {
			return fmt.Errorf("failed to deactivate subscriptions: %w", err)
		}

		disableUsers := `UPDATE users SET is_active = FALSE, updated_at = $1 WHERE hospital_id = $2`
		if _, err := tx.ExecContext(ctx, disableUsers, now, id); err != nil {
			return fmt.Errorf("failed to deactivate users: %w", err)
		}
		return nil
	})
}

func (r *hospitalRepository) List(ctx context.Context, filters *model.HospitalFilters) ([]*model.Hospital, int, error) {
	var conditions []string
	var args []interface{}
	idx := 1

	conditions = append(conditions, "deleted_at IS NULL")

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR email ILIKE $%d OR address ILIKE $%d)", idx, idx, idx))
		args = append(args, "%"+filters.Search+"%")
		idx++
	}
	if filters.Plan != "" {
		conditions = append(conditions, fmt.Sprintf(
			"id IN (SELECT hospital_id FROM subscriptions WHERE plan_name = $%d AND is_active = TRUE)", idx))
		args = append(args, filters.Plan)
		idx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM hospitals " + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count hospitals: %w", err)
	}

	query := "SELECT * FROM hospitals " + where + " ORDER BY created_at DESC"
	if filters.PerPage > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1)
		args = append(args, filters.PerPage, filters.Offset())
	}

	var hospitals []*model.Hospital
	if err := r.db.SelectContext(ctx, &hospitals, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list hospitals: %w", err)
	}
	return hospitals, total, nil
}

func (r *hospitalRepository) GetStats(ctx context.Context, hospitalID uuid.UUID) (*model.HospitalStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM patients WHERE hospital_id = $1) AS total_patients,
			(SELECT COUNT(*) FROM users WHERE hospital_id = $1 AND role = 'doctor' AND is_active = TRUE) AS total_doctors,
			(SELECT COUNT(*) FROM users WHERE hospital_id = $1 AND role NOT IN ('doctor', 'admin') AND is_active = TRUE) AS total_staff,
			(SELECT COUNT(*) FROM appointments WHERE hospital_id = $1) AS total_appointments
	`
	var stats model.HospitalStats
	if err := r.db.GetContext(ctx, &stats, query, hospitalID); err != nil {
		return nil, fmt.Errorf("failed to get hospital stats: %w", err)
	}
	return &stats, nil
}

func (r *hospitalRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM hospitals WHERE is_active = TRUE AND deleted_at IS NULL`)
	return count, err
}

func (r *hospitalRepository) CountRegisteredSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM hospitals WHERE created_at >= $1 AND deleted_at IS NULL`, since)
	return count, err
}
