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

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

const appointmentSelect = `
	SELECT a.*,
		p.first_name || ' ' || p.last_name AS patient_name,
		u.first_name || ' ' || u.last_name AS doctor_name,
		COALESCE(dp.specialization, '') AS doctor_specialization
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN users u ON u.id = a.doctor_user_id
	LEFT JOIN doctor_profiles dp ON dp.user_id = a.doctor_user_id
`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, hospital_id, appointment_id, patient_id, doctor_user_id,
			appointment_date, appointment_type, status, symptoms, notes,
			priority, estimated_duration, consultation_fee, payment_status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.HospitalID,
		appointment.AppointmentID,
		appointment.PatientID,
		appointment.DoctorUserID,
		appointment.AppointmentDate,
		appointment.AppointmentType,
		appointment.Status,
		appointment.Symptoms,
		appointment.Notes,
		appointment.Priority,
		appointment.EstimatedDuration,
		appointment.ConsultationFee,
		appointment.PaymentStatus,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := appointmentSelect + ` WHERE a.id = $1`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET appointment_date = $1, appointment_type = $2, status = $3,
			symptoms = $4, notes = $5, priority = $6, payment_status = $7,
			updated_at = $8
		WHERE id = $9
	`
	_, err := r.db.ExecContext(ctx, query,
		appointment.AppointmentDate,
		appointment.AppointmentType,
		appointment.Status,
		appointment.Symptoms,
		appointment.Notes,
		appointment.Priority,
		appointment.PaymentStatus,
		time.Now(),
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM appointments WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *appointmentRepository) List(ctx context.Context, hospitalID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, int, error) {
	conditions := []string{"a.hospital_id = $1"}
	args := []interface{}{hospitalID}
	idx := 2

	if filters.Date != "" {
		conditions = append(conditions, fmt.Sprintf("a.appointment_date::date = $%d", idx))
		args = append(args, filters.Date)
		idx++
	}
	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", idx))
		args = append(args, filters.Status)
		idx++
	}
	if filters.DoctorUserID != uuid.Nil {
		conditions = append(conditions, fmt.Sprintf("a.doctor_user_id = $%d", idx))
		args = append(args, filters.DoctorUserID)
		idx++
	}
	if filters.PatientID != uuid.Nil {
		conditions = append(conditions, fmt.Sprintf("a.patient_id = $%d", idx))
		args = append(args, filters.PatientID)
		idx++
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM appointments a" + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	query := fmt.Sprintf(
		"%s%s ORDER BY a.appointment_date DESC LIMIT $%d OFFSET $%d",
		appointmentSelect, where, idx, idx+1,
	)
	args = append(args, filters.PerPage, filters.Offset())

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, total, nil
}

// CheckConflict reports whether the doctor already has a non-cancelled
// appointment overlapping [start, end).
func (r *appointmentRepository) CheckConflict(ctx context.Context, doctorUserID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM appointments
			WHERE doctor_user_id = $1
				AND status NOT IN ('cancelled', 'no-show')
				AND appointment_date < $3
				AND appointment_date + (estimated_duration || ' minutes')::interval > $2
				AND ($4::uuid IS NULL OR id <> $4)
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, doctorUserID, start, end, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check appointment conflicts: %w", err)
	}
	return exists, nil
}
