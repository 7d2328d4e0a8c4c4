package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/repository"
)

// analyticsRepository backs the dashboard reports. Every aggregate takes an
// optional hospital scope: a nil hospitalID aggregates across the whole
// platform for the admin console, a concrete id restricts to that tenant.
type analyticsRepository struct {
	BaseRepository
}

func NewAnalyticsRepository(base BaseRepository) repository.AnalyticsRepository {
	return &analyticsRepository{base}
}

func (r *analyticsRepository) CountUsers(ctx context.Context, hospitalID *uuid.UUID) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM users
		WHERE is_active = TRUE AND ($1::uuid IS NULL OR hospital_id = $1)
	`
	err := r.db.GetContext(ctx, &count, query, hospitalID)
	return count, err
}

func (r *analyticsRepository) CountPatientsInWindow(ctx context.Context, hospitalID *uuid.UUID, start, end time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM patients
		WHERE created_at >= $1 AND created_at < $2
			AND ($3::uuid IS NULL OR hospital_id = $3)
	`
	err := r.db.GetContext(ctx, &count, query, start, end, hospitalID)
	return count, err
}

func (r *analyticsRepository) CountAppointmentsInWindow(ctx context.Context, hospitalID *uuid.UUID, start, end time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE appointment_date >= $1 AND appointment_date < $2
			AND ($3::uuid IS NULL OR hospital_id = $3)
	`
	err := r.db.GetContext(ctx, &count, query, start, end, hospitalID)
	return count, err
}

func (r *analyticsRepository) CountDoctors(ctx context.Context, hospitalID *uuid.UUID) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM users
		WHERE role = 'doctor' AND is_active = TRUE
			AND ($1::uuid IS NULL OR hospital_id = $1)
	`
	err := r.db.GetContext(ctx, &count, query, hospitalID)
	return count, err
}

func (r *analyticsRepository) RevenueInWindow(ctx context.Context, hospitalID *uuid.UUID, start, end time.Time) (float64, error) {
	var revenue float64
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM billing_records
		WHERE status = 'paid' AND created_at >= $1 AND created_at < $2
			AND ($3::uuid IS NULL OR hospital_id = $3)
	`
	err := r.db.GetContext(ctx, &revenue, query, start, end, hospitalID)
	return revenue, err
}

func (r *analyticsRepository) AppointmentsByStatus(ctx context.Context, hospitalID *uuid.UUID, start, end time.Time) ([]*model.LabelCount, error) {
	query := `
		SELECT status AS label, COUNT(*) AS count
		FROM appointments
		WHERE appointment_date >= $1 AND appointment_date < $2
			AND ($3::uuid IS NULL OR hospital_id = $3)
		GROUP BY status
		ORDER BY count DESC
	`
	return r.labelCounts(ctx, query, start, end, hospitalID)
}

func (r *analyticsRepository) AppointmentsByType(ctx context.Context, hospitalID *uuid.UUID, start, end time.Time) ([]*model.LabelCount, error) {
	query := `
		SELECT COALESCE(NULLIF(appointment_type, ''), 'general') AS label, COUNT(*) AS count
		FROM appointments
		WHERE appointment_date >= $1 AND appointment_date < $2
			AND ($3::uuid IS NULL OR hospital_id = $3)
		GROUP BY label
		ORDER BY count DESC
	`
	return r.labelCounts(ctx, query, start, end, hospitalID)
}

func (r *analyticsRepository) AppointmentsByDay(ctx context.Context, hospitalID *uuid.UUID, start, end time.Time) ([]*model.TimeSeriesPoint, error) {
	query := `
		SELECT to_char(appointment_date::date, 'YYYY-MM-DD') AS date, COUNT(*)::float AS value
		FROM appointments
		WHERE appointment_date >= $1 AND appointment_date < $2
			AND ($3::uuid IS NULL OR hospital_id = $3)
		GROUP BY appointment_date::date
		ORDER BY appointment_date::date
	`
	return r.timeSeries(ctx, query, start, end, hospitalID)
}

func (r *analyticsRepository) PatientsByGender(ctx context.Context, hospitalID *uuid.UUID) ([]*model.LabelCount, error) {
	query := `
		SELECT COALESCE(NULLIF(gender, ''), 'Unknown') AS label, COUNT(*) AS count
		FROM patients
		WHERE ($1::uuid IS NULL OR hospital_id = $1)
		GROUP BY label
		ORDER BY count DESC
	`
	return r.labelCounts(ctx, query, hospitalID)
}

func (r *analyticsRepository) PatientsByBloodGroup(ctx context.Context, hospitalID *uuid.UUID) ([]*model.LabelCount, error) {
	query := `
		SELECT COALESCE(NULLIF(blood_group, ''), 'Unknown') AS label, COUNT(*) AS count
		FROM patients
		WHERE ($1::uuid IS NULL OR hospital_id = $1)
		GROUP BY label
		ORDER BY count DESC
	`
	return r.labelCounts(ctx, query, hospitalID)
}

func (r *analyticsRepository) PatientsByAgeGroup(ctx context.Context, hospitalID *uuid.UUID) ([]*model.LabelCount, error) {
	query := `
		SELECT bucket AS label, COUNT(*) AS count
		FROM (
			SELECT CASE
				WHEN date_of_birth IS NULL THEN 'Unknown'
				WHEN EXTRACT(YEAR FROM AGE(date_of_birth)) < 18 THEN '0-17'
				WHEN EXTRACT(YEAR FROM AGE(date_of_birth)) < 35 THEN '18-34'
				WHEN EXTRACT(YEAR FROM AGE(date_of_birth)) < 55 THEN '35-54'
				ELSE '55+'
			END AS bucket
			FROM patients
			WHERE ($1::uuid IS NULL OR hospital_id = $1)
		) ages
		GROUP BY bucket
		ORDER BY bucket
	`
	return r.labelCounts(ctx, query, hospitalID)
}

func (r *analyticsRepository) PatientRegistrationTrend(ctx context.Context, hospitalID *uuid.UUID, start, end time.Time) ([]*model.TimeSeriesPoint, error) {
	query := `
		SELECT to_char(created_at::date, 'YYYY-MM-DD') AS date, COUNT(*)::float AS value
		FROM patients
		WHERE created_at >= $1 AND created_at < $2
			AND ($3::uuid IS NULL OR hospital_id = $3)
		GROUP BY created_at::date
		ORDER BY created_at::date
	`
	return r.timeSeries(ctx, query, start, end, hospitalID)
}

func (r *analyticsRepository) DoctorsBySpecialization(ctx context.Context, hospitalID *uuid.UUID) ([]*model.LabelCount, error) {
	query := `
		SELECT COALESCE(NULLIF(dp.specialization, ''), 'General') AS label, COUNT(*) AS count
		FROM users u
		JOIN doctor_profiles dp ON dp.user_id = u.id
		WHERE u.role = 'doctor' AND u.is_active = TRUE
			AND ($1::uuid IS NULL OR u.hospital_id = $1)
		GROUP BY label
		ORDER BY count DESC
	`
	return r.labelCounts(ctx, query, hospitalID)
}

func (r *analyticsRepository) CountAvailableDoctors(ctx context.Context, hospitalID *uuid.UUID) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM users u
		JOIN doctor_profiles dp ON dp.user_id = u.id
		WHERE u.role = 'doctor' AND u.is_active = TRUE AND dp.is_available = TRUE
			AND ($1::uuid IS NULL OR u.hospital_id = $1)
	`
	err := r.db.GetContext(ctx, &count, query, hospitalID)
	return count, err
}

func (r *analyticsRepository) TopDoctorsByAppointments(ctx context.Context, hospitalID *uuid.UUID, start, end time.Time, limit int) ([]*model.DoctorBooking, error) {
	query := `
		SELECT u.first_name || ' ' || u.last_name AS doctor_name, COUNT(*) AS appointments
		FROM appointments a
		JOIN users u ON u.id = a.doctor_id
		WHERE a.appointment_date >= $1 AND a.appointment_date < $2
			AND ($3::uuid IS NULL OR a.hospital_id = $3)
		GROUP BY u.id, doctor_name
		ORDER BY appointments DESC
		LIMIT $4
	`
	var out []*model.DoctorBooking
	if err := r.db.SelectContext(ctx, &out, query, start, end, hospitalID, limit); err != nil {
		return nil, fmt.Errorf("failed to rank doctors by appointments: %w", err)
	}
	return out, nil
}

func (r *analyticsRepository) RevenueMonthlyTrend(ctx context.Context, hospitalID *uuid.UUID, start, end time.Time) ([]*model.TimeSeriesPoint, error) {
	query := `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS date,
			COALESCE(SUM(amount), 0)::float AS value
		FROM billing_records
		WHERE status = 'paid' AND created_at >= $1 AND created_at < $2
			AND ($3::uuid IS NULL OR hospital_id = $3)
		GROUP BY date_trunc('month', created_at)
		ORDER BY date_trunc('month', created_at)
	`
	return r.timeSeries(ctx, query, start, end, hospitalID)
}

func (r *analyticsRepository) RevenueByPlan(ctx context.Context, hospitalID *uuid.UUID) (map[string]float64, error) {
	query := `
		SELECT plan_name, COALESCE(SUM(monthly_fee), 0)
		FROM subscriptions
		WHERE is_active = TRUE AND ($1::uuid IS NULL OR hospital_id = $1)
		GROUP BY plan_name
	`
	rows, err := r.db.QueryxContext(ctx, query, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue by plan: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var plan string
		var revenue float64
		if err := rows.Scan(&plan, &revenue); err != nil {
			return nil, err
		}
		out[plan] = revenue
	}
	return out, rows.Err()
}

func (r *analyticsRepository) SubscriptionCounts(ctx context.Context, hospitalID *uuid.UUID) (int, int, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE monthly_fee > 0) AS active,
			COUNT(*) FILTER (WHERE monthly_fee = 0) AS trial
		FROM subscriptions
		WHERE is_active = TRUE AND subscription_end > NOW()
			AND ($1::uuid IS NULL OR hospital_id = $1)
	`
	var active, trial int
	err := r.db.QueryRowxContext(ctx, query, hospitalID).Scan(&active, &trial)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return active, trial, nil
}

func (r *analyticsRepository) labelCounts(ctx context.Context, query string, args ...interface{}) ([]*model.LabelCount, error) {
	var out []*model.LabelCount
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate counts: %w", err)
	}
	return out, nil
}

func (r *analyticsRepository) timeSeries(ctx context.Context, query string, args ...interface{}) ([]*model.TimeSeriesPoint, error) {
	var out []*model.TimeSeriesPoint
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate time series: %w", err)
	}
	return out, nil
}
