package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/repository"
)

type subscriptionRepository struct {
	BaseRepository
}

func NewSubscriptionRepository(base BaseRepository) repository.SubscriptionRepository {
	return &subscriptionRepository{base}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	features, err := json.Marshal(sub.Features)
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}
	sub.FeaturesJSON = string(features)
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = time.Now()

	query := `
		INSERT INTO subscriptions (
			id, hospital_id, plan_name, max_patients, max_doctors, max_staff,
			features, subscription_start, subscription_end, is_active,
			monthly_fee, billing_cycle, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = r.db.ExecContext(ctx, query,
		sub.ID,
		sub.HospitalID,
		sub.PlanName,
		sub.MaxPatients,
		sub.MaxDoctors,
		sub.MaxStaff,
		sub.FeaturesJSON,
		sub.SubscriptionStart,
		sub.SubscriptionEnd,
		sub.IsActive,
		sub.MonthlyFee,
		sub.BillingCycle,
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) GetByHospital(ctx context.Context, hospitalID uuid.UUID) (*model.Subscription, error) {
	query := `
		SELECT * FROM subscriptions
		WHERE hospital_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var sub model.Subscription
	err := r.db.GetContext(ctx, &sub, query, hospitalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	decodeFeatures(&sub)
	return &sub, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *model.Subscription) error {
	features, err := json.Marshal(sub.Features)
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}

	query := `
		UPDATE subscriptions
		SET plan_name = $1, max_patients = $2, max_doctors = $3, max_staff = $4,
			features = $5, subscription_start = $6, subscription_end = $7,
			is_active = $8, monthly_fee = $9, billing_cycle = $10, updated_at = $11
		WHERE id = $12
	`
	_, err = r.db.ExecContext(ctx, query,
		sub.PlanName,
		sub.MaxPatients,
		sub.MaxDoctors,
		sub.MaxStaff,
		string(features),
		sub.SubscriptionStart,
		sub.SubscriptionEnd,
		sub.IsActive,
		sub.MonthlyFee,
		sub.BillingCycle,
		time.Now(),
		sub.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) DeactivateForHospital(ctx context.Context, hospitalID uuid.UUID) error {
	query := `UPDATE subscriptions SET is_active = FALSE, updated_at = $1 WHERE hospital_id = $2`
	_, err := r.db.ExecContext(ctx, query, time.Now(), hospitalID)
	return err
}

func (r *subscriptionRepository) List(ctx context.Context, filters *model.SubscriptionFilters) ([]*model.Subscription, int, error) {
	var conditions []string
	var args []interface{}
	idx := 1

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"hospital_id IN (SELECT id FROM hospitals WHERE name ILIKE $%d)", idx))
		args = append(args, "%"+filters.Search+"%")
		idx++
	}
	if filters.Plan != "" {
		conditions = append(conditions, fmt.Sprintf("plan_name = $%d", idx))
		args = append(args, filters.Plan)
		idx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM subscriptions "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	query := "SELECT * FROM subscriptions " + where + " ORDER BY created_at DESC"
	if filters.PerPage > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1)
		args = append(args, filters.PerPage, filters.Offset())
	}

	var subs []*model.Subscription
	if err := r.db.SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	for _, sub := range subs {
		decodeFeatures(sub)
	}
	return subs, total, nil
}

func (r *subscriptionRepository) ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*model.Subscription, error) {
	query := `
		SELECT * FROM subscriptions
		WHERE is_active = TRUE AND subscription_end <= $1 AND subscription_end > NOW()
	`
	var subs []*model.Subscription
	if err := r.db.SelectContext(ctx, &subs, query, cutoff); err != nil {
		return nil, fmt.Errorf("failed to list expiring subscriptions: %w", err)
	}
	for _, sub := range subs {
		decodeFeatures(sub)
	}
	return subs, nil
}

func (r *subscriptionRepository) CreateBillingRecord(ctx context.Context, rec *model.BillingRecord) error {
	query := `
		INSERT INTO billing_records (id, hospital_id, plan_name, amount, period_from, period_to, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	rec.CreatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.HospitalID, rec.PlanName, rec.Amount,
		rec.PeriodFrom, rec.PeriodTo, rec.Status, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create billing record: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) ListBillingRecords(ctx context.Context, hospitalID uuid.UUID) ([]*model.BillingRecord, error) {
	query := `SELECT * FROM billing_records WHERE hospital_id = $1 ORDER BY created_at DESC`
	var records []*model.BillingRecord
	err := r.db.SelectContext(ctx, &records, query, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list billing records: %w", err)
	}
	return records, nil
}

func decodeFeatures(sub *model.Subscription) {
	if sub.FeaturesJSON == "" {
		return
	}
	// Malformed rows degrade to no features rather than failing the read.
	_ = json.Unmarshal([]byte(sub.FeaturesJSON), &sub.Features)
}
