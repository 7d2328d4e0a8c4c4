package worker

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/email"
	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/repository"
	"github.com/anshuman/hospital-api/pkg/logger"
)

type ExpiryNotifierConfig struct {
	Interval time.Duration
	LeadDays int
}

// ExpiryNotifier reminds hospital admins about subscriptions nearing their
// end date. Each subscription is notified at most once per day.
type ExpiryNotifier struct {
	subRepo      repository.SubscriptionRepository
	hospitalRepo repository.HospitalRepository
	userRepo     repository.UserRepository
	outboxRepo   repository.OutboxRepository
	email        *email.Service
	config       ExpiryNotifierConfig
	logger       *logger.Logger

	lastNotified map[uuid.UUID]time.Time
}

func NewExpiryNotifier(
	subRepo repository.SubscriptionRepository,
	hospitalRepo repository.HospitalRepository,
	userRepo repository.UserRepository,
	outboxRepo repository.OutboxRepository,
	emailSvc *email.Service,
	config ExpiryNotifierConfig,
	logger *logger.Logger,
) *ExpiryNotifier {
	if config.Interval <= 0 {
		config.Interval = time.Hour
	}
	if config.LeadDays <= 0 {
		config.LeadDays = 7
	}

	return &ExpiryNotifier{
		subRepo:      subRepo,
		hospitalRepo: hospitalRepo,
		userRepo:     userRepo,
		outboxRepo:   outboxRepo,
		email:        emailSvc,
		config:       config,
		logger:       logger,
		lastNotified: make(map[uuid.UUID]time.Time),
	}
}

func (n *ExpiryNotifier) Start(ctx context.Context) {
	ticker := time.NewTicker(n.config.Interval)
	defer ticker.Stop()

	n.logger.Info("Starting subscription expiry notifier")

	n.run(ctx)
	for {
		select {
		case <-ctx.Done():
			n.logger.Info("Shutting down subscription expiry notifier")
			return
		case <-ticker.C:
			n.run(ctx)
		}
	}
}

func (n *ExpiryNotifier) run(ctx context.Context) {
	now := time.Now()
	cutoff := now.AddDate(0, 0, n.config.LeadDays)

	subs, err := n.subRepo.ListExpiringBefore(ctx, cutoff)
	if err != nil {
		n.logger.Error(err, "Failed to list expiring subscriptions")
		return
	}

	for _, sub := range subs {
		if last, ok := n.lastNotified[sub.ID]; ok && now.Sub(last) < 24*time.Hour {
			continue
		}
		if err := n.notify(ctx, sub, now); err != nil {
			n.logger.Error(err, "Failed to notify expiring subscription",
				"subscription_id", sub.ID.String(),
				"hospital_id", sub.HospitalID.String())
			continue
		}
		n.lastNotified[sub.ID] = now
	}
}

func (n *ExpiryNotifier) notify(ctx context.Context, sub *model.Subscription, now time.Time) error {
	hospital, err := n.hospitalRepo.Get(ctx, sub.HospitalID)
	if err != nil {
		return err
	}
	if hospital == nil {
		// Subscription outlived its hospital row; nothing to notify.
		return nil
	}

	daysLeft := int(math.Ceil(sub.SubscriptionEnd.Sub(now).Hours() / 24))
	if daysLeft < 0 {
		daysLeft = 0
	}

	admins, err := n.userRepo.ListByHospitalAndRole(ctx, sub.HospitalID, model.RoleAdmin)
	if err != nil {
		return err
	}
	for _, admin := range admins {
		if err := n.email.SendSubscriptionExpiring(admin.Email, hospital.Name, daysLeft); err != nil {
			n.logger.Error(err, "Failed to send expiry email",
				"hospital_id", sub.HospitalID.String(),
				"email", admin.Email)
		}
	}

	payload, err := json.Marshal(map[string]interface{}{
		"hospital_id":      sub.HospitalID,
		"plan_name":        sub.PlanName,
		"subscription_end": sub.SubscriptionEnd,
		"days_left":        daysLeft,
	})
	if err != nil {
		return err
	}
	return n.outboxRepo.Create(ctx, &model.OutboxEvent{
		EventType: model.EventSubscriptionExpiring,
		Payload:   payload,
	})
}
