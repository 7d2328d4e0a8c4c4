package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionStatus(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		sub  Subscription
		want SubscriptionStatus
	}{
		{
			name: "inactive wins over everything",
			sub: Subscription{
				IsActive:        false,
				SubscriptionEnd: now.AddDate(0, 0, -10),
				MonthlyFee:      0,
			},
			want: SubscriptionInactive,
		},
		{
			name: "expired when end date passed",
			sub: Subscription{
				IsActive:        true,
				SubscriptionEnd: now.AddDate(0, 0, -1),
				MonthlyFee:      2999,
			},
			want: SubscriptionExpired,
		},
		{
			name: "trial when fee is zero",
			sub: Subscription{
				IsActive:        true,
				SubscriptionEnd: now.AddDate(0, 0, 20),
				MonthlyFee:      0,
			},
			want: SubscriptionTrial,
		},
		{
			name: "active otherwise",
			sub: Subscription{
				IsActive:        true,
				SubscriptionEnd: now.AddDate(0, 1, 0),
				MonthlyFee:      7499,
			},
			want: SubscriptionActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.Status(now))
		})
	}
}

func TestSubscriptionHasFeature(t *testing.T) {
	sub := Subscription{Features: []string{"appointments", "inventory"}}

	assert.True(t, sub.HasFeature("inventory"))
	assert.False(t, sub.HasFeature("api_access"))
}
