package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestMedicineIsExpired(t *testing.T) {
	now := time.Date(2026, 6, 15, 18, 30, 0, 0, time.UTC)

	m := Medicine{ExpiryDate: datePtr(time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC))}
	assert.True(t, m.IsExpired(now))

	// Expiring today is not expired yet
	m.ExpiryDate = datePtr(time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))
	assert.False(t, m.IsExpired(now))

	m.ExpiryDate = nil
	assert.False(t, m.IsExpired(now))
}

func TestMedicineDaysToExpiry(t *testing.T) {
	now := time.Date(2026, 6, 15, 18, 30, 0, 0, time.UTC)

	m := Medicine{}
	assert.Nil(t, m.DaysToExpiry(now))

	m.ExpiryDate = datePtr(time.Date(2026, 6, 25, 0, 0, 0, 0, time.UTC))
	days := m.DaysToExpiry(now)
	require.NotNil(t, days)
	assert.Equal(t, 10, *days)

	m.ExpiryDate = datePtr(time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC))
	days = m.DaysToExpiry(now)
	require.NotNil(t, days)
	assert.Equal(t, -5, *days)
}

func TestMedicineStockStatus(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		reorder  int
		max      int
		want     string
	}{
		{"out of stock", 0, 10, 500, StockOut},
		{"low stock at reorder level", 10, 10, 500, StockLow},
		{"low stock below reorder level", 5, 10, 500, StockLow},
		{"overstock at max level", 500, 10, 500, StockOver},
		{"in stock", 100, 10, 500, StockOK},
		{"no max level configured", 1000, 10, 0, StockOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Medicine{
				QuantityInStock: tt.quantity,
				ReorderLevel:    tt.reorder,
				MaxStockLevel:   tt.max,
			}
			assert.Equal(t, tt.want, m.StockStatus())
		})
	}
}

func TestMedicineProfitMargin(t *testing.T) {
	m := Medicine{CostPrice: 60, SellingPrice: 90}
	assert.InDelta(t, 50.0, m.ProfitMargin(), 0.001)

	m = Medicine{CostPrice: 0, SellingPrice: 90}
	assert.Equal(t, 0.0, m.ProfitMargin())

	m = Medicine{CostPrice: 60, SellingPrice: 0}
	assert.Equal(t, 0.0, m.ProfitMargin())
}

func TestMedicineToResponse(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	m := Medicine{
		Name:            "Paracetamol",
		QuantityInStock: 5,
		ReorderLevel:    10,
		CostPrice:       10,
		SellingPrice:    15,
		ExpiryDate:      datePtr(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)),
	}

	resp := m.ToResponse(now)
	assert.True(t, resp.IsExpiredField)
	assert.True(t, resp.IsLowStockField)
	assert.Equal(t, StockLow, resp.StockStatusStr)
	assert.InDelta(t, 50.0, resp.ProfitMarginPct, 0.001)
	require.NotNil(t, resp.DaysToExpiry)
	assert.Equal(t, -14, *resp.DaysToExpiry)
}
