package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock statuses as rendered by the pharmacy dashboard.
const (
	StockOut  = "Out of Stock"
	StockLow  = "Low Stock"
	StockOver = "Overstock"
	StockOK   = "In Stock"
)

type Medicine struct {
	Base
	HospitalID uuid.UUID `json:"hospital_id" db:"hospital_id"`

	Name         string `json:"name" db:"name"`
	GenericName  string `json:"generic_name" db:"generic_name"`
	BrandName    string `json:"brand_name" db:"brand_name"`
	Manufacturer string `json:"manufacturer" db:"manufacturer"`

	Category         string `json:"category" db:"category"`
	TherapeuticClass string `json:"therapeutic_class" db:"therapeutic_class"`
	Composition      string `json:"composition" db:"composition"`
	Strength         string `json:"strength" db:"strength"`
	DosageForm       string `json:"dosage_form" db:"dosage_form"`

	BatchNumber       string `json:"batch_number" db:"batch_number"`
	QuantityInStock   int    `json:"quantity_in_stock" db:"quantity_in_stock"`
	UnitOfMeasurement string `json:"unit_of_measurement" db:"unit_of_measurement"`
	ReorderLevel      int    `json:"reorder_level" db:"reorder_level"`
	MaxStockLevel     int    `json:"max_stock_level" db:"max_stock_level"`

	CostPrice          float64 `json:"cost_price" db:"cost_price"`
	SellingPrice       float64 `json:"selling_price" db:"selling_price"`
	MRP                float64 `json:"mrp" db:"mrp"`
	DiscountPercentage float64 `json:"discount_percentage" db:"discount_percentage"`

	ManufacturingDate *time.Time `json:"manufacturing_date" db:"manufacturing_date"`
	ExpiryDate        *time.Time `json:"expiry_date" db:"expiry_date"`

	StorageLocation    string `json:"storage_location" db:"storage_location"`
	StorageTemperature string `json:"storage_temperature" db:"storage_temperature"`

	DrugLicenseNumber    string `json:"drug_license_number" db:"drug_license_number"`
	Schedule             string `json:"schedule" db:"schedule"`
	PrescriptionRequired bool   `json:"prescription_required" db:"prescription_required"`

	IsActive bool `json:"is_active" db:"is_active"`
	IsBanned bool `json:"is_banned" db:"is_banned"`
}

func (m *Medicine) IsExpired(now time.Time) bool {
	return m.ExpiryDate != nil && m.ExpiryDate.Before(truncateToDay(now))
}

// DaysToExpiry is nil when no expiry date is recorded; negative once past.
func (m *Medicine) DaysToExpiry(now time.Time) *int {
	if m.ExpiryDate == nil {
		return nil
	}
	days := int(m.ExpiryDate.Sub(truncateToDay(now)).Hours() / 24)
	return &days
}

func (m *Medicine) IsLowStock() bool {
	return m.QuantityInStock <= m.ReorderLevel
}

func (m *Medicine) StockStatus() string {
	switch {
	case m.QuantityInStock == 0:
		return StockOut
	case m.IsLowStock():
		return StockLow
	case m.MaxStockLevel > 0 && m.QuantityInStock >= m.MaxStockLevel:
		return StockOver
	default:
		return StockOK
	}
}

func (m *Medicine) ProfitMargin() float64 {
	if m.CostPrice > 0 && m.SellingPrice > 0 {
		return (m.SellingPrice - m.CostPrice) / m.CostPrice * 100
	}
	return 0
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MedicineResponse is the medicine row with the server-computed flags the
// pharmacy screens depend on.
type MedicineResponse struct {
	Medicine
	IsExpiredField  bool    `json:"is_expired"`
	DaysToExpiry    *int    `json:"days_to_expiry"`
	IsLowStockField bool    `json:"is_low_stock"`
	StockStatusStr  string  `json:"stock_status"`
	ProfitMarginPct float64 `json:"profit_margin"`
}

func (m *Medicine) ToResponse(now time.Time) *MedicineResponse {
	return &MedicineResponse{
		Medicine:        *m,
		IsExpiredField:  m.IsExpired(now),
		DaysToExpiry:    m.DaysToExpiry(now),
		IsLowStockField: m.IsLowStock(),
		StockStatusStr:  m.StockStatus(),
		ProfitMarginPct: m.ProfitMargin(),
	}
}

type CreateMedicineRequest struct {
	Name         string `json:"name" binding:"required"`
	GenericName  string `json:"generic_name"`
	BrandName    string `json:"brand_name"`
	Manufacturer string `json:"manufacturer"`

	Category         string `json:"category" binding:"required"`
	TherapeuticClass string `json:"therapeutic_class"`
	Composition      string `json:"composition"`
	Strength         string `json:"strength"`
	DosageForm       string `json:"dosage_form"`

	BatchNumber       string `json:"batch_number"`
	QuantityInStock   *int   `json:"quantity_in_stock" binding:"required"`
	UnitOfMeasurement string `json:"unit_of_measurement"`
	ReorderLevel      int    `json:"reorder_level"`
	MaxStockLevel     int    `json:"max_stock_level"`

	CostPrice          *float64 `json:"cost_price" binding:"required"`
	SellingPrice       *float64 `json:"selling_price" binding:"required"`
	MRP                float64  `json:"mrp"`
	DiscountPercentage float64  `json:"discount_percentage"`

	ManufacturingDate string `json:"manufacturing_date"`
	ExpiryDate        string `json:"expiry_date"`

	StorageLocation    string `json:"storage_location"`
	StorageTemperature string `json:"storage_temperature"`

	DrugLicenseNumber    string `json:"drug_license_number"`
	Schedule             string `json:"schedule"`
	PrescriptionRequired *bool  `json:"prescription_required"`
}

type UpdateMedicineRequest struct {
	Name            *string  `json:"name"`
	GenericName     *string  `json:"generic_name"`
	BrandName       *string  `json:"brand_name"`
	Manufacturer    *string  `json:"manufacturer"`
	Category        *string  `json:"category"`
	Strength        *string  `json:"strength"`
	BatchNumber     *string  `json:"batch_number"`
	QuantityInStock *int     `json:"quantity_in_stock"`
	ReorderLevel    *int     `json:"reorder_level"`
	MaxStockLevel   *int     `json:"max_stock_level"`
	CostPrice       *float64 `json:"cost_price"`
	SellingPrice    *float64 `json:"selling_price"`
	MRP             *float64 `json:"mrp"`
	ExpiryDate      *string  `json:"expiry_date"`
	StorageLocation *string  `json:"storage_location"`
}

type MedicineFilters struct {
	Pagination
	Search    string `form:"search"`
	Category  string `form:"category"`
	Status    string `form:"status"` // low_stock, expired, expiring_soon
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}

// MedicineImportReport summarizes a medicine spreadsheet import. Skipped
// rows matched an existing medicine by name and had their quantity merged
// into it instead of creating a duplicate.
type MedicineImportReport struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Skipped []string `json:"skipped"`
	Errors  []string `json:"errors"`
}

// PharmacySummary is the count block returned with medicine listings.
type PharmacySummary struct {
	TotalMedicines int `json:"total_medicines"`
	LowStockCount  int `json:"low_stock_count"`
	ExpiredCount   int `json:"expired_count"`
}

// PharmacyDashboardStats backs the pharmacy dashboard cards.
type PharmacyDashboardStats struct {
	TotalMedicines    int     `json:"total_medicines"`
	LowStockCount     int     `json:"low_stock_count"`
	ExpiredCount      int     `json:"expired_count"`
	ExpiringSoonCount int     `json:"expiring_soon_count"`
	OutOfStockCount   int     `json:"out_of_stock_count"`
	TotalStockValue   float64 `json:"total_stock_value"`
	IsDemoData        bool    `json:"is_demo_data,omitempty"`
}

// DemoPharmacyStats is the sample dashboard shown to hospitals with an empty
// inventory when demo mode is on.
func DemoPharmacyStats() *PharmacyDashboardStats {
	return &PharmacyDashboardStats{
		TotalMedicines:    5,
		LowStockCount:     2,
		OutOfStockCount:   1,
		ExpiringSoonCount: 1,
		TotalStockValue:   15000,
		IsDemoData:        true,
	}
}
