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

type medicineRepository struct {
	BaseRepository
}

func NewMedicineRepository(base BaseRepository) repository.MedicineRepository {
	return &medicineRepository{base}
}

func (r *medicineRepository) Create(ctx context.Context, medicine *model.Medicine) error {
	query := `
		INSERT INTO medicines (
			id, hospital_id, name, generic_name, brand_name, manufacturer,
			category, therapeutic_class, composition, strength, dosage_form,
			batch_number, quantity_in_stock, unit_of_measurement, reorder_level,
			max_stock_level, cost_price, selling_price, mrp, discount_percentage,
			manufacturing_date, expiry_date, storage_location, storage_temperature,
			drug_license_number, schedule, prescription_required,
			is_active, is_banned, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31
		)
	`
	medicine.CreatedAt = time.Now()
	medicine.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		medicine.ID, medicine.HospitalID, medicine.Name, medicine.GenericName,
		medicine.BrandName, medicine.Manufacturer, medicine.Category,
		medicine.TherapeuticClass, medicine.Composition, medicine.Strength,
		medicine.DosageForm, medicine.BatchNumber, medicine.QuantityInStock,
		medicine.UnitOfMeasurement, medicine.ReorderLevel, medicine.MaxStockLevel,
		medicine.CostPrice, medicine.SellingPrice, medicine.MRP,
		medicine.DiscountPercentage, medicine.ManufacturingDate, medicine.ExpiryDate,
		medicine.StorageLocation, medicine.StorageTemperature,
		medicine.DrugLicenseNumber, medicine.Schedule, medicine.PrescriptionRequired,
		medicine.IsActive, medicine.IsBanned, medicine.CreatedAt, medicine.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medicine: %w", err)
	}
	return nil
}

func (r *medicineRepository) Get(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	query := `SELECT * FROM medicines WHERE id = $1`
	var medicine model.Medicine
	err := r.db.GetContext(ctx, &medicine, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medicine: %w", err)
	}
	return &medicine, nil
}

func (r *medicineRepository) Update(ctx context.Context, medicine *model.Medicine) error {
	query := `
		UPDATE medicines
		SET name = $1, generic_name = $2, brand_name = $3, manufacturer = $4,
			category = $5, strength = $6, batch_number = $7, quantity_in_stock = $8,
			reorder_level = $9, max_stock_level = $10, cost_price = $11,
			selling_price = $12, mrp = $13, expiry_date = $14,
			storage_location = $15, updated_at = $16
		WHERE id = $17
	`
	_, err := r.db.ExecContext(ctx, query,
		medicine.Name, medicine.GenericName, medicine.BrandName,
		medicine.Manufacturer, medicine.Category, medicine.Strength,
		medicine.BatchNumber, medicine.QuantityInStock, medicine.ReorderLevel,
		medicine.MaxStockLevel, medicine.CostPrice, medicine.SellingPrice,
		medicine.MRP, medicine.ExpiryDate, medicine.StorageLocation,
		time.Now(), medicine.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update medicine: %w", err)
	}
	return nil
}

func (r *medicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM medicines WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *medicineRepository) DeleteAll(ctx context.Context, hospitalID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medicines WHERE hospital_id = $1`, hospitalID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete medicines: %w", err)
	}
	return res.RowsAffected()
}

func (r *medicineRepository) List(ctx context.Context, hospitalID uuid.UUID, filters *model.MedicineFilters) ([]*model.Medicine, int, error) {
	conditions := []string{"hospital_id = $1"}
	args := []interface{}{hospitalID}
	idx := 2

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR generic_name ILIKE $%d OR brand_name ILIKE $%d OR manufacturer ILIKE $%d)",
			idx, idx, idx, idx))
		args = append(args, "%"+filters.Search+"%")
		idx++
	}
	if filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", idx))
		args = append(args, filters.Category)
		idx++
	}
	switch filters.Status {
	case "low_stock":
		conditions = append(conditions, "quantity_in_stock <= reorder_level")
	case "expired":
		conditions = append(conditions, "expiry_date IS NOT NULL AND expiry_date < CURRENT_DATE")
	case "expiring_soon":
		conditions = append(conditions,
			"expiry_date IS NOT NULL AND expiry_date >= CURRENT_DATE AND expiry_date <= CURRENT_DATE + INTERVAL '30 days'")
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM medicines "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count medicines: %w", err)
	}

	orderBy := "name ASC"
	switch filters.SortBy {
	case "quantity":
		orderBy = "quantity_in_stock"
	case "expiry":
		orderBy = "expiry_date"
	case "price":
		orderBy = "selling_price"
	case "created":
		orderBy = "created_at"
	case "", "name":
		orderBy = "name"
	default:
		orderBy = "name"
	}
	if filters.SortOrder == "desc" {
		orderBy += " DESC"
	} else {
		orderBy += " ASC"
	}

	query := fmt.Sprintf(
		"SELECT * FROM medicines %s ORDER BY %s LIMIT $%d OFFSET $%d",
		where, orderBy, idx, idx+1,
	)
	args = append(args, filters.PerPage, filters.Offset())

	var medicines []*model.Medicine
	if err := r.db.SelectContext(ctx, &medicines, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list medicines: %w", err)
	}
	return medicines, total, nil
}

func (r *medicineRepository) GetSummary(ctx context.Context, hospitalID uuid.UUID, now time.Time) (*model.PharmacySummary, error) {
	query := `
		SELECT
			COUNT(*) AS total_medicines,
			COUNT(*) FILTER (WHERE quantity_in_stock <= reorder_level) AS low_stock_count,
			COUNT(*) FILTER (WHERE expiry_date IS NOT NULL AND expiry_date < $2) AS expired_count
		FROM medicines
		WHERE hospital_id = $1
	`
	var summary model.PharmacySummary
	err := r.db.QueryRowxContext(ctx, query, hospitalID, now).
		Scan(&summary.TotalMedicines, &summary.LowStockCount, &summary.ExpiredCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get pharmacy summary: %w", err)
	}
	return &summary, nil
}

func (r *medicineRepository) GetDashboardStats(ctx context.Context, hospitalID uuid.UUID, now time.Time) (*model.PharmacyDashboardStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_medicines,
			COUNT(*) FILTER (WHERE quantity_in_stock <= reorder_level) AS low_stock_count,
			COUNT(*) FILTER (WHERE expiry_date IS NOT NULL AND expiry_date < $2) AS expired_count,
			COUNT(*) FILTER (WHERE expiry_date IS NOT NULL AND expiry_date >= $2 AND expiry_date <= $2 + INTERVAL '30 days') AS expiring_soon_count,
			COUNT(*) FILTER (WHERE quantity_in_stock = 0) AS out_of_stock_count,
			COALESCE(SUM(quantity_in_stock * cost_price), 0) AS total_stock_value
		FROM medicines
		WHERE hospital_id = $1
	`
	var stats model.PharmacyDashboardStats
	err := r.db.QueryRowxContext(ctx, query, hospitalID, now).Scan(
		&stats.TotalMedicines, &stats.LowStockCount, &stats.ExpiredCount,
		&stats.ExpiringSoonCount, &stats.OutOfStockCount, &stats.TotalStockValue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get pharmacy dashboard stats: %w", err)
	}
	return &stats, nil
}

func (r *medicineRepository) ExistsByNameAndBatch(ctx context.Context, hospitalID uuid.UUID, name, batch string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM medicines
			WHERE hospital_id = $1 AND LOWER(name) = LOWER($2) AND batch_number = $3
		)
	`
	err := r.db.GetContext(ctx, &exists, query, hospitalID, name, batch)
	return exists, err
}

func (r *medicineRepository) GetActiveByName(ctx context.Context, hospitalID uuid.UUID, name string) (*model.Medicine, error) {
	query := `
		SELECT * FROM medicines
		WHERE hospital_id = $1 AND LOWER(name) = LOWER($2) AND is_active = true
		ORDER BY created_at
		LIMIT 1
	`
	var medicine model.Medicine
	err := r.db.GetContext(ctx, &medicine, query, hospitalID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medicine by name: %w", err)
	}
	return &medicine, nil
}
