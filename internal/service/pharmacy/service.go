package pharmacy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/repository"
	apperrors "github.com/anshuman/hospital-api/pkg/errors"
)

type Service struct {
	repo       repository.MedicineRepository
	outboxRepo repository.OutboxRepository
	demoMode   bool
}

func NewService(repo repository.MedicineRepository, outboxRepo repository.OutboxRepository, demoMode bool) *Service {
	return &Service{repo: repo, outboxRepo: outboxRepo, demoMode: demoMode}
}

func (s *Service) Create(ctx context.Context, hospitalID uuid.UUID, req *model.CreateMedicineRequest) (*model.MedicineResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.BadRequest("medicine name is required", nil)
	}
	if *req.QuantityInStock < 0 {
		return nil, apperrors.BadRequest("quantity cannot be negative", nil)
	}

	if exists, err := s.repo.ExistsByNameAndBatch(ctx, hospitalID, name, req.BatchNumber); err != nil {
		return nil, err
	} else if exists {
		return nil, apperrors.Conflict(fmt.Sprintf("medicine %q with batch %q already exists", name, req.BatchNumber), nil)
	}

	medicine := &model.Medicine{
		Base:               model.Base{ID: uuid.New()},
		HospitalID:         hospitalID,
		Name:               name,
		GenericName:        req.GenericName,
		BrandName:          req.BrandName,
		Manufacturer:       req.Manufacturer,
		Category:           req.Category,
		TherapeuticClass:   req.TherapeuticClass,
		Composition:        req.Composition,
		Strength:           req.Strength,
		DosageForm:         req.DosageForm,
		BatchNumber:        req.BatchNumber,
		QuantityInStock:    *req.QuantityInStock,
		UnitOfMeasurement:  defaultString(req.UnitOfMeasurement, "pieces"),
		ReorderLevel:       req.ReorderLevel,
		MaxStockLevel:      req.MaxStockLevel,
		CostPrice:          *req.CostPrice,
		SellingPrice:       *req.SellingPrice,
		MRP:                req.MRP,
		DiscountPercentage: req.DiscountPercentage,
		StorageLocation:    req.StorageLocation,
		StorageTemperature: req.StorageTemperature,
		DrugLicenseNumber:  req.DrugLicenseNumber,
		Schedule:           req.Schedule,
		IsActive:           true,
	}
	medicine.PrescriptionRequired = req.PrescriptionRequired == nil || *req.PrescriptionRequired

	if req.ManufacturingDate != "" {
		d, ok := parseDate(req.ManufacturingDate)
		if !ok {
			return nil, apperrors.BadRequest(fmt.Sprintf("invalid manufacturing date: %s", req.ManufacturingDate), nil)
		}
		medicine.ManufacturingDate = &d
	}
	if req.ExpiryDate != "" {
		d, ok := parseDate(req.ExpiryDate)
		if !ok {
			return nil, apperrors.BadRequest(fmt.Sprintf("invalid expiry date: %s", req.ExpiryDate), nil)
		}
		medicine.ExpiryDate = &d
	}

	if err := s.repo.Create(ctx, medicine); err != nil {
		return nil, err
	}
	return medicine.ToResponse(time.Now()), nil
}

func (s *Service) Get(ctx context.Context, hospitalID, id uuid.UUID) (*model.MedicineResponse, error) {
	medicine, err := s.getOwned(ctx, hospitalID, id)
	if err != nil {
		return nil, err
	}
	return medicine.ToResponse(time.Now()), nil
}

func (s *Service) Update(ctx context.Context, hospitalID, id uuid.UUID, req *model.UpdateMedicineRequest) (*model.MedicineResponse, error) {
	medicine, err := s.getOwned(ctx, hospitalID, id)
	if err != nil {
		return nil, err
	}

	wasLow := medicine.IsLowStock()

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperrors.BadRequest("medicine name cannot be empty", nil)
		}
		medicine.Name = strings.TrimSpace(*req.Name)
	}
	if req.GenericName != nil {
		medicine.GenericName = *req.GenericName
	}
	if req.BrandName != nil {
		medicine.BrandName = *req.BrandName
	}
	if req.Manufacturer != nil {
		medicine.Manufacturer = *req.Manufacturer
	}
	if req.Category != nil {
		medicine.Category = *req.Category
	}
	if req.Strength != nil {
		medicine.Strength = *req.Strength
	}
	if req.BatchNumber != nil {
		medicine.BatchNumber = *req.BatchNumber
	}
	if req.QuantityInStock != nil {
		if *req.QuantityInStock < 0 {
			return nil, apperrors.BadRequest("quantity cannot be negative", nil)
		}
		medicine.QuantityInStock = *req.QuantityInStock
	}
	if req.ReorderLevel != nil {
		medicine.ReorderLevel = *req.ReorderLevel
	}
	if req.MaxStockLevel != nil {
		medicine.MaxStockLevel = *req.MaxStockLevel
	}
	if req.CostPrice != nil {
		medicine.CostPrice = *req.CostPrice
	}
	if req.SellingPrice != nil {
		medicine.SellingPrice = *req.SellingPrice
	}
	if req.MRP != nil {
		medicine.MRP = *req.MRP
	}
	if req.ExpiryDate != nil {
		if *req.ExpiryDate == "" {
			medicine.ExpiryDate = nil
		} else {
			d, ok := parseDate(*req.ExpiryDate)
			if !ok {
				return nil, apperrors.BadRequest(fmt.Sprintf("invalid expiry date: %s", *req.ExpiryDate), nil)
			}
			medicine.ExpiryDate = &d
		}
	}
	if req.StorageLocation != nil {
		medicine.StorageLocation = *req.StorageLocation
	}

	if err := s.repo.Update(ctx, medicine); err != nil {
		return nil, err
	}

	if !wasLow && medicine.IsLowStock() {
		s.emit(ctx, model.EventMedicineLowStock, map[string]interface{}{
			"medicine_id": medicine.ID,
			"hospital_id": hospitalID,
			"name":        medicine.Name,
			"quantity":    medicine.QuantityInStock,
		})
	}
	return medicine.ToResponse(time.Now()), nil
}

func (s *Service) Delete(ctx context.Context, hospitalID, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, hospitalID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// DeleteAll clears the hospital's entire inventory and reports how many
// rows went away.
func (s *Service) DeleteAll(ctx context.Context, hospitalID uuid.UUID) (int64, error) {
	return s.repo.DeleteAll(ctx, hospitalID)
}

func (s *Service) List(ctx context.Context, hospitalID uuid.UUID, filters *model.MedicineFilters) ([]*model.MedicineResponse, model.PageInfo, *model.PharmacySummary, error) {
	filters.Normalize(200)
	medicines, total, err := s.repo.List(ctx, hospitalID, filters)
	if err != nil {
		return nil, model.PageInfo{}, nil, err
	}

	now := time.Now()
	out := make([]*model.MedicineResponse, 0, len(medicines))
	for _, m := range medicines {
		out = append(out, m.ToResponse(now))
	}

	summary, err := s.repo.GetSummary(ctx, hospitalID, now)
	if err != nil {
		return nil, model.PageInfo{}, nil, err
	}
	return out, model.NewPageInfo(filters.Pagination, total), summary, nil
}

// DashboardStats returns the live inventory figures; an empty inventory gets
// the sample figures instead when demo mode is on.
func (s *Service) DashboardStats(ctx context.Context, hospitalID uuid.UUID) (*model.PharmacyDashboardStats, error) {
	stats, err := s.repo.GetDashboardStats(ctx, hospitalID, time.Now())
	if err != nil {
		return nil, err
	}
	if s.demoMode && stats.TotalMedicines == 0 {
		return model.DemoPharmacyStats(), nil
	}
	return stats, nil
}

func (s *Service) getOwned(ctx context.Context, hospitalID, id uuid.UUID) (*model.Medicine, error) {
	medicine, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if medicine == nil || medicine.HospitalID != hospitalID {
		return nil, apperrors.NotFound("medicine", nil)
	}
	return medicine, nil
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

var medicineDateFormats = []string{"2006-01-02", "02-01-2006", "02/01/2006", "2006/01/02", "02-01-06", "02/01/06"}

func parseDate(raw string) (time.Time, bool) {
	for _, format := range medicineDateFormats {
		if t, err := time.Parse(format, strings.TrimSpace(raw)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (s *Service) emit(ctx context.Context, eventType string, payload map[string]interface{}) {
	if s.outboxRepo == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = s.outboxRepo.Create(ctx, &model.OutboxEvent{EventType: eventType, Payload: raw})
}
