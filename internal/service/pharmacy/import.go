package pharmacy

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
	apperrors "github.com/anshuman/hospital-api/pkg/errors"
)

// Header variants accepted by the importer, keyed by the canonical column.
var importHeaderVariants = map[string][]string{
	"name":          {"name", "medicine_name", "medicine name", "medicine"},
	"generic_name":  {"generic_name", "generic name", "generic"},
	"brand_name":    {"brand_name", "brand name", "brand"},
	"manufacturer":  {"manufacturer", "company"},
	"category":      {"category"},
	"strength":      {"strength"},
	"batch_number":  {"batch_number", "batch number", "batch"},
	"quantity":      {"quantity", "quantity_in_stock", "stock", "qty"},
	"unit":          {"unit", "unit_of_measurement", "unit of measurement"},
	"reorder_level": {"reorder_level", "reorder level", "reorder"},
	"cost_price":    {"cost_price", "cost price", "cost"},
	"selling_price": {"selling_price", "selling price", "price"},
	"mrp":           {"mrp"},
	"expiry_date":   {"expiry_date", "expiry date", "expiry", "exp_date"},
	"location":      {"location", "storage_location", "storage location"},
}

const maxReportedErrors = 10

// MRP-derived cost fallback used when the sheet carries MRP but no cost.
const costFromMRPRatio = 0.6

// ImportCSV reads a medicine CSV. Rows fail individually; a row whose name
// matches an existing active medicine adds its quantity to that medicine
// and is reported as skipped.
func (s *Service) ImportCSV(ctx context.Context, hospitalID uuid.UUID, r io.Reader) (*model.MedicineImportReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.BadRequest("failed to read CSV file", err)
		}
		rows = append(rows, record)
	}
	return s.importRows(ctx, hospitalID, rows)
}

// ImportXLSX reads the first sheet of an Excel workbook and imports it with
// the same row semantics as ImportCSV.
func (s *Service) ImportXLSX(ctx context.Context, hospitalID uuid.UUID, r io.Reader) (*model.MedicineImportReport, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.BadRequest("failed to read Excel file", err)
	}
	sheet := file.GetSheetName(1)
	if sheet == "" {
		return nil, apperrors.BadRequest("Excel file has no sheets", nil)
	}
	return s.importRows(ctx, hospitalID, file.GetRows(sheet))
}

func (s *Service) importRows(ctx context.Context, hospitalID uuid.UUID, rows [][]string) (*model.MedicineImportReport, error) {
	if len(rows) == 0 {
		return nil, apperrors.BadRequest("file is empty or has no headers", nil)
	}

	columns := mapColumns(rows[0])
	var missing []string
	for _, field := range []string{"name", "quantity"} {
		if _, ok := columns[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.BadRequest(fmt.Sprintf(
			"missing required columns: %s. Required: name, quantity",
			strings.Join(missing, ", ")), nil)
	}

	report := &model.MedicineImportReport{Skipped: []string{}, Errors: []string{}}
	var allErrors []string

	for i, record := range rows[1:] {
		rowNum := i + 2
		skippedName, err := s.importRow(ctx, hospitalID, columns, record)
		if err != nil {
			report.Failed++
			allErrors = append(allErrors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		if skippedName != "" {
			report.Skipped = append(report.Skipped, skippedName)
			continue
		}
		report.Success++
	}

	if len(allErrors) > maxReportedErrors {
		allErrors = allErrors[:maxReportedErrors]
	}
	report.Errors = allErrors
	return report, nil
}

func (s *Service) importRow(ctx context.Context, hospitalID uuid.UUID, columns map[string]int, record []string) (string, error) {
	get := func(field string) string {
		idx, ok := columns[field]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name := get("name")
	if name == "" {
		return "", fmt.Errorf("medicine name is required")
	}

	quantity, err := parseQuantity(get("quantity"))
	if err != nil {
		return "", err
	}

	existing, err := s.repo.GetActiveByName(ctx, hospitalID, name)
	if err != nil {
		return "", err
	}
	if existing != nil {
		existing.QuantityInStock += quantity
		if err := s.repo.Update(ctx, existing); err != nil {
			return "", err
		}
		return name, nil
	}

	mrp := parsePrice(get("mrp"))
	costPrice := parsePrice(get("cost_price"))
	sellingPrice := parsePrice(get("selling_price"))
	if costPrice == nil && mrp != nil {
		derived := math.Round(*mrp*costFromMRPRatio*100) / 100
		costPrice = &derived
	}

	medicine := &model.Medicine{
		Base:                 model.Base{ID: uuid.New()},
		HospitalID:           hospitalID,
		Name:                 name,
		GenericName:          get("generic_name"),
		BrandName:            get("brand_name"),
		Manufacturer:         get("manufacturer"),
		Category:             get("category"),
		Strength:             get("strength"),
		BatchNumber:          get("batch_number"),
		QuantityInStock:      quantity,
		UnitOfMeasurement:    defaultString(get("unit"), "pieces"),
		StorageLocation:      get("location"),
		IsActive:             true,
		PrescriptionRequired: true,
	}
	if costPrice != nil {
		medicine.CostPrice = *costPrice
	}
	if sellingPrice != nil {
		medicine.SellingPrice = *sellingPrice
	}
	if mrp != nil {
		medicine.MRP = *mrp
	}
	if raw := get("reorder_level"); raw != "" {
		if level, err := parseQuantity(raw); err == nil {
			medicine.ReorderLevel = level
		}
	}
	if raw := get("expiry_date"); raw != "" {
		if d, ok := parseDate(raw); ok {
			medicine.ExpiryDate = &d
		}
	}

	if err := s.repo.Create(ctx, medicine); err != nil {
		return "", err
	}
	return "", nil
}

func mapColumns(header []string) map[string]int {
	lower := make([]string, len(header))
	for i, h := range header {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}

	columns := make(map[string]int)
	for field, variants := range importHeaderVariants {
		for _, v := range variants {
			for i, h := range lower {
				if h == v {
					columns[field] = i
					break
				}
			}
			if _, ok := columns[field]; ok {
				break
			}
		}
	}
	return columns
}

// parseQuantity accepts integers and spreadsheet floats like "120.0".
func parseQuantity(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("quantity is required")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity: %s", raw)
	}
	q := int(f)
	if q < 0 {
		return 0, fmt.Errorf("quantity cannot be negative: %s", raw)
	}
	return q, nil
}

// parsePrice returns nil for blank, unparseable, or negative values.
func parsePrice(raw string) *float64 {
	if raw == "" {
		return nil
	}
	raw = strings.TrimPrefix(raw, "₹")
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || f < 0 {
		return nil
	}
	return &f
}

var templateColumns = []string{
	"name", "generic_name", "brand_name", "manufacturer", "category",
	"strength", "batch_number", "quantity", "unit", "reorder_level",
	"cost_price", "selling_price", "mrp", "expiry_date", "location",
}

// TemplateCSV returns the CSV template offered for download next to the
// import button.
func (s *Service) TemplateCSV() []byte {
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Write(templateColumns)
	w.Write([]string{
		"Paracetamol", "Acetaminophen", "Crocin", "GSK", "Analgesic",
		"500mg", "B2024-117", "200", "pieces", "50",
		"1.20", "2.00", "2.50", "2027-03-31", "Rack A3",
	})
	w.Write([]string{
		"Amoxicillin", "Amoxicillin", "Mox", "Ranbaxy", "Antibiotic",
		"250mg", "", "80", "strips", "20",
		"", "45.00", "52.00", "15-08-2026", "",
	})
	w.Flush()
	return []byte(b.String())
}

// TemplateXLSX returns the same template as an Excel workbook.
func (s *Service) TemplateXLSX() ([]byte, error) {
	file := excelize.NewFile()
	sheet := "Medicines"
	file.NewSheet(sheet)
	file.DeleteSheet("Sheet1")

	for i, col := range templateColumns {
		file.SetCellValue(sheet, cellRef(i, 1), col)
	}
	sample := []string{
		"Paracetamol", "Acetaminophen", "Crocin", "GSK", "Analgesic",
		"500mg", "B2024-117", "200", "pieces", "50",
		"1.20", "2.00", "2.50", "2027-03-31", "Rack A3",
	}
	for i, v := range sample {
		file.SetCellValue(sheet, cellRef(i, 2), v)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write template workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportXLSX writes the hospital's full inventory to an Excel workbook.
func (s *Service) ExportXLSX(ctx context.Context, hospitalID uuid.UUID) ([]byte, error) {
	filters := &model.MedicineFilters{}
	filters.Page = 1
	filters.PerPage = 10000
	medicines, _, err := s.repo.List(ctx, hospitalID, filters)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	sheet := "Inventory"
	file.NewSheet(sheet)
	file.DeleteSheet("Sheet1")

	headers := []string{
		"Name", "Generic Name", "Category", "Batch", "Quantity", "Unit",
		"Cost Price", "Selling Price", "MRP", "Expiry Date", "Stock Status", "Location",
	}
	for i, h := range headers {
		file.SetCellValue(sheet, cellRef(i, 1), h)
	}

	for row, m := range medicines {
		values := []interface{}{
			m.Name, m.GenericName, m.Category, m.BatchNumber,
			m.QuantityInStock, m.UnitOfMeasurement,
			m.CostPrice, m.SellingPrice, m.MRP,
			formatExpiry(m.ExpiryDate), m.StockStatus(), m.StorageLocation,
		}
		for col, v := range values {
			file.SetCellValue(sheet, cellRef(col, row+2), v)
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write inventory workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatExpiry(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// cellRef builds an A1-style reference for zero-based column indexes up to Z.
func cellRef(col, row int) string {
	return fmt.Sprintf("%c%d", 'A'+col, row)
}
