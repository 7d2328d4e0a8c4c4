package patient

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
	apperrors "github.com/anshuman/hospital-api/pkg/errors"
)

// Header variants accepted by the importer, keyed by the canonical column.
var importHeaderVariants = map[string][]string{
	"first_name":    {"first_name", "firstname", "first name", "fname"},
	"last_name":     {"last_name", "lastname", "last name", "lname", "surname"},
	"phone":         {"phone", "phone_number", "mobile", "contact", "phone number"},
	"email":         {"email", "email_address", "email address", "e-mail", "e_mail"},
	"date_of_birth": {"date_of_birth", "dob", "birth_date", "birthdate", "date of birth"},
	"gender":        {"gender", "sex"},
	"address":       {"address", "location"},
	"blood_group":   {"blood_group", "blood group", "blood_type", "blood type"},
}

var dobFormats = []string{
	"02-01-2006",
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
}

// defaultDOB is substituted with a row warning when a date cannot be parsed.
var defaultDOB = time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)

const maxReportedErrors = 10

// Import reads a patient CSV and creates one patient per valid row. Rows
// fail individually; the report carries counts and up to ten error lines.
func (s *Service) Import(ctx context.Context, hospitalID uuid.UUID, r io.Reader) (*model.ImportReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.BadRequest("CSV file is empty or has no headers", err)
	}

	columns := mapColumns(header)
	var missing []string
	for _, field := range []string{"first_name", "last_name", "phone"} {
		if _, ok := columns[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.BadRequest(fmt.Sprintf(
			"missing required columns: %s. Required: first_name, last_name, phone",
			strings.Join(missing, ", ")), nil)
	}

	report := &model.ImportReport{Errors: []string{}}
	var allErrors []string
	rowNum := 1

	for {
		rowNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Failed++
			allErrors = append(allErrors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}

		warnings, err := s.importRow(ctx, hospitalID, columns, record, rowNum)
		allErrors = append(allErrors, warnings...)
		if err != nil {
			report.Failed++
			allErrors = append(allErrors, fmt.Sprintf("Row %d: %v", rowNum, err))
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

func (s *Service) importRow(ctx context.Context, hospitalID uuid.UUID, columns map[string]int, record []string, rowNum int) ([]string, error) {
	get := func(field string) string {
		idx, ok := columns[field]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	firstName := get("first_name")
	lastName := get("last_name")
	phone := get("phone")

	if firstName == "" {
		return nil, fmt.Errorf("first name is required")
	}
	if lastName == "" {
		return nil, fmt.Errorf("last name is required")
	}
	if phone == "" {
		return nil, fmt.Errorf("phone is required")
	}

	phoneClean, err := normalizePhone(phone)
	if err != nil {
		return nil, err
	}

	var warnings []string
	dob := defaultDOB
	if raw := get("date_of_birth"); raw != "" {
		parsed, ok := parseDOB(raw)
		if ok {
			dob = parsed
		} else {
			warnings = append(warnings, fmt.Sprintf("Row %d: Invalid date format, used default date", rowNum))
		}
	}

	email := get("email")
	if email != "" && !strings.Contains(email, "@") {
		email = ""
	}

	if exists, err := s.repo.ExistsByPhone(ctx, hospitalID, phoneClean); err != nil {
		return warnings, err
	} else if exists {
		return warnings, fmt.Errorf("patient with phone %s already exists", phoneClean)
	}
	if email != "" {
		if exists, err := s.repo.ExistsByEmail(ctx, hospitalID, email); err != nil {
			return warnings, err
		} else if exists {
			return warnings, fmt.Errorf("patient with email %s already exists", email)
		}
	}

	patient := &model.Patient{
		Base:        model.Base{ID: uuid.New()},
		HospitalID:  hospitalID,
		PatientID:   model.NewCode(model.CodePrefixPatient),
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		Phone:       phoneClean,
		DateOfBirth: &dob,
		Gender:      coerceGender(get("gender")),
		BloodGroup:  coerceBloodGroup(get("blood_group")),
		Address:     get("address"),
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// Template returns the CSV template offered for download next to the import
// button.
func (s *Service) Template() []byte {
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Write([]string{"first_name", "last_name", "phone", "email", "date_of_birth", "gender", "blood_group", "address"})
	w.Write([]string{"Ramesh", "Kumar", "9876543210", "ramesh.kumar@example.com", "23-09-1975", "Male", "B+", "12 MG Road, Pune"})
	w.Write([]string{"Sunita", "Sharma", "9123456780", "", "1988-04-15", "Female", "O+", ""})
	w.Flush()
	return []byte(b.String())
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

// normalizePhone strips everything but digits, requires at least ten and
// keeps the last ten.
func normalizePhone(phone string) (string, error) {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	clean := digits.String()
	if len(clean) < 10 {
		return "", fmt.Errorf("phone number too short: %s", phone)
	}
	if len(clean) > 10 {
		clean = clean[len(clean)-10:]
	}
	return clean, nil
}

func parseDOB(raw string) (time.Time, bool) {
	for _, format := range dobFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func coerceGender(gender string) string {
	for _, g := range model.ValidGenders {
		if g == gender {
			return gender
		}
	}
	return "Male"
}

func coerceBloodGroup(bg string) string {
	for _, g := range model.ValidBloodGroups {
		if g == bg {
			return bg
		}
	}
	return ""
}
