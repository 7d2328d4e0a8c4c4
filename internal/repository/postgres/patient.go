package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/repository"
)

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(base BaseRepository) repository.PatientRepository {
	return &patientRepository{base}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, hospital_id, patient_id, first_name, last_name, email, phone,
			date_of_birth, gender, blood_group, address,
			emergency_contact_name, emergency_contact_phone,
			medical_history, allergies, insurance_number, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)
	`
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.HospitalID,
		patient.PatientID,
		patient.FirstName,
		patient.LastName,
		patient.Email,
		patient.Phone,
		patient.DateOfBirth,
		patient.Gender,
		patient.BloodGroup,
		patient.Address,
		patient.EmergencyContactName,
		patient.EmergencyContactPhone,
		patient.MedicalHistory,
		patient.Allergies,
		patient.InsuranceNumber,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET first_name = $1, last_name = $2, email = $3, phone = $4,
			date_of_birth = $5, gender = $6, blood_group = $7, address = $8,
			emergency_contact_name = $9, emergency_contact_phone = $10,
			medical_history = $11, allergies = $12, insurance_number = $13,
			updated_at = $14
		WHERE id = $15
	`
	_, err := r.db.ExecContext(ctx, query,
		patient.FirstName,
		patient.LastName,
		patient.Email,
		patient.Phone,
		patient.DateOfBirth,
		patient.Gender,
		patient.BloodGroup,
		patient.Address,
		patient.EmergencyContactName,
		patient.EmergencyContactPhone,
		patient.MedicalHistory,
		patient.Allergies,
		patient.InsuranceNumber,
		time.Now(),
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return nil
}

// Delete removes the patient and their appointments together.
func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM appointments WHERE patient_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete patient appointments: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete patient: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("patient not found")
		}
		return nil
	})
}

func (r *patientRepository) List(ctx context.Context, hospitalID uuid.UUID, filters *model.PatientFilters) ([]*model.Patient, int, error) {
	conditions := []string{"hospital_id = $1"}
	args := []interface{}{hospitalID}
	idx := 2

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR phone ILIKE $%d OR patient_id ILIKE $%d)",
			idx, idx, idx, idx))
		args = append(args, "%"+filters.Search+"%")
		idx++
	}
	if filters.Gender != "" {
		conditions = append(conditions, fmt.Sprintf("gender = $%d", idx))
		args = append(args, filters.Gender)
		idx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM patients "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT * FROM patients %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, idx, idx+1,
	)
	args = append(args, filters.PerPage, filters.Offset())

	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, total, nil
}

func (r *patientRepository) ExistsByPhone(ctx context.Context, hospitalID uuid.UUID, phone string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM patients WHERE hospital_id = $1 AND phone = $2)`
	err := r.db.GetContext(ctx, &exists, query, hospitalID, phone)
	return exists, err
}

func (r *patientRepository) ExistsByEmail(ctx context.Context, hospitalID uuid.UUID, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM patients WHERE hospital_id = $1 AND LOWER(email) = LOWER($2))`
	err := r.db.GetContext(ctx, &exists, query, hospitalID, email)
	return exists, err
}

func (r *patientRepository) Count(ctx context.Context, hospitalID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM patients WHERE hospital_id = $1`, hospitalID)
	return count, err
}
