package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/repository"
	"github.com/anshuman/hospital-api/internal/service/subscription"
	apperrors "github.com/anshuman/hospital-api/pkg/errors"
	"github.com/anshuman/hospital-api/pkg/validator"
)

type Service struct {
	repo   repository.PatientRepository
	subSvc *subscription.Service
	va     *validator.Validator
}

func NewService(repo repository.PatientRepository, subSvc *subscription.Service) *Service {
	return &Service{repo: repo, subSvc: subSvc, va: validator.New()}
}

// Create runs struct validation here rather than relying on request binding,
// because the appointment wizard's quick-create path also lands here.
func (s *Service) Create(ctx context.Context, hospitalID uuid.UUID, req *model.CreatePatientRequest) (*model.Patient, error) {
	if err := s.va.Validate(req); err != nil {
		return nil, apperrors.BadRequest(err.Error(), nil)
	}

	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), nil)
	}

	if limit, err := s.subSvc.CheckLimit(ctx, hospitalID, "patients"); err != nil {
		return nil, err
	} else if !limit.Allowed {
		return nil, apperrors.Forbidden("patient limit reached for current plan", nil)
	}

	if exists, err := s.repo.ExistsByPhone(ctx, hospitalID, phone); err != nil {
		return nil, err
	} else if exists {
		return nil, apperrors.Conflict(fmt.Sprintf("patient with phone %s already exists", phone), nil)
	}
	if req.Email != "" {
		if exists, err := s.repo.ExistsByEmail(ctx, hospitalID, req.Email); err != nil {
			return nil, err
		} else if exists {
			return nil, apperrors.Conflict(fmt.Sprintf("patient with email %s already exists", req.Email), nil)
		}
	}

	patient := &model.Patient{
		Base:                  model.Base{ID: uuid.New()},
		HospitalID:            hospitalID,
		PatientID:             model.NewCode(model.CodePrefixPatient),
		FirstName:             strings.TrimSpace(req.FirstName),
		LastName:              strings.TrimSpace(req.LastName),
		Email:                 strings.TrimSpace(req.Email),
		Phone:                 phone,
		Gender:                coerceGender(req.Gender),
		BloodGroup:            coerceBloodGroup(req.BloodGroup),
		Address:               req.Address,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		MedicalHistory:        req.MedicalHistory,
		Allergies:             req.Allergies,
		InsuranceNumber:       req.InsuranceNumber,
	}
	if req.DateOfBirth != "" {
		dob, ok := parseDOB(req.DateOfBirth)
		if !ok {
			return nil, apperrors.BadRequest(fmt.Sprintf("invalid date of birth: %s", req.DateOfBirth), nil)
		}
		patient.DateOfBirth = &dob
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, hospitalID, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil || patient.HospitalID != hospitalID {
		return nil, apperrors.NotFound("patient", nil)
	}
	return patient, nil
}

func (s *Service) Update(ctx context.Context, hospitalID, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.Get(ctx, hospitalID, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		patient.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		patient.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		patient.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		phone, err := normalizePhone(*req.Phone)
		if err != nil {
			return nil, apperrors.BadRequest(err.Error(), nil)
		}
		if phone != patient.Phone {
			if exists, err := s.repo.ExistsByPhone(ctx, hospitalID, phone); err != nil {
				return nil, err
			} else if exists {
				return nil, apperrors.Conflict(fmt.Sprintf("patient with phone %s already exists", phone), nil)
			}
		}
		patient.Phone = phone
	}
	if req.DateOfBirth != nil {
		dob, ok := parseDOB(*req.DateOfBirth)
		if !ok {
			return nil, apperrors.BadRequest(fmt.Sprintf("invalid date of birth: %s", *req.DateOfBirth), nil)
		}
		patient.DateOfBirth = &dob
	}
	if req.Gender != nil {
		patient.Gender = coerceGender(*req.Gender)
	}
	if req.BloodGroup != nil {
		patient.BloodGroup = coerceBloodGroup(*req.BloodGroup)
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.EmergencyContactName != nil {
		patient.EmergencyContactName = *req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		patient.EmergencyContactPhone = *req.EmergencyContactPhone
	}
	if req.MedicalHistory != nil {
		patient.MedicalHistory = *req.MedicalHistory
	}
	if req.Allergies != nil {
		patient.Allergies = *req.Allergies
	}
	if req.InsuranceNumber != nil {
		patient.InsuranceNumber = *req.InsuranceNumber
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) Delete(ctx context.Context, hospitalID, id uuid.UUID) error {
	if _, err := s.Get(ctx, hospitalID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// BulkDelete removes patients one at a time; each id gets its own result and
// a failure never aborts the rest of the batch.
func (s *Service) BulkDelete(ctx context.Context, hospitalID uuid.UUID, ids []uuid.UUID) []model.BulkDeleteResult {
	results := make([]model.BulkDeleteResult, 0, len(ids))
	for _, id := range ids {
		result := model.BulkDeleteResult{ID: id, Status: "deleted"}
		if err := s.Delete(ctx, hospitalID, id); err != nil {
			result.Status = "failed"
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results
}

func (s *Service) List(ctx context.Context, hospitalID uuid.UUID, filters *model.PatientFilters) ([]*model.PatientResponse, model.PageInfo, error) {
	filters.Normalize(100)
	patients, total, err := s.repo.List(ctx, hospitalID, filters)
	if err != nil {
		return nil, model.PageInfo{}, err
	}

	now := time.Now()
	out := make([]*model.PatientResponse, 0, len(patients))
	for _, p := range patients {
		out = append(out, p.ToResponse(now))
	}
	return out, model.NewPageInfo(filters.Pagination, total), nil
}
