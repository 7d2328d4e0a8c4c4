package settings

import (
	"context"
	"encoding/json"

	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/repository"
	apperrors "github.com/anshuman/hospital-api/pkg/errors"
)

type Service struct {
	repo repository.SettingsRepository
}

func NewService(repo repository.SettingsRepository) *Service {
	return &Service{repo: repo}
}

// Get returns the stored settings merged over defaults, so documents written
// by older releases still carry every current key.
func (s *Service) Get(ctx context.Context) (model.AdminSettings, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	defaults := model.DefaultAdminSettings()
	if stored == nil {
		return defaults, nil
	}
	return model.MergeSettings(defaults, stored), nil
}

// Update merges the submitted sections over the current document, validates
// the result, and persists it whole.
func (s *Service) Update(ctx context.Context, req *model.UpdateSettingsRequest) (model.AdminSettings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	merged := model.AdminSettings(model.MergeSettings(current, req.Settings))
	if err := merged.Validate(); err != nil {
		return nil, apperrors.BadRequest(err.Error(), nil)
	}

	if err := s.repo.Save(ctx, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Validate runs the Update checks against the submitted sections without
// persisting anything, so the console can flag bad values before saving.
func (s *Service) Validate(ctx context.Context, req *model.UpdateSettingsRequest) error {
	current, err := s.Get(ctx)
	if err != nil {
		return err
	}

	merged := model.AdminSettings(model.MergeSettings(current, req.Settings))
	if err := merged.Validate(); err != nil {
		return apperrors.BadRequest(err.Error(), nil)
	}
	return nil
}

// Reset restores the default document.
func (s *Service) Reset(ctx context.Context) (model.AdminSettings, error) {
	defaults := model.DefaultAdminSettings()
	if err := s.repo.Save(ctx, defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}

// Export renders the effective settings as an indented JSON document for
// download.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(settings, "", "  ")
}
