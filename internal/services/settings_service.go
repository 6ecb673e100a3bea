package services

import (
	"context"

	"github.com/NasuPanda/mnemos-web/internal/errors"
	"github.com/NasuPanda/mnemos-web/internal/logger"
	"github.com/NasuPanda/mnemos-web/internal/models"
)

// SettingsService handles review interval settings
type SettingsService interface {
	Get(ctx context.Context) models.Settings
	Update(ctx context.Context, settings models.Settings) (models.Settings, error)
}

type settingsService struct {
	store DocumentStore
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(store DocumentStore) SettingsService {
	return &settingsService{store: store}
}

func (s *settingsService) Get(ctx context.Context) models.Settings {
	return s.store.Get(ctx).Settings
}

func (s *settingsService) Update(ctx context.Context, settings models.Settings) (models.Settings, error) {
	if err := settings.Validate(); err != nil {
		return models.Settings{}, errors.NewValidationError("settings", err.Error())
	}

	if _, err := s.store.Update(ctx, func(doc *models.Document) error {
		doc.Settings = settings
		return nil
	}); err != nil {
		return models.Settings{}, err
	}

	logger.FromContext(ctx).Info("updated settings: confident=%d, medium=%d, wtf=%d",
		settings.ConfidentDays, settings.MediumDays, settings.WTFDays)
	return settings, nil
}
