package services

import (
	"context"

	"github.com/NasuPanda/mnemos-web/internal/models"
)

// DocumentStore is the part of datastore.Store the services depend on.
type DocumentStore interface {
	Get(ctx context.Context) *models.Document
	Active(ctx context.Context) []models.Item
	Archived(ctx context.Context) []models.Item
	Update(ctx context.Context, fn func(doc *models.Document) error) (*models.Document, error)
}
