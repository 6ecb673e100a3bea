package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NasuPanda/mnemos-web/internal/errors"
	"github.com/NasuPanda/mnemos-web/internal/logger"
	"github.com/NasuPanda/mnemos-web/internal/models"
	"github.com/NasuPanda/mnemos-web/internal/review"
)

// ReviewRequest records how a review went.
type ReviewRequest struct {
	Type       review.Tier `json:"review_type"`
	CustomDays int         `json:"custom_days,omitempty"`
}

// ItemService handles item-related business logic
type ItemService interface {
	ListActive(ctx context.Context) []models.Item
	ListArchived(ctx context.Context) []models.Item
	ListDue(ctx context.Context, now time.Time) []models.Item
	Get(ctx context.Context, id string) (*models.Item, error)
	Create(ctx context.Context, input models.ItemInput) (*models.Item, error)
	Update(ctx context.Context, id string, input models.ItemInput) (*models.Item, error)
	Delete(ctx context.Context, id string) error
	Review(ctx context.Context, id string, req ReviewRequest) (*models.Item, error)
	SetArchived(ctx context.Context, id string, archived bool) (*models.Item, error)
}

type itemService struct {
	store DocumentStore
	now   func() time.Time
	newID func() string
}

// NewItemService creates a new ItemService
func NewItemService(store DocumentStore) ItemService {
	return &itemService{store: store, now: time.Now, newID: uuid.NewString}
}

func (s *itemService) ListActive(ctx context.Context) []models.Item {
	return s.store.Active(ctx)
}

func (s *itemService) ListArchived(ctx context.Context) []models.Item {
	return s.store.Archived(ctx)
}

func (s *itemService) ListDue(ctx context.Context, now time.Time) []models.Item {
	due := make([]models.Item, 0)
	for _, it := range s.store.Active(ctx) {
		if review.IsDue(it, now) {
			due = append(due, it)
		}
	}
	return due
}

func (s *itemService) Get(ctx context.Context, id string) (*models.Item, error) {
	doc := s.store.Get(ctx)
	i := doc.FindItem(id)
	if i < 0 {
		return nil, errors.NewNotFoundError("item", id)
	}
	it := doc.Items[i].Clone()
	return &it, nil
}

func validateItemInput(input models.ItemInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return errors.NewValidationError("name", "cannot be empty")
	}
	if strings.TrimSpace(input.Section) == "" {
		return errors.NewValidationError("section", "cannot be empty")
	}
	return nil
}

func (s *itemService) Create(ctx context.Context, input models.ItemInput) (*models.Item, error) {
	log := logger.FromContext(ctx)

	if err := validateItemInput(input); err != nil {
		return nil, err
	}

	stamp := models.FormatTimestamp(s.now())
	item := input.Apply(models.Item{
		ID:           s.newID(),
		CreatedDate:  stamp,
		LastAccessed: stamp,
	})

	if _, err := s.store.Update(ctx, func(doc *models.Document) error {
		doc.Items = append(doc.Items, item)
		if doc.EnsureCategory(item.Section) {
			log.Debug("added category %q from new item", item.Section)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	log.Info("created item: id=%s, section=%s", item.ID, item.Section)
	out := item.Clone()
	return &out, nil
}

func (s *itemService) Update(ctx context.Context, id string, input models.ItemInput) (*models.Item, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, func(doc *models.Document, it *models.Item) error {
		*it = input.Apply(*it)
		doc.EnsureCategory(it.Section)
		return nil
	})
}

func (s *itemService) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	_, err := s.store.Update(ctx, func(doc *models.Document) error {
		i := doc.FindItem(id)
		if i < 0 {
			return errors.NewNotFoundError("item", id)
		}
		doc.Items = append(doc.Items[:i], doc.Items[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("deleted item: id=%s", id)
	return nil
}

func (s *itemService) Review(ctx context.Context, id string, req ReviewRequest) (*models.Item, error) {
	log := logger.FromContext(ctx)
	log.Debug("reviewing item: id=%s, type=%s", id, req.Type)

	return s.mutate(ctx, id, func(doc *models.Document, it *models.Item) error {
		updated, err := review.Apply(*it, req.Type, req.CustomDays, doc.Settings, s.now())
		if err != nil {
			return errors.NewValidationError("review_type", err.Error())
		}
		*it = updated
		return nil
	})
}

func (s *itemService) SetArchived(ctx context.Context, id string, archived bool) (*models.Item, error) {
	return s.mutate(ctx, id, func(_ *models.Document, it *models.Item) error {
		it.Archived = archived
		return nil
	})
}

// mutate runs fn on the item with the given id inside one save and refreshes
// its last_accessed stamp.
func (s *itemService) mutate(ctx context.Context, id string, fn func(doc *models.Document, it *models.Item) error) (*models.Item, error) {
	var out models.Item
	_, err := s.store.Update(ctx, func(doc *models.Document) error {
		i := doc.FindItem(id)
		if i < 0 {
			return errors.NewNotFoundError("item", id)
		}
		if err := fn(doc, &doc.Items[i]); err != nil {
			return err
		}
		doc.Items[i].LastAccessed = models.FormatTimestamp(s.now())
		out = doc.Items[i].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
