package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/NasuPanda/mnemos-web/internal/errors"
	"github.com/NasuPanda/mnemos-web/internal/logger"
	"github.com/NasuPanda/mnemos-web/internal/models"
)

const maxCategoryNameLength = 100

var reservedCategoryNames = map[string]struct{}{
	"all": {}, "none": {}, "default": {}, "new": {},
	"add": {}, "delete": {}, "edit": {}, "settings": {},
}

// RenameResult reports the outcome of a category rename.
type RenameResult struct {
	OldName      string `json:"old_name"`
	NewName      string `json:"new_name"`
	ItemsUpdated int    `json:"items_updated"`
}

// CategoryService handles category-related business logic
type CategoryService interface {
	List(ctx context.Context) []string
	Add(ctx context.Context, name string) (string, error)
	Rename(ctx context.Context, oldName, newName string) (*RenameResult, error)
	Delete(ctx context.Context, name string) error
}

type categoryService struct {
	store DocumentStore
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(store DocumentStore) CategoryService {
	return &categoryService{store: store}
}

func (s *categoryService) List(ctx context.Context) []string {
	return s.store.Get(ctx).Categories
}

// normalizeCategoryName trims name and checks it against the naming rules.
func normalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.NewValidationError("name", "category name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLength {
		return "", errors.NewValidationError("name", fmt.Sprintf("category name cannot exceed %d characters", maxCategoryNameLength))
	}
	if _, ok := reservedCategoryNames[strings.ToLower(name)]; ok {
		return "", errors.NewValidationError("name", fmt.Sprintf("'%s' is a reserved name", name))
	}
	return name, nil
}

func (s *categoryService) Add(ctx context.Context, name string) (string, error) {
	log := logger.FromContext(ctx)

	name, err := normalizeCategoryName(name)
	if err != nil {
		return "", err
	}

	_, err = s.store.Update(ctx, func(doc *models.Document) error {
		if doc.HasCategoryFold(name, "") {
			return errors.NewConflictError("category already exists")
		}
		doc.Categories = append(doc.Categories, name)
		return nil
	})
	if err != nil {
		return "", err
	}

	log.Info("added category %q", name)
	return name, nil
}

func (s *categoryService) Rename(ctx context.Context, oldName, newName string) (*RenameResult, error) {
	log := logger.FromContext(ctx)

	newName, err := normalizeCategoryName(newName)
	if err != nil {
		return nil, err
	}

	result := &RenameResult{OldName: oldName, NewName: newName}
	_, err = s.store.Update(ctx, func(doc *models.Document) error {
		if !doc.HasCategory(oldName) {
			return errors.NewNotFoundError("category", oldName)
		}
		if doc.HasCategoryFold(newName, oldName) {
			return errors.NewConflictError("a category with the new name already exists")
		}
		result.ItemsUpdated = doc.RenameCategory(oldName, newName)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("renamed category %q to %q (%d items updated)", oldName, newName, result.ItemsUpdated)
	return result, nil
}

func (s *categoryService) Delete(ctx context.Context, name string) error {
	log := logger.FromContext(ctx)

	_, err := s.store.Update(ctx, func(doc *models.Document) error {
		if !doc.HasCategory(name) {
			return errors.NewNotFoundError("category", name)
		}
		if n := doc.CountSection(name); n > 0 {
			return errors.NewConflictError(fmt.Sprintf("cannot delete category '%s': it is used by %d item(s)", name, n))
		}
		doc.RemoveCategory(name)
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("deleted category %q", name)
	return nil
}
