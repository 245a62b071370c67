package ledger

import (
	"context"
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/events"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// CategoryService manages categories.
type CategoryService struct {
	categories service.CategoryStore
	events     events.Publisher
}

// NewCategoryService creates a category service.
func NewCategoryService(cats service.CategoryStore, pub events.Publisher) *CategoryService {
	return &CategoryService{categories: cats, events: pub}
}

// List returns every category.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categories.GetCategories(ctx)
}

// ListByKind returns the categories of one kind.
func (s *CategoryService) ListByKind(ctx context.Context, kind model.Kind) ([]model.Category, error) {
	return s.categories.GetCategoriesByKind(ctx, kind)
}

// Search returns categories whose name contains query.
func (s *CategoryService) Search(ctx context.Context, query string) ([]model.Category, error) {
	return s.categories.SearchCategories(ctx, query)
}

// Get returns a category or common.ErrNotFound.
func (s *CategoryService) Get(ctx context.Context, id string) (*model.Category, error) {
	cat, err := s.categories.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("category %s: %w", id, common.ErrNotFound)
	}
	return cat, nil
}

// Add creates a category.
func (s *CategoryService) Add(ctx context.Context, cat *model.Category) error {
	if err := s.categories.CreateCategory(ctx, cat); err != nil {
		return err
	}
	s.events.Publish(ctx, events.NewEvent(events.TopicCategories, events.ActionCreated, cat.ID))
	return nil
}

// Update replaces a category's name, kind, icon, and color.
func (s *CategoryService) Update(ctx context.Context, cat *model.Category) error {
	if err := s.categories.UpdateCategory(ctx, cat); err != nil {
		return err
	}
	s.events.Publish(ctx, events.NewEvent(events.TopicCategories, events.ActionUpdated, cat.ID))
	return nil
}

// Delete removes a category. Its transactions keep the dangling id and are
// shown as "Unknown" afterwards.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.events.Publish(ctx, events.NewEvent(events.TopicCategories, events.ActionDeleted, id))
	return nil
}
