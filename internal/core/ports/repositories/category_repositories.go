package repositories

import (
	"context"

	"github.com/fintrack/fintrack_backend/internal/core/domain"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	SaveCategory(ctx context.Context, category domain.Category) error
	FindCategoryByID(ctx context.Context, ownerID string, categoryID string) (*domain.Category, error)
	ListCategories(ctx context.Context, ownerID string) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, category domain.Category) error
	DeleteCategory(ctx context.Context, ownerID string, categoryID string) error
}
