package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fintrack/fintrack_backend/internal/apperrors"
	"github.com/fintrack/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrack/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrack/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack/fintrack_backend/internal/dto"
	"github.com/fintrack/fintrack_backend/internal/middleware"
)

// categoryService provides category management operations.
type categoryService struct {
	categoryRepo portsrepo.CategoryRepository
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo portsrepo.CategoryRepository) portssvc.CategorySvcFacade {
	return &categoryService{categoryRepo: categoryRepo}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) CreateCategory(ctx context.Context, ownerID string, req dto.CreateCategoryRequest) (*domain.Category, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown category kind %q", apperrors.ErrValidation, req.Kind)
	}

	now := time.Now().UTC()
	category := domain.Category{
		CategoryID: uuid.NewString(),
		OwnerID:    ownerID,
		Name:       req.Name,
		Kind:       req.Kind,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}

	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		logger.Error("Failed to save category", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save category: %w", err)
	}

	logger.Info("Category created", slog.String("category_id", category.CategoryID), slog.String("kind", string(category.Kind)))
	return &category, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, ownerID string, categoryID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, ownerID, categoryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find category", slog.String("error", err.Error()), slog.String("category_id", categoryID))
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context, ownerID string) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx, ownerID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list categories", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, ownerID string, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	category, err := s.categoryRepo.FindCategoryByID(ctx, ownerID, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name == nil {
		return category, nil
	}

	category.Name = *req.Name
	category.LastUpdatedAt = time.Now().UTC()
	category.LastUpdatedBy = ownerID

	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		logger.Error("Failed to update category", slog.String("error", err.Error()), slog.String("category_id", categoryID))
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	logger.Info("Category updated", slog.String("category_id", categoryID))
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, ownerID string, categoryID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.categoryRepo.DeleteCategory(ctx, ownerID, categoryID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to delete category", slog.String("error", err.Error()), slog.String("category_id", categoryID))
		}
		return err
	}

	logger.Info("Category deleted", slog.String("category_id", categoryID))
	return nil
}
