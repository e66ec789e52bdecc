package dto

import (
	"time"

	"github.com/fintrack/fintrack_backend/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name string              `json:"name" binding:"required"`
	Kind domain.CategoryKind `json:"kind" binding:"required,oneof=INCOME EXPENSE INVESTMENT"`
}

// UpdateCategoryRequest defines the data allowed for updating a category.
type UpdateCategoryRequest struct {
	Name *string `json:"name"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID    string              `json:"categoryID"`
	Name          string              `json:"name"`
	Kind          domain.CategoryKind `json:"kind"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
}

// ToCategoryResponse converts a domain.Category to its response DTO.
func ToCategoryResponse(cat *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID:    cat.CategoryID,
		Name:          cat.Name,
		Kind:          cat.Kind,
		CreatedAt:     cat.CreatedAt,
		LastUpdatedAt: cat.LastUpdatedAt,
	}
}

// ToListCategoryResponse converts a slice of domain categories.
func ToListCategoryResponse(cats []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(cats))
	for i := range cats {
		res[i] = ToCategoryResponse(&cats[i])
	}
	return res
}
