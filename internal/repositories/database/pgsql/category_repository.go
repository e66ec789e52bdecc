package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fintrack/fintrack_backend/internal/apperrors"
	"github.com/fintrack/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrack/fintrack_backend/internal/core/ports/repositories"
	"github.com/fintrack/fintrack_backend/internal/models"
	"github.com/fintrack/fintrack_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoryColumns = `category_id, owner_id, name, kind, created_at, created_by, last_updated_at, last_updated_by`

type PgxCategoryRepository struct {
	pool *pgxpool.Pool
}

// newPgxCategoryRepository creates a new repository for category data.
func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepository {
	return &PgxCategoryRepository{pool: pool}
}

var _ portsrepo.CategoryRepository = (*PgxCategoryRepository)(nil)

// SaveCategory inserts a new category.
func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	modelCat := mapping.ToModelCategory(category)

	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		modelCat.CategoryID,
		modelCat.OwnerID,
		modelCat.Name,
		modelCat.Kind,
		modelCat.CreatedAt,
		modelCat.CreatedBy,
		modelCat.LastUpdatedAt,
		modelCat.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: category with ID %s already exists", apperrors.ErrDuplicate, modelCat.CategoryID)
		}
		return fmt.Errorf("failed to save category %s: %w", modelCat.CategoryID, err)
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var modelCat models.Category
	err := row.Scan(
		&modelCat.CategoryID,
		&modelCat.OwnerID,
		&modelCat.Name,
		&modelCat.Kind,
		&modelCat.CreatedAt,
		&modelCat.CreatedBy,
		&modelCat.LastUpdatedAt,
		&modelCat.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	domainCat := mapping.ToDomainCategory(modelCat)
	return &domainCat, nil
}

// FindCategoryByID retrieves a category by its ID, scoped to the owner.
func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, ownerID string, categoryID string) (*domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE category_id = $1 AND owner_id = $2;
	`
	category, err := scanCategory(r.pool.QueryRow(ctx, query, categoryID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID %s: %w", categoryID, err)
	}
	return category, nil
}

// ListCategories retrieves all categories of the owner, ordered by name.
func (r *PgxCategoryRepository) ListCategories(ctx context.Context, ownerID string) ([]domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE owner_id = $1
		ORDER BY name;
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, *category)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", rows.Err())
	}

	return categories, nil
}

// UpdateCategory updates the category name.
func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	modelCat := mapping.ToModelCategory(category)

	query := `
		UPDATE categories
		SET name = $1, last_updated_at = $2, last_updated_by = $3
		WHERE category_id = $4 AND owner_id = $5;
	`
	tag, err := r.pool.Exec(ctx, query,
		modelCat.Name,
		modelCat.LastUpdatedAt,
		modelCat.LastUpdatedBy,
		modelCat.CategoryID,
		modelCat.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category %s: %w", modelCat.CategoryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category.
func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, ownerID string, categoryID string) error {
	query := `DELETE FROM categories WHERE category_id = $1 AND owner_id = $2;`
	tag, err := r.pool.Exec(ctx, query, categoryID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", categoryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
