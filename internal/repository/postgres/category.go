package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kanato-tk51/study-manager/internal/apperrors"
	"github.com/kanato-tk51/study-manager/internal/models"
	"github.com/kanato-tk51/study-manager/internal/repository"
)

type CategoryRepo struct {
	DB DBTX
}

const createCategory = `-- name: CreateCategory
INSERT INTO categories (id, user_id, name, description, color)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, name, description, color, created_at, updated_at
`

func (r *CategoryRepo) Create(ctx context.Context, c models.Category) (models.Category, error) {
	rows, _ := r.DB.Query(ctx, createCategory, c.ID, c.UserID, c.Name, c.Description, c.Color)
	created, err := pgx.CollectOneRow(rows, rowToCategory)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

const listCategories = `-- name: ListCategories
SELECT id, user_id, name, description, color, created_at, updated_at
FROM categories
WHERE user_id = $1
ORDER BY created_at
`

func (r *CategoryRepo) List(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	rows, _ := r.DB.Query(ctx, listCategories, userID)
	categories, err := pgx.CollectRows(rows, rowToCategory)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return categories, nil
}

const getCategory = `-- name: GetCategory
SELECT id, user_id, name, description, color, created_at, updated_at
FROM categories
WHERE id = $1 AND user_id = $2
`

func (r *CategoryRepo) Get(ctx context.Context, userID uuid.UUID, categoryID uuid.UUID) (models.Category, error) {
	rows, _ := r.DB.Query(ctx, getCategory, categoryID, userID)
	category, err := pgx.CollectOneRow(rows, rowToCategory)

	switch {
	case err == nil:
		return category, nil
	case errors.Is(err, pgx.ErrNoRows):
		return category, apperrors.ErrNotFound
	default:
		return category, fmt.Errorf("db error: %w", err)
	}
}

const updateCategory = `-- name: UpdateCategory
UPDATE categories
SET name        = COALESCE($3, name),
    description = COALESCE($4, description),
    color       = COALESCE($5, color),
    updated_at  = now()
WHERE id = $1 AND user_id = $2
RETURNING id, user_id, name, description, color, created_at, updated_at
`

func (r *CategoryRepo) Update(ctx context.Context, userID uuid.UUID, categoryID uuid.UUID, params repository.UpdateCategoryParams) (models.Category, error) {
	rows, _ := r.DB.Query(ctx, updateCategory, categoryID, userID, params.Name, params.Description, params.Color)
	category, err := pgx.CollectOneRow(rows, rowToCategory)

	switch {
	case err == nil:
		return category, nil
	case errors.Is(err, pgx.ErrNoRows):
		return category, apperrors.ErrNotFound
	default:
		return category, fmt.Errorf("db error: %w", err)
	}
}

const deleteCategory = `-- name: DeleteCategory
DELETE FROM categories
WHERE id = $1 AND user_id = $2
`

func (r *CategoryRepo) Delete(ctx context.Context, userID uuid.UUID, categoryID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteCategory, categoryID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func rowToCategory(row pgx.CollectableRow) (models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Color, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
