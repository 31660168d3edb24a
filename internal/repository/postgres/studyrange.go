package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kanato-tk51/study-manager/internal/apperrors"
	"github.com/kanato-tk51/study-manager/internal/models"
	"github.com/kanato-tk51/study-manager/internal/repository"
)

type StudyRangeRepo struct {
	DB DBTX
}

const createRange = `-- name: CreateStudyRange
INSERT INTO study_ranges (id, user_id, category_id, start_date, end_date)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, category_id, start_date, end_date, created_at, updated_at
`

func (r *StudyRangeRepo) Create(ctx context.Context, sr models.StudyRange) (models.StudyRange, error) {
	rows, _ := r.DB.Query(ctx, createRange, sr.ID, sr.UserID, sr.CategoryID, sr.StartDate, sr.EndDate)
	created, err := pgx.CollectOneRow(rows, rowToStudyRange)
	if err != nil {
		return created, mapRangeError(err)
	}
	return created, nil
}

const listRanges = `-- name: ListStudyRanges
SELECT id, user_id, category_id, start_date, end_date, created_at, updated_at
FROM study_ranges
WHERE user_id = $1
  AND ($2::date IS NULL OR start_date >= $2)
  AND ($3::date IS NULL OR end_date <= $3)
  AND ($4::uuid IS NULL OR category_id = $4)
ORDER BY start_date
`

func (r *StudyRangeRepo) List(ctx context.Context, userID uuid.UUID, filter repository.ListRangesFilter) ([]models.StudyRange, error) {
	rows, _ := r.DB.Query(ctx, listRanges, userID, filter.Start, filter.End, filter.CategoryID)
	ranges, err := pgx.CollectRows(rows, rowToStudyRange)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ranges, nil
}

const getRange = `-- name: GetStudyRange
SELECT id, user_id, category_id, start_date, end_date, created_at, updated_at
FROM study_ranges
WHERE id = $1 AND user_id = $2
`

func (r *StudyRangeRepo) Get(ctx context.Context, userID uuid.UUID, rangeID uuid.UUID) (models.StudyRange, error) {
	rows, _ := r.DB.Query(ctx, getRange, rangeID, userID)
	sr, err := pgx.CollectOneRow(rows, rowToStudyRange)

	switch {
	case err == nil:
		return sr, nil
	case errors.Is(err, pgx.ErrNoRows):
		return sr, apperrors.ErrNotFound
	default:
		return sr, fmt.Errorf("db error: %w", err)
	}
}

const updateRange = `-- name: UpdateStudyRange
UPDATE study_ranges
SET category_id = COALESCE($3, category_id),
    start_date  = COALESCE($4, start_date),
    end_date    = COALESCE($5, end_date),
    updated_at  = now()
WHERE id = $1 AND user_id = $2
RETURNING id, user_id, category_id, start_date, end_date, created_at, updated_at
`

func (r *StudyRangeRepo) Update(ctx context.Context, userID uuid.UUID, rangeID uuid.UUID, params repository.UpdateRangeParams) (models.StudyRange, error) {
	rows, _ := r.DB.Query(ctx, updateRange, rangeID, userID, params.CategoryID, params.StartDate, params.EndDate)
	sr, err := pgx.CollectOneRow(rows, rowToStudyRange)

	switch {
	case err == nil:
		return sr, nil
	case errors.Is(err, pgx.ErrNoRows):
		return sr, apperrors.ErrNotFound
	default:
		return sr, mapRangeError(err)
	}
}

const deleteRange = `-- name: DeleteStudyRange
DELETE FROM study_ranges
WHERE id = $1 AND user_id = $2
`

func (r *StudyRangeRepo) Delete(ctx context.Context, userID uuid.UUID, rangeID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteRange, rangeID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// mapRangeError translates the date-order check and the category foreign key
// into domain errors
func mapRangeError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.CheckViolation:
			return apperrors.ErrInvalidDateRange
		case pgerrcode.ForeignKeyViolation:
			return apperrors.ErrNotFound
		}
	}
	return fmt.Errorf("db error: %w", err)
}

func rowToStudyRange(row pgx.CollectableRow) (models.StudyRange, error) {
	var sr models.StudyRange
	err := row.Scan(&sr.ID, &sr.UserID, &sr.CategoryID, &sr.StartDate, &sr.EndDate, &sr.CreatedAt, &sr.UpdatedAt)
	return sr, err
}
