package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kanato-tk51/study-manager/internal/apperrors"
	"github.com/kanato-tk51/study-manager/internal/models"
	"github.com/kanato-tk51/study-manager/internal/repository"
)

type DailyNoteRepo struct {
	DB DBTX
}

const createNote = `-- name: CreateDailyNote
INSERT INTO daily_notes (id, user_id, note_date, body)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, note_date, body, updated_at
`

func (r *DailyNoteRepo) Create(ctx context.Context, note models.DailyNote) (models.DailyNote, error) {
	rows, _ := r.DB.Query(ctx, createNote, note.ID, note.UserID, note.NoteDate, note.Body)
	created, err := pgx.CollectOneRow(rows, rowToDailyNote)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return created, apperrors.ErrNoteExists
		}
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const listNotes = `-- name: ListDailyNotes
SELECT id, user_id, note_date, body, updated_at
FROM daily_notes
WHERE user_id = $1
  AND ($2::date IS NULL OR note_date = $2)
  AND ($3::date IS NULL OR note_date >= $3)
  AND ($4::date IS NULL OR note_date <= $4)
ORDER BY note_date
`

func (r *DailyNoteRepo) List(ctx context.Context, userID uuid.UUID, filter repository.ListNotesFilter) ([]models.DailyNote, error) {
	rows, _ := r.DB.Query(ctx, listNotes, userID, filter.Date, filter.From, filter.To)
	notes, err := pgx.CollectRows(rows, rowToDailyNote)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return notes, nil
}

const getNote = `-- name: GetDailyNote
SELECT id, user_id, note_date, body, updated_at
FROM daily_notes
WHERE id = $1 AND user_id = $2
`

func (r *DailyNoteRepo) Get(ctx context.Context, userID uuid.UUID, noteID uuid.UUID) (models.DailyNote, error) {
	rows, _ := r.DB.Query(ctx, getNote, noteID, userID)
	note, err := pgx.CollectOneRow(rows, rowToDailyNote)

	switch {
	case err == nil:
		return note, nil
	case errors.Is(err, pgx.ErrNoRows):
		return note, apperrors.ErrNotFound
	default:
		return note, fmt.Errorf("db error: %w", err)
	}
}

const updateNote = `-- name: UpdateDailyNote
UPDATE daily_notes
SET note_date  = COALESCE($3, note_date),
    body       = COALESCE($4, body),
    updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING id, user_id, note_date, body, updated_at
`

func (r *DailyNoteRepo) Update(ctx context.Context, userID uuid.UUID, noteID uuid.UUID, params repository.UpdateNoteParams) (models.DailyNote, error) {
	rows, _ := r.DB.Query(ctx, updateNote, noteID, userID, params.NoteDate, params.Body)
	note, err := pgx.CollectOneRow(rows, rowToDailyNote)

	switch {
	case err == nil:
		return note, nil
	case errors.Is(err, pgx.ErrNoRows):
		return note, apperrors.ErrNotFound
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return note, apperrors.ErrNoteExists
		}
		return note, fmt.Errorf("db error: %w", err)
	}
}

const deleteNote = `-- name: DeleteDailyNote
DELETE FROM daily_notes
WHERE id = $1 AND user_id = $2
`

func (r *DailyNoteRepo) Delete(ctx context.Context, userID uuid.UUID, noteID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteNote, noteID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const upsertNote = `-- name: UpsertDailyNote
INSERT INTO daily_notes (id, user_id, note_date, body)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, note_date)
DO UPDATE SET body = EXCLUDED.body, updated_at = now()
RETURNING id, user_id, note_date, body, updated_at, (xmax = 0) AS inserted
`

// Upsert writes the note for the date in a single statement.
// The second return value is true when a new row was inserted rather than
// an existing one replaced.
func (r *DailyNoteRepo) Upsert(ctx context.Context, userID uuid.UUID, noteDate time.Time, body string) (models.DailyNote, bool, error) {
	rows, _ := r.DB.Query(ctx, upsertNote, uuid.New(), userID, noteDate, body)

	type upsertRow struct {
		note     models.DailyNote
		inserted bool
	}
	result, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (upsertRow, error) {
		var u upsertRow
		n := &u.note
		err := row.Scan(&n.ID, &n.UserID, &n.NoteDate, &n.Body, &n.UpdatedAt, &u.inserted)
		return u, err
	})
	if err != nil {
		return result.note, false, fmt.Errorf("db error: %w", err)
	}

	return result.note, result.inserted, nil
}

func rowToDailyNote(row pgx.CollectableRow) (models.DailyNote, error) {
	var n models.DailyNote
	err := row.Scan(&n.ID, &n.UserID, &n.NoteDate, &n.Body, &n.UpdatedAt)
	return n, err
}
