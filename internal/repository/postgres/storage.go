package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kanato-tk51/study-manager/internal/repository"
)

// DBTX is the minimal pgx surface the repositories need. Both *pgxpool.Pool
// and pgx.Tx satisfy it, so repos run the same against a pool in production
// and a rolled back transaction in tests.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) repository.Storage {
	return &Storage{db: db}
}

func (s *Storage) User() repository.UserRepo {
	return &UserRepo{DB: s.db}
}

func (s *Storage) Refresh() repository.RefreshTokenRepo {
	return &RefreshTokenRepo{DB: s.db}
}

func (s *Storage) Category() repository.CategoryRepo {
	return &CategoryRepo{DB: s.db}
}

func (s *Storage) StudyRange() repository.StudyRangeRepo {
	return &StudyRangeRepo{DB: s.db}
}

func (s *Storage) Note() repository.DailyNoteRepo {
	return &DailyNoteRepo{DB: s.db}
}

func (s *Storage) InTx(ctx context.Context, fn func(s repository.Storage) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("db tx error: %w", err)
	}

	defer func() {
		switch err {
		case nil:
			err = tx.Commit(ctx)
		default:
			_ = tx.Rollback(ctx)
		}
	}()

	err = fn(NewStorage(tx))

	return err
}
