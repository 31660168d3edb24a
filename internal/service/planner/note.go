package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kanato-tk51/study-manager/internal/models"
	"github.com/kanato-tk51/study-manager/internal/repository"
)

func (s *Service) CreateNote(ctx context.Context, userID uuid.UUID, noteDate time.Time, body string) (models.DailyNote, error) {
	note, err := s.noteRepo.Create(ctx, models.DailyNote{
		ID:       uuid.New(),
		UserID:   userID,
		NoteDate: noteDate,
		Body:     body,
	})
	if err != nil {
		return note, fmt.Errorf("can't create daily note. Err: %w", err)
	}
	return note, nil
}

func (s *Service) ListNotes(ctx context.Context, userID uuid.UUID, filter repository.ListNotesFilter) ([]models.DailyNote, error) {
	return s.noteRepo.List(ctx, userID, filter)
}

func (s *Service) GetNote(ctx context.Context, userID uuid.UUID, noteID uuid.UUID) (models.DailyNote, error) {
	return s.noteRepo.Get(ctx, userID, noteID)
}

func (s *Service) UpdateNote(ctx context.Context, userID uuid.UUID, noteID uuid.UUID, params repository.UpdateNoteParams) (models.DailyNote, error) {
	return s.noteRepo.Update(ctx, userID, noteID, params)
}

func (s *Service) DeleteNote(ctx context.Context, userID uuid.UUID, noteID uuid.UUID) error {
	return s.noteRepo.Delete(ctx, userID, noteID)
}

// UpsertNote writes the note for the date, replacing an existing body.
// The second return value reports whether a new note was created.
func (s *Service) UpsertNote(ctx context.Context, userID uuid.UUID, noteDate time.Time, body string) (models.DailyNote, bool, error) {
	return s.noteRepo.Upsert(ctx, userID, noteDate, body)
}
