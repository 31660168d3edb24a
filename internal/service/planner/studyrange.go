package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kanato-tk51/study-manager/internal/apperrors"
	"github.com/kanato-tk51/study-manager/internal/models"
	"github.com/kanato-tk51/study-manager/internal/repository"
)

func (s *Service) CreateRange(ctx context.Context, userID uuid.UUID, categoryID uuid.UUID, start time.Time, end time.Time) (models.StudyRange, error) {
	var sr models.StudyRange

	if end.Before(start) {
		return sr, apperrors.ErrInvalidDateRange
	}

	// The range must point at the caller's own category
	if _, err := s.categoryRepo.Get(ctx, userID, categoryID); err != nil {
		return sr, err
	}

	sr, err := s.rangeRepo.Create(ctx, models.StudyRange{
		ID:         uuid.New(),
		UserID:     userID,
		CategoryID: categoryID,
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		return sr, fmt.Errorf("can't create study range. Err: %w", err)
	}
	return sr, nil
}

func (s *Service) ListRanges(ctx context.Context, userID uuid.UUID, filter repository.ListRangesFilter) ([]models.StudyRange, error) {
	return s.rangeRepo.List(ctx, userID, filter)
}

func (s *Service) GetRange(ctx context.Context, userID uuid.UUID, rangeID uuid.UUID) (models.StudyRange, error) {
	return s.rangeRepo.Get(ctx, userID, rangeID)
}

func (s *Service) UpdateRange(ctx context.Context, userID uuid.UUID, rangeID uuid.UUID, params repository.UpdateRangeParams) (models.StudyRange, error) {
	var sr models.StudyRange

	if params.CategoryID != nil {
		if _, err := s.categoryRepo.Get(ctx, userID, *params.CategoryID); err != nil {
			return sr, err
		}
	}

	return s.rangeRepo.Update(ctx, userID, rangeID, params)
}

func (s *Service) DeleteRange(ctx context.Context, userID uuid.UUID, rangeID uuid.UUID) error {
	return s.rangeRepo.Delete(ctx, userID, rangeID)
}
