// Package planner implements the study planning domain: categories, study
// date ranges and daily notes. Everything is scoped to the owning user;
// rows of other users are indistinguishable from absent ones.
package planner

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kanato-tk51/study-manager/internal/models"
	"github.com/kanato-tk51/study-manager/internal/repository"
)

type Service struct {
	categoryRepo repository.CategoryRepo
	rangeRepo    repository.StudyRangeRepo
	noteRepo     repository.DailyNoteRepo
}

func NewService(categoryRepo repository.CategoryRepo, rangeRepo repository.StudyRangeRepo, noteRepo repository.DailyNoteRepo) *Service {
	return &Service{
		categoryRepo: categoryRepo,
		rangeRepo:    rangeRepo,
		noteRepo:     noteRepo,
	}
}

func (s *Service) CreateCategory(ctx context.Context, userID uuid.UUID, name string, description *string, color string) (models.Category, error) {
	category, err := s.categoryRepo.Create(ctx, models.Category{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Color:       color,
	})
	if err != nil {
		return category, fmt.Errorf("can't create category. Err: %w", err)
	}
	return category, nil
}

func (s *Service) ListCategories(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	return s.categoryRepo.List(ctx, userID)
}

func (s *Service) GetCategory(ctx context.Context, userID uuid.UUID, categoryID uuid.UUID) (models.Category, error) {
	return s.categoryRepo.Get(ctx, userID, categoryID)
}

func (s *Service) UpdateCategory(ctx context.Context, userID uuid.UUID, categoryID uuid.UUID, params repository.UpdateCategoryParams) (models.Category, error) {
	return s.categoryRepo.Update(ctx, userID, categoryID, params)
}

func (s *Service) DeleteCategory(ctx context.Context, userID uuid.UUID, categoryID uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, userID, categoryID)
}
