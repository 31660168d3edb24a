package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/kanato-tk51/study-manager/internal/apperrors"
	"github.com/kanato-tk51/study-manager/internal/handlers/render"
	"github.com/kanato-tk51/study-manager/internal/models"
	"github.com/kanato-tk51/study-manager/internal/repository"
)

type CategoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       string  `json:"color"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toCategoryResponse(c models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *MeHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	categories, err := h.planner.ListCategories(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("list categories failed", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	items := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		items = append(items, toCategoryResponse(c))
	}

	render.JSON(w, struct {
		Items []CategoryResponse `json:"items"`
	}{Items: items})
}

func (h *MeHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	type CreateCategoryRequest struct {
		Name        string  `json:"name" validate:"required,min=1,max=100"`
		Description *string `json:"description" validate:"omitempty,max=500"`
		Color       string  `json:"color" validate:"required,min=1,max=32"`
	}

	user, ok := UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	data, err := render.BindAndValidate[CreateCategoryRequest](w, r)
	if err != nil {
		return
	}

	category, err := h.planner.CreateCategory(r.Context(), user.ID, data.Name, data.Description, data.Color)
	if err != nil {
		h.logger.Error("create category failed", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSONWithStatus(w, struct {
		Item CategoryResponse `json:"item"`
	}{Item: toCategoryResponse(category)}, http.StatusCreated)
}

func (h *MeHandler) getCategory(w http.ResponseWriter, r *http.Request) {
	user, id, ok := userAndID(w, r)
	if !ok {
		return
	}

	category, err := h.planner.GetCategory(r.Context(), user.ID, id)
	if err != nil {
		h.renderPlannerError(w, err, "get category")
		return
	}

	render.JSON(w, struct {
		Item CategoryResponse `json:"item"`
	}{Item: toCategoryResponse(category)})
}

func (h *MeHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	type UpdateCategoryRequest struct {
		Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
		Description *string `json:"description" validate:"omitempty,max=500"`
		Color       *string `json:"color" validate:"omitempty,min=1,max=32"`
	}

	user, id, ok := userAndID(w, r)
	if !ok {
		return
	}

	data, err := render.BindAndValidate[UpdateCategoryRequest](w, r)
	if err != nil {
		return
	}

	category, err := h.planner.UpdateCategory(r.Context(), user.ID, id, repository.UpdateCategoryParams{
		Name:        data.Name,
		Description: data.Description,
		Color:       data.Color,
	})
	if err != nil {
		h.renderPlannerError(w, err, "update category")
		return
	}

	render.JSON(w, struct {
		Item CategoryResponse `json:"item"`
	}{Item: toCategoryResponse(category)})
}

func (h *MeHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	user, id, ok := userAndID(w, r)
	if !ok {
		return
	}

	if err := h.planner.DeleteCategory(r.Context(), user.ID, id); err != nil {
		h.renderPlannerError(w, err, "delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// renderPlannerError maps domain errors to responses shared by all /me routes
func (h *MeHandler) renderPlannerError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		render.ServiceError(w, "Not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrInvalidDateRange):
		render.ServiceError(w, "End date is before start date", http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrNoteExists):
		render.ServiceError(w, "Note already exists for this date", http.StatusConflict)
	default:
		h.logger.Error(op+" failed", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}
