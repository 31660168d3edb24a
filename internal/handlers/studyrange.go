package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kanato-tk51/study-manager/internal/handlers/render"
	"github.com/kanato-tk51/study-manager/internal/models"
	"github.com/kanato-tk51/study-manager/internal/repository"
)

type StudyRangeResponse struct {
	ID         string `json:"id"`
	CategoryID string `json:"categoryId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

func toStudyRangeResponse(sr models.StudyRange) StudyRangeResponse {
	return StudyRangeResponse{
		ID:         sr.ID.String(),
		CategoryID: sr.CategoryID.String(),
		StartDate:  formatDate(sr.StartDate),
		EndDate:    formatDate(sr.EndDate),
		CreatedAt:  sr.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  sr.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *MeHandler) listRanges(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := repository.ListRangesFilter{
		Start: queryDate(r, "start"),
		End:   queryDate(r, "end"),
	}
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.CategoryID = &id
		}
	}

	ranges, err := h.planner.ListRanges(r.Context(), user.ID, filter)
	if err != nil {
		h.logger.Error("list study ranges failed", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	items := make([]StudyRangeResponse, 0, len(ranges))
	for _, sr := range ranges {
		items = append(items, toStudyRangeResponse(sr))
	}

	render.JSON(w, struct {
		Items []StudyRangeResponse `json:"items"`
	}{Items: items})
}

func (h *MeHandler) createRange(w http.ResponseWriter, r *http.Request) {
	type CreateRangeRequest struct {
		CategoryID string `json:"categoryId" validate:"required,uuid"`
		StartDate  string `json:"startDate" validate:"required,dateonly"`
		EndDate    string `json:"endDate" validate:"required,dateonly"`
	}

	user, ok := UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	data, err := render.BindAndValidate[CreateRangeRequest](w, r)
	if err != nil {
		return
	}

	categoryID := uuid.MustParse(data.CategoryID)
	start, _ := time.Parse(time.DateOnly, data.StartDate)
	end, _ := time.Parse(time.DateOnly, data.EndDate)

	sr, err := h.planner.CreateRange(r.Context(), user.ID, categoryID, start, end)
	if err != nil {
		h.renderPlannerError(w, err, "create study range")
		return
	}

	render.JSONWithStatus(w, struct {
		Item StudyRangeResponse `json:"item"`
	}{Item: toStudyRangeResponse(sr)}, http.StatusCreated)
}

func (h *MeHandler) getRange(w http.ResponseWriter, r *http.Request) {
	user, id, ok := userAndID(w, r)
	if !ok {
		return
	}

	sr, err := h.planner.GetRange(r.Context(), user.ID, id)
	if err != nil {
		h.renderPlannerError(w, err, "get study range")
		return
	}

	render.JSON(w, struct {
		Item StudyRangeResponse `json:"item"`
	}{Item: toStudyRangeResponse(sr)})
}

func (h *MeHandler) updateRange(w http.ResponseWriter, r *http.Request) {
	type UpdateRangeRequest struct {
		CategoryID *string `json:"categoryId" validate:"omitempty,uuid"`
		StartDate  *string `json:"startDate" validate:"omitempty,dateonly"`
		EndDate    *string `json:"endDate" validate:"omitempty,dateonly"`
	}

	user, id, ok := userAndID(w, r)
	if !ok {
		return
	}

	data, err := render.BindAndValidate[UpdateRangeRequest](w, r)
	if err != nil {
		return
	}

	params := repository.UpdateRangeParams{}
	if data.CategoryID != nil {
		categoryID := uuid.MustParse(*data.CategoryID)
		params.CategoryID = &categoryID
	}
	if data.StartDate != nil {
		start, _ := time.Parse(time.DateOnly, *data.StartDate)
		params.StartDate = &start
	}
	if data.EndDate != nil {
		end, _ := time.Parse(time.DateOnly, *data.EndDate)
		params.EndDate = &end
	}

	sr, err := h.planner.UpdateRange(r.Context(), user.ID, id, params)
	if err != nil {
		h.renderPlannerError(w, err, "update study range")
		return
	}

	render.JSON(w, struct {
		Item StudyRangeResponse `json:"item"`
	}{Item: toStudyRangeResponse(sr)})
}

func (h *MeHandler) deleteRange(w http.ResponseWriter, r *http.Request) {
	user, id, ok := userAndID(w, r)
	if !ok {
		return
	}

	if err := h.planner.DeleteRange(r.Context(), user.ID, id); err != nil {
		h.renderPlannerError(w, err, "delete study range")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
