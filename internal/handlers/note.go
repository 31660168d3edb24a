package handlers

import (
	"net/http"
	"time"

	"github.com/kanato-tk51/study-manager/internal/handlers/render"
	"github.com/kanato-tk51/study-manager/internal/models"
	"github.com/kanato-tk51/study-manager/internal/repository"
)

type DailyNoteResponse struct {
	ID        string `json:"id"`
	NoteDate  string `json:"noteDate"`
	Body      string `json:"body"`
	UpdatedAt string `json:"updatedAt"`
}

func toDailyNoteResponse(n models.DailyNote) DailyNoteResponse {
	return DailyNoteResponse{
		ID:        n.ID.String(),
		NoteDate:  formatDate(n.NoteDate),
		Body:      n.Body,
		UpdatedAt: n.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *MeHandler) listNotes(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := repository.ListNotesFilter{
		Date: queryDate(r, "date"),
		From: queryDate(r, "from"),
		To:   queryDate(r, "to"),
	}

	notes, err := h.planner.ListNotes(r.Context(), user.ID, filter)
	if err != nil {
		h.logger.Error("list daily notes failed", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	items := make([]DailyNoteResponse, 0, len(notes))
	for _, n := range notes {
		items = append(items, toDailyNoteResponse(n))
	}

	render.JSON(w, struct {
		Items []DailyNoteResponse `json:"items"`
	}{Items: items})
}

func (h *MeHandler) createNote(w http.ResponseWriter, r *http.Request) {
	type CreateNoteRequest struct {
		NoteDate string `json:"noteDate" validate:"required,dateonly"`
		Body     string `json:"body" validate:"required,min=1"`
	}

	user, ok := UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	data, err := render.BindAndValidate[CreateNoteRequest](w, r)
	if err != nil {
		return
	}

	noteDate, _ := time.Parse(time.DateOnly, data.NoteDate)
	note, err := h.planner.CreateNote(r.Context(), user.ID, noteDate, data.Body)
	if err != nil {
		h.renderPlannerError(w, err, "create daily note")
		return
	}

	render.JSONWithStatus(w, struct {
		Item DailyNoteResponse `json:"item"`
	}{Item: toDailyNoteResponse(note)}, http.StatusCreated)
}

func (h *MeHandler) getNote(w http.ResponseWriter, r *http.Request) {
	user, id, ok := userAndID(w, r)
	if !ok {
		return
	}

	note, err := h.planner.GetNote(r.Context(), user.ID, id)
	if err != nil {
		h.renderPlannerError(w, err, "get daily note")
		return
	}

	render.JSON(w, struct {
		Item DailyNoteResponse `json:"item"`
	}{Item: toDailyNoteResponse(note)})
}

func (h *MeHandler) updateNote(w http.ResponseWriter, r *http.Request) {
	type UpdateNoteRequest struct {
		NoteDate *string `json:"noteDate" validate:"omitempty,dateonly"`
		Body     *string `json:"body" validate:"omitempty,min=1"`
	}

	user, id, ok := userAndID(w, r)
	if !ok {
		return
	}

	data, err := render.BindAndValidate[UpdateNoteRequest](w, r)
	if err != nil {
		return
	}

	params := repository.UpdateNoteParams{Body: data.Body}
	if data.NoteDate != nil {
		noteDate, _ := time.Parse(time.DateOnly, *data.NoteDate)
		params.NoteDate = &noteDate
	}

	note, err := h.planner.UpdateNote(r.Context(), user.ID, id, params)
	if err != nil {
		h.renderPlannerError(w, err, "update daily note")
		return
	}

	render.JSON(w, struct {
		Item DailyNoteResponse `json:"item"`
	}{Item: toDailyNoteResponse(note)})
}

func (h *MeHandler) deleteNote(w http.ResponseWriter, r *http.Request) {
	user, id, ok := userAndID(w, r)
	if !ok {
		return
	}

	if err := h.planner.DeleteNote(r.Context(), user.ID, id); err != nil {
		h.renderPlannerError(w, err, "delete daily note")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// upsertNote handles PUT by date: create the note or replace its body.
// Responds 201 when a note was created and 200 when replaced.
func (h *MeHandler) upsertNote(w http.ResponseWriter, r *http.Request) {
	type UpsertNoteRequest struct {
		Body string `json:"body" validate:"required,min=1"`
	}

	user, ok := UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	noteDate, err := time.Parse(time.DateOnly, r.PathValue("date"))
	if err != nil {
		render.ServiceError(w, "Expected date in YYYY-MM-DD format", http.StatusBadRequest)
		return
	}

	data, err := render.BindAndValidate[UpsertNoteRequest](w, r)
	if err != nil {
		return
	}

	note, created, err := h.planner.UpsertNote(r.Context(), user.ID, noteDate, data.Body)
	if err != nil {
		h.renderPlannerError(w, err, "upsert daily note")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	render.JSONWithStatus(w, struct {
		Item DailyNoteResponse `json:"item"`
	}{Item: toDailyNoteResponse(note)}, status)
}
