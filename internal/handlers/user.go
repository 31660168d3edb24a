package handlers

import (
	"net/http"

	"github.com/kanato-tk51/study-manager/internal/handlers/render"
	"github.com/kanato-tk51/study-manager/internal/logger"
	"github.com/kanato-tk51/study-manager/internal/models"
)

// MeHandler serves the authenticated /me subtree: the profile itself plus
// categories, study ranges and daily notes of the requesting user.
type MeHandler struct {
	planner plannerService
	logger  logger.Logger
}

func NewMe(planner plannerService, l logger.Logger) *MeHandler {
	if l == nil {
		l = logger.NewNoOpLogger()
	}
	return &MeHandler{planner: planner, logger: l}
}

func (h *MeHandler) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /categories", h.listCategories)
	mux.HandleFunc("POST /categories", h.createCategory)
	mux.HandleFunc("GET /categories/{id}", h.getCategory)
	mux.HandleFunc("PATCH /categories/{id}", h.updateCategory)
	mux.HandleFunc("DELETE /categories/{id}", h.deleteCategory)

	mux.HandleFunc("GET /study-ranges", h.listRanges)
	mux.HandleFunc("POST /study-ranges", h.createRange)
	mux.HandleFunc("GET /study-ranges/{id}", h.getRange)
	mux.HandleFunc("PATCH /study-ranges/{id}", h.updateRange)
	mux.HandleFunc("DELETE /study-ranges/{id}", h.deleteRange)

	mux.HandleFunc("GET /daily-notes", h.listNotes)
	mux.HandleFunc("POST /daily-notes", h.createNote)
	mux.HandleFunc("GET /daily-notes/{id}", h.getNote)
	mux.HandleFunc("PATCH /daily-notes/{id}", h.updateNote)
	mux.HandleFunc("DELETE /daily-notes/{id}", h.deleteNote)
	mux.HandleFunc("PUT /daily-notes/{date}", h.upsertNote)

	return mux
}

type UserResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName *string `json:"displayName"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
	}
}

func (h *MeHandler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	render.JSON(w, struct {
		User UserResponse `json:"user"`
	}{User: toUserResponse(user)})
}
