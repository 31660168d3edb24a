package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kanato-tk51/study-manager/internal/handlers/render"
	"github.com/kanato-tk51/study-manager/internal/models"
)

// pathID parses the {id} path segment. A malformed id can't name any row,
// so it renders the same not found response a missing row would.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Not found", http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// userAndID extracts the context user and the {id} path segment
func userAndID(w http.ResponseWriter, r *http.Request) (models.User, uuid.UUID, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return user, uuid.Nil, false
	}

	id, ok := pathID(w, r)
	return user, id, ok
}

// queryDate parses an optional YYYY-MM-DD query parameter. Malformed values
// are ignored, matching how the filters behave when absent.
func queryDate(r *http.Request, name string) *time.Time {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil
	}

	date, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil
	}
	return &date
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
