package services

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olaniyigeorge/iHR/models"
	"github.com/olaniyigeorge/iHR/repository"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// parsePagination reads skip/limit query parameters, clamping limit to a
// sane range
func parsePagination(r *http.Request) (skip, limit int) {
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return skip, limit
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type UserEndpoints struct {
	store *repository.Store
}

func NewUserEndpoints(store *repository.Store) *UserEndpoints {
	return &UserEndpoints{store: store}
}

func (e *UserEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", e.ListUsersHandler)
		r.Get("/{id}", e.GetUserHandler)
	})
}

func (e *UserEndpoints) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)

	users, err := e.store.ListUsers(r.Context(), skip, limit)
	if err != nil {
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}

	public := make([]models.UserPublic, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	writeJSON(w, http.StatusOK, public)
}

func (e *UserEndpoints) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := e.store.GetUserByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to get user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, user.Public())
}
