package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olaniyigeorge/iHR/models"
	"github.com/olaniyigeorge/iHR/repository"
)

type InterviewEndpoints struct {
	store   *repository.Store
	builder *ContextBuilder
}

type CreateInterviewRequest struct {
	JobID      string                     `json:"job_id"`
	Difficulty models.InterviewDifficulty `json:"difficulty"`
	StartTime  *time.Time                 `json:"start_time"`
	Duration   int                        `json:"duration"`
}

type UpdateInterviewRequest struct {
	Status     models.InterviewStatus     `json:"status"`
	Difficulty models.InterviewDifficulty `json:"difficulty"`
	StartTime  *time.Time                 `json:"start_time"`
	EndTime    *time.Time                 `json:"end_time"`
	Duration   int                        `json:"duration"`
}

func NewInterviewEndpoints(store *repository.Store, builder *ContextBuilder) *InterviewEndpoints {
	return &InterviewEndpoints{store: store, builder: builder}
}

func (e *InterviewEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/interviews", func(r chi.Router) {
		r.Post("/", e.CreateInterviewHandler)
		r.Get("/", e.ListInterviewsHandler)
		r.Get("/{id}", e.GetInterviewHandler)
		r.Put("/{id}", e.UpdateInterviewHandler)
		r.Delete("/{id}", e.DeleteInterviewHandler)
		r.Get("/ctx/{id}", e.GetInterviewContextHandler)
	})
}

func (e *InterviewEndpoints) CreateInterviewHandler(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var req CreateInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.JobID == "" {
		http.Error(w, "job_id is required", http.StatusBadRequest)
		return
	}

	job, err := e.store.GetJob(r.Context(), req.JobID)
	if err != nil {
		http.Error(w, "Failed to validate job", http.StatusInternalServerError)
		return
	}
	if job == nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	startTime := time.Now()
	if req.StartTime != nil {
		startTime = *req.StartTime
	}
	interview := &models.Interview{
		UserID:     user.ID,
		JobID:      req.JobID,
		Difficulty: req.Difficulty,
		Status:     models.StatusScheduled,
		StartTime:  startTime,
	}
	if req.Duration > 0 {
		interview.Duration = req.Duration
	}

	if err := e.store.CreateInterview(r.Context(), interview); err != nil {
		http.Error(w, "Failed to create interview", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, interview)
}

func (e *InterviewEndpoints) ListInterviewsHandler(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)

	interviews, err := e.store.ListInterviews(r.Context(), skip, limit)
	if err != nil {
		http.Error(w, "Failed to list interviews", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, interviews)
}

func (e *InterviewEndpoints) GetInterviewHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	interview, err := e.store.GetInterview(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to get interview", http.StatusInternalServerError)
		return
	}
	if interview == nil {
		http.Error(w, "Interview not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, interview)
}

// GetInterviewContextHandler serves the same materialized snapshot the
// conversation loop consumes, cache included
func (e *InterviewEndpoints) GetInterviewContextHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ictx, err := e.builder.Build(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrInterviewNotFound) {
			http.Error(w, "Interview not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to build interview context", "error", err, "interview_id", id)
		http.Error(w, "Failed to build interview context", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ictx)
}

func (e *InterviewEndpoints) UpdateInterviewHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	interview, err := e.store.GetInterview(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to get interview", http.StatusInternalServerError)
		return
	}
	if interview == nil {
		http.Error(w, "Interview not found", http.StatusNotFound)
		return
	}

	var req UpdateInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Status != "" {
		interview.Status = req.Status
	}
	if req.Difficulty != "" {
		interview.Difficulty = req.Difficulty
	}
	if req.StartTime != nil {
		interview.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		interview.EndTime = req.EndTime
	}
	if req.Duration > 0 {
		interview.Duration = req.Duration
	}

	if err := e.store.UpdateInterview(r.Context(), interview); err != nil {
		http.Error(w, "Failed to update interview", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, interview)
}

func (e *InterviewEndpoints) DeleteInterviewHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	interview, err := e.store.GetInterview(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to get interview", http.StatusInternalServerError)
		return
	}
	if interview == nil {
		http.Error(w, "Interview not found", http.StatusNotFound)
		return
	}

	if err := e.store.DeleteInterview(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete interview", http.StatusInternalServerError)
		return
	}

	slog.Info("Interview removed via API", "interview_id", id)
	w.WriteHeader(http.StatusNoContent)
}
