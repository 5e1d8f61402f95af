package services

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olaniyigeorge/iHR/models"
	"github.com/olaniyigeorge/iHR/repository"
)

type JobEndpoints struct {
	store *repository.Store
}

type JobRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Level        int    `json:"level"`
	IndustryID   string `json:"industry_id"`
}

func NewJobEndpoints(store *repository.Store) *JobEndpoints {
	return &JobEndpoints{store: store}
}

func (e *JobEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/jobs", func(r chi.Router) {
		r.Post("/", e.CreateJobHandler)
		r.Get("/", e.ListJobsHandler)
		r.Get("/{id}", e.GetJobHandler)
		r.Put("/{id}", e.UpdateJobHandler)
		r.Delete("/{id}", e.DeleteJobHandler)
	})
}

func (e *JobEndpoints) CreateJobHandler(w http.ResponseWriter, r *http.Request) {
	var req JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.IndustryID == "" {
		http.Error(w, "title and industry_id are required", http.StatusBadRequest)
		return
	}
	if req.Level < 1 || req.Level > 10 {
		http.Error(w, "level must be between 1 and 10", http.StatusBadRequest)
		return
	}

	industry, err := e.store.GetIndustry(r.Context(), req.IndustryID)
	if err != nil {
		http.Error(w, "Failed to validate industry", http.StatusInternalServerError)
		return
	}
	if industry == nil {
		http.Error(w, "Industry not found", http.StatusNotFound)
		return
	}

	job := &models.Job{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Level:        req.Level,
		IndustryID:   req.IndustryID,
	}
	if err := e.store.CreateJob(r.Context(), job); err != nil {
		http.Error(w, "Failed to create job", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

// ListJobsHandler supports skip/limit pagination plus an optional search
// query matched case-insensitively against job titles
func (e *JobEndpoints) ListJobsHandler(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)
	search := r.URL.Query().Get("search")

	jobs, err := e.store.ListJobs(r.Context(), skip, limit, search)
	if err != nil {
		http.Error(w, "Failed to list jobs", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, jobs)
}

func (e *JobEndpoints) GetJobHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, err := e.store.GetJob(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to get job", http.StatusInternalServerError)
		return
	}
	if job == nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (e *JobEndpoints) UpdateJobHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, err := e.store.GetJob(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to get job", http.StatusInternalServerError)
		return
	}
	if job == nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	var req JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title != "" {
		job.Title = req.Title
	}
	if req.Description != "" {
		job.Description = req.Description
	}
	if req.Requirements != "" {
		job.Requirements = req.Requirements
	}
	if req.Level != 0 {
		if req.Level < 1 || req.Level > 10 {
			http.Error(w, "level must be between 1 and 10", http.StatusBadRequest)
			return
		}
		job.Level = req.Level
	}

	if err := e.store.UpdateJob(r.Context(), job); err != nil {
		http.Error(w, "Failed to update job", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (e *JobEndpoints) DeleteJobHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, err := e.store.GetJob(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to get job", http.StatusInternalServerError)
		return
	}
	if job == nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	if err := e.store.DeleteJob(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete job", http.StatusInternalServerError)
		return
	}

	slog.Info("Job removed via API", "job_id", id)
	w.WriteHeader(http.StatusNoContent)
}
