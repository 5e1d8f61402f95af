package services

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olaniyigeorge/iHR/models"
	"github.com/olaniyigeorge/iHR/repository"
)

type IndustryEndpoints struct {
	store *repository.Store
}

type IndustryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func NewIndustryEndpoints(store *repository.Store) *IndustryEndpoints {
	return &IndustryEndpoints{store: store}
}

func (e *IndustryEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/industries", func(r chi.Router) {
		r.Post("/", e.CreateIndustryHandler)
		r.Get("/", e.ListIndustriesHandler)
		r.Get("/{id}", e.GetIndustryHandler)
		r.Put("/{id}", e.UpdateIndustryHandler)
		r.Delete("/{id}", e.DeleteIndustryHandler)
	})
}

func (e *IndustryEndpoints) CreateIndustryHandler(w http.ResponseWriter, r *http.Request) {
	var req IndustryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	existing, err := e.store.GetIndustryByName(r.Context(), req.Name)
	if err != nil {
		http.Error(w, "Failed to create industry", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, "Industry already exists", http.StatusConflict)
		return
	}

	industry := &models.Industry{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := e.store.CreateIndustry(r.Context(), industry); err != nil {
		http.Error(w, "Failed to create industry", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, industry)
}

func (e *IndustryEndpoints) ListIndustriesHandler(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)

	industries, err := e.store.ListIndustries(r.Context(), skip, limit)
	if err != nil {
		http.Error(w, "Failed to list industries", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, industries)
}

func (e *IndustryEndpoints) GetIndustryHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	industry, err := e.store.GetIndustry(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to get industry", http.StatusInternalServerError)
		return
	}
	if industry == nil {
		http.Error(w, "Industry not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, industry)
}

func (e *IndustryEndpoints) UpdateIndustryHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	industry, err := e.store.GetIndustry(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to get industry", http.StatusInternalServerError)
		return
	}
	if industry == nil {
		http.Error(w, "Industry not found", http.StatusNotFound)
		return
	}

	var req IndustryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name != "" {
		industry.Name = req.Name
	}
	if req.Description != "" {
		industry.Description = req.Description
	}

	if err := e.store.UpdateIndustry(r.Context(), industry); err != nil {
		http.Error(w, "Failed to update industry", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, industry)
}

func (e *IndustryEndpoints) DeleteIndustryHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	industry, err := e.store.GetIndustry(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to get industry", http.StatusInternalServerError)
		return
	}
	if industry == nil {
		http.Error(w, "Industry not found", http.StatusNotFound)
		return
	}

	if err := e.store.DeleteIndustry(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete industry", http.StatusInternalServerError)
		return
	}

	slog.Info("Industry removed via API", "industry_id", id)
	w.WriteHeader(http.StatusNoContent)
}
