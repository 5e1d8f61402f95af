package services

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olaniyigeorge/iHR/models"
	"github.com/olaniyigeorge/iHR/repository"
)

type StatementEndpoints struct {
	store *repository.Store
}

type CreateStatementRequest struct {
	InterviewID string     `json:"interview_id"`
	Speaker     string     `json:"speaker"`
	Content     string     `json:"content"`
	IsQuestion  bool       `json:"is_question"`
	Timestamp   *time.Time `json:"timestamp"`
	RepliesToID *string    `json:"replies_to_id"`
}

type UpdateStatementRequest struct {
	Content    *string `json:"content"`
	IsQuestion *bool   `json:"is_question"`
}

func NewStatementEndpoints(store *repository.Store) *StatementEndpoints {
	return &StatementEndpoints{store: store}
}

func (e *StatementEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/statements", func(r chi.Router) {
		r.Post("/", e.CreateStatementHandler)
		r.Get("/", e.ListStatementsHandler)
		r.Get("/{id}", e.GetStatementHandler)
		r.Patch("/{id}", e.UpdateStatementHandler)
		r.Delete("/{id}", e.DeleteStatementHandler)
	})
}

func (e *StatementEndpoints) CreateStatementHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateStatementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.InterviewID == "" || req.Speaker == "" || req.Content == "" {
		http.Error(w, "interview_id, speaker and content are required", http.StatusBadRequest)
		return
	}

	interview, err := e.store.GetInterview(r.Context(), req.InterviewID)
	if err != nil {
		http.Error(w, "Failed to validate interview", http.StatusInternalServerError)
		return
	}
	if interview == nil {
		http.Error(w, "Interview not found", http.StatusNotFound)
		return
	}

	timestamp := time.Now()
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}
	statement := &models.Statement{
		InterviewID: req.InterviewID,
		Speaker:     req.Speaker,
		Content:     req.Content,
		IsQuestion:  req.IsQuestion,
		Timestamp:   timestamp,
		RepliesToID: req.RepliesToID,
	}

	if err := e.store.CreateStatement(r.Context(), statement); err != nil {
		http.Error(w, "Failed to create statement", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, statement)
}

// ListStatementsHandler returns statements; an interview_id filter returns
// the full ordered transcript instead of a page
func (e *StatementEndpoints) ListStatementsHandler(w http.ResponseWriter, r *http.Request) {
	if interviewID := r.URL.Query().Get("interview_id"); interviewID != "" {
		statements, err := e.store.GetStatementsByInterview(r.Context(), interviewID)
		if err != nil {
			http.Error(w, "Failed to list statements", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, statements)
		return
	}

	skip, limit := parsePagination(r)
	statements, err := e.store.ListStatements(r.Context(), skip, limit)
	if err != nil {
		http.Error(w, "Failed to list statements", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, statements)
}

func (e *StatementEndpoints) GetStatementHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	statement, err := e.store.GetStatement(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to get statement", http.StatusInternalServerError)
		return
	}
	if statement == nil {
		http.Error(w, "Statement not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, statement)
}

func (e *StatementEndpoints) UpdateStatementHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	statement, err := e.store.GetStatement(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to get statement", http.StatusInternalServerError)
		return
	}
	if statement == nil {
		http.Error(w, "Statement not found", http.StatusNotFound)
		return
	}

	var req UpdateStatementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Content != nil {
		statement.Content = *req.Content
	}
	if req.IsQuestion != nil {
		statement.IsQuestion = *req.IsQuestion
	}

	if err := e.store.UpdateStatement(r.Context(), statement); err != nil {
		http.Error(w, "Failed to update statement", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, statement)
}

func (e *StatementEndpoints) DeleteStatementHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	statement, err := e.store.GetStatement(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to get statement", http.StatusInternalServerError)
		return
	}
	if statement == nil {
		http.Error(w, "Statement not found", http.StatusNotFound)
		return
	}

	if err := e.store.DeleteStatement(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete statement", http.StatusInternalServerError)
		return
	}

	slog.Info("Statement removed via API", "statement_id", id)
	w.WriteHeader(http.StatusNoContent)
}
