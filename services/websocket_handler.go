package services

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	gorillaws "github.com/gorilla/websocket"

	"github.com/olaniyigeorge/iHR/repository"
	ws "github.com/olaniyigeorge/iHR/websocket"
)

// SimulationHandler upgrades interview simulation connections and hands them
// to the session orchestrator
type SimulationHandler struct {
	store        *repository.Store
	orchestrator *SessionOrchestrator
	upgrader     gorillaws.Upgrader
}

func NewSimulationHandler(store *repository.Store, orchestrator *SessionOrchestrator, upgrader gorillaws.Upgrader) *SimulationHandler {
	return &SimulationHandler{
		store:        store,
		orchestrator: orchestrator,
		upgrader:     upgrader,
	}
}

// SimulateInterviewHandler serves /ws/simulate-interview/{interview_id}. The
// interview is validated before the upgrade so clients get an HTTP status
// instead of an immediate close.
func (h *SimulationHandler) SimulateInterviewHandler(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	interviewID := chi.URLParam(r, "interview_id")
	interview, err := h.store.GetInterview(r.Context(), interviewID)
	if err != nil {
		http.Error(w, "Failed to load interview", http.StatusInternalServerError)
		return
	}
	if interview == nil {
		http.Error(w, "Interview not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err, "interview_id", interviewID)
		return
	}

	slog.Info("WebSocket connection established", "interview_id", interviewID, "user_id", user.ID)

	sess := ws.NewSession(conn, interviewID, user.ID)
	defer sess.Close()

	go sess.WritePump()
	h.orchestrator.Run(r.Context(), sess)
}
