package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/olaniyigeorge/iHR/models"
)

const (
	maxFrameSize  = 10 * 1024 * 1024 // large enough for base64 audio recordings
	readTimeout   = 60 * time.Second
	writeTimeout  = 10 * time.Second
	pingInterval  = 54 * time.Second
	sendQueueSize = 256
)

// Event is one inbound client frame. Type is "text", "audio", "video" or
// "transcript"; Content carries the utterance, base64-encoded for the binary
// modalities.
type Event struct {
	Type    string `json:"type"`
	Role    string `json:"role,omitempty"`
	Content string `json:"content"`
}

// Frame is one outbound simulation frame
type Frame struct {
	Type         string                   `json:"type"`
	Role         string                   `json:"role"`
	InterviewCtx *models.InterviewContext `json:"interview_ctx,omitempty"`
	Content      string                   `json:"content"`
}

// ErrorFrame reports a rejected event without closing the connection
type ErrorFrame struct {
	Error string `json:"error"`
}

// Session owns a single interview connection. Inbound events are consumed
// one at a time by the orchestrator via ReadEvent; outbound frames go through
// the buffered send queue drained by WritePump.
type Session struct {
	conn        *websocket.Conn
	send        chan []byte
	InterviewID string
	UserID      string

	closeOnce sync.Once
}

func NewSession(conn *websocket.Conn, interviewID, userID string) *Session {
	return &Session{
		conn:        conn,
		send:        make(chan []byte, sendQueueSize),
		InterviewID: interviewID,
		UserID:      userID,
	}
}

// ReadEvent blocks for the next client event. A decode failure yields an
// Event with an empty Type so the caller can reject it in-band; a transport
// error ends the session.
func (s *Session) ReadEvent() (*Event, error) {
	s.conn.SetReadLimit(maxFrameSize)
	s.conn.SetReadDeadline(time.Now().Add(readTimeout))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	_, raw, err := s.conn.ReadMessage()
	if err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
			slog.Error("WebSocket error", "error", err, "interview_id", s.InterviewID)
		}
		return nil, err
	}

	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		slog.Warn("Failed to unmarshal event", "error", err, "interview_id", s.InterviewID)
		return &Event{}, nil
	}

	slog.Info("Event received", "type", event.Type, "interview_id", s.InterviewID, "content_length", len(event.Content))
	return &event, nil
}

// Send marshals v and enqueues it for the write pump. A full queue drops the
// frame rather than blocking the event loop.
func (s *Session) Send(v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal frame", "error", err, "interview_id", s.InterviewID)
		return
	}

	select {
	case s.send <- raw:
	default:
		slog.Warn("Send queue full, dropping frame", "interview_id", s.InterviewID)
	}
}

// WritePump drains the send queue and keeps the connection alive with pings.
// It runs in its own goroutine for the life of the session.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case raw, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close shuts down the send queue and the connection. Safe to call more than
// once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.send)
		s.conn.Close()
	})
}
