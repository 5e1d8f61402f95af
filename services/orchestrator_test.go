package services

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/olaniyigeorge/iHR/models"
	ws "github.com/olaniyigeorge/iHR/websocket"
)

type fakeConn struct {
	frames []any
}

func (f *fakeConn) Send(v any) {
	f.frames = append(f.frames, v)
}

type fakeTurnStore struct {
	statements []*models.Statement
	interview  *models.Interview
	createErr  error
}

func (f *fakeTurnStore) CreateStatement(ctx context.Context, statement *models.Statement) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.statements = append(f.statements, statement)
	return nil
}

func (f *fakeTurnStore) UpdateInterviewTurn(ctx context.Context, id string, fn func(*models.Interview) (bool, error)) (*models.Interview, error) {
	if f.interview == nil {
		return nil, nil
	}
	copied := *f.interview
	changed, err := fn(&copied)
	if err != nil {
		return nil, err
	}
	if changed {
		*f.interview = copied
	}
	return &copied, nil
}

type fakeContexts struct {
	ictx *models.InterviewContext
	err  error
}

func (f *fakeContexts) Build(ctx context.Context, interviewID string) (*models.InterviewContext, error) {
	return f.ictx, f.err
}

type fakeSTT struct {
	transcript string
	err        error
}

func (f *fakeSTT) Transcribe(ctx context.Context, audioData []byte) (string, error) {
	return f.transcript, f.err
}

type fakeTTS struct {
	audio []byte
	err   error
}

func (f *fakeTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return f.audio, f.err
}

func newTestOrchestrator(llm *fakeLLM, store *fakeTurnStore, contexts *fakeContexts, stt SpeechToText, tts TextToSpeech) *SessionOrchestrator {
	o := NewSessionOrchestrator(
		contexts,
		NewResponseGenerator(llm),
		store,
		stt,
		tts,
		UnimplementedVideoAdapter{},
		UnimplementedVideoAdapter{},
		map[string]bool{"text": true},
		models.DefaultPersona,
	)
	return o
}

func ongoingFixtures() (*fakeTurnStore, *fakeContexts) {
	start := time.Now().Add(-5 * time.Minute)
	interview := &models.Interview{
		ID:           "iv-1",
		HRPersona:    models.DefaultPersona,
		UserID:       "user-1",
		JobID:        "job-1",
		Status:       models.StatusOngoing,
		StartTime:    start,
		Duration:     1800,
		CurrentScore: 30,
	}
	store := &fakeTurnStore{interview: interview}
	contexts := &fakeContexts{ictx: &models.InterviewContext{
		ID:        "iv-1",
		HRPersona: models.DefaultPersona,
		UserID:    "user-1",
		JobID:     "job-1",
		Status:    models.StatusOngoing,
		StartTime: start,
		Duration:  1800,
		Job:       models.Job{ID: "job-1", Title: "Backend Engineer"},
	}}
	return store, contexts
}

func TestProcessEventRejectsUnknownType(t *testing.T) {
	store, contexts := ongoingFixtures()
	o := newTestOrchestrator(&fakeLLM{out: `{"reply": "ok"}`}, store, contexts, nil, nil)
	conn := &fakeConn{}

	o.ProcessEvent(context.Background(), conn, "iv-1", "user-1", &ws.Event{Type: "hologram", Content: "hi"})

	if len(conn.frames) != 1 {
		t.Fatalf("expected one frame, got %d", len(conn.frames))
	}
	errFrame, ok := conn.frames[0].(ws.ErrorFrame)
	if !ok || errFrame.Error != "Invalid input type" {
		t.Errorf("expected invalid input error frame, got %+v", conn.frames[0])
	}

	// The session stays usable after a rejected event
	o.ProcessEvent(context.Background(), conn, "iv-1", "user-1", &ws.Event{Type: "text", Content: "hello"})
	if len(conn.frames) != 2 {
		t.Fatalf("expected a reply frame after the rejected event, got %d frames", len(conn.frames))
	}
	if _, ok := conn.frames[1].(ws.Frame); !ok {
		t.Errorf("expected a simulation frame, got %+v", conn.frames[1])
	}
}

func TestTextTurnPersistsAndAdvances(t *testing.T) {
	store, contexts := ongoingFixtures()
	llm := &fakeLLM{out: `{"reply": "Tell me more.", "score_delta": 5, "insights": {"strengths": ["depth"], "weaknesses": ["pacing"]}}`}
	o := newTestOrchestrator(llm, store, contexts, nil, nil)
	conn := &fakeConn{}

	o.ProcessEvent(context.Background(), conn, "iv-1", "user-1", &ws.Event{Type: "text", Content: "I led the migration."})

	if len(store.statements) != 2 {
		t.Fatalf("expected user and AI statements persisted, got %d", len(store.statements))
	}
	userStmt, aiStmt := store.statements[0], store.statements[1]
	if userStmt.Speaker != "USER-user-1" || userStmt.Content != "I led the migration." {
		t.Errorf("unexpected user statement: %+v", userStmt)
	}
	if aiStmt.Speaker != models.DefaultPersona || !aiStmt.IsQuestion {
		t.Errorf("unexpected AI statement: %+v", aiStmt)
	}
	if aiStmt.RepliesToID == nil || *aiStmt.RepliesToID != userStmt.ID {
		t.Error("AI statement should link back to the user statement")
	}

	if store.interview.CurrentScore != 35 {
		t.Errorf("expected score 35, got %v", store.interview.CurrentScore)
	}
	if store.interview.Status != models.StatusOngoing {
		t.Errorf("expected status Ongoing, got %s", store.interview.Status)
	}
	if len(store.interview.Insights.Strengths) != 1 || len(store.interview.Insights.Weaknesses) != 1 {
		t.Errorf("insights not appended: %+v", store.interview.Insights)
	}

	if len(conn.frames) != 1 {
		t.Fatalf("expected one frame, got %d", len(conn.frames))
	}
	frame := conn.frames[0].(ws.Frame)
	if frame.Type != "text" || frame.Role != models.DefaultPersona || frame.Content != "Tell me more." {
		t.Errorf("unexpected frame: %+v", frame)
	}
	if frame.InterviewCtx == nil || frame.InterviewCtx.ID != "iv-1" {
		t.Error("frame missing interview context")
	}
}

func TestScoreClampedAtCeiling(t *testing.T) {
	store, contexts := ongoingFixtures()
	store.interview.CurrentScore = 97
	llm := &fakeLLM{out: `{"reply": "ok", "score_delta": 8}`}
	o := newTestOrchestrator(llm, store, contexts, nil, nil)

	o.ProcessEvent(context.Background(), &fakeConn{}, "iv-1", "user-1", &ws.Event{Type: "text", Content: "answer"})

	if store.interview.CurrentScore != 100 {
		t.Errorf("expected score capped at 100, got %v", store.interview.CurrentScore)
	}
}

func TestModelFailureUsesFallbackAndKeepsScore(t *testing.T) {
	store, contexts := ongoingFixtures()
	o := newTestOrchestrator(&fakeLLM{err: errors.New("upstream down")}, store, contexts, nil, nil)
	conn := &fakeConn{}

	o.ProcessEvent(context.Background(), conn, "iv-1", "user-1", &ws.Event{Type: "text", Content: "answer"})

	frame := conn.frames[0].(ws.Frame)
	if frame.Content != FallbackReply {
		t.Errorf("expected fallback reply, got %q", frame.Content)
	}
	if store.interview.CurrentScore != 30 {
		t.Errorf("score must not change on fallback, got %v", store.interview.CurrentScore)
	}
	if len(store.statements) != 2 {
		t.Errorf("fallback turn still persists both statements, got %d", len(store.statements))
	}
}

func TestFinalizedInterviewIsNotMutated(t *testing.T) {
	store, contexts := ongoingFixtures()
	store.interview.Status = models.StatusCompleted
	llm := &fakeLLM{out: `{"reply": "ok", "score_delta": 9, "insights": {"strengths": ["x"]}}`}
	o := newTestOrchestrator(llm, store, contexts, nil, nil)

	o.ProcessEvent(context.Background(), &fakeConn{}, "iv-1", "user-1", &ws.Event{Type: "text", Content: "answer"})

	if store.interview.CurrentScore != 30 {
		t.Errorf("finalized interview score changed to %v", store.interview.CurrentScore)
	}
	if store.interview.Status != models.StatusCompleted {
		t.Errorf("finalized interview status changed to %s", store.interview.Status)
	}
	if len(store.interview.Insights.Strengths) != 0 {
		t.Errorf("finalized interview insights changed: %+v", store.interview.Insights)
	}
}

func TestExpiredWindowCompletesInterview(t *testing.T) {
	store, contexts := ongoingFixtures()
	store.interview.StartTime = time.Now().Add(-2 * time.Hour)
	store.interview.Duration = 1800
	llm := &fakeLLM{out: `{"reply": "ok", "score_delta": 2}`}
	o := newTestOrchestrator(llm, store, contexts, nil, nil)

	o.ProcessEvent(context.Background(), &fakeConn{}, "iv-1", "user-1", &ws.Event{Type: "text", Content: "answer"})

	if store.interview.Status != models.StatusCompleted {
		t.Errorf("expected Completed after the window, got %s", store.interview.Status)
	}
	if store.interview.EndTime == nil {
		t.Error("expected end time to be stamped")
	}
}

func TestAudioTurnEmitsSingleAudioFrame(t *testing.T) {
	store, contexts := ongoingFixtures()
	llm := &fakeLLM{out: `{"reply": "Nice answer.", "score_delta": 3}`}
	stt := &fakeSTT{transcript: "spoken answer"}
	tts := &fakeTTS{audio: []byte("voice-bytes")}
	o := newTestOrchestrator(llm, store, contexts, stt, tts)
	conn := &fakeConn{}

	payload := base64.StdEncoding.EncodeToString([]byte("ogg-audio"))
	o.ProcessEvent(context.Background(), conn, "iv-1", "user-1", &ws.Event{Type: "audio", Content: payload})

	if len(conn.frames) != 1 {
		t.Fatalf("expected exactly one frame, got %d", len(conn.frames))
	}
	frame := conn.frames[0].(ws.Frame)
	if frame.Type != "audio" {
		t.Errorf("frame type must match the event, got %s", frame.Type)
	}
	if frame.InterviewCtx == nil || frame.InterviewCtx.ID != "iv-1" {
		t.Error("audio frame missing interview context")
	}
	decoded, err := base64.StdEncoding.DecodeString(frame.Content)
	if err != nil || string(decoded) != "voice-bytes" {
		t.Errorf("audio frame content not base64 of synthesized audio: %q", frame.Content)
	}

	// Audio is not in the persist set, so no statements are stored
	if len(store.statements) != 0 {
		t.Errorf("audio turn persisted %d statements with persistence off", len(store.statements))
	}
	// Non-text turns do not move the score
	if store.interview.CurrentScore != 30 {
		t.Errorf("audio turn changed the score to %v", store.interview.CurrentScore)
	}
}

func TestTranscriptTurnEmitsTranscriptFrame(t *testing.T) {
	store, contexts := ongoingFixtures()
	llm := &fakeLLM{out: `{"reply": "Go on.", "score_delta": 4}`}
	o := newTestOrchestrator(llm, store, contexts, nil, nil)
	conn := &fakeConn{}

	o.ProcessEvent(context.Background(), conn, "iv-1", "user-1", &ws.Event{Type: "transcript", Content: "dictated answer"})

	if len(conn.frames) != 1 {
		t.Fatalf("expected exactly one frame, got %d", len(conn.frames))
	}
	frame := conn.frames[0].(ws.Frame)
	if frame.Type != "transcript" {
		t.Errorf("frame type must match the event, got %s", frame.Type)
	}
	if frame.Content != "Go on." {
		t.Errorf("unexpected reply: %q", frame.Content)
	}
	if frame.InterviewCtx == nil || frame.InterviewCtx.ID != "iv-1" {
		t.Error("transcript frame missing interview context")
	}

	if len(store.statements) != 0 {
		t.Errorf("transcript turn persisted %d statements with persistence off", len(store.statements))
	}
	if store.interview.CurrentScore != 30 {
		t.Errorf("transcript turn changed the score to %v", store.interview.CurrentScore)
	}
}

func TestAudioSynthesisFailureDowngradesToTextFrame(t *testing.T) {
	store, contexts := ongoingFixtures()
	llm := &fakeLLM{out: `{"reply": "Nice answer."}`}
	stt := &fakeSTT{transcript: "spoken answer"}
	tts := &fakeTTS{err: errors.New("voice service down")}
	o := newTestOrchestrator(llm, store, contexts, stt, tts)
	conn := &fakeConn{}

	payload := base64.StdEncoding.EncodeToString([]byte("ogg-audio"))
	o.ProcessEvent(context.Background(), conn, "iv-1", "user-1", &ws.Event{Type: "audio", Content: payload})

	if len(conn.frames) != 1 {
		t.Fatalf("expected exactly one frame, got %d", len(conn.frames))
	}
	frame := conn.frames[0].(ws.Frame)
	if frame.Type != "text" || frame.Content != "Nice answer." {
		t.Errorf("expected text downgrade carrying the reply, got %+v", frame)
	}
	if frame.InterviewCtx == nil {
		t.Error("downgraded frame missing interview context")
	}
}

func TestDeletedInterviewFailsTurn(t *testing.T) {
	store, contexts := ongoingFixtures()
	store.interview = nil // row deleted mid-session
	llm := &fakeLLM{out: `{"reply": "ok", "score_delta": 5}`}
	o := newTestOrchestrator(llm, store, contexts, nil, nil)
	conn := &fakeConn{}

	o.ProcessEvent(context.Background(), conn, "iv-1", "user-1", &ws.Event{Type: "text", Content: "answer"})

	if len(conn.frames) != 1 {
		t.Fatalf("expected one frame, got %d", len(conn.frames))
	}
	frame := conn.frames[0].(ws.Frame)
	if !strings.HasPrefix(frame.Content, "An error occurred:") ||
		!strings.Contains(frame.Content, ErrInterviewNotFound.Error()) {
		t.Errorf("expected not-found turn failure, got %q", frame.Content)
	}
}

func TestUnrecognizedSpeechReportedInBand(t *testing.T) {
	store, contexts := ongoingFixtures()
	stt := &fakeSTT{err: ErrUnrecognizedSpeech}
	o := newTestOrchestrator(&fakeLLM{out: `{"reply": "ok"}`}, store, contexts, stt, &fakeTTS{})
	conn := &fakeConn{}

	payload := base64.StdEncoding.EncodeToString([]byte("noise"))
	o.ProcessEvent(context.Background(), conn, "iv-1", "user-1", &ws.Event{Type: "audio", Content: payload})

	if len(conn.frames) != 1 {
		t.Fatalf("expected one error frame, got %d", len(conn.frames))
	}
	frame := conn.frames[0].(ws.Frame)
	if !strings.HasPrefix(frame.Content, "An error occurred:") {
		t.Errorf("expected in-band error content, got %q", frame.Content)
	}
}

func TestVideoModalityNotImplemented(t *testing.T) {
	store, contexts := ongoingFixtures()
	o := newTestOrchestrator(&fakeLLM{out: `{"reply": "ok"}`}, store, contexts, nil, nil)
	conn := &fakeConn{}

	payload := base64.StdEncoding.EncodeToString([]byte("mp4"))
	o.ProcessEvent(context.Background(), conn, "iv-1", "user-1", &ws.Event{Type: "video", Content: payload})

	if len(conn.frames) != 1 {
		t.Fatalf("expected one frame, got %d", len(conn.frames))
	}
	frame := conn.frames[0].(ws.Frame)
	if !strings.Contains(frame.Content, ErrModalityNotImplemented.Error()) {
		t.Errorf("expected not-implemented error in content, got %q", frame.Content)
	}
}

func TestContextFailureEmitsErrorFrame(t *testing.T) {
	store, _ := ongoingFixtures()
	contexts := &fakeContexts{err: ErrInterviewNotFound}
	o := newTestOrchestrator(&fakeLLM{out: `{"reply": "ok"}`}, store, contexts, nil, nil)
	conn := &fakeConn{}

	o.ProcessEvent(context.Background(), conn, "missing", "user-1", &ws.Event{Type: "text", Content: "hi"})

	if len(conn.frames) != 1 {
		t.Fatalf("expected one frame, got %d", len(conn.frames))
	}
	if _, ok := conn.frames[0].(ws.ErrorFrame); !ok {
		t.Errorf("expected error frame, got %+v", conn.frames[0])
	}
	if len(store.statements) != 0 {
		t.Error("nothing should be persisted when context build fails")
	}
}
