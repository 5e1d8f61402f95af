package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/olaniyigeorge/iHR/models"
	"github.com/olaniyigeorge/iHR/websocket"
)

const maxInterviewScore = 100.0

// ContextProvider materializes interview context snapshots
type ContextProvider interface {
	Build(ctx context.Context, interviewID string) (*models.InterviewContext, error)
}

// TurnStore is the slice of the store the orchestrator writes through
type TurnStore interface {
	CreateStatement(ctx context.Context, statement *models.Statement) error
	UpdateInterviewTurn(ctx context.Context, id string, fn func(*models.Interview) (bool, error)) (*models.Interview, error)
}

// TurnConn is the outbound half of a simulation connection
type TurnConn interface {
	Send(v any)
}

// SessionOrchestrator drives one interview conversation per connection.
// Events are processed strictly in arrival order; per-event failures are
// reported in-band and never close the connection.
type SessionOrchestrator struct {
	contexts  ContextProvider
	responder *ResponseGenerator
	store     TurnStore
	stt       SpeechToText
	tts       TextToSpeech
	vtt       VideoToText
	ttv       TextToVideo
	persist   map[string]bool
	persona   string
	now       func() time.Time
}

func NewSessionOrchestrator(
	contexts ContextProvider,
	responder *ResponseGenerator,
	store TurnStore,
	stt SpeechToText,
	tts TextToSpeech,
	vtt VideoToText,
	ttv TextToVideo,
	persist map[string]bool,
	persona string,
) *SessionOrchestrator {
	if persona == "" {
		persona = models.DefaultPersona
	}
	return &SessionOrchestrator{
		contexts:  contexts,
		responder: responder,
		store:     store,
		stt:       stt,
		tts:       tts,
		vtt:       vtt,
		ttv:       ttv,
		persist:   persist,
		persona:   persona,
		now:       time.Now,
	}
}

// Run consumes events from the session until the client disconnects
func (o *SessionOrchestrator) Run(ctx context.Context, sess *websocket.Session) {
	slog.Info("Interview session started", "interview_id", sess.InterviewID, "user_id", sess.UserID)
	defer slog.Info("Interview session ended", "interview_id", sess.InterviewID, "user_id", sess.UserID)

	for {
		event, err := sess.ReadEvent()
		if err != nil {
			return
		}
		o.ProcessEvent(ctx, sess, sess.InterviewID, sess.UserID, event)
	}
}

// ProcessEvent handles one inbound event end to end. Every failure path
// emits a frame; none of them terminates the session.
func (o *SessionOrchestrator) ProcessEvent(ctx context.Context, conn TurnConn, interviewID, userID string, event *websocket.Event) {
	switch event.Type {
	case "text", "audio", "video", "transcript":
	default:
		conn.Send(websocket.ErrorFrame{Error: "Invalid input type"})
		return
	}

	ictx, err := o.contexts.Build(ctx, interviewID)
	if err != nil {
		slog.Error("Failed to build interview context", "error", err, "interview_id", interviewID)
		conn.Send(websocket.ErrorFrame{Error: fmt.Sprintf("An error occurred: %v", err)})
		return
	}

	frame, err := o.dispatch(ctx, ictx, userID, event)
	if err != nil {
		slog.Error("Failed to process event", "error", err, "type", event.Type, "interview_id", interviewID)
		conn.Send(websocket.Frame{
			Type:    event.Type,
			Role:    o.persona,
			Content: fmt.Sprintf("An error occurred: %v", err),
		})
		return
	}

	conn.Send(frame)
}

// dispatch runs one turn and produces exactly one frame whose type matches
// the originating event. Only text events fold score and insight deltas into
// the interview; the other modalities invoke the generator alone.
func (o *SessionOrchestrator) dispatch(ctx context.Context, ictx *models.InterviewContext, userID string, event *websocket.Event) (websocket.Frame, error) {
	switch event.Type {
	case "text":
		reply, err := o.runTurn(ctx, ictx, userID, event.Content, o.persist["text"], true)
		if err != nil {
			return websocket.Frame{}, err
		}
		return websocket.Frame{
			Type:         "text",
			Role:         o.persona,
			InterviewCtx: ictx,
			Content:      reply,
		}, nil

	case "transcript":
		reply, err := o.runTurn(ctx, ictx, userID, event.Content, o.persist["transcript"], false)
		if err != nil {
			return websocket.Frame{}, err
		}
		return websocket.Frame{
			Type:         "transcript",
			Role:         o.persona,
			InterviewCtx: ictx,
			Content:      reply,
		}, nil

	case "audio":
		audioData, err := base64.StdEncoding.DecodeString(event.Content)
		if err != nil {
			return websocket.Frame{}, fmt.Errorf("failed to decode audio payload: %w", err)
		}
		transcript, err := o.stt.Transcribe(ctx, audioData)
		if err != nil {
			return websocket.Frame{}, fmt.Errorf("failed to transcribe audio: %w", err)
		}
		reply, err := o.runTurn(ctx, ictx, userID, transcript, o.persist["audio"], false)
		if err != nil {
			return websocket.Frame{}, err
		}
		audioReply, err := o.tts.Synthesize(ctx, reply)
		if err != nil {
			// Synthesis failure downgrades the frame to text so the turn
			// is not lost
			slog.Warn("Failed to synthesize reply, sending text frame", "error", err, "interview_id", ictx.ID)
			return websocket.Frame{
				Type:         "text",
				Role:         o.persona,
				InterviewCtx: ictx,
				Content:      reply,
			}, nil
		}
		return websocket.Frame{
			Type:         "audio",
			Role:         o.persona,
			InterviewCtx: ictx,
			Content:      base64.StdEncoding.EncodeToString(audioReply),
		}, nil

	case "video":
		videoData, err := base64.StdEncoding.DecodeString(event.Content)
		if err != nil {
			return websocket.Frame{}, fmt.Errorf("failed to decode video payload: %w", err)
		}
		transcript, err := o.vtt.TranscribeVideo(ctx, videoData)
		if err != nil {
			return websocket.Frame{}, fmt.Errorf("failed to transcribe video: %w", err)
		}
		reply, err := o.runTurn(ctx, ictx, userID, transcript, o.persist["video"], false)
		if err != nil {
			return websocket.Frame{}, err
		}
		videoReply, err := o.ttv.SynthesizeVideo(ctx, reply)
		if err != nil {
			slog.Warn("Failed to synthesize video reply, sending text frame", "error", err, "interview_id", ictx.ID)
			return websocket.Frame{
				Type:         "text",
				Role:         o.persona,
				InterviewCtx: ictx,
				Content:      reply,
			}, nil
		}
		return websocket.Frame{
			Type:         "video",
			Role:         o.persona,
			InterviewCtx: ictx,
			Content:      base64.StdEncoding.EncodeToString(videoReply),
		}, nil
	}

	return websocket.Frame{}, fmt.Errorf("unhandled event type %q", event.Type)
}

// runTurn persists the exchange when the modality's policy says so, generates
// the reply, and optionally folds the turn's deltas into the interview. The
// utterance reaches the prompt even when persistence is off.
func (o *SessionOrchestrator) runTurn(ctx context.Context, ictx *models.InterviewContext, userID, utterance string, persisted, scored bool) (string, error) {
	statement := &models.Statement{
		ID:          uuid.New().String(),
		InterviewID: ictx.ID,
		Speaker:     fmt.Sprintf("USER-%s", userID),
		Content:     utterance,
		Timestamp:   o.now(),
	}
	if persisted {
		if err := o.store.CreateStatement(ctx, statement); err != nil {
			return "", fmt.Errorf("failed to persist statement: %w", err)
		}
	}

	result := o.responder.Respond(ctx, utterance, ictx)

	if persisted {
		reply := &models.Statement{
			ID:          uuid.New().String(),
			InterviewID: ictx.ID,
			Speaker:     o.persona,
			Content:     result.Reply,
			IsQuestion:  true,
			Timestamp:   o.now(),
			RepliesToID: &statement.ID,
		}
		if err := o.store.CreateStatement(ctx, reply); err != nil {
			return "", fmt.Errorf("failed to persist reply: %w", err)
		}
	}

	if scored {
		if err := o.AdvanceInterview(ctx, ictx.ID, result); err != nil {
			return "", err
		}
	}

	return result.Reply, nil
}

// AdvanceInterview folds one turn's score and insight deltas into the
// interview under the store's row lock. Interviews in a terminal status are
// left untouched; otherwise the status is derived from the wall clock against
// the scheduled window. A missing interview row fails the turn with
// ErrInterviewNotFound.
func (o *SessionOrchestrator) AdvanceInterview(ctx context.Context, interviewID string, result TurnResult) error {
	now := o.now()
	updated, err := o.store.UpdateInterviewTurn(ctx, interviewID, func(iv *models.Interview) (bool, error) {
		if iv.Finalized() {
			return false, nil
		}

		windowEnd := iv.StartTime.Add(time.Duration(iv.Duration) * time.Second)
		switch {
		case now.Before(iv.StartTime):
			iv.Status = models.StatusScheduled
		case now.Before(windowEnd):
			iv.Status = models.StatusOngoing
		default:
			iv.Status = models.StatusCompleted
			if iv.EndTime == nil {
				end := windowEnd
				iv.EndTime = &end
			}
		}

		iv.CurrentScore += result.ScoreDelta
		if iv.CurrentScore > maxInterviewScore {
			iv.CurrentScore = maxInterviewScore
		}
		iv.Insights.Append(result.Insights)
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("failed to advance interview: %w", err)
	}
	if updated == nil {
		return fmt.Errorf("failed to advance interview: %w", ErrInterviewNotFound)
	}
	return nil
}
