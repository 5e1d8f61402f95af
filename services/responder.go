package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/olaniyigeorge/iHR/models"
)

// FallbackReply is sent when the language model cannot produce a usable
// response for a turn. Conversational continuity is valued over correctness
// of any single turn, so upstream failures never abort the exchange.
const FallbackReply = "I'm sorry, I couldn't understand that. Could you please rephrase?"

const (
	// maxPromptStatements caps the transcript embedded in a prompt; oldest
	// statements are truncated first to stay under provider token limits
	maxPromptStatements = 20
	maxScoreDelta       = 10.0
)

// LanguageModel is the external completion capability the generator
// delegates to
type LanguageModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TurnResult is one AI turn: the utterance to speak plus the scoring and
// insight deltas it earned the candidate
type TurnResult struct {
	Reply      string          `json:"reply"`
	ScoreDelta float64         `json:"score_delta"`
	Insights   models.Insights `json:"insights"`
}

// ResponseGenerator turns a user utterance and an interview context into the
// next AI utterance plus a bounded score/insight delta
type ResponseGenerator struct {
	llm LanguageModel
}

func NewResponseGenerator(llm LanguageModel) *ResponseGenerator {
	return &ResponseGenerator{llm: llm}
}

// Respond produces the next AI turn. It never fails: any upstream error
// degrades to the fallback reply with zero-effect deltas.
func (r *ResponseGenerator) Respond(ctx context.Context, utterance string, ictx *models.InterviewContext) TurnResult {
	prompt := r.buildTurnPrompt(utterance, ictx)

	out, err := r.llm.Complete(ctx, prompt)
	if err != nil {
		slog.Warn("Language model unavailable, using fallback reply", "error", err, "interview_id", ictx.ID)
		return TurnResult{Reply: FallbackReply}
	}

	result := parseTurnResult(out)
	slog.Info("Generated interview response",
		"interview_id", ictx.ID,
		"response_length", len(result.Reply),
		"score_delta", result.ScoreDelta)
	return result
}

// Score evaluates only the most recent user utterance against the running
// transcript and awards a delta in [0, 10]. Errors degrade to a zero-effect
// delta rather than aborting the turn.
func (r *ResponseGenerator) Score(ctx context.Context, ictx *models.InterviewContext, utterance string) (float64, models.Insights) {
	prompt := fmt.Sprintf(`You are grading a candidate in a %s-level interview for the role %q.

Transcript so far:
%s

Candidate's latest statement: %q

Award a score between 0 and 10 for the latest statement and extract insights.
Respond with JSON only, in the shape:
{"score_delta": <number>, "insights": {"strengths": [<string>], "weaknesses": [<string>]}}`,
		ictx.Difficulty, ictx.Job.Title, r.renderTranscript(ictx), utterance)

	out, err := r.llm.Complete(ctx, prompt)
	if err != nil {
		slog.Warn("Scoring call failed, awarding zero delta", "error", err, "interview_id", ictx.ID)
		return 0, models.Insights{}
	}

	result := parseTurnResult(out)
	return result.ScoreDelta, result.Insights
}

func (r *ResponseGenerator) buildTurnPrompt(utterance string, ictx *models.InterviewContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, an HR interviewer conducting a %s-level interview for the role %q.\n",
		ictx.HRPersona, ictx.Difficulty, ictx.Job.Title)
	if ictx.Job.Requirements != "" {
		fmt.Fprintf(&b, "Role requirements: %s\n", ictx.Job.Requirements)
	}
	if ictx.Job.Description != "" {
		fmt.Fprintf(&b, "Role description: %s\n", ictx.Job.Description)
	}
	fmt.Fprintf(&b, "\nConversation so far:\n%s\n", r.renderTranscript(ictx))
	fmt.Fprintf(&b, "\nCandidate's latest statement: %q\n", utterance)
	b.WriteString(`
Reply as the interviewer, award a score between 0 and 10 to the candidate's latest statement, and extract insights into the candidate's strengths and weaknesses.
Respond with JSON only, in the shape:
{"reply": <string>, "score_delta": <number>, "insights": {"strengths": [<string>], "weaknesses": [<string>]}}`)
	return b.String()
}

// renderTranscript flattens the context's statement list, truncating the
// oldest turns beyond maxPromptStatements
func (r *ResponseGenerator) renderTranscript(ictx *models.InterviewContext) string {
	statements := ictx.Statements
	if len(statements) > maxPromptStatements {
		statements = statements[len(statements)-maxPromptStatements:]
	}

	var b strings.Builder
	for _, st := range statements {
		fmt.Fprintf(&b, "%s: %s\n", st.Speaker, st.Content)
	}
	if b.Len() == 0 {
		return "(no statements yet)"
	}
	return b.String()
}

// parseTurnResult decodes the model's JSON output, tolerating markdown code
// fences. An unparseable response is treated as a plain-text reply with
// zero-effect deltas; the score delta is clamped to [0, 10] either way.
func parseTurnResult(raw string) TurnResult {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var result TurnResult
	if err := json.Unmarshal([]byte(trimmed), &result); err != nil || strings.TrimSpace(result.Reply) == "" {
		if err != nil {
			slog.Warn("Failed to parse structured turn result, using raw text", "error", err)
		}
		reply := trimmed
		if reply == "" {
			reply = FallbackReply
		}
		return TurnResult{Reply: reply}
	}

	if result.ScoreDelta < 0 {
		result.ScoreDelta = 0
	}
	if result.ScoreDelta > maxScoreDelta {
		result.ScoreDelta = maxScoreDelta
	}
	return result
}
