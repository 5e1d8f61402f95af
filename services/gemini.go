package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	ModelName          = "gemini-2.5-flash"
	completionTimeout  = 20 * time.Second
	completionAttempts = 2 // per-call retry budget
	retryBackoff       = 500 * time.Millisecond
)

// GeminiService wraps the genai client behind the narrow language-model
// capability the conversation pipeline depends on. Every call is bounded by
// a timeout and a small retry budget; callers own the fallback policy.
type GeminiService struct {
	client *genai.Client
}

func NewGeminiService(apiKey string) *GeminiService {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		slog.Error("Failed to create genai client", "error", err)
		return nil
	}

	return &GeminiService{client: client}
}

// Complete sends a prompt to the model and returns the generated text.
// Retries once on failure; the second failure is returned to the caller.
func (g *GeminiService) Complete(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", fmt.Errorf("genai client not initialized")
	}

	var lastErr error
	for attempt := 1; attempt <= completionAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, completionTimeout)
		result, err := g.client.Models.GenerateContent(
			callCtx,
			ModelName,
			genai.Text(prompt),
			nil,
		)
		cancel()
		if err == nil {
			text := result.Text()
			slog.Debug("Generated completion", "attempt", attempt, "response_length", len(text))
			return text, nil
		}

		lastErr = err
		slog.Warn("Completion attempt failed", "error", err, "attempt", attempt)

		if ctx.Err() != nil {
			break
		}
		if attempt < completionAttempts {
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return "", fmt.Errorf("completion cancelled: %w", ctx.Err())
			}
		}
	}

	return "", fmt.Errorf("failed to generate completion: %w", lastErr)
}

// Transcribe converts spoken audio into text using the model's inline audio
// support. An empty or whitespace-only transcript is reported as
// ErrUnrecognizedSpeech.
func (g *GeminiService) Transcribe(ctx context.Context, audioData []byte) (string, error) {
	if g == nil || g.client == nil {
		return "", fmt.Errorf("genai client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	parts := []*genai.Part{
		genai.NewPartFromText("Transcribe only clear, intelligible speech. If the audio is silent, empty, or unintelligible, return an empty string."),
		{
			InlineData: &genai.Blob{
				MIMEType: "audio/ogg",
				Data:     audioData,
			},
		},
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, ModelName, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate transcript: %w", err)
	}

	transcript := strings.TrimSpace(result.Text())
	if transcript == "" {
		return "", ErrUnrecognizedSpeech
	}

	slog.Info("Audio transcribed", "audio_size", len(audioData), "transcript_length", len(transcript))
	return transcript, nil
}
