package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Modality adapter errors
var (
	ErrUnrecognizedSpeech     = errors.New("speech could not be recognized")
	ErrModalityNotImplemented = errors.New("modality not implemented")
)

// Modality adapters are pure capability interfaces with no knowledge of
// interview state. They are injected into the session orchestrator so tests
// can substitute fakes.
type SpeechToText interface {
	Transcribe(ctx context.Context, audioData []byte) (string, error)
}

type TextToSpeech interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type VideoToText interface {
	TranscribeVideo(ctx context.Context, videoData []byte) (string, error)
}

type TextToVideo interface {
	SynthesizeVideo(ctx context.Context, text string) ([]byte, error)
}

// ElevenLabsService converts text to speech over the ElevenLabs HTTP API
type ElevenLabsService struct {
	apiKey string
	client *http.Client
}

type elevenLabsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceID       string        `json:"voice_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

func NewElevenLabsService(apiKey string) *ElevenLabsService {
	return &ElevenLabsService{
		apiKey: apiKey,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (e *ElevenLabsService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if e == nil {
		return nil, ErrModalityNotImplemented
	}

	request := elevenLabsRequest{
		Text:    text,
		ModelID: "eleven_turbo_v2",      // Fast model for real-time conversation
		VoiceID: "pNInz6obpgDQGcFmaJgB", // Default voice (Adam)
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.5,
		},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := "https://api.elevenlabs.io/v1/text-to-speech/pNInz6obpgDQGcFmaJgB"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs API error: %d - %s", resp.StatusCode, string(body))
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	slog.Info("Generated audio from ElevenLabs", "text_length", len(text), "audio_size", len(audioData))
	return audioData, nil
}

// UnimplementedVideoAdapter keeps the video modality wired as an interface
// point until a provider is chosen. Both directions report
// ErrModalityNotImplemented.
type UnimplementedVideoAdapter struct{}

func (UnimplementedVideoAdapter) TranscribeVideo(ctx context.Context, videoData []byte) (string, error) {
	return "", ErrModalityNotImplemented
}

func (UnimplementedVideoAdapter) SynthesizeVideo(ctx context.Context, text string) ([]byte, error) {
	return nil, ErrModalityNotImplemented
}
