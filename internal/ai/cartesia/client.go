// Package cartesia is the adapter for Cartesia text-to-speech.
package cartesia

import (
	"context"
	"time"

	"github.com/kiranshivaraju/mediagate/internal/ai/httpx"
	"github.com/kiranshivaraju/mediagate/internal/config"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

const providerName = "cartesia"

// Client calls Cartesia.
type Client struct {
	http *httpx.Client
}

// New creates a Cartesia client.
func New(cfg config.ProviderConfig, timeout time.Duration) *Client {
	return &Client{
		http: httpx.New(providerName, cfg.BaseURL, timeout, map[string]string{
			"X-API-Key":        cfg.APIKey,
			"Cartesia-Version": cfg.Version,
		}),
	}
}

// Controls tunes the synthesized voice.
type Controls struct {
	Speed   any      `json:"speed,omitempty"`
	Emotion []string `json:"emotion,omitempty"`
}

// SpeakRequest is one synthesis call.
type SpeakRequest struct {
	Transcript string
	VoiceID    string
	Language   string
	Controls   *Controls
}

type voice struct {
	Mode     string    `json:"mode"`
	ID       string    `json:"id"`
	Controls *Controls `json:"__experimental_controls,omitempty"`
}

type outputFormat struct {
	Container  string `json:"container"`
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sample_rate"`
}

type ttsRequest struct {
	ModelID      string       `json:"model_id"`
	Transcript   string       `json:"transcript"`
	Language     string       `json:"language,omitempty"`
	Voice        voice        `json:"voice"`
	OutputFormat outputFormat `json:"output_format"`
}

// ModelFor picks the English model for "en" and the multilingual one otherwise.
func ModelFor(language string) string {
	if language == "en" {
		return "sonic-english"
	}
	return "sonic-multilingual"
}

// Speak returns 44.1kHz 16-bit PCM wav bytes.
func (c *Client) Speak(ctx context.Context, req SpeakRequest) ([]byte, error) {
	body := ttsRequest{
		ModelID:    ModelFor(req.Language),
		Transcript: req.Transcript,
		Language:   req.Language,
		Voice: voice{
			Mode:     "id",
			ID:       req.VoiceID,
			Controls: req.Controls,
		},
		OutputFormat: outputFormat{
			Container:  "wav",
			Encoding:   "pcm_s16le",
			SampleRate: 44100,
		},
	}

	data, _, err := c.http.PostJSONBytes(ctx, "tts/bytes", body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, models.ContentRejected(providerName, "empty audio")
	}
	return data, nil
}
