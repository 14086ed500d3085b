// Package fal is the adapter for fal.ai model endpoints.
package fal

import (
	"context"
	"fmt"
	"time"

	"github.com/kiranshivaraju/mediagate/internal/ai/httpx"
	"github.com/kiranshivaraju/mediagate/internal/config"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// Endpoint paths.
const (
	EndpointLLM          = "fal-ai/any-llm"
	EndpointLLMVision    = "fal-ai/any-llm/vision"
	EndpointRecraft      = "fal-ai/recraft-v3"
	EndpointRecraftStyle = "fal-ai/recraft-v3/create-style"
	EndpointUltra        = "fal-ai/flux-pro/v1.1-ultra"
	EndpointUltraRedux   = "fal-ai/flux-pro/v1.1-ultra/redux"
	EndpointFluxPro      = "fal-ai/flux-pro/v1.1"
	EndpointSchnell      = "fal-ai/flux/schnell"
	EndpointSubject      = "fal-ai/flux-subject"
	EndpointFill         = "fal-ai/flux-pro/v1/fill"
	EndpointPuLID        = "fal-ai/flux-pulid"
	EndpointBiRefNet     = "fal-ai/birefnet/v2"
	EndpointAuraSR       = "fal-ai/aura-sr"
	EndpointMoondream    = "fal-ai/moondream/batched"
	EndpointStableAudio  = "fal-ai/stable-audio"
	EndpointF5TTS        = "fal-ai/f5-tts"
)

const (
	defaultAudioSeconds = 5
	moondreamMaxTokens  = 1024
	providerName        = "fal"
)

// Client calls fal's synchronous run API.
type Client struct {
	http *httpx.Client
}

// New creates a fal client.
func New(cfg config.ProviderConfig, timeout time.Duration) *Client {
	return &Client{
		http: httpx.New(providerName, cfg.BaseURL, timeout, map[string]string{
			"Authorization": "Key " + cfg.APIKey,
		}),
	}
}

type file struct {
	URL string `json:"url"`
}

// Write runs a text completion. A request with an image goes to the vision endpoint.
func (c *Client) Write(ctx context.Context, req WriteRequest) (string, error) {
	endpoint := EndpointLLM
	if req.ImageURL != "" {
		endpoint = EndpointLLMVision
	}

	var out struct {
		Output string `json:"output"`
	}
	if err := c.http.PostJSON(ctx, endpoint, req, &out); err != nil {
		return "", err
	}
	return out.Output, nil
}

// Imagen runs an image endpoint and returns the first image URL. An answer with no
// images is a safety rejection.
func (c *Client) Imagen(ctx context.Context, endpoint string, input any) (string, error) {
	var out struct {
		Images []file `json:"images"`
	}
	if err := c.http.PostJSON(ctx, endpoint, input, &out); err != nil {
		return "", err
	}
	if len(out.Images) == 0 || out.Images[0].URL == "" {
		return "", models.ContentRejected(providerName, "no image returned for "+endpoint)
	}
	return out.Images[0].URL, nil
}

// RemoveBackground returns the cut-out image and, when produced, its mask.
func (c *Client) RemoveBackground(ctx context.Context, imageURL string) (image, mask string, err error) {
	in := map[string]any{
		"image_url":            imageURL,
		"model":                "General Use (Light)",
		"operating_resolution": "2048x2048",
		"output_format":        "png",
		"refine_foreground":    true,
		"output_mask":          true,
	}

	var out struct {
		Image     *file `json:"image"`
		MaskImage *file `json:"mask_image"`
	}
	if err := c.http.PostJSON(ctx, EndpointBiRefNet, in, &out); err != nil {
		return "", "", err
	}
	if out.Image == nil || out.Image.URL == "" {
		return "", "", models.ContentRejected(providerName, "no image returned for "+EndpointBiRefNet)
	}
	if out.MaskImage != nil {
		mask = out.MaskImage.URL
	}
	return out.Image.URL, mask, nil
}

// Upscale returns a 4x upscaled image URL.
func (c *Client) Upscale(ctx context.Context, imageURL string) (string, error) {
	in := map[string]any{
		"image_url":         imageURL,
		"checkpoint":        "v2",
		"upscaling_factor":  4,
		"overlapping_tiles": true,
	}

	var out struct {
		Image *file `json:"image"`
	}
	if err := c.http.PostJSON(ctx, EndpointAuraSR, in, &out); err != nil {
		return "", err
	}
	if out.Image == nil || out.Image.URL == "" {
		return "", models.ContentRejected(providerName, "no image returned for "+EndpointAuraSR)
	}
	return out.Image.URL, nil
}

// CreateStyle registers a reference image as a recraft style and returns its id.
func (c *Client) CreateStyle(ctx context.Context, imageURL, baseStyle string) (string, error) {
	in := map[string]any{
		"images_data_url": imageURL,
		"base_style":      baseStyle,
	}

	var out struct {
		StyleID string `json:"style_id"`
	}
	if err := c.http.PostJSON(ctx, EndpointRecraftStyle, in, &out); err != nil {
		return "", err
	}
	if out.StyleID == "" {
		return "", models.ContentRejected(providerName, "no style id returned")
	}
	return out.StyleID, nil
}

// BatchDescribe describes each image, in input order.
func (c *Client) BatchDescribe(ctx context.Context, imageURLs []string) ([]string, error) {
	inputs := make([]map[string]string, 0, len(imageURLs))
	for _, u := range imageURLs {
		inputs = append(inputs, map[string]string{"image_url": u})
	}

	var out struct {
		Outputs []string `json:"outputs"`
	}
	in := map[string]any{"inputs": inputs, "max_tokens": moondreamMaxTokens}
	if err := c.http.PostJSON(ctx, EndpointMoondream, in, &out); err != nil {
		return nil, err
	}
	if len(out.Outputs) == 0 || len(out.Outputs) != len(imageURLs) {
		return nil, models.ContentRejected(providerName,
			fmt.Sprintf("%d descriptions returned for %d images", len(out.Outputs), len(imageURLs)))
	}
	return out.Outputs, nil
}

// Audio generates a sound clip. seconds <= 0 uses the default length.
func (c *Client) Audio(ctx context.Context, prompt string, seconds int) (string, error) {
	if seconds <= 0 {
		seconds = defaultAudioSeconds
	}

	var out struct {
		AudioFile *file `json:"audio_file"`
	}
	in := map[string]any{"prompt": prompt, "seconds_total": seconds}
	if err := c.http.PostJSON(ctx, EndpointStableAudio, in, &out); err != nil {
		return "", err
	}
	if out.AudioFile == nil || out.AudioFile.URL == "" {
		return "", models.ContentRejected(providerName, "no audio returned")
	}
	return out.AudioFile.URL, nil
}

// VoiceClone speaks genText in the voice of the reference clip.
func (c *Client) VoiceClone(ctx context.Context, refAudioURL, refText, genText string) (string, error) {
	in := map[string]any{
		"ref_audio_url":  refAudioURL,
		"ref_text":       refText,
		"gen_text":       genText,
		"model_type":     "F5-TTS",
		"remove_silence": true,
	}

	var out struct {
		AudioURL *file `json:"audio_url"`
	}
	if err := c.http.PostJSON(ctx, EndpointF5TTS, in, &out); err != nil {
		return "", err
	}
	if out.AudioURL == nil || out.AudioURL.URL == "" {
		return "", models.ContentRejected(providerName, "no audio returned")
	}
	return out.AudioURL.URL, nil
}

// PuLID runs an identity-preserving edit of a reference portrait.
func (c *Client) PuLID(ctx context.Context, req PuLIDRequest) (string, error) {
	return c.Imagen(ctx, EndpointPuLID, req)
}
