// Package sieve is the adapter for Sieve portrait-avatar jobs.
package sieve

import (
	"context"
	"encoding/json"
	"maps"
	"net/url"
	"slices"
	"time"

	"github.com/kiranshivaraju/mediagate/internal/ai/httpx"
	"github.com/kiranshivaraju/mediagate/internal/config"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

const (
	providerName = "sieve"
	function     = "sieve/portrait-avatar"
	backend      = "hedra-character-2"
	enhancement  = "codeformer"
)

// Client pushes and checks Sieve jobs.
type Client struct {
	http *httpx.Client
}

// New creates a Sieve client.
func New(cfg config.ProviderConfig, timeout time.Duration) *Client {
	return &Client{
		http: httpx.New(providerName, cfg.BaseURL, timeout, map[string]string{
			"X-API-Key": cfg.APIKey,
		}),
	}
}

type fileRef struct {
	URL string `json:"url"`
}

type avatarInputs struct {
	SourceImage  fileRef `json:"source_image"`
	DrivingAudio fileRef `json:"driving_audio"`
	Backend      string  `json:"backend"`
	Enhancement  string  `json:"enhancement"`
}

type pushRequest struct {
	Function string       `json:"function"`
	Inputs   avatarInputs `json:"inputs"`
}

// Provider implements models.JobAdapter.
func (c *Client) Provider() models.JobProvider {
	return models.JobProviderSieve
}

// SubmitAvatar starts a portrait animation of visualURL driven by audioURL.
func (c *Client) SubmitAvatar(ctx context.Context, visualURL, audioURL string) (string, error) {
	req := pushRequest{
		Function: function,
		Inputs: avatarInputs{
			SourceImage:  fileRef{URL: visualURL},
			DrivingAudio: fileRef{URL: audioURL},
			Backend:      backend,
			Enhancement:  enhancement,
		},
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.http.PostJSON(ctx, "v2/push", req, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &models.ProviderError{Provider: providerName, StatusCode: 200, Message: "no job id returned"}
	}
	return out.ID, nil
}

type job struct {
	Status  string          `json:"status"`
	Error   string          `json:"error"`
	Outputs json.RawMessage `json:"outputs"`
}

// Check maps a Sieve job onto the shared vocabulary: finished is succeeded, error
// and cancelled are failed, anything else is running.
func (c *Client) Check(ctx context.Context, id string) (models.RemoteJob, error) {
	var j job
	if err := c.http.GetJSON(ctx, "v2/jobs/"+url.PathEscape(id), &j); err != nil {
		return models.RemoteJob{}, err
	}
	return mapJob(j), nil
}

func mapJob(j job) models.RemoteJob {
	switch j.Status {
	case "finished":
		out := findURL(j.Outputs)
		if out == "" {
			return models.RemoteJob{State: models.JobStateFailed, Reason: "job finished without output"}
		}
		return models.RemoteJob{State: models.JobStateSucceeded, OutputURL: out}
	case "error", "cancelled":
		reason := j.Error
		if reason == "" {
			reason = "job " + j.Status
		}
		return models.RemoteJob{State: models.JobStateFailed, Reason: reason}
	default:
		return models.RemoteJob{State: models.JobStateRunning}
	}
}

// findURL returns the first "url" string found depth-first in raw.
func findURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return walk(v)
}

// walk returns the first non-empty url found depth first, visiting keys in sorted order.
func walk(v any) string {
	switch t := v.(type) {
	case map[string]any:
		if s, ok := t["url"].(string); ok && s != "" {
			return s
		}
		for _, k := range slices.Sorted(maps.Keys(t)) {
			if s := walk(t[k]); s != "" {
				return s
			}
		}
	case []any:
		for _, child := range t {
			if s := walk(child); s != "" {
				return s
			}
		}
	}
	return ""
}
