// Package runway is the adapter for Runway image-to-video jobs.
package runway

import (
	"context"
	"net/url"
	"time"

	"github.com/kiranshivaraju/mediagate/internal/ai/httpx"
	"github.com/kiranshivaraju/mediagate/internal/config"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

const (
	providerName = "runway"
	model        = "gen3a_turbo"
)

// Client submits and checks Runway tasks.
type Client struct {
	http *httpx.Client
}

// New creates a Runway client.
func New(cfg config.ProviderConfig, timeout time.Duration) *Client {
	return &Client{
		http: httpx.New(providerName, cfg.BaseURL, timeout, map[string]string{
			"Authorization":    "Bearer " + cfg.APIKey,
			"X-Runway-Version": cfg.Version,
		}),
	}
}

// VideoRequest is an image-to-video generation.
type VideoRequest struct {
	PromptImage string `json:"promptImage"`
	PromptText  string `json:"promptText,omitempty"`
	Seed        *int   `json:"seed,omitempty"`
	Model       string `json:"model"`
	Watermark   bool   `json:"watermark"`
	Duration    int    `json:"duration,omitempty"`
	Ratio       string `json:"ratio,omitempty"`
}

// Provider implements models.JobAdapter.
func (c *Client) Provider() models.JobProvider {
	return models.JobProviderRunway
}

// Submit starts a generation and returns the task id.
func (c *Client) Submit(ctx context.Context, req VideoRequest) (string, error) {
	req.Model = model
	req.Watermark = false

	var out struct {
		ID string `json:"id"`
	}
	if err := c.http.PostJSON(ctx, "v1/image_to_video", req, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &models.ProviderError{Provider: providerName, StatusCode: 200, Message: "no task id returned"}
	}
	return out.ID, nil
}

type task struct {
	Status  string   `json:"status"`
	Failure string   `json:"failure"`
	Output  []string `json:"output"`
}

// Check maps a Runway task status onto the shared vocabulary. SUCCEEDED and FAILED
// are terminal; every other status is running.
func (c *Client) Check(ctx context.Context, id string) (models.RemoteJob, error) {
	var t task
	if err := c.http.GetJSON(ctx, "v1/tasks/"+url.PathEscape(id), &t); err != nil {
		return models.RemoteJob{}, err
	}
	return mapTask(t), nil
}

func mapTask(t task) models.RemoteJob {
	switch t.Status {
	case "SUCCEEDED":
		if len(t.Output) == 0 || t.Output[0] == "" {
			return models.RemoteJob{State: models.JobStateFailed, Reason: "task succeeded without output"}
		}
		return models.RemoteJob{State: models.JobStateSucceeded, OutputURL: t.Output[0]}
	case "FAILED":
		reason := t.Failure
		if reason == "" {
			reason = "task failed"
		}
		return models.RemoteJob{State: models.JobStateFailed, Reason: reason}
	default:
		return models.RemoteJob{State: models.JobStateRunning}
	}
}
