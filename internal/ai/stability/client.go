// Package stability is the adapter for Stability AI's stable-image API.
package stability

import (
	"context"
	"time"

	"github.com/kiranshivaraju/mediagate/internal/ai/httpx"
	"github.com/kiranshivaraju/mediagate/internal/config"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

const providerName = "stability"

// taskPaths maps a task name onto its stable-image path.
var taskPaths = map[string]string{
	"inpaint": "edit/inpaint",
	"upscale": "upscale/fast",
}

// Client calls Stability AI.
type Client struct {
	http *httpx.Client
}

// New creates a Stability client.
func New(cfg config.ProviderConfig, timeout time.Duration) *Client {
	return &Client{
		http: httpx.New(providerName, cfg.BaseURL, timeout, map[string]string{
			"Authorization": "Bearer " + cfg.APIKey,
		}),
	}
}

// Tasks lists the supported task names.
func Tasks() []string {
	return []string{"inpaint", "upscale"}
}

// Image is a generated image payload.
type Image struct {
	Data        []byte
	ContentType string
}

// Run executes task with the given multipart fields and files and returns the image bytes.
func (c *Client) Run(ctx context.Context, task string, fields map[string]string, files []httpx.Part) (Image, error) {
	path, ok := taskPaths[task]
	if !ok {
		return Image{}, models.UnsupportedTask("stability task %q", task)
	}

	data, ct, err := c.http.PostMultipartBytes(ctx, "v2beta/stable-image/"+path, httpx.Form{Fields: fields, Files: files}, "image/*")
	if err != nil {
		return Image{}, err
	}
	if len(data) == 0 {
		return Image{}, models.ContentRejected(providerName, "empty image")
	}
	if ct == "" {
		ct = "image/png"
	}
	return Image{Data: data, ContentType: ct}, nil
}
