// Package ideogram is the adapter for Ideogram's image edit API.
package ideogram

import (
	"context"
	"time"

	"github.com/kiranshivaraju/mediagate/internal/ai/httpx"
	"github.com/kiranshivaraju/mediagate/internal/config"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

const providerName = "ideogram"

// Client calls Ideogram.
type Client struct {
	http *httpx.Client
}

// New creates an Ideogram client.
func New(cfg config.ProviderConfig, timeout time.Duration) *Client {
	return &Client{
		http: httpx.New(providerName, cfg.BaseURL, timeout, map[string]string{
			"Api-Key": cfg.APIKey,
		}),
	}
}

// EditRequest is forwarded to Ideogram as multipart fields and files.
type EditRequest struct {
	Fields map[string]string
	Files  []httpx.Part
}

// Edit inpaints an image and returns the URL of the first result. Ideogram answers
// 200 with an empty url when its safety check declines the output.
func (c *Client) Edit(ctx context.Context, req EditRequest) (string, error) {
	var out struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}

	err := c.http.PostMultipart(ctx, "edit", httpx.Form{Fields: req.Fields, Files: req.Files}, &out)
	if err != nil {
		return "", err
	}

	if len(out.Data) == 0 || out.Data[0].URL == "" {
		return "", models.ContentRejected(providerName, "image is not safe")
	}
	return out.Data[0].URL, nil
}
