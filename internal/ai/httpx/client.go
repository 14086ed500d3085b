// Package httpx is the shared HTTP plumbing for provider adapters. It applies
// auth headers, classifies transport failures and turns non-2xx answers into
// *models.ProviderError.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// maxErrorBody bounds how much of an upstream error body ends up in a ProviderError.
const maxErrorBody = 1024

// Client talks to one provider.
type Client struct {
	provider string
	baseURL  string
	headers  map[string]string
	client   *http.Client
}

// New creates a client for provider rooted at baseURL. headers are set on every request.
func New(provider, baseURL string, timeout time.Duration, headers map[string]string) *Client {
	return &Client{
		provider: provider,
		baseURL:  strings.TrimRight(baseURL, "/"),
		headers:  headers,
		client:   &http.Client{Timeout: timeout},
	}
}

// Provider returns the provider name used in errors.
func (c *Client) Provider() string {
	return c.provider
}

// URL joins path onto the base URL.
func (c *Client) URL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// PostJSON sends body as JSON and decodes a JSON answer into out. out may be nil.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", c.provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(path), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.decode(resp, out)
}

// GetJSON fetches path and decodes the JSON answer into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.decode(resp, out)
}

// PostJSONBytes sends body as JSON and returns the raw answer with its content type.
func (c *Client) PostJSONBytes(ctx context.Context, path string, body any) ([]byte, string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("encoding %s request: %w", c.provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(path), bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.readAll(req)
}

// Part is one file of a multipart body.
type Part struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Form is a multipart body: plain fields plus file parts.
type Form struct {
	Fields map[string]string
	Files  []Part
}

// PostMultipart sends form as multipart/form-data and decodes a JSON answer into out.
func (c *Client) PostMultipart(ctx context.Context, path string, form Form, out any) error {
	req, err := c.multipartRequest(ctx, path, form)
	if err != nil {
		return err
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.decode(resp, out)
}

// PostMultipartBytes sends form and returns the raw answer with its content type.
func (c *Client) PostMultipartBytes(ctx context.Context, path string, form Form, accept string) ([]byte, string, error) {
	req, err := c.multipartRequest(ctx, path, form)
	if err != nil {
		return nil, "", err
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	return c.readAll(req)
}

// Do applies the client headers, sends req and rejects non-2xx answers. The caller
// closes the body of a successful response.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyError(c.provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, c.providerError(resp)
	}

	return resp, nil
}

func (c *Client) readAll(req *http.Request) ([]byte, string, error) {
	resp, err := c.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", classifyError(c.provider, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (c *Client) multipartRequest(ctx context.Context, path string, form Form) (*http.Request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range form.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("writing field %s: %w", k, err)
		}
	}

	for _, p := range form.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.Field, p.Filename))
		ct := p.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		fw, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("creating part %s: %w", p.Field, err)
		}
		if _, err := fw.Write(p.Data); err != nil {
			return nil, fmt.Errorf("writing part %s: %w", p.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(path), &buf)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, nil
}

func (c *Client) decode(resp *http.Response, out any) error {
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &models.ProviderError{
			Provider:   c.provider,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("decoding response: %v", err),
		}
	}
	return nil
}

func (c *Client) providerError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &models.ProviderError{
		Provider:   c.provider,
		StatusCode: resp.StatusCode,
		Message:    msg,
	}
}

// classifyError maps transport-level errors to ErrNetwork.
func classifyError(provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s: %v", models.ErrNetwork, provider, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s: timeout: %v", models.ErrNetwork, provider, err)
	}

	return fmt.Errorf("%w: %s: %v", models.ErrNetwork, provider, err)
}
