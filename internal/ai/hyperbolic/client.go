// Package hyperbolic streams chat completions from Hyperbolic's OpenAI-compatible API.
package hyperbolic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"sync/atomic"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kiranshivaraju/mediagate/internal/config"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

const (
	providerName = "hyperbolic"
	maxTokens    = 8192
)

// zeroTemperature stands in for 0, which go-openai omits from the request.
const zeroTemperature = 1e-6

// ErrConsumed is yielded when a stream is ranged a second time.
var ErrConsumed = errors.New("stream already consumed")

// Client produces token streams.
type Client struct {
	client *openai.Client
	model  string
}

// New creates a Hyperbolic client. Streams are bounded by the caller's context
// rather than a client timeout.
func New(cfg config.ProviderConfig) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.BaseURL
	oc.HTTPClient = &http.Client{}

	return &Client{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.Model,
	}
}

// Stream implements models.TokenStreamer. The returned sequence opens the upstream
// stream when ranged, yields non-empty increments in order, and closes the upstream
// on every exit path. It can be ranged once.
func (c *Client) Stream(ctx context.Context, req models.StreamRequest) iter.Seq2[string, error] {
	var used atomic.Bool

	return func(yield func(string, error) bool) {
		if !used.CompareAndSwap(false, true) {
			yield("", ErrConsumed)
			return
		}

		messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
		for _, m := range req.Messages {
			messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
		}

		temperature := req.Temperature
		if temperature <= 0 {
			temperature = zeroTemperature
		}

		stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			MaxTokens:   maxTokens,
			Temperature: temperature,
			Stream:      true,
		})
		if err != nil {
			yield("", classifyError(err))
			return
		}
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", classifyError(err))
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}

			content := resp.Choices[0].Delta.Content
			if content == "" {
				continue
			}
			if !yield(content, nil) {
				return
			}
		}
	}
}

func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &models.ProviderError{Provider: providerName, StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &models.ProviderError{Provider: providerName, StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}

	return fmt.Errorf("%w: %s: %v", models.ErrNetwork, providerName, err)
}
