package models

import (
	"context"
	"iter"
)

// Translator normalizes a prompt into English. Implementations return the literal
// NoChangeSentinel when the text needs no change.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// NoChangeSentinel is the translator's answer for text that is already fine.
const NoChangeSentinel = "NONE"

// Uploader stores raw bytes and returns a URL a provider can fetch.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// JobAdapter is implemented by providers that run generation as a long-running job.
// Check maps the provider's status vocabulary onto RemoteJob.
type JobAdapter interface {
	Provider() JobProvider
	Check(ctx context.Context, id string) (RemoteJob, error)
}

// TokenStreamer produces a lazily-evaluated, finite sequence of text increments.
type TokenStreamer interface {
	Stream(ctx context.Context, req StreamRequest) iter.Seq2[string, error]
}

// StreamRequest is the input for a streamed completion.
type StreamRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Temperature float32       `json:"temp"`
}

// ChatMessage is one message of a chat completion.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
