package ai

import (
	"context"

	"github.com/kiranshivaraju/mediagate/internal/ai/fal"
)

// Writer runs a text completion.
type Writer interface {
	Write(ctx context.Context, req fal.WriteRequest) (string, error)
}

// LLMTranslator normalizes prompts to English with a language model.
type LLMTranslator struct {
	writer Writer
}

// NewLLMTranslator creates a translator backed by writer.
func NewLLMTranslator(writer Writer) *LLMTranslator {
	return &LLMTranslator{writer: writer}
}

// Translate returns the English form of text, or the model's NONE answer when the
// text needs no change.
func (t *LLMTranslator) Translate(ctx context.Context, text string) (string, error) {
	return t.writer.Write(ctx, fal.WriteRequest{
		Prompt:       text,
		SystemPrompt: translatorPrompt,
		Model:        translatorModel,
	})
}
