package ai

import (
	"context"
	"strings"

	"github.com/kiranshivaraju/mediagate/internal/ai/fal"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

func (d *Dispatcher) textGenerate(ctx context.Context, req *request) (models.Outcome, error) {
	model := strings.TrimSpace(req.desc.Model)
	if req.prompt == "" || model == "" {
		return models.Outcome{}, models.InvalidInput("prompt and model are required")
	}

	system := req.param("system_prompt")
	if system == "" {
		system = defaultSystemPrompt
	}
	if req.desc.NeedsTranslation() {
		if name := languageName(req.desc.Locale); name != "" {
			system += " Provide answer in " + name + "."
		}
	}

	out, err := d.deps.Fal.Write(ctx, fal.WriteRequest{
		Prompt:       req.prompt,
		SystemPrompt: system,
		Model:        model,
		ImageURL:     req.url("image"),
	})
	if err != nil {
		return models.Outcome{}, err
	}
	return result(models.TextResult(out))
}

// imageDescribe runs one of the fixed visual tasks, selected by the model selector.
func (d *Dispatcher) imageDescribe(ctx context.Context, req *request) (models.Outcome, error) {
	task, ok := visualTasks[req.desc.Model]
	if !ok {
		return models.Outcome{}, models.UnsupportedTask("image task %q", req.desc.Model)
	}
	image := req.url("image")
	if image == "" {
		return models.Outcome{}, models.InvalidInput("image is required")
	}

	out, err := d.deps.Fal.Write(ctx, fal.WriteRequest{
		Prompt:       task.userPrompt(req.prompt),
		SystemPrompt: task.system,
		Model:        visionModel,
		ImageURL:     image,
	})
	if err != nil {
		return models.Outcome{}, err
	}
	return result(models.TextResult(out))
}

func (d *Dispatcher) bulkDescribe(ctx context.Context, req *request) (models.Outcome, error) {
	images := req.urlList("images")
	if len(images) == 0 {
		return models.Outcome{}, models.InvalidInput("images are required")
	}

	texts, err := d.deps.Fal.BatchDescribe(ctx, images)
	if err != nil {
		return models.Outcome{}, err
	}
	return result(models.TextListResult(texts))
}
