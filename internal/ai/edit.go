package ai

import (
	"context"

	"github.com/kiranshivaraju/mediagate/internal/ai/httpx"
	"github.com/kiranshivaraju/mediagate/internal/ai/ideogram"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// formParts turns the descriptor into provider form fields and file parts. Providers
// behind it take files in the body, so media must arrive inline.
func formParts(req *request, drop ...string) (map[string]string, []httpx.Part, error) {
	fields := req.desc.Params.StringMap()
	for _, k := range drop {
		delete(fields, k)
	}
	if req.prompt != "" {
		fields["prompt"] = req.prompt
	}

	files := make([]httpx.Part, 0, len(req.desc.Media))
	for _, m := range req.desc.Media {
		if !m.IsInline() {
			return nil, nil, models.InvalidInput("%s must be sent as a file", m.Field)
		}
		files = append(files, httpx.Part{
			Field:       m.Field,
			Filename:    m.Filename,
			ContentType: m.ContentType,
			Data:        m.Data,
		})
	}
	return fields, files, nil
}

func (d *Dispatcher) inpaint(ctx context.Context, req *request) (models.Outcome, error) {
	if req.prompt == "" || len(req.desc.Media) == 0 {
		return models.Outcome{}, models.InvalidInput("prompt and image are required")
	}
	fields, files, err := formParts(req)
	if err != nil {
		return models.Outcome{}, err
	}

	out, err := d.deps.Ideogram.Edit(ctx, ideogram.EditRequest{Fields: fields, Files: files})
	if err != nil {
		return models.Outcome{}, err
	}
	return result(models.MediaResult(out))
}

// stable forwards the caller's form to a Stability task. The answer is raw image bytes.
func (d *Dispatcher) stable(ctx context.Context, req *request) (models.Outcome, error) {
	task := req.param("task")
	if task == "" {
		return models.Outcome{}, models.InvalidInput("task is required")
	}
	fields, files, err := formParts(req, "task")
	if err != nil {
		return models.Outcome{}, err
	}

	img, err := d.deps.Stability.Run(ctx, task, fields, files)
	if err != nil {
		return models.Outcome{}, err
	}
	return result(&models.ProviderResult{Kind: models.ResultMediaURL, Data: img.Data, ContentType: img.ContentType})
}
