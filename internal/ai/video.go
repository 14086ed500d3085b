package ai

import (
	"context"

	"github.com/kiranshivaraju/mediagate/internal/ai/fal"
	"github.com/kiranshivaraju/mediagate/internal/ai/runway"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

func (d *Dispatcher) video(ctx context.Context, req *request) (models.Outcome, error) {
	image := req.url("image")
	if image == "" {
		return models.Outcome{}, models.InvalidInput("image is required")
	}

	id, err := d.deps.Runway.Submit(ctx, runway.VideoRequest{
		PromptImage: image,
		PromptText:  req.prompt,
		Seed:        fal.SeedPtr(req.desc.Params.Int("seed")),
		Duration:    req.desc.Params.Int("duration"),
		Ratio:       req.param("ratio"),
	})
	if err != nil {
		return models.Outcome{}, err
	}
	return models.Outcome{Job: d.deps.Jobs.Handle(models.JobProviderRunway, id)}, nil
}

func (d *Dispatcher) avatar(ctx context.Context, req *request) (models.Outcome, error) {
	visual, audio := req.url("visual"), req.url("audio")
	if visual == "" || audio == "" {
		return models.Outcome{}, models.InvalidInput("visual and audio are required")
	}

	id, err := d.deps.Sieve.SubmitAvatar(ctx, visual, audio)
	if err != nil {
		return models.Outcome{}, err
	}
	return models.Outcome{Job: d.deps.Jobs.Handle(models.JobProviderSieve, id)}, nil
}
