package ai

import (
	"context"

	"github.com/kiranshivaraju/mediagate/internal/ai/fal"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

func requireImage(req *request) (string, error) {
	image := req.url("image")
	if image == "" {
		return "", models.InvalidInput("image is required")
	}
	return image, nil
}

func (d *Dispatcher) removeBackground(ctx context.Context, req *request) (models.Outcome, error) {
	src, err := requireImage(req)
	if err != nil {
		return models.Outcome{}, err
	}

	image, mask, err := d.deps.Fal.RemoveBackground(ctx, src)
	if err != nil {
		return models.Outcome{}, err
	}
	if mask == "" {
		return result(models.MediaResult(image))
	}
	return result(models.MediaResult(image, mask))
}

func (d *Dispatcher) upscale(ctx context.Context, req *request) (models.Outcome, error) {
	src, err := requireImage(req)
	if err != nil {
		return models.Outcome{}, err
	}

	out, err := d.deps.Fal.Upscale(ctx, src)
	if err != nil {
		return models.Outcome{}, err
	}
	return result(models.MediaResult(out))
}

// styleCreate registers the image as a recraft style. The prompt is the base style
// name and is never translated.
func (d *Dispatcher) styleCreate(ctx context.Context, req *request) (models.Outcome, error) {
	src, err := requireImage(req)
	if err != nil {
		return models.Outcome{}, err
	}

	id, err := d.deps.Fal.CreateStyle(ctx, src, req.prompt)
	if err != nil {
		return models.Outcome{}, err
	}
	return result(models.TextResult(id))
}

func (d *Dispatcher) subject(ctx context.Context, req *request) (models.Outcome, error) {
	src, err := requireImage(req)
	if err != nil {
		return models.Outcome{}, err
	}

	out, err := d.deps.Fal.Imagen(ctx, fal.EndpointSubject, fal.SubjectRequest{
		Prompt:       req.prompt,
		ImageURL:     src,
		ImageSize:    imageSize(req.desc.Params),
		OutputFormat: "jpeg",
	})
	if err != nil {
		return models.Outcome{}, err
	}
	return result(models.MediaResult(out))
}

// edit is the identity-preserving portrait edit.
func (d *Dispatcher) edit(ctx context.Context, req *request) (models.Outcome, error) {
	aspect := req.param("aspect_ratio")
	if req.prompt == "" || aspect == "" {
		return models.Outcome{}, models.InvalidInput("prompt and aspect_ratio are required")
	}
	src, err := requireImage(req)
	if err != nil {
		return models.Outcome{}, err
	}

	out, err := d.deps.Fal.PuLID(ctx, fal.NewPuLIDRequest(req.prompt, src, aspect))
	if err != nil {
		return models.Outcome{}, err
	}
	return result(models.MediaResult(out))
}

func (d *Dispatcher) fill(ctx context.Context, req *request) (models.Outcome, error) {
	image, mask := req.url("image"), req.url("mask")
	if req.prompt == "" || image == "" || mask == "" {
		return models.Outcome{}, models.InvalidInput("prompt, image and mask are required")
	}

	out, err := d.deps.Fal.Imagen(ctx, fal.EndpointFill, fal.FillRequest{
		Prompt:          req.prompt,
		ImageURL:        image,
		MaskURL:         mask,
		SafetyTolerance: "6",
	})
	if err != nil {
		return models.Outcome{}, err
	}
	return result(models.MediaResult(out))
}
