package ai

import (
	"context"

	"github.com/kiranshivaraju/mediagate/internal/ai/fal"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// Image generation model selectors.
const (
	ModelRecraft = "recraft"
	ModelQuint   = "quint"
	ModelQuality = "quality"
	ModelQuick   = "quick"
)

// Workflow models accept a named image size instead of explicit pixels.
var workflowModels = map[string]bool{
	"flux-pro/v1.1-ultra": true,
	"flux-pro/v1.1":       true,
	"flux/schnell":        true,
	"flux/dev":            true,
	"recraft-v3":          true,
}

const ultraSafetyTolerance = 6

func imageSize(p models.Params) *fal.ImageSize {
	w, h := p.Int("width"), p.Int("height")
	if w <= 0 && h <= 0 {
		return nil
	}
	return &fal.ImageSize{Width: w, Height: h}
}

// shapeImagine maps a model selector onto its endpoint and request type. A redux
// reference overrides the selector.
func shapeImagine(model, prompt, redux string, p models.Params) (string, any, error) {
	if prompt == "" {
		return "", nil, models.InvalidInput("prompt is required")
	}
	seed := fal.SeedPtr(p.Int("seed"))

	if redux != "" {
		return fal.EndpointUltraRedux, fal.UltraRequest{
			Prompt:          prompt,
			AspectRatio:     p.String("aspect_ratio"),
			SafetyTolerance: ultraSafetyTolerance,
			Raw:             true,
			ImageURL:        redux,
			Seed:            seed,
		}, nil
	}

	switch model {
	case ModelQuint:
		return fal.EndpointUltra, fal.UltraRequest{
			Prompt:          prompt,
			AspectRatio:     p.String("aspect_ratio"),
			SafetyTolerance: ultraSafetyTolerance,
			Raw:             true,
			Seed:            seed,
		}, nil
	case ModelRecraft:
		style := p.String("style")
		if style == "" {
			return "", nil, models.InvalidInput("style is required for the %s model", ModelRecraft)
		}
		return fal.EndpointRecraft, fal.RecraftRequest{
			Prompt:    prompt,
			ImageSize: imageSize(p),
			Style:     style,
			StyleID:   p.String("style_id"),
			Seed:      seed,
		}, nil
	case ModelQuality:
		return fal.EndpointFluxPro, fal.FluxRequest{Prompt: prompt, ImageSize: imageSize(p), Seed: seed}, nil
	case ModelQuick:
		return fal.EndpointSchnell, fal.FluxRequest{Prompt: prompt, ImageSize: imageSize(p), Seed: seed}, nil
	default:
		return "", nil, models.UnsupportedTask("image model %q", model)
	}
}

func (d *Dispatcher) imagine(ctx context.Context, req *request) (models.Outcome, error) {
	endpoint, body, err := shapeImagine(req.desc.Model, req.prompt, req.url("redux"), req.desc.Params)
	if err != nil {
		return models.Outcome{}, err
	}

	out, err := d.deps.Fal.Imagen(ctx, endpoint, body)
	if err != nil {
		return models.Outcome{}, err
	}
	return result(models.MediaResult(out))
}

func shapeWorkflow(model, prompt string, p models.Params) (string, any, error) {
	if !workflowModels[model] {
		return "", nil, models.UnsupportedTask("workflow model %q", model)
	}
	if prompt == "" {
		return "", nil, models.InvalidInput("prompt is required")
	}
	endpoint := "fal-ai/" + model
	seed := fal.SeedPtr(p.Int("seed"))
	size := p.String("image_size")
	if size == "" {
		size = p.String("aspect_ratio")
	}

	switch model {
	case "flux-pro/v1.1-ultra":
		return endpoint, fal.UltraRequest{
			Prompt:          prompt,
			AspectRatio:     p.String("aspect_ratio"),
			SafetyTolerance: ultraSafetyTolerance,
			Raw:             true,
			Seed:            seed,
		}, nil
	case "recraft-v3":
		return endpoint, fal.WorkflowRequest{
			Prompt:    prompt,
			ImageSize: size,
			Style:     "any",
			Seed:      seed,
		}, nil
	default:
		return endpoint, fal.WorkflowRequest{
			Prompt:    prompt,
			ImageSize: size,
			Seed:      seed,
		}, nil
	}
}

func (d *Dispatcher) workflow(ctx context.Context, req *request) (models.Outcome, error) {
	endpoint, body, err := shapeWorkflow(req.desc.Model, req.prompt, req.desc.Params)
	if err != nil {
		return models.Outcome{}, err
	}

	out, err := d.deps.Fal.Imagen(ctx, endpoint, body)
	if err != nil {
		return models.Outcome{}, err
	}
	return result(models.MediaResult(out))
}
