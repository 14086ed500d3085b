package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kiranshivaraju/mediagate/internal/ai/cartesia"
	"github.com/kiranshivaraju/mediagate/internal/ai/fal"
	"github.com/kiranshivaraju/mediagate/internal/ai/httpx"
	"github.com/kiranshivaraju/mediagate/internal/ai/ideogram"
	"github.com/kiranshivaraju/mediagate/internal/ai/runway"
	"github.com/kiranshivaraju/mediagate/internal/ai/stability"
	"github.com/kiranshivaraju/mediagate/internal/media"
	"github.com/kiranshivaraju/mediagate/internal/metrics"
	"github.com/kiranshivaraju/mediagate/internal/retry"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// FalAPI is the fal surface the dispatcher drives.
type FalAPI interface {
	Writer
	Imagen(ctx context.Context, endpoint string, input any) (string, error)
	RemoveBackground(ctx context.Context, imageURL string) (image, mask string, err error)
	Upscale(ctx context.Context, imageURL string) (string, error)
	CreateStyle(ctx context.Context, imageURL, baseStyle string) (string, error)
	BatchDescribe(ctx context.Context, imageURLs []string) ([]string, error)
	Audio(ctx context.Context, prompt string, seconds int) (string, error)
	VoiceClone(ctx context.Context, refAudioURL, refText, genText string) (string, error)
	PuLID(ctx context.Context, req fal.PuLIDRequest) (string, error)
}

type IdeogramAPI interface {
	Edit(ctx context.Context, req ideogram.EditRequest) (string, error)
}

type StabilityAPI interface {
	Run(ctx context.Context, task string, fields map[string]string, files []httpx.Part) (stability.Image, error)
}

type CartesiaAPI interface {
	Speak(ctx context.Context, req cartesia.SpeakRequest) ([]byte, error)
}

type RunwayAPI interface {
	Submit(ctx context.Context, req runway.VideoRequest) (string, error)
}

type SieveAPI interface {
	SubmitAvatar(ctx context.Context, visualURL, audioURL string) (string, error)
}

// MediaStore copies provider media into durable storage.
type MediaStore interface {
	Rehost(ctx context.Context, src string) (models.MediaAsset, error)
	Store(ctx context.Context, name, contentType string, data []byte) (models.MediaAsset, error)
}

// JobRegistry issues handles for submitted async jobs.
type JobRegistry interface {
	Handle(provider models.JobProvider, id string) *models.JobHandle
}

// Dependencies are the collaborators a Dispatcher is built from. Optional adapters
// left nil disable the task kinds that need them.
type Dependencies struct {
	Fal        FalAPI
	Ideogram   IdeogramAPI
	Stability  StabilityAPI
	Cartesia   CartesiaAPI
	Runway     RunwayAPI
	Sieve      SieveAPI
	Translator models.Translator
	Uploader   models.Uploader
	Media      MediaStore
	Jobs       JobRegistry
	Retry      retry.Policy
	Logger     zerolog.Logger
}

// Dispatcher routes task descriptors to provider adapters.
type Dispatcher struct {
	deps     Dependencies
	handlers map[models.TaskKind]entry
	logger   zerolog.Logger
}

// NewDispatcher validates the dependencies and resolves the handler table.
func NewDispatcher(deps Dependencies) (*Dispatcher, error) {
	if deps.Fal == nil {
		return nil, fmt.Errorf("%w: fal client", ErrMissingDependency)
	}
	if deps.Media == nil {
		return nil, fmt.Errorf("%w: media store", ErrMissingDependency)
	}
	if deps.Uploader == nil {
		return nil, fmt.Errorf("%w: uploader", ErrMissingDependency)
	}
	if deps.Translator == nil {
		deps.Translator = NewLLMTranslator(deps.Fal)
	}
	if deps.Retry.Attempts < 1 {
		deps.Retry.Attempts = 1
	}

	d := &Dispatcher{
		deps:   deps,
		logger: deps.Logger.With().Str("component", "dispatcher").Logger(),
	}

	handlers, err := buildTable(deps)
	if err != nil {
		return nil, err
	}
	d.handlers = handlers
	return d, nil
}

// Supports reports whether kind has a registered handler.
func (d *Dispatcher) Supports(kind models.TaskKind) bool {
	_, ok := d.handlers[kind]
	return ok
}

// Kinds lists the registered task kinds in AllTaskKinds order.
func (d *Dispatcher) Kinds() []models.TaskKind {
	var out []models.TaskKind
	for _, k := range models.AllTaskKinds() {
		if d.Supports(k) {
			out = append(out, k)
		}
	}
	return out
}

// Dispatch runs one task. Sync kinds return a result whose media has been rehosted;
// async kinds return a job handle.
func (d *Dispatcher) Dispatch(ctx context.Context, desc models.TaskDescriptor) (models.Outcome, error) {
	start := time.Now()

	out, err := d.dispatch(ctx, desc)

	outcome := "ok"
	if err != nil {
		outcome = strings.ToLower(string(models.KindOf(err)))
	}
	metrics.DispatchTotal.WithLabelValues(string(desc.Kind), outcome).Inc()
	metrics.DispatchLatency.WithLabelValues(string(desc.Kind)).Observe(time.Since(start).Seconds())

	var ev *zerolog.Event
	if err != nil {
		ev = d.logger.Warn().Err(err)
	} else {
		ev = d.logger.Info()
	}
	ev.Str("kind", string(desc.Kind)).
		Str("model", desc.Model).
		Str("locale", desc.Locale).
		Str("outcome", outcome).
		Dur("duration", time.Since(start)).
		Msg("task dispatched")

	return out, err
}

func (d *Dispatcher) dispatch(ctx context.Context, desc models.TaskDescriptor) (models.Outcome, error) {
	e, ok := d.handlers[desc.Kind]
	if !ok {
		return models.Outcome{}, models.UnsupportedTask("task %q is not available", desc.Kind)
	}
	if err := e.checkMedia(desc.Media); err != nil {
		return models.Outcome{}, err
	}

	req := &request{desc: desc, prompt: strings.TrimSpace(desc.Params.String("prompt"))}

	if e.translate && req.prompt != "" && desc.NeedsTranslation() {
		translated, err := d.translate(ctx, req.prompt)
		if err != nil {
			return models.Outcome{}, err
		}
		req.prompt = translated
	}

	if e.upload {
		if err := d.resolveMedia(ctx, req); err != nil {
			return models.Outcome{}, err
		}
	}

	out, err := e.run(d, ctx, req)
	if err != nil {
		return models.Outcome{}, err
	}
	if out.Job != nil {
		return out, nil
	}

	result, err := d.finish(ctx, e.rehost, out.Result)
	if err != nil {
		return models.Outcome{}, err
	}
	return models.Outcome{Result: result}, nil
}

// translate keeps the original prompt when the translator answers NONE or nothing.
func (d *Dispatcher) translate(ctx context.Context, prompt string) (string, error) {
	out, err := d.deps.Translator.Translate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("translating prompt: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" || out == models.NoChangeSentinel {
		return prompt, nil
	}
	return out, nil
}

// resolveMedia uploads inline media so providers can fetch it by URL.
func (d *Dispatcher) resolveMedia(ctx context.Context, req *request) error {
	req.urls = make(map[string][]string, len(req.desc.Media))
	for _, m := range req.desc.Media {
		u := m.URL
		if m.IsInline() {
			uploaded, err := d.deps.Uploader.Upload(ctx, m.Filename, m.ContentType, m.Data)
			if err != nil {
				return fmt.Errorf("uploading %s: %w", m.Field, err)
			}
			u = uploaded
		}
		if u != "" {
			req.urls[m.Field] = append(req.urls[m.Field], u)
		}
	}
	return nil
}

// finish moves every media output into durable storage.
func (d *Dispatcher) finish(ctx context.Context, policy rehostPolicy, res *models.ProviderResult) (*models.ProviderResult, error) {
	if res == nil {
		return nil, errors.New("handler returned no result")
	}

	if len(res.Data) > 0 {
		asset, err := d.deps.Media.Store(ctx, media.RandomName(extensionFor(res.ContentType)), res.ContentType, res.Data)
		if err != nil {
			return nil, err
		}
		return models.MediaResult(asset.StoredURL), nil
	}

	if !res.IsMedia() || policy == rehostNever {
		return res, nil
	}

	stored := make([]string, 0, len(res.URLs))
	for _, src := range res.URLs {
		if src == "" {
			continue
		}
		u, err := d.rehost(ctx, policy, src)
		if err != nil {
			return nil, err
		}
		stored = append(stored, u)
	}
	return models.MediaResult(stored...), nil
}

func (d *Dispatcher) rehost(ctx context.Context, policy rehostPolicy, src string) (string, error) {
	op := func(ctx context.Context) (models.MediaAsset, error) {
		return d.deps.Media.Rehost(ctx, src)
	}

	var (
		asset models.MediaAsset
		err   error
	)
	if policy == rehostRetry {
		asset, err = retry.Do(ctx, d.deps.Retry, op)
	} else {
		asset, err = op(ctx)
	}
	if err != nil {
		return "", err
	}
	return asset.StoredURL, nil
}

var extensions = map[string]string{
	"image/png":   ".png",
	"image/jpeg":  ".jpg",
	"image/webp":  ".webp",
	"audio/wav":   ".wav",
	"audio/x-wav": ".wav",
	"audio/wave":  ".wav",
	"audio/mpeg":  ".mp3",
}

func extensionFor(contentType string) string {
	ct, _, _ := strings.Cut(contentType, ";")
	if ext, ok := extensions[strings.TrimSpace(ct)]; ok {
		return ext
	}
	return ".bin"
}
