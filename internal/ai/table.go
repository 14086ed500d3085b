package ai

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// handler runs one task kind against its adapter. Media in the returned result is
// still provider-owned.
type handler func(d *Dispatcher, ctx context.Context, req *request) (models.Outcome, error)

type rehostPolicy int

const (
	rehostOnce rehostPolicy = iota
	rehostRetry
	rehostNever
)

type entry struct {
	run       handler
	translate bool
	upload    bool
	rehost    rehostPolicy
	// media lists the input media fields the handler reads.
	media []string
	// files marks handlers that forward every caller file to the provider.
	files bool
}

// checkMedia rejects attached media the handler would never read.
func (e entry) checkMedia(media []models.InputMedia) error {
	if e.files {
		return nil
	}
	for _, m := range media {
		if !slices.Contains(e.media, m.Field) {
			return models.InvalidInput("media field %q is not accepted by this task", m.Field)
		}
	}
	return nil
}

// request is a descriptor plus the values the dispatcher resolved for it.
type request struct {
	desc   models.TaskDescriptor
	prompt string
	urls   map[string][]string
}

func (r *request) param(key string) string {
	return strings.TrimSpace(r.desc.Params.String(key))
}

// url returns the resolved media URL for field, falling back to a URL param of the same name.
func (r *request) url(field string) string {
	if u := r.urls[field]; len(u) > 0 {
		return u[0]
	}
	return r.param(field)
}

func (r *request) urlList(field string) []string {
	if u := r.urls[field]; len(u) > 0 {
		return u
	}
	return r.desc.Params.Strings(field)
}

func result(res *models.ProviderResult) (models.Outcome, error) {
	return models.Outcome{Result: res}, nil
}

type table map[models.TaskKind]entry

func (t table) register(kind models.TaskKind, e entry) error {
	if !kind.Valid() {
		return fmt.Errorf("registering handler: unknown task kind %q", kind)
	}
	if _, dup := t[kind]; dup {
		return fmt.Errorf("registering handler: %q registered twice", kind)
	}
	t[kind] = e
	return nil
}

// buildTable wires every kind whose adapter is configured.
func buildTable(deps Dependencies) (table, error) {
	if (deps.Runway != nil || deps.Sieve != nil) && deps.Jobs == nil {
		return nil, fmt.Errorf("%w: job registry", ErrMissingDependency)
	}

	type reg struct {
		kind    models.TaskKind
		e       entry
		enabled bool
	}
	image := []string{"image"}
	regs := []reg{
		{models.TaskTextGenerate, entry{run: (*Dispatcher).textGenerate, translate: true, upload: true, media: image}, true},
		{models.TaskImageDescribe, entry{run: (*Dispatcher).imageDescribe, translate: true, upload: true, media: image}, true},
		{models.TaskImageBulkDescribe, entry{run: (*Dispatcher).bulkDescribe, upload: true, media: []string{"images"}}, true},
		{models.TaskImageRemoveBackground, entry{run: (*Dispatcher).removeBackground, upload: true, media: image}, true},
		{models.TaskImageUpscale, entry{run: (*Dispatcher).upscale, upload: true, media: image}, true},
		{models.TaskImageStyleCreate, entry{run: (*Dispatcher).styleCreate, upload: true, media: image}, true},
		{models.TaskImageSubject, entry{run: (*Dispatcher).subject, translate: true, upload: true, media: image}, true},
		{models.TaskImageEdit, entry{run: (*Dispatcher).edit, translate: true, upload: true, media: image}, true},
		{models.TaskImageGenerate, entry{run: (*Dispatcher).imagine, translate: true, upload: true, media: []string{"redux"}}, true},
		{models.TaskImageWorkflow, entry{run: (*Dispatcher).workflow, translate: true, upload: true}, true},
		{models.TaskImageFill, entry{run: (*Dispatcher).fill, translate: true, upload: true, media: []string{"image", "mask"}}, true},
		{models.TaskAudioSynthesize, entry{run: (*Dispatcher).synthesize, translate: true}, true},
		{models.TaskVoiceClone, entry{run: (*Dispatcher).voiceClone, upload: true, media: []string{"ref_audio"}}, true},
		{models.TaskImageInpaint, entry{run: (*Dispatcher).inpaint, translate: true, rehost: rehostRetry, files: true}, deps.Ideogram != nil},
		{models.TaskImageStable, entry{run: (*Dispatcher).stable, translate: true, files: true}, deps.Stability != nil},
		{models.TaskSpeech, entry{run: (*Dispatcher).speech}, deps.Cartesia != nil},
		{models.TaskVideoGenerate, entry{run: (*Dispatcher).video, upload: true, media: image}, deps.Runway != nil},
		{models.TaskAvatarGenerate, entry{run: (*Dispatcher).avatar, upload: true, media: []string{"visual", "audio"}}, deps.Sieve != nil},
	}

	t := make(table, len(regs))
	for _, r := range regs {
		if !r.enabled {
			continue
		}
		if err := t.register(r.kind, r.e); err != nil {
			return nil, err
		}
	}
	return t, nil
}
