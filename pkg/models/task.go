// Package models contains shared data models used across the mediagate codebase.
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// TaskKind identifies one family of generative task the gateway can dispatch.
type TaskKind string

const (
	TaskTextGenerate          TaskKind = "text-generate"
	TaskImageDescribe         TaskKind = "image-describe"
	TaskImageBulkDescribe     TaskKind = "image-bulk-describe"
	TaskImageRemoveBackground TaskKind = "image-remove-background"
	TaskImageUpscale          TaskKind = "image-upscale"
	TaskImageStyleCreate      TaskKind = "image-style-create"
	TaskImageSubject          TaskKind = "image-subject"
	TaskImageEdit             TaskKind = "image-edit"
	TaskImageGenerate         TaskKind = "image-generate"
	TaskImageWorkflow         TaskKind = "image-generate-workflow"
	TaskImageInpaint          TaskKind = "image-inpaint"
	TaskImageFill             TaskKind = "image-fill"
	TaskImageStable           TaskKind = "image-stable"
	TaskAudioSynthesize       TaskKind = "audio-synthesize"
	TaskVoiceClone            TaskKind = "voice-clone"
	TaskSpeech                TaskKind = "speech"
	TaskVideoGenerate         TaskKind = "video-generate"
	TaskAvatarGenerate        TaskKind = "avatar-generate"
)

// AllTaskKinds returns every task kind the gateway knows about.
func AllTaskKinds() []TaskKind {
	return []TaskKind{
		TaskTextGenerate,
		TaskImageDescribe,
		TaskImageBulkDescribe,
		TaskImageRemoveBackground,
		TaskImageUpscale,
		TaskImageStyleCreate,
		TaskImageSubject,
		TaskImageEdit,
		TaskImageGenerate,
		TaskImageWorkflow,
		TaskImageInpaint,
		TaskImageFill,
		TaskImageStable,
		TaskAudioSynthesize,
		TaskVoiceClone,
		TaskSpeech,
		TaskVideoGenerate,
		TaskAvatarGenerate,
	}
}

// Valid reports whether k is one of AllTaskKinds.
func (k TaskKind) Valid() bool {
	for _, known := range AllTaskKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// ParseTaskKind converts a raw name into a TaskKind.
func ParseTaskKind(s string) (TaskKind, error) {
	k := TaskKind(strings.TrimSpace(s))
	if !k.Valid() {
		return "", UnsupportedTask("unknown task %q", s)
	}
	return k, nil
}

// DefaultLocale is the locale that bypasses prompt translation.
const DefaultLocale = "en"

// TaskDescriptor is one inbound request, normalized. It is consumed once by the dispatcher.
type TaskDescriptor struct {
	Kind   TaskKind
	Model  string
	Params Params
	Media  []InputMedia
	Locale string
}

// NeedsTranslation reports whether prompts must go through the translator first.
func (d TaskDescriptor) NeedsTranslation() bool {
	return d.Locale != "" && d.Locale != DefaultLocale
}

// MediaByField returns the first input media attached under field.
func (d TaskDescriptor) MediaByField(field string) (InputMedia, bool) {
	for _, m := range d.Media {
		if m.Field == field {
			return m, true
		}
	}
	return InputMedia{}, false
}

// InputMedia is reference media attached to a request, either by URL or as raw bytes.
type InputMedia struct {
	Field       string
	URL         string
	Data        []byte
	Filename    string
	ContentType string
}

// IsInline reports whether the media arrived as bytes rather than a URL.
func (m InputMedia) IsInline() bool {
	return m.URL == "" && len(m.Data) > 0
}

// Params carries request parameters. Values come from JSON (numbers, strings, lists)
// or from multipart forms (strings), so accessors accept both.
type Params map[string]any

// Has reports whether key is present with a non-empty value.
func (p Params) Has(key string) bool {
	v, ok := p[key]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// String returns the value under key as a string, or "".
func (p Params) String(key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the value under key as an int. Missing or unparsable values yield 0.
func (p Params) Int(key string) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			f, ferr := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if ferr != nil {
				return 0
			}
			return int(f)
		}
		return i
	default:
		return 0
	}
}

// Float returns the value under key as a float64. Missing or unparsable values yield 0.
func (p Params) Float(key string) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Strings returns the value under key as a string list. A single string becomes a
// one-element list.
func (p Params) Strings(key string) []string {
	switch v := p[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// Raw returns the untyped value under key.
func (p Params) Raw(key string) any {
	return p[key]
}

// StringMap flattens every scalar param into its string form. Used for providers
// that take the caller's form fields verbatim.
func (p Params) StringMap() map[string]string {
	out := make(map[string]string, len(p))
	for k, v := range p {
		switch v.(type) {
		case nil, []any, []string, map[string]any:
			continue
		}
		out[k] = p.String(k)
	}
	return out
}
