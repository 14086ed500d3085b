// Package mock provides in-memory stand-ins for the dispatcher's collaborators.
package mock

import (
	"context"
	"time"

	"github.com/kiranshivaraju/mediagate/internal/ai/cartesia"
	"github.com/kiranshivaraju/mediagate/internal/ai/fal"
	"github.com/kiranshivaraju/mediagate/internal/ai/httpx"
	"github.com/kiranshivaraju/mediagate/internal/ai/ideogram"
	"github.com/kiranshivaraju/mediagate/internal/ai/runway"
	"github.com/kiranshivaraju/mediagate/internal/ai/stability"
	"github.com/kiranshivaraju/mediagate/internal/media"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// ImagenCall is one recorded Fal.Imagen invocation.
type ImagenCall struct {
	Endpoint string
	Input    any
}

// Fal satisfies the dispatcher's fal surface. Unset funcs answer with fixed URLs.
type Fal struct {
	WriteFunc  func(ctx context.Context, req fal.WriteRequest) (string, error)
	ImagenFunc func(ctx context.Context, endpoint string, input any) (string, error)

	Writes  []fal.WriteRequest
	Imagens []ImagenCall
	Calls   []string
}

func (f *Fal) Write(ctx context.Context, req fal.WriteRequest) (string, error) {
	f.Writes = append(f.Writes, req)
	f.Calls = append(f.Calls, "write")
	if f.WriteFunc != nil {
		return f.WriteFunc(ctx, req)
	}
	return "mock output", nil
}

func (f *Fal) Imagen(ctx context.Context, endpoint string, input any) (string, error) {
	f.Imagens = append(f.Imagens, ImagenCall{Endpoint: endpoint, Input: input})
	f.Calls = append(f.Calls, "imagen")
	if f.ImagenFunc != nil {
		return f.ImagenFunc(ctx, endpoint, input)
	}
	return "https://fal.media/files/generated.png?token=1", nil
}

func (f *Fal) RemoveBackground(_ context.Context, _ string) (string, string, error) {
	f.Calls = append(f.Calls, "rembg")
	return "https://fal.media/files/cutout.png", "https://fal.media/files/mask.png", nil
}

func (f *Fal) Upscale(_ context.Context, _ string) (string, error) {
	f.Calls = append(f.Calls, "upscale")
	return "https://fal.media/files/upscaled.png", nil
}

func (f *Fal) CreateStyle(_ context.Context, _, _ string) (string, error) {
	f.Calls = append(f.Calls, "style")
	return "style-123", nil
}

func (f *Fal) BatchDescribe(_ context.Context, urls []string) ([]string, error) {
	f.Calls = append(f.Calls, "describe")
	out := make([]string, len(urls))
	for i, u := range urls {
		out[i] = "described " + u
	}
	return out, nil
}

func (f *Fal) Audio(_ context.Context, _ string, _ int) (string, error) {
	f.Calls = append(f.Calls, "audio")
	return "https://fal.media/files/clip.wav", nil
}

func (f *Fal) VoiceClone(_ context.Context, _, _, _ string) (string, error) {
	f.Calls = append(f.Calls, "clone")
	return "https://fal.media/files/cloned.wav", nil
}

func (f *Fal) PuLID(ctx context.Context, req fal.PuLIDRequest) (string, error) {
	return f.Imagen(ctx, fal.EndpointPuLID, req)
}

// NewFailingFal returns a Fal whose generation calls all fail with err.
func NewFailingFal(err error) *Fal {
	return &Fal{
		WriteFunc:  func(context.Context, fal.WriteRequest) (string, error) { return "", err },
		ImagenFunc: func(context.Context, string, any) (string, error) { return "", err },
	}
}

// Translator records the prompts it was asked to translate.
type Translator struct {
	Answer string
	Err    error
	Seen   []string
}

func (t *Translator) Translate(_ context.Context, text string) (string, error) {
	t.Seen = append(t.Seen, text)
	return t.Answer, t.Err
}

// Media rehosts by renaming onto a base URL without fetching anything.
type Media struct {
	BaseURL string
	Err     error

	Rehosted []string
	Stored   []string
}

// NewMedia returns a Media rooted at baseURL.
func NewMedia(baseURL string) *Media {
	return &Media{BaseURL: baseURL}
}

func (m *Media) Rehost(_ context.Context, src string) (models.MediaAsset, error) {
	m.Rehosted = append(m.Rehosted, src)
	if m.Err != nil {
		return models.MediaAsset{}, m.Err
	}
	name := media.CanonicalName(src)
	return models.MediaAsset{CanonicalName: name, SourceURL: src, StoredURL: m.BaseURL + name}, nil
}

func (m *Media) Store(_ context.Context, name, contentType string, data []byte) (models.MediaAsset, error) {
	m.Stored = append(m.Stored, name)
	if m.Err != nil {
		return models.MediaAsset{}, m.Err
	}
	return models.MediaAsset{
		CanonicalName: name,
		StoredURL:     m.BaseURL + name,
		ContentType:   contentType,
		SizeBytes:     int64(len(data)),
	}, nil
}

// Uploader answers every upload with a URL under BaseURL.
type Uploader struct {
	BaseURL string
	Files   []string
}

// NewUploader returns an Uploader rooted at baseURL.
func NewUploader(baseURL string) *Uploader {
	return &Uploader{BaseURL: baseURL}
}

func (u *Uploader) Upload(_ context.Context, filename, _ string, _ []byte) (string, error) {
	u.Files = append(u.Files, filename)
	return u.BaseURL + "uploads/" + filename, nil
}

// Ideogram answers with EditURL.
type Ideogram struct {
	EditURL string
	Err     error
	Last    ideogram.EditRequest
}

func (i *Ideogram) Edit(_ context.Context, req ideogram.EditRequest) (string, error) {
	i.Last = req
	return i.EditURL, i.Err
}

// Stability answers with a fixed PNG payload.
type Stability struct {
	LastTask   string
	LastFields map[string]string
	LastFiles  []httpx.Part
}

func (s *Stability) Run(_ context.Context, task string, fields map[string]string, files []httpx.Part) (stability.Image, error) {
	s.LastTask, s.LastFields, s.LastFiles = task, fields, files
	return stability.Image{Data: []byte("\x89PNG"), ContentType: "image/png"}, nil
}

// Cartesia answers with a fixed WAV payload.
type Cartesia struct {
	Last cartesia.SpeakRequest
}

func (c *Cartesia) Speak(_ context.Context, req cartesia.SpeakRequest) ([]byte, error) {
	c.Last = req
	return []byte("RIFF"), nil
}

// Runway accepts every submission with JobID.
type Runway struct {
	JobID string
	Last  runway.VideoRequest
}

func (r *Runway) Submit(_ context.Context, req runway.VideoRequest) (string, error) {
	r.Last = req
	return r.JobID, nil
}

// Sieve accepts every submission with JobID.
type Sieve struct {
	JobID string
}

func (s *Sieve) SubmitAvatar(_ context.Context, _, _ string) (string, error) {
	return s.JobID, nil
}

// Jobs issues handles stamped with a fixed time.
type Jobs struct {
	At time.Time
}

func (j *Jobs) Handle(provider models.JobProvider, id string) *models.JobHandle {
	return &models.JobHandle{ID: id, Provider: provider, SubmittedAt: j.At}
}

// Compile-time checks against the collaborator contracts defined in pkg/models.
var (
	_ models.Translator = (*Translator)(nil)
	_ models.Uploader   = (*Uploader)(nil)
)
