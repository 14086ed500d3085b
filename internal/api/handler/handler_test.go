package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"iter"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/mediagate/internal/ai"
	"github.com/kiranshivaraju/mediagate/internal/ai/fal"
	"github.com/kiranshivaraju/mediagate/internal/ai/mock"
	"github.com/kiranshivaraju/mediagate/internal/api/handler"
	mw "github.com/kiranshivaraju/mediagate/internal/api/middleware"
	"github.com/kiranshivaraju/mediagate/internal/retry"
	"github.com/kiranshivaraju/mediagate/internal/store"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// --- fakes ---

type recordingDispatcher struct {
	mu   sync.Mutex
	seen []models.TaskDescriptor
	out  models.Outcome
	err  error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, desc models.TaskDescriptor) (models.Outcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = append(d.seen, desc)
	return d.out, d.err
}

func (d *recordingDispatcher) last(t *testing.T) models.TaskDescriptor {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	require.NotEmpty(t, d.seen, "dispatcher was not called")
	return d.seen[len(d.seen)-1]
}

type fakePoller struct {
	status   models.JobStatus
	err      error
	provider models.JobProvider
	id       string
}

func (p *fakePoller) Poll(_ context.Context, provider models.JobProvider, id string) (models.JobStatus, error) {
	p.provider, p.id = provider, id
	return p.status, p.err
}

type fakeStreamer struct {
	chunks []string
	err    error
}

func (s fakeStreamer) Stream(context.Context, models.StreamRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, c := range s.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if s.err != nil {
			yield("", s.err)
		}
	}
}

type fakeStorage struct {
	names []string
	types []string
}

func (s *fakeStorage) Store(_ context.Context, name, contentType string, data []byte) (models.MediaAsset, error) {
	s.names = append(s.names, name)
	s.types = append(s.types, contentType)
	return models.MediaAsset{CanonicalName: name, StoredURL: "https://cdn.test/" + name, SizeBytes: int64(len(data))}, nil
}

func (s *fakeStorage) Upload(_ context.Context, filename, contentType string, data []byte) (string, error) {
	s.names = append(s.names, filename)
	s.types = append(s.types, contentType)
	return "https://cdn.test/up-" + filename, nil
}

type fakeLister struct {
	assets []*models.MediaAsset
	total  int
	filter store.AssetFilter
}

func (l *fakeLister) ListMediaAssets(_ context.Context, filter store.AssetFilter) ([]*models.MediaAsset, int, error) {
	l.filter = filter
	return l.assets, l.total, nil
}

// --- helpers ---

func jsonReq(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	r := httptest.NewRequest(method, target, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

type part struct {
	field, filename, contentType string
	data                         []byte
}

func multipartReq(t *testing.T, method, target string, fields map[string]string, files ...part) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mpw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mpw.WriteField(k, v))
	}
	for _, f := range files {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="` + f.field + `"; filename="` + f.filename + `"`}
		if f.contentType != "" {
			h["Content-Type"] = []string{f.contentType}
		}
		w, err := mpw.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mpw.Close())

	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", mpw.FormDataContentType())
	return r
}

func withLocale(r *http.Request, locale string) *http.Request {
	return r.WithContext(mw.SetLocale(r.Context(), locale))
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Error.Code
}

// --- task handlers ---

func TestTaskHandler_JSONBodyBecomesDescriptor(t *testing.T) {
	d := &recordingDispatcher{out: models.Outcome{Result: models.MediaResult("https://cdn.test/a.png")}}
	h := handler.NewTaskHandler(d, handler.RouteImagine)

	rec := httptest.NewRecorder()
	h(rec, withLocale(jsonReq(t, http.MethodPost, "/image-imagine", map[string]any{
		"model":  "quick",
		"prompt": "un chat",
		"width":  512,
	}), "fr"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	desc := d.last(t)
	assert.Equal(t, models.TaskImageGenerate, desc.Kind)
	assert.Equal(t, "quick", desc.Model)
	assert.Equal(t, "fr", desc.Locale)
	assert.Equal(t, "un chat", desc.Params.String("prompt"))
	assert.Equal(t, 512, desc.Params.Int("width"))

	var body handler.TaskResponse
	decodeData(t, rec, &body)
	assert.Equal(t, models.ResultMediaURL, body.Kind)
	assert.Equal(t, "https://cdn.test/a.png", body.URL)
	assert.Empty(t, body.URLs)
}

func TestTaskHandler_MediaURLParamsBecomeInputMedia(t *testing.T) {
	d := &recordingDispatcher{out: models.Outcome{Result: models.MediaResult("https://cdn.test/f.png")}}
	h := handler.NewTaskHandler(d, handler.RouteFill)

	rec := httptest.NewRecorder()
	h(rec, jsonReq(t, http.MethodPost, "/image-fill", map[string]any{
		"prompt":    "sky",
		"image_url": "https://example.com/in.png",
		"mask_url":  "https://example.com/mask.png",
	}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	desc := d.last(t)
	img, ok := desc.MediaByField("image")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/in.png", img.URL)
	mask, ok := desc.MediaByField("mask")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/mask.png", mask.URL)
	assert.False(t, desc.Params.Has("image_url"))
	assert.False(t, desc.Params.Has("mask_url"))
}

func TestTaskHandler_MultipartFilesAreRenamed(t *testing.T) {
	d := &recordingDispatcher{out: models.Outcome{Result: models.TextResult("a cat")}}
	h := handler.NewTaskHandler(d, handler.RouteImageTask)

	png := []byte("\x89PNG\r\n\x1a\n0000")
	rec := httptest.NewRecorder()
	h(rec, multipartReq(t, http.MethodPost, "/image-task",
		map[string]string{"task": "caption"},
		part{field: "file", filename: "cat.png", data: png},
	))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	desc := d.last(t)
	assert.Equal(t, models.TaskImageDescribe, desc.Kind)
	assert.Equal(t, "caption", desc.Model)
	img, ok := desc.MediaByField("image")
	require.True(t, ok)
	assert.True(t, img.IsInline())
	assert.Equal(t, "cat.png", img.Filename)
	assert.Equal(t, "image/png", img.ContentType)

	var body handler.TaskResponse
	decodeData(t, rec, &body)
	assert.Equal(t, "a cat", body.Text)
}

func TestTaskHandler_RepeatedFieldsBecomeLists(t *testing.T) {
	d := &recordingDispatcher{out: models.Outcome{Result: models.TextListResult([]string{"a", "b"})}}
	h := handler.NewTaskHandler(d, handler.RouteBulkDescribe)

	form := "image_urls=https%3A%2F%2Fx.test%2F1.png&image_urls=https%3A%2F%2Fx.test%2F2.png"
	r := httptest.NewRequest(http.MethodPost, "/image-bulk-describe", strings.NewReader(form))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h(rec, r)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	desc := d.last(t)
	var urls []string
	for _, m := range desc.Media {
		assert.Equal(t, "images", m.Field)
		urls = append(urls, m.URL)
	}
	assert.Equal(t, []string{"https://x.test/1.png", "https://x.test/2.png"}, urls)

	var body handler.TaskResponse
	decodeData(t, rec, &body)
	assert.Equal(t, []string{"a", "b"}, body.Texts)
}

// uploadBase prefixes every URL the mock uploader hands out.
const uploadBase = "https://cdn.test/"

func liveDispatcher(t *testing.T) (*ai.Dispatcher, *mock.Fal, *mock.Uploader) {
	t.Helper()
	f := &mock.Fal{}
	up := mock.NewUploader(uploadBase)
	d, err := ai.NewDispatcher(ai.Dependencies{
		Fal:        f,
		Translator: &mock.Translator{Answer: models.NoChangeSentinel},
		Uploader:   up,
		Media:      mock.NewMedia(uploadBase),
		Retry:      retry.Policy{Attempts: 1},
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)
	return d, f, up
}

func TestTaskHandler_LMFilePartReachesModel(t *testing.T) {
	d, f, up := liveDispatcher(t)
	h := handler.NewTaskHandler(d, handler.RouteLM)

	rec := httptest.NewRecorder()
	h(rec, multipartReq(t, http.MethodPost, "/lm",
		map[string]string{"prompt": "what is this", "model": "m"},
		part{field: "file", filename: "cat.png", contentType: "image/png", data: []byte("img")},
	))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"cat.png"}, up.Files)
	require.Len(t, f.Writes, 1)
	assert.Equal(t, uploadBase+"uploads/cat.png", f.Writes[0].ImageURL)
}

func TestTaskHandler_ImageEditFilePart(t *testing.T) {
	d, f, _ := liveDispatcher(t)
	h := handler.NewTaskHandler(d, handler.RouteImageEdit)

	rec := httptest.NewRecorder()
	h(rec, multipartReq(t, http.MethodPost, "/image-edit",
		map[string]string{"prompt": "smile", "aspect_ratio": "square_hd"},
		part{field: "file", filename: "face.png", contentType: "image/png", data: []byte("img")},
	))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, f.Imagens, 1)
	req, ok := f.Imagens[0].Input.(fal.PuLIDRequest)
	require.True(t, ok)
	assert.Equal(t, uploadBase+"uploads/face.png", req.ReferenceImageURL)
}

func TestTaskHandler_FillFileParts(t *testing.T) {
	d, f, _ := liveDispatcher(t)
	h := handler.NewTaskHandler(d, handler.RouteFill)

	rec := httptest.NewRecorder()
	h(rec, multipartReq(t, http.MethodPost, "/image-fill",
		map[string]string{"prompt": "a hat"},
		part{field: "image_file", filename: "base.png", contentType: "image/png", data: []byte("img")},
		part{field: "mask_file", filename: "mask.png", contentType: "image/png", data: []byte("mask")},
	))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, f.Imagens, 1)
	assert.Equal(t, fal.EndpointFill, f.Imagens[0].Endpoint)
	req, ok := f.Imagens[0].Input.(fal.FillRequest)
	require.True(t, ok)
	assert.Equal(t, uploadBase+"uploads/base.png", req.ImageURL)
	assert.Equal(t, uploadBase+"uploads/mask.png", req.MaskURL)
}

func TestTaskHandler_BulkDescribeFileParts(t *testing.T) {
	for _, field := range []string{"files", "images"} {
		t.Run(field, func(t *testing.T) {
			d, _, _ := liveDispatcher(t)
			h := handler.NewTaskHandler(d, handler.RouteBulkDescribe)

			rec := httptest.NewRecorder()
			h(rec, multipartReq(t, http.MethodPost, "/image-bulk-describe", nil,
				part{field: field, filename: "1.png", contentType: "image/png", data: []byte("a")},
				part{field: field, filename: "2.png", contentType: "image/png", data: []byte("b")},
			))

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var body handler.TaskResponse
			decodeData(t, rec, &body)
			assert.Equal(t, []string{
				"described " + uploadBase + "uploads/1.png",
				"described " + uploadBase + "uploads/2.png",
			}, body.Texts)
		})
	}
}

func TestTaskHandler_UnusedFilePartIsRejected(t *testing.T) {
	d, f, up := liveDispatcher(t)
	h := handler.NewTaskHandler(d, handler.RouteLM)

	rec := httptest.NewRecorder()
	h(rec, multipartReq(t, http.MethodPost, "/lm",
		map[string]string{"prompt": "hi", "model": "m"},
		part{field: "attachment", filename: "cat.png", contentType: "image/png", data: []byte("img")},
	))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(models.KindInvalidInput), errorCode(t, rec))
	assert.Empty(t, up.Files)
	assert.Empty(t, f.Writes)
}

func TestTaskHandler_ImageTaskResolution(t *testing.T) {
	tests := []struct {
		task  string
		kind  models.TaskKind
		model string
	}{
		{"rembg", models.TaskImageRemoveBackground, ""},
		{"upscale", models.TaskImageUpscale, ""},
		{"recraft-style", models.TaskImageStyleCreate, ""},
		{"subject", models.TaskImageSubject, ""},
		{"scene_describe", models.TaskImageDescribe, "scene_describe"},
	}
	for _, tt := range tests {
		t.Run(tt.task, func(t *testing.T) {
			d := &recordingDispatcher{out: models.Outcome{Result: models.TextResult("ok")}}
			rec := httptest.NewRecorder()
			handler.NewTaskHandler(d, handler.RouteImageTask)(rec, jsonReq(t, http.MethodPost, "/image-task", map[string]any{
				"task":      tt.task,
				"image_url": "https://x.test/in.png",
			}))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			desc := d.last(t)
			assert.Equal(t, tt.kind, desc.Kind)
			assert.Equal(t, tt.model, desc.Model)
		})
	}
}

func TestTaskHandler_UnknownImageTask(t *testing.T) {
	d := &recordingDispatcher{}
	rec := httptest.NewRecorder()
	handler.NewTaskHandler(d, handler.RouteImageTask)(rec, jsonReq(t, http.MethodPost, "/image-task", map[string]any{"task": "paint"}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(models.KindUnsupportedTask), errorCode(t, rec))
	assert.Empty(t, d.seen)
}

func TestTaskHandler_MissingImageTask(t *testing.T) {
	d := &recordingDispatcher{}
	rec := httptest.NewRecorder()
	handler.NewTaskHandler(d, handler.RouteImageTask)(rec, jsonReq(t, http.MethodPost, "/image-task", map[string]any{}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(models.KindInvalidInput), errorCode(t, rec))
}

func TestTaskHandler_InvalidJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/lm", strings.NewReader("{not json"))
	r.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.NewTaskHandler(&recordingDispatcher{}, handler.RouteLM)(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(models.KindInvalidInput), errorCode(t, rec))
}

func TestTaskHandler_FileTooLarge(t *testing.T) {
	big := bytes.Repeat([]byte("a"), handler.MaxFileBytes+1)
	rec := httptest.NewRecorder()
	handler.NewTaskHandler(&recordingDispatcher{}, handler.RouteStable)(rec, multipartReq(t, http.MethodPost, "/image-stable",
		map[string]string{"task": "erase"},
		part{field: "image", filename: "big.png", contentType: "image/png", data: big},
	))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", errorCode(t, rec))
}

func TestTaskHandler_AsyncAnswersAccepted(t *testing.T) {
	submitted := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	d := &recordingDispatcher{out: models.Outcome{Job: &models.JobHandle{
		ID:          "task-1",
		Provider:    models.JobProviderRunway,
		SubmittedAt: submitted,
	}}}
	rec := httptest.NewRecorder()
	handler.NewTaskHandler(d, handler.RouteRunway)(rec, jsonReq(t, http.MethodPost, "/runway", map[string]any{
		"prompt":    "waves",
		"image_url": "https://x.test/in.png",
	}))

	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	var job models.JobHandle
	decodeData(t, rec, &job)
	assert.Equal(t, "task-1", job.ID)
	assert.Equal(t, models.JobProviderRunway, job.Provider)
	assert.True(t, submitted.Equal(job.SubmittedAt))
}

func TestTaskHandler_DispatchErrorsAreClassified(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   models.ErrorKind
	}{
		{"invalid", models.InvalidInput("prompt is required"), http.StatusBadRequest, models.KindInvalidInput},
		{"rejected", models.ContentRejected("fal", "nsfw"), http.StatusUnprocessableEntity, models.KindContentRejected},
		{"provider", &models.ProviderError{Provider: "fal", StatusCode: 500, Message: "boom"}, http.StatusBadGateway, models.KindProvider},
		{"network", models.ErrNetwork, http.StatusGatewayTimeout, models.KindNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.NewTaskHandler(&recordingDispatcher{err: tt.err}, handler.RouteLM)(rec,
				jsonReq(t, http.MethodPost, "/lm", map[string]any{"prompt": "hi", "model": "m"}))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, string(tt.code), errorCode(t, rec))
		})
	}
}

// --- polling ---

func TestPollHandler_PathID(t *testing.T) {
	p := &fakePoller{status: models.Succeeded(models.MediaResult("https://cdn.test/v.mp4"))}
	r := chi.NewRouter()
	r.Get("/runway/{id}", handler.NewPollHandler(p, models.JobProviderRunway))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runway/abc", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.JobProviderRunway, p.provider)
	assert.Equal(t, "abc", p.id)

	var body handler.PollResponse
	decodeData(t, rec, &body)
	assert.Equal(t, models.JobStateSucceeded, body.Status)
	assert.Equal(t, "https://cdn.test/v.mp4", body.URL)
}

func TestPollHandler_QueryID(t *testing.T) {
	p := &fakePoller{status: models.Failed("moderation")}
	rec := httptest.NewRecorder()
	handler.NewPollHandler(p, models.JobProviderSieve)(rec, httptest.NewRequest(http.MethodGet, "/avatar?id=j9", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "j9", p.id)
	var body handler.PollResponse
	decodeData(t, rec, &body)
	assert.Equal(t, models.JobStateFailed, body.Status)
	assert.Equal(t, "moderation", body.Reason)
	assert.Empty(t, body.URL)
}

func TestPollHandler_MissingID(t *testing.T) {
	rec := httptest.NewRecorder()
	handler.NewPollHandler(&fakePoller{}, models.JobProviderRunway)(rec, httptest.NewRequest(http.MethodGet, "/runway", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPollHandler_ProviderError(t *testing.T) {
	p := &fakePoller{err: &models.ProviderError{Provider: "runway", StatusCode: 404, Message: "not found"}}
	rec := httptest.NewRecorder()
	handler.NewPollHandler(p, models.JobProviderRunway)(rec, httptest.NewRequest(http.MethodGet, "/runway?id=x", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

// --- streaming ---

func TestStreamHandler_RelaysIncrements(t *testing.T) {
	h := handler.NewStreamHandler(fakeStreamer{chunks: []string{"Hel", "", "lo"}}, zerolog.Nop())
	rec := httptest.NewRecorder()
	h(rec, jsonReq(t, http.MethodPost, "/lm-stream", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "data: Hel\n\ndata: lo\n\n", rec.Body.String())
}

func TestStreamHandler_UpstreamFailureEndsWithErrorEvent(t *testing.T) {
	h := handler.NewStreamHandler(fakeStreamer{chunks: []string{"a"}, err: assert.AnError}, zerolog.Nop())
	rec := httptest.NewRecorder()
	h(rec, jsonReq(t, http.MethodPost, "/lm-stream", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
	}))

	assert.Equal(t, "data: a\n\ndata: [ERROR] "+assert.AnError.Error()+"\n\n", rec.Body.String())
}

func TestStreamHandler_RequiresMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	handler.NewStreamHandler(fakeStreamer{}, zerolog.Nop())(rec, jsonReq(t, http.MethodPost, "/lm-stream", map[string]any{"messages": []any{}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- files ---

func TestPutFile_StoresUnderName(t *testing.T) {
	s := &fakeStorage{}
	r := chi.NewRouter()
	r.Put("/file/{name}", handler.NewPutFileHandler(s))

	req := httptest.NewRequest(http.MethodPut, "/file/logo.png", bytes.NewReader([]byte("\x89PNG\r\n\x1a\nxxxx")))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"logo.png"}, s.names)
	assert.Equal(t, []string{"image/png"}, s.types)

	var body handler.FileResponse
	decodeData(t, rec, &body)
	assert.Equal(t, "https://cdn.test/logo.png", body.URL)
}

func TestPutFile_RejectsBadName(t *testing.T) {
	r := chi.NewRouter()
	r.Put("/file/{name}", handler.NewPutFileHandler(&fakeStorage{}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/file/..hidden", strings.NewReader("x")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPutFile_TooLarge(t *testing.T) {
	r := chi.NewRouter()
	r.Put("/file/{name}", handler.NewPutFileHandler(&fakeStorage{}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/file/big.bin", bytes.NewReader(bytes.Repeat([]byte("a"), handler.MaxFileBytes+1))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "FILE_TOO_LARGE", errorCode(t, rec))
}

func TestPutFiles_UploadsEachFile(t *testing.T) {
	s := &fakeStorage{}
	rec := httptest.NewRecorder()
	handler.NewPutFilesHandler(s)(rec, multipartReq(t, http.MethodPut, "/files", nil,
		part{field: "a", filename: "one.txt", contentType: "text/plain", data: []byte("1")},
		part{field: "b", filename: "two.txt", contentType: "text/plain", data: []byte("2")},
	))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body []handler.FileResponse
	decodeData(t, rec, &body)
	require.Len(t, body, 2)
	assert.Equal(t, "https://cdn.test/up-one.txt", body[0].URL)
	assert.Equal(t, "https://cdn.test/up-two.txt", body[1].URL)
}

func TestPutFiles_FileTooLarge(t *testing.T) {
	rec := httptest.NewRecorder()
	handler.NewPutFilesHandler(&fakeStorage{})(rec, multipartReq(t, http.MethodPut, "/files", nil,
		part{field: "a", filename: "big.bin", contentType: "application/zip", data: bytes.Repeat([]byte("a"), handler.MaxFileBytes+1)},
	))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "FILE_TOO_LARGE", errorCode(t, rec))
}

func TestPutFiles_NoFiles(t *testing.T) {
	rec := httptest.NewRecorder()
	handler.NewPutFilesHandler(&fakeStorage{})(rec, multipartReq(t, http.MethodPut, "/files", map[string]string{"x": "y"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- assets ---

func TestListAssets_Pagination(t *testing.T) {
	l := &fakeLister{
		assets: []*models.MediaAsset{{CanonicalName: "a.png", StoredURL: "https://cdn.test/a.png"}},
		total:  3,
	}
	rec := httptest.NewRecorder()
	handler.NewListAssetsHandler(l)(rec, httptest.NewRequest(http.MethodGet,
		"/assets?page=2&limit=1&content_type=image/&since=2026-01-01T00:00:00Z", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/", l.filter.ContentType)
	assert.Equal(t, 2, l.filter.Page)
	assert.Equal(t, 1, l.filter.Limit)
	assert.True(t, l.filter.Since.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	var env struct {
		Data []models.MediaAsset `json:"data"`
		Meta struct {
			Total   int  `json:"total"`
			HasNext bool `json:"has_next"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Len(t, env.Data, 1)
	assert.Equal(t, 3, env.Meta.Total)
	assert.True(t, env.Meta.HasNext)
}

func TestListAssets_DefaultsAndEmpty(t *testing.T) {
	l := &fakeLister{}
	rec := httptest.NewRecorder()
	handler.NewListAssetsHandler(l)(rec, httptest.NewRequest(http.MethodGet, "/assets?limit=9999", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, l.filter.Page)
	assert.Equal(t, 200, l.filter.Limit)
	assert.True(t, l.filter.Since.IsZero())
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestListAssets_BadSince(t *testing.T) {
	rec := httptest.NewRecorder()
	handler.NewListAssetsHandler(&fakeLister{})(rec, httptest.NewRequest(http.MethodGet, "/assets?since=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
