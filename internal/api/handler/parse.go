package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"github.com/kiranshivaraju/mediagate/pkg/models"
)

const (
	// MaxFileBytes caps a single uploaded file.
	MaxFileBytes = 5 << 20

	maxBodyBytes    = 32 << 20
	multipartMemory = 8 << 20
)

var errTooLarge = errors.New("request body too large")

// body is a decoded request: scalar and list params plus uploaded files.
type body struct {
	params models.Params
	files  []models.InputMedia
}

// readBody decodes JSON, urlencoded and multipart bodies into one shape.
func readBody(w http.ResponseWriter, r *http.Request) (body, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return body{}, bodyError(err)
		}
		files, err := readFiles(r.MultipartForm)
		if err != nil {
			return body{}, err
		}
		return body{params: formParams(r.MultipartForm.Value), files: files}, nil

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return body{}, bodyError(err)
		}
		return body{params: formParams(r.PostForm)}, nil

	default:
		params := models.Params{}
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil && !errors.Is(err, io.EOF) {
			return body{}, bodyError(err)
		}
		return body{params: params}, nil
	}
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errTooLarge
	}
	return models.InvalidInput("invalid request body: %v", err)
}

func formParams(values map[string][]string) models.Params {
	params := make(models.Params, len(values))
	for k, v := range values {
		switch len(v) {
		case 0:
		case 1:
			params[k] = v[0]
		default:
			params[k] = v
		}
	}
	return params
}

// readFiles loads every file part, ordered by field name so repeated fields keep
// their submission order.
func readFiles(form *multipart.Form) ([]models.InputMedia, error) {
	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var out []models.InputMedia
	for _, field := range fields {
		for _, fh := range form.File[field] {
			m, err := readFile(field, fh)
			if err != nil {
				return nil, err
			}
			out = append(out, m)
		}
	}
	return out, nil
}

func readFile(field string, fh *multipart.FileHeader) (models.InputMedia, error) {
	if fh.Size > MaxFileBytes {
		return models.InputMedia{}, errTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return models.InputMedia{}, models.InvalidInput("reading %s: %v", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileBytes+1))
	if err != nil {
		return models.InputMedia{}, models.InvalidInput("reading %s: %v", field, err)
	}
	if len(data) > MaxFileBytes {
		return models.InputMedia{}, errTooLarge
	}

	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	return models.InputMedia{Field: field, Data: data, Filename: fh.Filename, ContentType: ct}, nil
}

// Route maps one endpoint's request shape onto a task descriptor.
type Route struct {
	Kind models.TaskKind
	// ModelParam names the param carrying the model selector.
	ModelParam string
	// Media renames request fields (file parts or URL params) to dispatcher media fields.
	Media map[string]string
	// Resolve picks kind and model from the params when one endpoint serves several kinds.
	Resolve func(p models.Params) (models.TaskKind, string, error)
}

// descriptor builds the task descriptor for b.
func (rt Route) descriptor(b body, locale string) (models.TaskDescriptor, error) {
	desc := models.TaskDescriptor{Kind: rt.Kind, Params: b.params, Locale: locale}
	if rt.ModelParam != "" {
		desc.Model = strings.TrimSpace(b.params.String(rt.ModelParam))
	}
	if rt.Resolve != nil {
		kind, model, err := rt.Resolve(b.params)
		if err != nil {
			return models.TaskDescriptor{}, err
		}
		desc.Kind, desc.Model = kind, model
	}

	for _, f := range b.files {
		if renamed, ok := rt.Media[f.Field]; ok {
			f.Field = renamed
		}
		desc.Media = append(desc.Media, f)
	}

	keys := make([]string, 0, len(rt.Media))
	for k := range rt.Media {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, param := range keys {
		for _, u := range b.params.Strings(param) {
			if u = strings.TrimSpace(u); u != "" {
				desc.Media = append(desc.Media, models.InputMedia{Field: rt.Media[param], URL: u})
			}
		}
		delete(b.params, param)
	}
	return desc, nil
}
