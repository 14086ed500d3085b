package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/kiranshivaraju/mediagate/internal/api/response"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// Storer writes bytes under a caller-chosen name.
type Storer interface {
	Store(ctx context.Context, name, contentType string, data []byte) (models.MediaAsset, error)
}

// FileResponse describes one stored file.
type FileResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

var fileName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,254}$`)

// NewPutFileHandler returns an http.HandlerFunc for PUT /file/{name}.
func NewPutFileHandler(s Storer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if !fileName.MatchString(name) {
			response.Error(w, http.StatusBadRequest, string(models.KindInvalidInput), "invalid file name", nil)
			return
		}

		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxFileBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				fileTooLarge(w)
				return
			}
			response.Error(w, http.StatusBadRequest, string(models.KindInvalidInput), "could not read body", nil)
			return
		}
		if len(data) == 0 {
			response.Error(w, http.StatusBadRequest, string(models.KindInvalidInput), "body is empty", nil)
			return
		}

		ct := r.Header.Get("Content-Type")
		if ct == "" || ct == "application/octet-stream" {
			ct = http.DetectContentType(data)
		}

		asset, err := s.Store(r.Context(), name, ct, data)
		if err != nil {
			response.FromError(w, err)
			return
		}
		response.JSON(w, FileResponse{Name: name, URL: asset.StoredURL})
	}
}

// NewPutFilesHandler returns an http.HandlerFunc for PUT /files. Every multipart
// file is uploaded under a fresh name.
func NewPutFilesHandler(u models.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, errTooLarge)
				return
			}
			response.Error(w, http.StatusBadRequest, string(models.KindInvalidInput), "expected a multipart body", nil)
			return
		}

		files, err := readFiles(r.MultipartForm)
		if err != nil {
			if errors.Is(err, errTooLarge) {
				fileTooLarge(w)
				return
			}
			response.FromError(w, err)
			return
		}
		if len(files) == 0 {
			response.Error(w, http.StatusBadRequest, string(models.KindInvalidInput), "no files provided", nil)
			return
		}

		out := make([]FileResponse, 0, len(files))
		for _, f := range files {
			u, err := u.Upload(r.Context(), f.Filename, f.ContentType, f.Data)
			if err != nil {
				response.FromError(w, err)
				return
			}
			out = append(out, FileResponse{Name: f.Filename, URL: u})
		}
		response.JSON(w, out)
	}
}

func fileTooLarge(w http.ResponseWriter) {
	response.Error(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds the 5 MB limit", nil)
}
