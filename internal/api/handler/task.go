package handler

import (
	"context"
	"errors"
	"net/http"

	mw "github.com/kiranshivaraju/mediagate/internal/api/middleware"
	"github.com/kiranshivaraju/mediagate/internal/api/response"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// Dispatcher defines the interface the task handlers depend on.
type Dispatcher interface {
	Dispatch(ctx context.Context, desc models.TaskDescriptor) (models.Outcome, error)
}

// TaskResponse is the body of a successful synchronous task.
type TaskResponse struct {
	Kind  models.ResultKind `json:"kind"`
	Text  string            `json:"text,omitempty"`
	Texts []string          `json:"texts,omitempty"`
	URL   string            `json:"url,omitempty"`
	URLs  []string          `json:"urls,omitempty"`
}

func taskResponse(res *models.ProviderResult) TaskResponse {
	out := TaskResponse{Kind: res.Kind, Text: res.Text, Texts: res.Texts}
	switch res.Kind {
	case models.ResultMediaURL:
		out.URL = res.URL()
	case models.ResultMediaURLList:
		out.URLs = res.URLs
	}
	return out
}

// NewTaskHandler returns an http.HandlerFunc that parses the request per route
// and hands the descriptor to the dispatcher. Async kinds answer 202 with the job handle.
func NewTaskHandler(d Dispatcher, route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := readBody(w, r)
		if err != nil {
			writeError(w, err)
			return
		}

		desc, err := route.descriptor(b, mw.GetLocale(r))
		if err != nil {
			writeError(w, err)
			return
		}

		out, err := d.Dispatch(r.Context(), desc)
		if err != nil {
			writeError(w, err)
			return
		}

		if out.Job != nil {
			response.Accepted(w, out.Job)
			return
		}
		if out.Result == nil {
			writeError(w, errors.New("dispatch produced no result"))
			return
		}
		response.JSON(w, taskResponse(out.Result))
	}
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errTooLarge) {
		response.Error(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body or file exceeds the size limit", nil)
		return
	}
	response.FromError(w, err)
}
