package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kiranshivaraju/mediagate/internal/api/response"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// Poller defines the interface the poll handlers depend on.
type Poller interface {
	Poll(ctx context.Context, provider models.JobProvider, id string) (models.JobStatus, error)
}

// PollResponse is the body of a job poll.
type PollResponse struct {
	Status models.JobState `json:"status"`
	URL    string          `json:"url,omitempty"`
	Reason string          `json:"reason,omitempty"`
}

// NewPollHandler returns an http.HandlerFunc for GET /{provider}/{id}. The id may
// also come from the id query parameter.
func NewPollHandler(p Poller, provider models.JobProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			id = strings.TrimSpace(r.URL.Query().Get("id"))
		}
		if id == "" {
			response.Error(w, http.StatusBadRequest, string(models.KindInvalidInput), "id is required", nil)
			return
		}

		status, err := p.Poll(r.Context(), provider, id)
		if err != nil {
			response.FromError(w, err)
			return
		}

		response.JSON(w, PollResponse{
			Status: status.State,
			URL:    status.Result.URL(),
			Reason: status.Reason,
		})
	}
}
