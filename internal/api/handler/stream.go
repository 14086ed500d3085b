package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/kiranshivaraju/mediagate/internal/api/response"
	"github.com/kiranshivaraju/mediagate/internal/stream"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// NewStreamHandler returns an http.HandlerFunc for POST /lm-stream. Increments are
// relayed as SSE frames until the upstream ends or the client goes away.
func NewStreamHandler(streamer models.TokenStreamer, logger zerolog.Logger) http.HandlerFunc {
	logger = logger.With().Str("component", "lm-stream").Logger()

	return func(w http.ResponseWriter, r *http.Request) {
		var req models.StreamRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, string(models.KindInvalidInput), "Invalid JSON body", nil)
			return
		}
		if len(req.Messages) == 0 {
			response.Error(w, http.StatusBadRequest, string(models.KindInvalidInput), "messages are required", nil)
			return
		}

		sse, err := stream.NewSSEWriter(w)
		if err != nil {
			response.FromError(w, err)
			return
		}

		n, err := stream.Relay(r.Context(), streamer.Stream(r.Context(), req), sse)
		if err != nil {
			logger.Warn().Err(err).Int("chunks", n).Msg("stream ended early")
			return
		}
		logger.Debug().Int("chunks", n).Msg("stream complete")
	}
}
