package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	mw "github.com/kiranshivaraju/mediagate/internal/api/middleware"
	"github.com/kiranshivaraju/mediagate/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
// Nil handlers answer 501.
type Dependencies struct {
	Logger zerolog.Logger

	HealthHandler http.HandlerFunc
	PutFile       http.HandlerFunc
	PutFiles      http.HandlerFunc
	ListAssets    http.HandlerFunc

	LM                http.HandlerFunc
	LMStream          http.HandlerFunc
	ImageTask         http.HandlerFunc
	ImageBulkDescribe http.HandlerFunc
	ImageEdit         http.HandlerFunc
	ImageImagine      http.HandlerFunc
	ImageInpaint      http.HandlerFunc
	ImageFill         http.HandlerFunc
	ImageStable       http.HandlerFunc
	WorkflowImagine   http.HandlerFunc

	Runway     http.HandlerFunc
	PollRunway http.HandlerFunc
	Synthesize http.HandlerFunc
	CloneVoice http.HandlerFunc
	Speak      http.HandlerFunc
	Avatar     http.HandlerFunc
	PollAvatar http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(mw.Logger(deps.Logger))
	r.Use(mw.Recovery(deps.Logger))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Locale)

		r.Get("/health", orNotImplemented(deps.HealthHandler))

		r.Put("/file/{name}", orNotImplemented(deps.PutFile))
		r.Put("/files", orNotImplemented(deps.PutFiles))
		r.Get("/assets", orNotImplemented(deps.ListAssets))

		r.Post("/lm", orNotImplemented(deps.LM))
		r.Post("/lm-stream", orNotImplemented(deps.LMStream))

		r.Post("/image-task", orNotImplemented(deps.ImageTask))
		r.Post("/image-bulk-describe", orNotImplemented(deps.ImageBulkDescribe))
		r.Post("/image-edit", orNotImplemented(deps.ImageEdit))
		r.Post("/image-imagine", orNotImplemented(deps.ImageImagine))
		r.Post("/image-inpaint", orNotImplemented(deps.ImageInpaint))
		r.Post("/image-fill", orNotImplemented(deps.ImageFill))
		r.Post("/image-stable", orNotImplemented(deps.ImageStable))
		r.Post("/wf/image-imagine", orNotImplemented(deps.WorkflowImagine))

		r.Post("/synthesize", orNotImplemented(deps.Synthesize))
		r.Post("/clone-voice", orNotImplemented(deps.CloneVoice))
		r.Post("/speak", orNotImplemented(deps.Speak))

		// Async jobs
		r.Post("/runway", orNotImplemented(deps.Runway))
		r.Get("/runway", orNotImplemented(deps.PollRunway))
		r.Get("/runway/{id}", orNotImplemented(deps.PollRunway))
		r.Post("/avatar", orNotImplemented(deps.Avatar))
		r.Get("/avatar", orNotImplemented(deps.PollAvatar))
		r.Get("/avatar/{id}", orNotImplemented(deps.PollAvatar))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
