package ai

import (
	"github.com/kiranshivaraju/mediagate/internal/ai/cartesia"
	"github.com/kiranshivaraju/mediagate/internal/ai/fal"
	"github.com/kiranshivaraju/mediagate/internal/ai/hyperbolic"
	"github.com/kiranshivaraju/mediagate/internal/ai/ideogram"
	"github.com/kiranshivaraju/mediagate/internal/ai/runway"
	"github.com/kiranshivaraju/mediagate/internal/ai/sieve"
	"github.com/kiranshivaraju/mediagate/internal/ai/stability"
	"github.com/kiranshivaraju/mediagate/internal/config"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// Clients holds one adapter per configured provider. Providers without credentials
// stay nil.
type Clients struct {
	Fal        *fal.Client
	Ideogram   *ideogram.Client
	Stability  *stability.Client
	Cartesia   *cartesia.Client
	Runway     *runway.Client
	Sieve      *sieve.Client
	Hyperbolic *hyperbolic.Client
}

// NewClients constructs the provider adapters from config.
// Called once at server startup.
func NewClients(cfg config.ProvidersConfig) *Clients {
	c := &Clients{Fal: fal.New(cfg.Fal, cfg.Timeout)}
	if cfg.Ideogram.Enabled() {
		c.Ideogram = ideogram.New(cfg.Ideogram, cfg.Timeout)
	}
	if cfg.Stability.Enabled() {
		c.Stability = stability.New(cfg.Stability, cfg.Timeout)
	}
	if cfg.Cartesia.Enabled() {
		c.Cartesia = cartesia.New(cfg.Cartesia, cfg.Timeout)
	}
	if cfg.Runway.Enabled() {
		c.Runway = runway.New(cfg.Runway, cfg.Timeout)
	}
	if cfg.Sieve.Enabled() {
		c.Sieve = sieve.New(cfg.Sieve, cfg.Timeout)
	}
	if cfg.Hyperbolic.Enabled() {
		c.Hyperbolic = hyperbolic.New(cfg.Hyperbolic)
	}
	return c
}

// JobAdapters returns the configured async providers for the job tracker.
func (c *Clients) JobAdapters() []models.JobAdapter {
	var out []models.JobAdapter
	if c.Runway != nil {
		out = append(out, c.Runway)
	}
	if c.Sieve != nil {
		out = append(out, c.Sieve)
	}
	return out
}

// Streamer returns the token-stream provider, or nil when none is configured.
func (c *Clients) Streamer() models.TokenStreamer {
	if c.Hyperbolic == nil {
		return nil
	}
	return c.Hyperbolic
}

// Dependencies fills the adapter fields of base. Nil clients are skipped so disabled
// providers leave the interface fields nil rather than holding a nil pointer.
func (c *Clients) Dependencies(base Dependencies) Dependencies {
	if c.Fal != nil {
		base.Fal = c.Fal
	}
	if c.Ideogram != nil {
		base.Ideogram = c.Ideogram
	}
	if c.Stability != nil {
		base.Stability = c.Stability
	}
	if c.Cartesia != nil {
		base.Cartesia = c.Cartesia
	}
	if c.Runway != nil {
		base.Runway = c.Runway
	}
	if c.Sieve != nil {
		base.Sieve = c.Sieve
	}
	return base
}
