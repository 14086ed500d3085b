// Package media copies provider media into durable storage.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/kiranshivaraju/mediagate/internal/metrics"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// maxAssetBytes bounds a single fetched asset.
const maxAssetBytes = 1 << 30

// Recorder persists stored assets. Implemented by the store package.
type Recorder interface {
	UpsertMediaAsset(ctx context.Context, asset *models.MediaAsset) error
}

// Rehoster fetches provider media and writes it to an ObjectStore.
type Rehoster struct {
	store  ObjectStore
	ledger Recorder
	client *http.Client
	logger zerolog.Logger
	// maxBytes bounds one fetched asset; larger sources fail the rehost.
	maxBytes int64
}

// NewRehoster creates a Rehoster. ledger may be nil.
func NewRehoster(store ObjectStore, ledger Recorder, timeout time.Duration, logger zerolog.Logger) *Rehoster {
	return &Rehoster{
		store:    store,
		ledger:   ledger,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "rehoster").Logger(),
		maxBytes: maxAssetBytes,
	}
}

// Rehost copies the asset at src into storage under its canonical name. An existing
// object with the same name is overwritten. Rehost does not retry.
func (r *Rehoster) Rehost(ctx context.Context, src string) (models.MediaAsset, error) {
	name := CanonicalName(src)
	if name == "" {
		metrics.RehostTotal.WithLabelValues("failed").Inc()
		return models.MediaAsset{}, fmt.Errorf("%w: no object name in %q", models.ErrRehostFailed, src)
	}

	data, contentType, err := r.fetch(ctx, src)
	if err != nil {
		metrics.RehostTotal.WithLabelValues("failed").Inc()
		return models.MediaAsset{}, err
	}

	return r.put(ctx, name, src, contentType, data)
}

// Store writes generated bytes under name. Callers pass a RandomName so the
// result never collides.
func (r *Rehoster) Store(ctx context.Context, name, contentType string, data []byte) (models.MediaAsset, error) {
	return r.put(ctx, name, "", contentType, data)
}

// Upload stores caller-supplied bytes under a random name that keeps the extension
// of filename and returns the public URL.
func (r *Rehoster) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	asset, err := r.put(ctx, randomNameLike(filename), "", contentType, data)
	if err != nil {
		return "", err
	}
	return asset.StoredURL, nil
}

func (r *Rehoster) fetch(ctx context.Context, src string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", models.ErrRehostFailed, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: fetching %s: %v", models.ErrRehostFailed, src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: fetching %s: status %d", models.ErrRehostFailed, src, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading %s: %v", models.ErrRehostFailed, src, err)
	}
	if int64(len(data)) > r.maxBytes {
		return nil, "", fmt.Errorf("%w: %s is larger than %d bytes", models.ErrRehostFailed, src, r.maxBytes)
	}

	return data, resp.Header.Get("Content-Type"), nil
}

func (r *Rehoster) put(ctx context.Context, name, src, contentType string, data []byte) (models.MediaAsset, error) {
	if err := r.store.Put(ctx, name, contentType, data); err != nil {
		metrics.RehostTotal.WithLabelValues("failed").Inc()
		return models.MediaAsset{}, fmt.Errorf("%w: %v", models.ErrRehostFailed, err)
	}

	metrics.RehostTotal.WithLabelValues("ok").Inc()
	metrics.RehostBytes.Add(float64(len(data)))

	now := time.Now().UTC()
	asset := models.MediaAsset{
		CanonicalName: name,
		SourceURL:     src,
		StoredURL:     r.store.URL(name),
		ContentType:   contentType,
		SizeBytes:     int64(len(data)),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if r.ledger != nil {
		if err := r.ledger.UpsertMediaAsset(ctx, &asset); err != nil {
			r.logger.Warn().Err(err).Str("name", name).Msg("recording media asset failed")
		}
	}

	r.logger.Debug().
		Str("name", name).
		Int("bytes", len(data)).
		Msg("media stored")

	return asset, nil
}
