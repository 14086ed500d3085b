// Package jobs tracks long-running provider jobs through caller-driven polling.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kiranshivaraju/mediagate/internal/cache"
	"github.com/kiranshivaraju/mediagate/internal/metrics"
	"github.com/kiranshivaraju/mediagate/internal/retry"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// Rehoster copies a provider asset into durable storage.
type Rehoster interface {
	Rehost(ctx context.Context, src string) (models.MediaAsset, error)
}

// Tracker maps provider job status onto JobStatus. A job only reaches Succeeded
// once its output has been rehosted. Terminal statuses are memoised so repeated
// polls return the same answer.
type Tracker struct {
	adapters map[models.JobProvider]models.JobAdapter
	memo     cache.Cache
	rehoster Rehoster
	policy   retry.Policy
	ttl      time.Duration
	logger   zerolog.Logger
}

// ErrNoMemo is returned by NewTracker when no status memo is configured.
var ErrNoMemo = errors.New("job status memo is required")

// Config holds the tracker's collaborators. Memo is required: it is what keeps a
// terminal status stable across polls.
type Config struct {
	Memo     cache.Cache
	Rehoster Rehoster
	Retry    retry.Policy
	TTL      time.Duration
	Logger   zerolog.Logger
}

// NewTracker creates a Tracker over the given job adapters.
func NewTracker(cfg Config, adapters ...models.JobAdapter) (*Tracker, error) {
	if cfg.Memo == nil {
		return nil, ErrNoMemo
	}

	byProvider := make(map[models.JobProvider]models.JobAdapter, len(adapters))
	for _, a := range adapters {
		byProvider[a.Provider()] = a
	}

	return &Tracker{
		adapters: byProvider,
		memo:     cfg.Memo,
		rehoster: cfg.Rehoster,
		policy:   cfg.Retry,
		ttl:      cfg.TTL,
		logger:   cfg.Logger.With().Str("component", "jobs").Logger(),
	}, nil
}

// Handle builds the handle returned to a caller after a submission.
func (t *Tracker) Handle(provider models.JobProvider, id string) *models.JobHandle {
	return &models.JobHandle{ID: id, Provider: provider, SubmittedAt: time.Now().UTC()}
}

// Supports reports whether an adapter is registered for provider.
func (t *Tracker) Supports(provider models.JobProvider) bool {
	_, ok := t.adapters[provider]
	return ok
}

// Poll returns the current status of a job. Provider errors are returned as-is;
// a failure to rehost a finished job's output is a Failed status, not an error.
// A terminal status is only reported once it has been memoised; when the memo
// cannot be read or written Poll returns an error and the caller polls again.
func (t *Tracker) Poll(ctx context.Context, provider models.JobProvider, id string) (models.JobStatus, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.JobStatus{}, models.InvalidInput("job id is required")
	}

	adapter, ok := t.adapters[provider]
	if !ok {
		return models.JobStatus{}, models.UnsupportedTask("no job provider %q", provider)
	}

	status, ok, err := t.recall(ctx, provider, id)
	if err != nil {
		return models.JobStatus{}, err
	}
	if ok {
		metrics.JobPolls.WithLabelValues(string(provider), string(status.State)).Inc()
		return status, nil
	}

	remote, err := adapter.Check(ctx, id)
	if err != nil {
		return models.JobStatus{}, err
	}

	switch remote.State {
	case models.JobStateSucceeded:
		status = t.complete(ctx, provider, id, remote.OutputURL)
	case models.JobStateFailed:
		status = models.Failed(remote.Reason)
	default:
		status = models.Running()
	}

	if status.Terminal() {
		if err := t.remember(ctx, provider, id, status); err != nil {
			return models.JobStatus{}, err
		}
	}

	metrics.JobPolls.WithLabelValues(string(provider), string(status.State)).Inc()
	return status, nil
}

func (t *Tracker) complete(ctx context.Context, provider models.JobProvider, id, outputURL string) models.JobStatus {
	asset, err := retry.Do(ctx, t.policy, func(ctx context.Context) (models.MediaAsset, error) {
		return t.rehoster.Rehost(ctx, outputURL)
	})
	if err != nil {
		t.logger.Error().
			Err(err).
			Str("provider", string(provider)).
			Str("job_id", id).
			Msg("rehosting job output failed")
		return models.Failed("rehost failed: " + err.Error())
	}

	t.logger.Info().
		Str("provider", string(provider)).
		Str("job_id", id).
		Str("stored_url", asset.StoredURL).
		Msg("job succeeded")
	return models.Succeeded(models.MediaResult(asset.StoredURL))
}

func (t *Tracker) recall(ctx context.Context, provider models.JobProvider, id string) (models.JobStatus, bool, error) {
	status, found, err := t.memo.GetJobStatus(ctx, provider, id)
	if err != nil {
		t.logger.Warn().Err(err).Str("job_id", id).Msg("job status memo read failed")
		return models.JobStatus{}, false, fmt.Errorf("reading job status: %w", err)
	}
	if !found || !status.Terminal() {
		return models.JobStatus{}, false, nil
	}
	return status, true, nil
}

func (t *Tracker) remember(ctx context.Context, provider models.JobProvider, id string, status models.JobStatus) error {
	if err := t.memo.SetJobStatus(ctx, provider, id, status, t.ttl); err != nil {
		t.logger.Error().Err(err).Str("job_id", id).Str("state", string(status.State)).Msg("job status memo write failed")
		return fmt.Errorf("recording job status: %w", err)
	}
	return nil
}
