package jobs_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/mediagate/internal/jobs"
	"github.com/kiranshivaraju/mediagate/internal/retry"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// scriptedAdapter answers successive Check calls from a script; the last entry repeats.
type scriptedAdapter struct {
	provider models.JobProvider
	script   []models.RemoteJob
	err      error
	calls    int
}

func (a *scriptedAdapter) Provider() models.JobProvider { return a.provider }

func (a *scriptedAdapter) Check(ctx context.Context, id string) (models.RemoteJob, error) {
	a.calls++
	if a.err != nil {
		return models.RemoteJob{}, a.err
	}
	i := a.calls - 1
	if i >= len(a.script) {
		i = len(a.script) - 1
	}
	return a.script[i], nil
}

type fakeRehoster struct {
	base  string
	fails int
	calls int
}

func (r *fakeRehoster) Rehost(ctx context.Context, src string) (models.MediaAsset, error) {
	r.calls++
	if r.calls <= r.fails {
		return models.MediaAsset{}, models.ErrRehostFailed
	}
	name := src[strings.LastIndex(src, "/")+1:]
	return models.MediaAsset{CanonicalName: name, SourceURL: src, StoredURL: r.base + name}, nil
}

// memoryMemo is an in-process cache.Cache.
type memoryMemo struct {
	mu       sync.Mutex
	statuses map[string]models.JobStatus
	readErr  error
	writeErr error
	writes   int
}

func newMemo() *memoryMemo {
	return &memoryMemo{statuses: map[string]models.JobStatus{}}
}

func (m *memoryMemo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (m *memoryMemo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (m *memoryMemo) Delete(ctx context.Context, key string) error { return nil }

func (m *memoryMemo) Ping(ctx context.Context) error { return nil }

func (m *memoryMemo) SetJobStatus(ctx context.Context, provider models.JobProvider, id string, status models.JobStatus, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.writeErr != nil {
		return m.writeErr
	}
	m.statuses[string(provider)+":"+id] = status
	return nil
}

func (m *memoryMemo) GetJobStatus(ctx context.Context, provider models.JobProvider, id string) (models.JobStatus, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return models.JobStatus{}, false, m.readErr
	}
	s, ok := m.statuses[string(provider)+":"+id]
	return s, ok, nil
}

const storeBase = "https://cdn.example.com/"

func newTracker(memo *memoryMemo, rehoster *fakeRehoster, adapters ...models.JobAdapter) *jobs.Tracker {
	if memo == nil {
		memo = newMemo()
	}
	tracker, err := jobs.NewTracker(jobs.Config{
		Memo:     memo,
		Rehoster: rehoster,
		Retry:    retry.Policy{Attempts: 3, Delay: time.Millisecond},
		TTL:      time.Hour,
		Logger:   zerolog.Nop(),
	}, adapters...)
	if err != nil {
		panic(err)
	}
	return tracker
}

func TestPoll_RunningThenSucceededRehosted(t *testing.T) {
	adapter := &scriptedAdapter{provider: models.JobProviderRunway, script: []models.RemoteJob{
		{State: models.JobStateRunning},
		{State: models.JobStateSucceeded, OutputURL: "https://runway.cdn/out/video.mp4?sig=1"},
	}}
	tracker := newTracker(newMemo(), &fakeRehoster{base: storeBase}, adapter)
	ctx := context.Background()

	status, err := tracker.Poll(ctx, models.JobProviderRunway, "task-1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStateRunning, status.State)

	status, err = tracker.Poll(ctx, models.JobProviderRunway, "task-1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStateSucceeded, status.State)
	require.NotNil(t, status.Result)
	assert.True(t, strings.HasPrefix(status.Result.URL(), storeBase))
	assert.NotContains(t, status.Result.URL(), "runway.cdn")
}

func TestPoll_TerminalIsIdempotent(t *testing.T) {
	adapter := &scriptedAdapter{provider: models.JobProviderSieve, script: []models.RemoteJob{
		{State: models.JobStateSucceeded, OutputURL: "https://sieve/avatar.mp4"},
		{State: models.JobStateFailed, Reason: "expired"},
	}}
	rehoster := &fakeRehoster{base: storeBase}
	tracker := newTracker(newMemo(), rehoster, adapter)
	ctx := context.Background()

	first, err := tracker.Poll(ctx, models.JobProviderSieve, "job-1")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := tracker.Poll(ctx, models.JobProviderSieve, "job-1")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, 1, adapter.calls)
	assert.Equal(t, 1, rehoster.calls)
}

func TestPoll_RehostRetriedThenSucceeds(t *testing.T) {
	adapter := &scriptedAdapter{provider: models.JobProviderRunway, script: []models.RemoteJob{
		{State: models.JobStateSucceeded, OutputURL: "https://runway.cdn/v.mp4"},
	}}
	rehoster := &fakeRehoster{base: storeBase, fails: 2}
	tracker := newTracker(nil, rehoster, adapter)

	status, err := tracker.Poll(context.Background(), models.JobProviderRunway, "task-2")
	require.NoError(t, err)
	assert.Equal(t, models.JobStateSucceeded, status.State)
	assert.Equal(t, 3, rehoster.calls)
}

func TestPoll_RehostFailureIsFailed(t *testing.T) {
	adapter := &scriptedAdapter{provider: models.JobProviderRunway, script: []models.RemoteJob{
		{State: models.JobStateSucceeded, OutputURL: "https://runway.cdn/gone.mp4"},
	}}
	rehoster := &fakeRehoster{base: storeBase, fails: 100}
	memo := newMemo()
	tracker := newTracker(memo, rehoster, adapter)

	status, err := tracker.Poll(context.Background(), models.JobProviderRunway, "task-3")
	require.NoError(t, err)
	assert.Equal(t, models.JobStateFailed, status.State)
	assert.True(t, strings.HasPrefix(status.Reason, "rehost failed:"))
	assert.Nil(t, status.Result)
	assert.Equal(t, 3, rehoster.calls)

	again, err := tracker.Poll(context.Background(), models.JobProviderRunway, "task-3")
	require.NoError(t, err)
	assert.Equal(t, status, again)
}

func TestPoll_ProviderFailure(t *testing.T) {
	adapter := &scriptedAdapter{provider: models.JobProviderRunway, script: []models.RemoteJob{
		{State: models.JobStateFailed, Reason: "content moderation"},
	}}
	tracker := newTracker(newMemo(), &fakeRehoster{base: storeBase}, adapter)

	status, err := tracker.Poll(context.Background(), models.JobProviderRunway, "task-4")
	require.NoError(t, err)
	assert.Equal(t, models.Failed("content moderation"), status)
}

func TestPoll_CheckErrorPropagates(t *testing.T) {
	perr := &models.ProviderError{Provider: "runway", StatusCode: 404, Message: "not found"}
	adapter := &scriptedAdapter{provider: models.JobProviderRunway, err: perr}
	tracker := newTracker(newMemo(), &fakeRehoster{base: storeBase}, adapter)

	_, err := tracker.Poll(context.Background(), models.JobProviderRunway, "task-5")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrProvider))
}

func TestPoll_MemoReadErrorIsReturned(t *testing.T) {
	adapter := &scriptedAdapter{provider: models.JobProviderRunway, script: []models.RemoteJob{
		{State: models.JobStateSucceeded, OutputURL: "https://runway.cdn/v.mp4"},
	}}
	memo := newMemo()
	memo.readErr = errors.New("redis down")
	rehoster := &fakeRehoster{base: storeBase}
	tracker := newTracker(memo, rehoster, adapter)

	_, err := tracker.Poll(context.Background(), models.JobProviderRunway, "task-6")
	require.Error(t, err)
	assert.Equal(t, 0, adapter.calls)
	assert.Equal(t, 0, rehoster.calls)
}

func TestPoll_MemoWriteErrorWithholdsTerminalStatus(t *testing.T) {
	adapter := &scriptedAdapter{provider: models.JobProviderRunway, script: []models.RemoteJob{
		{State: models.JobStateSucceeded, OutputURL: "https://runway.cdn/flaky.mp4"},
	}}
	rehoster := &fakeRehoster{base: storeBase, fails: 3}
	memo := newMemo()
	memo.writeErr = errors.New("redis read-only")
	tracker := newTracker(memo, rehoster, adapter)
	ctx := context.Background()

	_, err := tracker.Poll(ctx, models.JobProviderRunway, "task-8")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrRehostFailed)
	assert.Equal(t, 1, memo.writes)

	// Once the memo recovers the job settles and stays settled.
	memo.writeErr = nil
	first, err := tracker.Poll(ctx, models.JobProviderRunway, "task-8")
	require.NoError(t, err)
	assert.Equal(t, models.JobStateSucceeded, first.State)

	again, err := tracker.Poll(ctx, models.JobProviderRunway, "task-8")
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 2, adapter.calls)
}

func TestPoll_RunningIsNotMemoised(t *testing.T) {
	adapter := &scriptedAdapter{provider: models.JobProviderRunway, script: []models.RemoteJob{
		{State: models.JobStateRunning},
	}}
	memo := newMemo()
	memo.writeErr = errors.New("redis read-only")
	tracker := newTracker(memo, &fakeRehoster{base: storeBase}, adapter)

	status, err := tracker.Poll(context.Background(), models.JobProviderRunway, "task-9")
	require.NoError(t, err)
	assert.Equal(t, models.JobStateRunning, status.State)
	assert.Equal(t, 0, memo.writes)
}

func TestNewTracker_RequiresMemo(t *testing.T) {
	_, err := jobs.NewTracker(jobs.Config{Rehoster: &fakeRehoster{}, Logger: zerolog.Nop()})
	assert.ErrorIs(t, err, jobs.ErrNoMemo)
}

func TestPoll_InputValidation(t *testing.T) {
	tracker := newTracker(nil, &fakeRehoster{base: storeBase})

	_, err := tracker.Poll(context.Background(), models.JobProviderRunway, " ")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = tracker.Poll(context.Background(), models.JobProviderRunway, "id")
	assert.ErrorIs(t, err, models.ErrUnsupportedTask)
	assert.False(t, tracker.Supports(models.JobProviderRunway))
}

func TestHandle(t *testing.T) {
	tracker := newTracker(nil, &fakeRehoster{base: storeBase})

	h := tracker.Handle(models.JobProviderSieve, "job-7")
	assert.Equal(t, "job-7", h.ID)
	assert.Equal(t, models.JobProviderSieve, h.Provider)
	assert.False(t, h.SubmittedAt.IsZero())
}
