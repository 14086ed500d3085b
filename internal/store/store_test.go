package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kiranshivaraju/mediagate/internal/store"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// setupTestDB spins up a Postgres container, runs migrations, and returns a pool.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("mediagate_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, store.RunMigrations(connStr))
	// a second run is a no-op
	require.NoError(t, store.RunMigrations(connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	return pool
}

func asset(name, contentType string) *models.MediaAsset {
	return &models.MediaAsset{
		CanonicalName: name,
		SourceURL:     "https://fal.media/files/" + name,
		StoredURL:     "https://cdn.test/" + name,
		ContentType:   contentType,
		SizeBytes:     128,
	}
}

func TestPing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))

	assert.NoError(t, s.Ping(context.Background()))
}

func TestMediaAsset_UpsertAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	a := asset("cat.png", "image/png")
	require.NoError(t, s.UpsertMediaAsset(ctx, a))
	assert.NotEmpty(t, a.ID)
	assert.False(t, a.CreatedAt.IsZero())

	got, err := s.GetMediaAsset(ctx, "cat.png")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "https://cdn.test/cat.png", got.StoredURL)
	assert.Equal(t, int64(128), got.SizeBytes)
}

func TestMediaAsset_UpsertOverwritesByName(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	first := asset("output.png", "image/png")
	require.NoError(t, s.UpsertMediaAsset(ctx, first))

	second := asset("output.png", "image/webp")
	second.SourceURL = "https://other.provider/output.png"
	second.SizeBytes = 256
	require.NoError(t, s.UpsertMediaAsset(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	got, err := s.GetMediaAsset(ctx, "output.png")
	require.NoError(t, err)
	assert.Equal(t, "https://other.provider/output.png", got.SourceURL)
	assert.Equal(t, "image/webp", got.ContentType)
	assert.Equal(t, int64(256), got.SizeBytes)

	_, total, err := s.ListMediaAssets(ctx, store.AssetFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestMediaAsset_GetNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))

	_, err := s.GetMediaAsset(context.Background(), "missing.png")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMediaAsset_ListFiltersAndPages(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	for _, a := range []*models.MediaAsset{
		asset("a.png", "image/png"),
		asset("b.jpg", "image/jpeg"),
		asset("c.wav", "audio/wav"),
	} {
		require.NoError(t, s.UpsertMediaAsset(ctx, a))
	}

	images, total, err := s.ListMediaAssets(ctx, store.AssetFilter{ContentType: "image/"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, images, 2)

	page, total, err := s.ListMediaAssets(ctx, store.AssetFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 1)

	recent, total, err := s.ListMediaAssets(ctx, store.AssetFilter{Since: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, recent)
}
