package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kiranshivaraju/mediagate/pkg/models"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// UpsertMediaAsset records asset by canonical name. A second write of the same name
// replaces the row's source, URL and size, matching the overwrite in storage.
func (s *PostgresStore) UpsertMediaAsset(ctx context.Context, asset *models.MediaAsset) error {
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	now := time.Now().UTC()

	err := s.pool.QueryRow(ctx,
		`INSERT INTO media_assets (id, canonical_name, source_url, stored_url, content_type, size_bytes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 ON CONFLICT (canonical_name) DO UPDATE SET
		   source_url = EXCLUDED.source_url,
		   stored_url = EXCLUDED.stored_url,
		   content_type = EXCLUDED.content_type,
		   size_bytes = EXCLUDED.size_bytes,
		   updated_at = EXCLUDED.updated_at
		 RETURNING id, created_at, updated_at`,
		asset.ID, asset.CanonicalName, asset.SourceURL, asset.StoredURL, asset.ContentType, asset.SizeBytes, now,
	).Scan(&asset.ID, &asset.CreatedAt, &asset.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert media asset: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetMediaAsset(ctx context.Context, name string) (*models.MediaAsset, error) {
	var a models.MediaAsset
	err := s.pool.QueryRow(ctx,
		`SELECT id, canonical_name, source_url, stored_url, content_type, size_bytes, created_at, updated_at
		 FROM media_assets WHERE canonical_name = $1`, name,
	).Scan(&a.ID, &a.CanonicalName, &a.SourceURL, &a.StoredURL, &a.ContentType, &a.SizeBytes, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get media asset: %w", err)
	}
	return &a, nil
}

// ListMediaAssets returns one page of assets, most recently written first, and the
// total number of matching rows.
func (s *PostgresStore) ListMediaAssets(ctx context.Context, filter AssetFilter) ([]*models.MediaAsset, int, error) {
	var (
		conds  []string
		args   []any
		argIdx = 1
	)
	if filter.ContentType != "" {
		conds = append(conds, fmt.Sprintf("content_type LIKE $%d", argIdx))
		args = append(args, escapeLike(filter.ContentType)+"%")
		argIdx++
	}
	if !filter.Since.IsZero() {
		conds = append(conds, fmt.Sprintf("updated_at >= $%d", argIdx))
		args = append(args, filter.Since)
		argIdx++
	}
	where := "TRUE"
	if len(conds) > 0 {
		where = strings.Join(conds, " AND ")
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM media_assets WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count media assets: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	query := fmt.Sprintf(
		`SELECT id, canonical_name, source_url, stored_url, content_type, size_bytes, created_at, updated_at
		 FROM media_assets WHERE %s ORDER BY updated_at DESC, canonical_name LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list media assets: %w", err)
	}
	defer rows.Close()

	assets := make([]*models.MediaAsset, 0, limit)
	for rows.Next() {
		var a models.MediaAsset
		if err := rows.Scan(&a.ID, &a.CanonicalName, &a.SourceURL, &a.StoredURL, &a.ContentType, &a.SizeBytes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan media asset: %w", err)
		}
		assets = append(assets, &a)
	}
	return assets, total, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
