package store

import (
	"context"
	"errors"
	"time"

	"github.com/kiranshivaraju/mediagate/pkg/models"
)

var ErrNotFound = errors.New("resource not found")

// Store is the asset ledger. Every media object the gateway writes to storage is
// recorded here by canonical name.
type Store interface {
	Ping(ctx context.Context) error

	UpsertMediaAsset(ctx context.Context, asset *models.MediaAsset) error
	GetMediaAsset(ctx context.Context, name string) (*models.MediaAsset, error)
	ListMediaAssets(ctx context.Context, filter AssetFilter) ([]*models.MediaAsset, int, error)
}

// AssetFilter narrows ListMediaAssets. ContentType matches as a prefix ("image/").
type AssetFilter struct {
	ContentType string
	Since       time.Time
	Page        int
	Limit       int
}
