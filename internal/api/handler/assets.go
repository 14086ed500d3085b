package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/kiranshivaraju/mediagate/internal/api/response"
	"github.com/kiranshivaraju/mediagate/internal/store"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// AssetLister defines the interface the assets handler depends on.
type AssetLister interface {
	ListMediaAssets(ctx context.Context, filter store.AssetFilter) ([]*models.MediaAsset, int, error)
}

const (
	defaultPage  = 1
	defaultLimit = 50
	maxLimit     = 200
)

// NewListAssetsHandler returns an http.HandlerFunc for GET /assets.
func NewListAssetsHandler(l AssetLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		page := queryInt(q.Get("page"), defaultPage)
		if page < 1 {
			page = defaultPage
		}
		limit := queryInt(q.Get("limit"), defaultLimit)
		if limit < 1 {
			limit = defaultLimit
		}
		if limit > maxLimit {
			limit = maxLimit
		}

		filter := store.AssetFilter{
			ContentType: q.Get("content_type"),
			Page:        page,
			Limit:       limit,
		}
		if since := q.Get("since"); since != "" {
			t, err := time.Parse(time.RFC3339, since)
			if err != nil {
				response.Error(w, http.StatusBadRequest, string(models.KindInvalidInput), "since must be a valid RFC3339 timestamp", nil)
				return
			}
			filter.Since = t
		}

		assets, total, err := l.ListMediaAssets(r.Context(), filter)
		if err != nil {
			response.FromError(w, err)
			return
		}
		if assets == nil {
			assets = []*models.MediaAsset{}
		}

		response.Collection(w, assets, response.PaginationMeta{
			Page:    page,
			Limit:   limit,
			Total:   total,
			HasNext: page*limit < total,
		})
	}
}

func queryInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
