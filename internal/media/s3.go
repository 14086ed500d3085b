package media

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kiranshivaraju/mediagate/internal/config"
)

// ObjectStore is durable storage addressed by object name.
type ObjectStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) error
	URL(name string) string
}

// S3Store writes objects to an S3-compatible bucket through time-limited presigned
// PUT URLs and serves them from a public base URL.
type S3Store struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	expiry        time.Duration
	http          *http.Client
}

// NewS3Store creates an S3Store from storage config. No network call is made.
func NewS3Store(cfg config.StorageConfig, timeout time.Duration) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}

	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: cfg.PublicBaseURL,
		expiry:        expiry,
		http:          &http.Client{Timeout: timeout},
	}, nil
}

// Put uploads data under name, overwriting any existing object.
func (s *S3Store) Put(ctx context.Context, name, contentType string, data []byte) error {
	signed, err := s.client.PresignedPutObject(ctx, s.bucket, name, s.expiry)
	if err != nil {
		return fmt.Errorf("presigning %s: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, signed.String(), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("uploading %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("uploading %s: status %d", name, resp.StatusCode)
	}
	return nil
}

// URL is the public address of name.
func (s *S3Store) URL(name string) string {
	return s.publicBaseURL + name
}
