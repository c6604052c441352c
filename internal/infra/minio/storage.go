package minio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrBadObjectURI marks a storage path that cannot be split into bucket and
// key. Not transient; jobs carrying one fail terminally.
var ErrBadObjectURI = errors.New("malformed object uri")

type Storage struct {
	client *miniogo.Client
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

func NewStorage(cfg StorageConfig) (*Storage, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &Storage{client: client}, nil
}

func (s *Storage) DownloadClip(ctx context.Context, bucket, object, destPath string) error {
	return s.client.FGetObject(ctx, bucket, object, destPath, miniogo.GetObjectOptions{})
}

// ParseObjectURI splits a scheme://bucket/key storage path into bucket and
// key. Any scheme is accepted; only the shape matters.
func ParseObjectURI(uri string) (bucket, object string, err error) {
	rest := uri
	if i := strings.Index(uri, "://"); i >= 0 {
		rest = uri[i+3:]
	}
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadObjectURI, uri)
	}
	return bucket, object, nil
}
