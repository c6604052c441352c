package port

import "context"

// ClipStorage fetches stored clip bytes to a local scratch path.
type ClipStorage interface {
	DownloadClip(ctx context.Context, bucket, object, destPath string) error
}
