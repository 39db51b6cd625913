package docflow

import (
	"context"
	"io"
	"time"
)

// BlobStore saves, loads and deletes opaque byte streams. Every Save
// allocates a fresh blob ID, so IDs are never reused.
type BlobStore interface {
	// Save stores size bytes read from r and returns the new blob ID.
	Save(ctx context.Context, bucket string, r io.Reader, size int64, contentType, filename string) (string, error)

	// Load opens a stored blob. The caller must close the reader.
	Load(ctx context.Context, bucket, blobID string) (io.ReadCloser, error)

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, bucket, blobID string) error
}

// URLPresigner is implemented by blob stores that can hand out
// time-limited direct download URLs.
type URLPresigner interface {
	PresignGet(ctx context.Context, bucket, blobID string, ttl time.Duration) (string, error)
}

// Upload is a file handed to the engine by a caller.
type Upload struct {
	Body        io.Reader
	Size        int64
	ContentType string
	Filename    string
}

func (u Upload) empty() bool {
	return u.Body == nil || u.Size <= 0
}
