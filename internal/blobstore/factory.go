package blobstore

import (
	"context"
	"fmt"

	"docflow/internal/config"
	"docflow/internal/docflow"
)

// NewBlobStoreFromConfig creates the BlobStore selected by cfg.Type.
func NewBlobStoreFromConfig(ctx context.Context, cfg config.BlobStoreConfig) (docflow.BlobStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem blob store requires fs_root to be set")
		}
		return NewFileSystemStore(cfg.FSRoot)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown blob store type: %s", cfg.Type)
	}
}
