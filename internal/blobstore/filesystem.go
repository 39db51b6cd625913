package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"docflow/internal/docflow"
)

// FileSystemStore keeps blobs as files in a directory tree:
//
//	<root>/
//	  <bucket>/
//	    <blobID>
type FileSystemStore struct {
	root string
}

var _ docflow.BlobStore = (*FileSystemStore)(nil)

// NewFileSystemStore creates a store rooted at root, creating it if needed.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("failed to create blob root: %w", err)
	}
	return &FileSystemStore{root: root}, nil
}

func (s *FileSystemStore) Save(ctx context.Context, bucket string, r io.Reader, size int64, contentType, filename string) (string, error) {
	blobID := NewBlobID(filename)
	if err := validateKey(bucket, blobID); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, bucket)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create bucket directory: %w", err)
	}
	if err := writeFile(filepath.Join(dir, blobID), r, size); err != nil {
		return "", err
	}
	return blobID, nil
}

func (s *FileSystemStore) Load(ctx context.Context, bucket, blobID string) (io.ReadCloser, error) {
	if err := validateKey(bucket, blobID); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.root, bucket, blobID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, blobID)
		}
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}
	return f, nil
}

func (s *FileSystemStore) Delete(ctx context.Context, bucket, blobID string) error {
	if err := validateKey(bucket, blobID); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.root, bucket, blobID))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// writeFile writes r to destPath through a temp file and rename, so a
// partially written blob is never visible.
func writeFile(destPath string, r io.Reader, expectedSize int64) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
