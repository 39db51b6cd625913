package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"docflow/internal/docflow"
)

// MemoryStore keeps blobs in memory. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte // "bucket/blobID" -> data
}

var _ docflow.BlobStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func memoryKey(bucket, blobID string) string {
	return bucket + "/" + blobID
}

func (m *MemoryStore) Save(ctx context.Context, bucket string, r io.Reader, size int64, contentType, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	if int64(len(data)) != size {
		return "", fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	blobID := NewBlobID(filename)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[memoryKey(bucket, blobID)] = data
	return blobID, nil
}

func (m *MemoryStore) Load(ctx context.Context, bucket, blobID string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[memoryKey(bucket, blobID)]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, blobID)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MemoryStore) Delete(ctx context.Context, bucket, blobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, memoryKey(bucket, blobID))
	return nil
}

// Has reports whether a blob exists.
func (m *MemoryStore) Has(bucket, blobID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.blobs[memoryKey(bucket, blobID)]
	return ok
}

// Len returns the number of stored blobs across all buckets.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}
