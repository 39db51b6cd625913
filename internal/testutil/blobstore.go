package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"docflow/internal/blobstore"
	"docflow/internal/docflow"
)

// ErrInjected is returned by FaultyBlobStore operations that were told to fail.
var ErrInjected = errors.New("injected blob store failure")

// NewTestBlobStore creates an empty in-memory blob store.
func NewTestBlobStore() *blobstore.MemoryStore {
	return blobstore.NewMemoryStore()
}

// Upload builds a docflow.Upload over content.
func Upload(filename string, content []byte) docflow.Upload {
	return docflow.Upload{
		Body:        bytes.NewReader(content),
		Size:        int64(len(content)),
		ContentType: "application/pdf",
		Filename:    filename,
	}
}

// FaultyBlobStore wraps a MemoryStore and fails selected operations.
// It also counts deletes so tests can observe compensation.
type FaultyBlobStore struct {
	*blobstore.MemoryStore

	mu         sync.Mutex
	failSave   bool
	failLoad   bool
	failDelete bool
	deletes    []string
}

func NewFaultyBlobStore() *FaultyBlobStore {
	return &FaultyBlobStore{MemoryStore: blobstore.NewMemoryStore()}
}

func (f *FaultyBlobStore) FailSave(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSave = fail
}

func (f *FaultyBlobStore) FailLoad(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failLoad = fail
}

func (f *FaultyBlobStore) FailDelete(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failDelete = fail
}

// Deletes returns the blob IDs passed to Delete, including failed calls.
func (f *FaultyBlobStore) Deletes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deletes...)
}

func (f *FaultyBlobStore) Save(ctx context.Context, bucket string, r io.Reader, size int64, contentType, filename string) (string, error) {
	f.mu.Lock()
	fail := f.failSave
	f.mu.Unlock()
	if fail {
		return "", ErrInjected
	}
	return f.MemoryStore.Save(ctx, bucket, r, size, contentType, filename)
}

func (f *FaultyBlobStore) Load(ctx context.Context, bucket, blobID string) (io.ReadCloser, error) {
	f.mu.Lock()
	fail := f.failLoad
	f.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return f.MemoryStore.Load(ctx, bucket, blobID)
}

func (f *FaultyBlobStore) Delete(ctx context.Context, bucket, blobID string) error {
	f.mu.Lock()
	f.deletes = append(f.deletes, blobID)
	fail := f.failDelete
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.MemoryStore.Delete(ctx, bucket, blobID)
}

// PresigningBlobStore adds a fake URLPresigner to a MemoryStore.
type PresigningBlobStore struct {
	*blobstore.MemoryStore
}

func (p PresigningBlobStore) PresignGet(ctx context.Context, bucket, blobID string, ttl time.Duration) (string, error) {
	return "https://blobs.test/" + bucket + "/" + blobID + "?ttl=" + ttl.String(), nil
}

var (
	_ docflow.BlobStore    = (*FaultyBlobStore)(nil)
	_ docflow.URLPresigner = PresigningBlobStore{}
)
