package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"docflow/internal/docflow"
)

// ErrLocked is returned by EncryptedStore.Load before Unlock.
var ErrLocked = errors.New("encrypted blob store is locked")

// EncryptedStore encrypts blobs before handing them to an inner store and
// decrypts them on load. Callers always see plaintext, so signature hashes
// are computed over the document itself.
type EncryptedStore struct {
	inner docflow.BlobStore
	enc   docflow.Encryptor
	dec   docflow.DecryptionContext
}

var _ docflow.BlobStore = (*EncryptedStore)(nil)

// NewEncryptedStore wraps inner. dec may be nil, in which case Save works
// and Load fails with ErrLocked.
func NewEncryptedStore(inner docflow.BlobStore, enc docflow.Encryptor, dec docflow.DecryptionContext) *EncryptedStore {
	return &EncryptedStore{inner: inner, enc: enc, dec: dec}
}

// Save encrypts r into a temporary file first, because the inner store
// needs the ciphertext size up front.
func (s *EncryptedStore) Save(ctx context.Context, bucket string, r io.Reader, size int64, contentType, filename string) (string, error) {
	tmp, err := os.CreateTemp("", "docflow-enc-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	counted := &countingReader{r: r}
	if err := s.enc.Encrypt(counted, tmp); err != nil {
		return "", fmt.Errorf("encrypting blob: %w", err)
	}
	if counted.n != size {
		return "", fmt.Errorf("size mismatch: expected %d bytes, got %d", size, counted.n)
	}

	cipherSize, err := tmp.Seek(0, io.SeekCurrent)
	if err != nil {
		return "", fmt.Errorf("sizing ciphertext: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewinding ciphertext: %w", err)
	}
	return s.inner.Save(ctx, bucket, tmp, cipherSize, "application/octet-stream", filename)
}

// Load streams the decrypted blob. Decryption errors surface from Read.
func (s *EncryptedStore) Load(ctx context.Context, bucket, blobID string) (io.ReadCloser, error) {
	if s.dec == nil {
		return nil, ErrLocked
	}
	rc, err := s.inner.Load(ctx, bucket, blobID)
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	go func() {
		err := s.dec.Decrypt(rc, pw)
		rc.Close()
		pw.CloseWithError(err)
	}()
	return pr, nil
}

func (s *EncryptedStore) Delete(ctx context.Context, bucket, blobID string) error {
	return s.inner.Delete(ctx, bucket, blobID)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
