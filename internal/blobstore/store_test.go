package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"docflow/internal/docflow"
	"docflow/internal/encryption"
)

// runStoreTests exercises the docflow.BlobStore contract.
func runStoreTests(t *testing.T, newStore func(t *testing.T) docflow.BlobStore) {
	ctx := context.Background()
	const bucket = "documents"

	save := func(t *testing.T, s docflow.BlobStore, data []byte, filename string) string {
		t.Helper()
		id, err := s.Save(ctx, bucket, bytes.NewReader(data), int64(len(data)), "application/pdf", filename)
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		return id
	}
	load := func(t *testing.T, s docflow.BlobStore, id string) []byte {
		t.Helper()
		rc, err := s.Load(ctx, bucket, id)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("reading blob: %v", err)
		}
		return data
	}

	t.Run("save and load", func(t *testing.T) {
		s := newStore(t)
		data := []byte("%PDF-1.7 contract body")
		id := save(t, s, data, "contract.pdf")

		if !strings.HasSuffix(id, "_contract.pdf") {
			t.Errorf("blob id = %q, want suffix _contract.pdf", id)
		}
		if got := load(t, s, id); !bytes.Equal(got, data) {
			t.Errorf("Load() = %q, want %q", got, data)
		}
	})

	t.Run("ids are never reused", func(t *testing.T) {
		s := newStore(t)
		a := save(t, s, []byte("same"), "same.pdf")
		b := save(t, s, []byte("same"), "same.pdf")
		if a == b {
			t.Errorf("Save() returned %q twice", a)
		}
	})

	t.Run("size mismatch fails", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Save(ctx, bucket, strings.NewReader("short"), 100, "application/pdf", "x.pdf")
		if err == nil {
			t.Error("Save() with wrong size succeeded")
		}
	})

	t.Run("missing blob", func(t *testing.T) {
		s := newStore(t)
		rc, err := s.Load(ctx, bucket, "00000000-0000-0000-0000-000000000000_missing.pdf")
		if err == nil {
			rc.Close()
			t.Fatal("Load() of missing blob succeeded")
		}
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Load() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		s := newStore(t)
		id := save(t, s, []byte("doomed"), "doomed.pdf")

		if err := s.Delete(ctx, bucket, id); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := s.Delete(ctx, bucket, id); err != nil {
			t.Errorf("second Delete() error = %v", err)
		}
		if _, err := s.Load(ctx, bucket, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Load() after Delete() error = %v, want ErrNotFound", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) docflow.BlobStore { return NewMemoryStore() })
}

func TestFileSystemStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) docflow.BlobStore {
		s, err := NewFileSystemStore(t.TempDir())
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}
		return s
	})
}

func TestEncryptedStore(t *testing.T) {
	enc := encryption.NewTestEncryptor()
	dec, err := enc.Unlock("")
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}

	runStoreTests(t, func(t *testing.T) docflow.BlobStore {
		return NewEncryptedStore(NewMemoryStore(), enc, dec)
	})

	t.Run("inner store holds ciphertext", func(t *testing.T) {
		inner := NewMemoryStore()
		s := NewEncryptedStore(inner, enc, dec)
		data := []byte("plaintext contract")

		id, err := s.Save(context.Background(), "documents", bytes.NewReader(data), int64(len(data)), "application/pdf", "c.pdf")
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		rc, err := inner.Load(context.Background(), "documents", id)
		if err != nil {
			t.Fatalf("inner Load() error = %v", err)
		}
		defer rc.Close()
		stored, _ := io.ReadAll(rc)
		if bytes.Equal(stored, data) {
			t.Error("inner store holds plaintext")
		}
	})

	t.Run("locked store cannot load", func(t *testing.T) {
		s := NewEncryptedStore(NewMemoryStore(), enc, nil)
		data := []byte("x")
		id, err := s.Save(context.Background(), "documents", bytes.NewReader(data), 1, "application/pdf", "x.pdf")
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if _, err := s.Load(context.Background(), "documents", id); !errors.Is(err, ErrLocked) {
			t.Errorf("Load() error = %v, want ErrLocked", err)
		}
	})
}
