package fs

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenUpload(t *testing.T) {
	t.Run("opens a regular file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "contract.pdf")
		if err := os.WriteFile(path, []byte("%PDF-1.7 contract"), 0644); err != nil {
			t.Fatal(err)
		}

		up, closer, err := OpenUpload(path)
		if err != nil {
			t.Fatalf("OpenUpload() error = %v", err)
		}
		defer closer.Close()

		if up.Filename != "contract.pdf" {
			t.Errorf("Filename = %q, want contract.pdf", up.Filename)
		}
		if up.Size != 17 {
			t.Errorf("Size = %d, want 17", up.Size)
		}
		if up.ContentType != "application/pdf" {
			t.Errorf("ContentType = %q, want application/pdf", up.ContentType)
		}
		data, err := io.ReadAll(up.Body)
		if err != nil {
			t.Fatalf("reading body: %v", err)
		}
		if string(data) != "%PDF-1.7 contract" {
			t.Errorf("body = %q", data)
		}
	})

	t.Run("sniffs files without a known extension", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "scan")
		if err := os.WriteFile(path, []byte("%PDF-1.4\nbody"), 0644); err != nil {
			t.Fatal(err)
		}

		up, closer, err := OpenUpload(path)
		if err != nil {
			t.Fatalf("OpenUpload() error = %v", err)
		}
		defer closer.Close()

		if up.ContentType != "application/pdf" {
			t.Errorf("ContentType = %q, want application/pdf", up.ContentType)
		}
		data, _ := io.ReadAll(up.Body)
		if !strings.HasPrefix(string(data), "%PDF-1.4") {
			t.Errorf("body was not rewound: %q", data)
		}
	})

	t.Run("rejects directories", func(t *testing.T) {
		if _, _, err := OpenUpload(t.TempDir()); err == nil {
			t.Error("OpenUpload(dir) expected error")
		}
	})

	t.Run("rejects symlinks", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "real.pdf")
		if err := os.WriteFile(target, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		link := filepath.Join(dir, "link.pdf")
		if err := os.Symlink(target, link); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}
		if _, _, err := OpenUpload(link); err == nil || !strings.Contains(err.Error(), "symlinks") {
			t.Errorf("OpenUpload(symlink) error = %v, want symlink error", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, _, err := OpenUpload(filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
			t.Error("OpenUpload(missing) expected error")
		}
	})
}
