package fs

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"docflow/internal/docflow"
)

// sniffLen is how many bytes http.DetectContentType looks at.
const sniffLen = 512

// OpenUpload opens a local regular file as an upload. The returned closer
// must be closed once the upload has been consumed.
func OpenUpload(rawPath string) (docflow.Upload, io.Closer, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return docflow.Upload{}, nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	// Lstat so a symlink is reported instead of followed.
	info, err := os.Lstat(absPath)
	if err != nil {
		return docflow.Upload{}, nil, fmt.Errorf("stat path: %w", err)
	}

	mode := info.Mode()
	switch {
	case mode&os.ModeSymlink != 0:
		return docflow.Upload{}, nil, fmt.Errorf("symlinks not supported: %s", absPath)
	case mode&os.ModeDevice != 0:
		return docflow.Upload{}, nil, fmt.Errorf("device files not supported: %s", absPath)
	case mode&os.ModeNamedPipe != 0:
		return docflow.Upload{}, nil, fmt.Errorf("named pipes not supported: %s", absPath)
	case mode&os.ModeSocket != 0:
		return docflow.Upload{}, nil, fmt.Errorf("sockets not supported: %s", absPath)
	case info.IsDir():
		return docflow.Upload{}, nil, fmt.Errorf("cannot upload a directory: %s", absPath)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return docflow.Upload{}, nil, fmt.Errorf("opening file: %w", err)
	}

	contentType, err := detectContentType(f, absPath)
	if err != nil {
		f.Close()
		return docflow.Upload{}, nil, err
	}

	return docflow.Upload{
		Body:        f,
		Size:        info.Size(),
		ContentType: contentType,
		Filename:    filepath.Base(absPath),
	}, f, nil
}

// detectContentType prefers the file extension and falls back to sniffing
// the first bytes. f is rewound afterwards.
func detectContentType(f *os.File, path string) (string, error) {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct, nil
	}

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("reading file header: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewinding file: %w", err)
	}
	return http.DetectContentType(buf[:n]), nil
}
