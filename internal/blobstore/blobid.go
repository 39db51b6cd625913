package blobstore

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is wrapped by Load when a blob does not exist.
var ErrNotFound = errors.New("blob not found")

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// NewBlobID returns a fresh blob ID of the form <uuid>_<sanitized filename>.
func NewBlobID(filename string) string {
	return uuid.NewString() + "_" + sanitize(filename)
}

func sanitize(filename string) string {
	if filename == "" {
		return "file"
	}
	return unsafeChars.ReplaceAllString(filename, "_")
}

// validateKey rejects bucket names and blob IDs that could escape their
// directory or key prefix.
func validateKey(bucket, blobID string) error {
	for _, part := range []string{bucket, blobID} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return fmt.Errorf("invalid blob key %q/%q", bucket, blobID)
		}
	}
	return nil
}
