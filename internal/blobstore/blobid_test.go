package blobstore

import (
	"strings"
	"testing"
)

func TestNewBlobID(t *testing.T) {
	tests := []struct {
		filename   string
		wantSuffix string
	}{
		{filename: "contract.pdf", wantSuffix: "_contract.pdf"},
		{filename: "Договор №1.pdf", wantSuffix: "__________1.pdf"},
		{filename: "../../etc/passwd", wantSuffix: "_.._.._etc_passwd"},
		{filename: "", wantSuffix: "_file"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			id := NewBlobID(tt.filename)
			if !strings.HasSuffix(id, tt.wantSuffix) {
				t.Errorf("NewBlobID(%q) = %q, want suffix %q", tt.filename, id, tt.wantSuffix)
			}
			if len(id) != 36+len(tt.wantSuffix) {
				t.Errorf("NewBlobID(%q) = %q, want a uuid prefix", tt.filename, id)
			}
			if strings.ContainsAny(id, `/\`) {
				t.Errorf("NewBlobID(%q) = %q contains a path separator", tt.filename, id)
			}
		})
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		bucket, blobID string
		wantErr        bool
	}{
		{bucket: "documents", blobID: "abc_file.pdf"},
		{bucket: "documents", blobID: "../secret", wantErr: true},
		{bucket: "..", blobID: "abc", wantErr: true},
		{bucket: "documents", blobID: "", wantErr: true},
		{bucket: "a/b", blobID: "abc", wantErr: true},
	}
	for _, tt := range tests {
		if err := validateKey(tt.bucket, tt.blobID); (err != nil) != tt.wantErr {
			t.Errorf("validateKey(%q, %q) error = %v, wantErr %v", tt.bucket, tt.blobID, err, tt.wantErr)
		}
	}
}
