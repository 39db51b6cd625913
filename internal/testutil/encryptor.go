package testutil

import (
	"docflow/internal/docflow"
	"docflow/internal/encryption"
)

// NewTestEncryptor creates a new test encryptor for testing.
func NewTestEncryptor() docflow.Encryptor {
	return encryption.NewTestEncryptor()
}
