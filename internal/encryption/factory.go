package encryption

import (
	"fmt"

	"docflow/internal/config"
	"docflow/internal/docflow"
)

// NewEncryptorFromConfig returns the Encryptor selected by cfg.Type, or nil
// when files are stored unencrypted.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (docflow.Encryptor, error) {
	switch cfg.Type {
	case "none", "":
		return nil, nil
	case "age":
		if cfg.PublicKeyPath == "" || cfg.PrivateKeyPath == "" {
			return nil, fmt.Errorf("age encryption requires public_key_path and private_key_path")
		}
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
