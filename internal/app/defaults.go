package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables read by GetDefaults and EnvPassphraseValue.
const (
	EnvConfigPath = "DOCFLOW_CONFIG_PATH"
	EnvHome       = "DOCFLOW_HOME"
	EnvPassphrase = "DOCFLOW_PASSPHRASE"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - DOCFLOW_CONFIG_PATH: config file location (default: ~/.config/docflow.toml)
//   - DOCFLOW_HOME: base directory for docflow data (default: ~/.local/share/docflow)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// EnvPassphraseValue returns the key passphrase from DOCFLOW_PASSPHRASE, if set.
func EnvPassphraseValue() (string, bool) {
	p := os.Getenv(EnvPassphrase)
	return p, p != ""
}

func getConfigPath() (string, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "docflow.toml"), nil
}

// getBaseDir falls back to the XDG data directory.
func getBaseDir() (string, error) {
	if path := os.Getenv(EnvHome); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "docflow"), nil
}
