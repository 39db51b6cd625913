package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "/custom/config.toml")
		t.Setenv(EnvHome, "/custom/docflow")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/custom/config.toml" {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], "/custom/config.toml")
		}
		if defaults["base_dir"] != "/custom/docflow" {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], "/custom/docflow")
		}
		if defaults["log_dir"] != "/custom/docflow/log" {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], "/custom/docflow/log")
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "")
		t.Setenv(EnvHome, "")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		homeDir, _ := os.UserHomeDir()

		wantConfig := filepath.Join(homeDir, ".config", "docflow.toml")
		if defaults["config_path"] != wantConfig {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], wantConfig)
		}

		wantBase := filepath.Join(homeDir, ".local", "share", "docflow")
		if defaults["base_dir"] != wantBase {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], wantBase)
		}

		wantLog := filepath.Join(wantBase, "log")
		if defaults["log_dir"] != wantLog {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], wantLog)
		}
	})
}

func TestEnvPassphraseValue(t *testing.T) {
	t.Setenv(EnvPassphrase, "")
	if _, ok := EnvPassphraseValue(); ok {
		t.Error("EnvPassphraseValue() ok = true with empty env")
	}

	t.Setenv(EnvPassphrase, "correct horse")
	if p, ok := EnvPassphraseValue(); !ok || p != "correct horse" {
		t.Errorf("EnvPassphraseValue() = %q, %v", p, ok)
	}
}
