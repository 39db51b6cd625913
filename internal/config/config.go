package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultURLTTL is the lifetime of presigned file URLs when engine.url_ttl is unset.
const DefaultURLTTL = 15 * time.Minute

// Config represents the main configuration for docflow.
type Config struct {
	InstanceID string           `toml:"instance_id"`
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Database   DatabaseConfig   `toml:"database"`
	BlobStore  BlobStoreConfig  `toml:"blob_store"`
	Encryption EncryptionConfig `toml:"encryption"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Engine     EngineConfig     `toml:"engine"`
}

// DatabaseConfig represents configuration for the document database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite", "memory" or "postgres"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
	DSN     string `toml:"dsn,omitempty"`      // only used for type=postgres
}

// BlobStoreConfig represents configuration for the document file store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type BlobStoreConfig struct {
	Type string `toml:"type"` // "memory", "filesystem" or "s3"

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSRoot string `toml:"fs_root,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3Endpoint        string `toml:"s3_endpoint,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`
	S3UsePathStyle    bool   `toml:"s3_use_path_style,omitempty"`
	S3PublicURL       string `toml:"s3_public_url,omitempty"` // rewrites the host of presigned URLs
}

// EncryptionConfig selects encryption at rest for stored files.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "none" (default), "age" or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// MetricsConfig controls where lifecycle counters are exported.
type MetricsConfig struct {
	TextfilePath string `toml:"textfile_path,omitempty"` // node-exporter textfile, written on close
}

// EngineConfig tunes the workflow engine.
type EngineConfig struct {
	DocumentsBucket string `toml:"documents_bucket,omitempty"`
	URLTTL          string `toml:"url_ttl,omitempty"` // Go duration, e.g. "15m"
}

// PresignTTL returns the configured presigned URL lifetime.
func (e EngineConfig) PresignTTL() (time.Duration, error) {
	if e.URLTTL == "" {
		return DefaultURLTTL, nil
	}
	d, err := time.ParseDuration(e.URLTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid engine.url_ttl %q: %w", e.URLTTL, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("engine.url_ttl must be positive, got %s", d)
	}
	return d, nil
}

// NewConfig creates a Config for a local installation: SQLite database,
// filesystem blob store and age key paths under baseDir.
func NewConfig(instanceID, baseDir string) *Config {
	return &Config{
		InstanceID: instanceID,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		BlobStore: BlobStoreConfig{
			Type:   "filesystem",
			FSRoot: filepath.Join(baseDir, "blobs"),
		},
		Encryption: EncryptionConfig{
			Type:           "none",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "docflow.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "docflow.key"),
		},
		Engine: EngineConfig{
			DocumentsBucket: "documents",
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file may carry S3 credentials or a database DSN.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
