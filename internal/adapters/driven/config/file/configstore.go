// Package file provides the TOML-backed configuration store.
// Configuration lives in ~/.docdex/config.toml; components receive an
// explicit Config record at construction rather than reading globals.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
)

// StoreConfig holds the search store connection settings.
type StoreConfig struct {
	Addresses []string `toml:"addresses"`
	Index     string   `toml:"index"`
	Username  string   `toml:"username,omitempty"`
	Password  string   `toml:"password,omitempty"`
}

// Config is the application configuration record.
type Config struct {
	// InputDir is the directory tree to index.
	InputDir string `toml:"input_dir"`

	// BatchSize is the maximum documents per bulk submission.
	BatchSize int `toml:"batch_size"`

	// MaxRetries bounds batch retry attempts after transport failures.
	MaxRetries int `toml:"max_retries"`

	// BackoffBaseMS is the initial retry delay in milliseconds.
	BackoffBaseMS int `toml:"backoff_base_ms"`

	// Workers is the extraction worker pool size; 0 picks a default.
	Workers int `toml:"workers"`

	// RateLimit caps bulk submissions per second. 0 disables the cap.
	RateLimit float64 `toml:"rate_limit"`

	// SupportedTypes restricts the indexed formats. Empty means all.
	SupportedTypes []string `toml:"supported_types"`

	// Elasticsearch is the store connection block.
	Elasticsearch StoreConfig `toml:"elasticsearch"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		InputDir:      "data",
		BatchSize:     50,
		MaxRetries:    3,
		BackoffBaseMS: 500,
		Elasticsearch: StoreConfig{
			Addresses: []string{"http://localhost:9200"},
			Index:     "documents",
		},
	}
}

// FileTypes maps the configured type names to format tags, falling
// back to every supported format when unset.
func (c Config) FileTypes() []domain.FileType {
	if len(c.SupportedTypes) == 0 {
		return domain.AllFileTypes
	}
	var types []domain.FileType
	for _, name := range c.SupportedTypes {
		if t := domain.ParseFileType(name); t.Supported() {
			types = append(types, t)
		}
	}
	return types
}

// Store reads and writes the configuration file.
type Store struct {
	filePath string
}

// NewStore creates a config store rooted at configDir.
// If configDir is empty, defaults to ~/.docdex.
func NewStore(configDir string) (*Store, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".docdex")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &Store{filePath: filepath.Join(configDir, "config.toml")}, nil
}

// Load reads the configuration, applying defaults for a missing file
// and for unset numeric fields.
func (s *Store) Load() (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.BatchSize <= 0 {
		cfg.BatchSize = Default().BatchSize
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = Default().MaxRetries
	}
	if cfg.BackoffBaseMS <= 0 {
		cfg.BackoffBaseMS = Default().BackoffBaseMS
	}
	if cfg.RateLimit < 0 {
		cfg.RateLimit = 0
	}
	return cfg, nil
}

// Save persists the configuration with restricted permissions.
func (s *Store) Save(cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return s.filePath
}
