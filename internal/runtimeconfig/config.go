package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrFormatUnknown           = errors.New("richdoc config: transform default format is invalid")
	ErrMaxDepthInvalid         = errors.New("richdoc config: transform max depth must be zero or positive")
	ErrStorageProviderUnknown  = errors.New("richdoc config: storage provider is invalid")
	ErrStorageDriverUnknown    = errors.New("richdoc config: storage driver is invalid")
	ErrStorageDSNRequired      = errors.New("richdoc config: storage dsn is required for the bun provider")
	ErrObjectStorageFeature    = errors.New("richdoc config: object storage feature must be enabled to upload exports")
	ErrObjectStorageEndpoint   = errors.New("richdoc config: object storage endpoint is required")
	ErrObjectStorageBucket     = errors.New("richdoc config: object storage bucket is required")
	ErrCacheTTLInvalid         = errors.New("richdoc config: cache ttl must be positive when cache is enabled")
	ErrLoggingProviderRequired = errors.New("richdoc config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown  = errors.New("richdoc config: logging provider is invalid")
	ErrLoggingLevelInvalid     = errors.New("richdoc config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("richdoc config: logging format is invalid")
	ErrConfigFileRequired      = errors.New("richdoc config: config file path is required")
)

// Format identifiers understood by the export service.
const (
	FormatGFM  = "gfm"
	FormatHTML = "html"
)

// Config aggregates the settings consumed by the container.
type Config struct {
	Transform     TransformConfig     `yaml:"transform"`
	Storage       StorageConfig       `yaml:"storage"`
	ObjectStorage ObjectStorageConfig `yaml:"object_storage"`
	Cache         CacheConfig         `yaml:"cache"`
	Workspace     WorkspaceConfig     `yaml:"workspace"`
	Preview       PreviewConfig       `yaml:"preview"`
	Logging       LoggingConfig       `yaml:"logging"`
	Features      Features            `yaml:"features"`
}

// TransformConfig tunes the render engine.
type TransformConfig struct {
	DefaultFormat string `yaml:"default_format"`
	// MaxDepth of zero keeps the engine default.
	MaxDepth int `yaml:"max_depth"`
}

// StorageConfig selects the relational backend.
type StorageConfig struct {
	Provider string `yaml:"provider"`
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
}

// ObjectStorageConfig holds S3-compatible connection settings.
type ObjectStorageConfig struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	UseSSL          bool   `yaml:"use_ssl"`
	ExportPrefix    string `yaml:"export_prefix"`
}

// CacheConfig toggles the repository cache.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// WorkspaceConfig controls workspace bootstrapping.
type WorkspaceConfig struct {
	DefaultContent bool `yaml:"default_content"`
}

// PreviewConfig mirrors preview.Options.
type PreviewConfig struct {
	Extensions []string `yaml:"extensions"`
	HardWraps  bool     `yaml:"hard_wraps"`
	Sanitize   bool     `yaml:"sanitize"`
}

// LoggingConfig captures go-logger options.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// Features toggles optional collaborators.
type Features struct {
	ObjectStorage bool `yaml:"object_storage"`
	UploadExports bool `yaml:"upload_exports"`
	Metrics       bool `yaml:"metrics"`
	Logger        bool `yaml:"logger"`
}

// DefaultConfig returns a config usable for local development: in-memory
// storage, GFM exports and no external services.
func DefaultConfig() Config {
	return Config{
		Transform: TransformConfig{
			DefaultFormat: FormatGFM,
		},
		Storage: StorageConfig{
			Provider: "memory",
			Driver:   "sqlite",
		},
		ObjectStorage: ObjectStorageConfig{
			Region:       "us-east-1",
			Bucket:       "richdoc",
			UseSSL:       true,
			ExportPrefix: "exports",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Workspace: WorkspaceConfig{
			DefaultContent: true,
		},
		Preview: PreviewConfig{
			Sanitize: true,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
	}
}

// LoadFile reads a YAML file over DefaultConfig. Environment variables in
// the file are expanded before decoding.
func LoadFile(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Config{}, ErrConfigFileRequired
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("richdoc config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over DefaultConfig and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return Config{}, fmt.Errorf("richdoc config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate performs consistency checks across sections.
func (cfg Config) Validate() error {
	switch normalize(cfg.Transform.DefaultFormat) {
	case FormatGFM, FormatHTML:
	default:
		return fmt.Errorf("%w: %q", ErrFormatUnknown, cfg.Transform.DefaultFormat)
	}
	if cfg.Transform.MaxDepth < 0 {
		return ErrMaxDepthInvalid
	}

	switch normalize(cfg.Storage.Provider) {
	case "memory":
	case "bun":
		switch normalize(cfg.Storage.Driver) {
		case "sqlite", "postgres":
		default:
			return fmt.Errorf("%w: %q", ErrStorageDriverUnknown, cfg.Storage.Driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	if cfg.Features.UploadExports && !cfg.Features.ObjectStorage {
		return ErrObjectStorageFeature
	}
	if cfg.Features.ObjectStorage {
		if strings.TrimSpace(cfg.ObjectStorage.Endpoint) == "" {
			return ErrObjectStorageEndpoint
		}
		if strings.TrimSpace(cfg.ObjectStorage.Bucket) == "" {
			return ErrObjectStorageBucket
		}
	}

	if cfg.Cache.Enabled && cfg.Cache.DefaultTTL <= 0 {
		return ErrCacheTTLInvalid
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if provider != "gologger" {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	}
	return false
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	}
	return false
}
