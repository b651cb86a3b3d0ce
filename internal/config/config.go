// Package config provides configuration types and defaults for canon.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cardplay/canon/internal/log"
	"github.com/cardplay/canon/internal/policy"
)

// PolicyConfig holds the default unknown-node policy applied by canon
// tooling when the caller does not supply one.
type PolicyConfig struct {
	Behavior                string `mapstructure:"behavior"`                  // "reject" (default), "warn", or "preserve"
	AttemptMigration        bool   `mapstructure:"attempt_migration"`         // Try migrating to the latest schema before branching
	PreserveInSerialization bool   `mapstructure:"preserve_in_serialization"` // Keep warned nodes in serialized output
}

// Policy converts the configuration into a policy value.
func (p PolicyConfig) Policy() policy.Policy {
	behavior := policy.Behavior(p.Behavior)
	if behavior == "" {
		behavior = policy.BehaviorReject
	}
	return policy.Policy{
		Behavior:                behavior,
		AttemptMigration:        p.AttemptMigration,
		PreserveInSerialization: p.PreserveInSerialization,
	}
}

// StoreConfig holds schema store location configuration.
type StoreConfig struct {
	// Path is the SQLite database file holding published schemas.
	// Default: ~/.config/canon/canon.db
	Path string `mapstructure:"path"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/canon/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Config holds all configuration options for canon.
type Config struct {
	// PackDirs are the directories scanned for schema pack manifests.
	PackDirs []string `mapstructure:"pack_dirs"`

	// Extensions is the installed extension table: namespace -> version.
	// Compatibility checks run against this table.
	Extensions map[string]string `mapstructure:"extensions"`

	// AutoReload re-runs checks when a watched pack directory changes.
	AutoReload bool `mapstructure:"auto_reload"`

	Policy  PolicyConfig  `mapstructure:"policy"`
	Store   StoreConfig   `mapstructure:"store"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// DefaultStorePath returns the default schema store location.
// Returns ~/.config/canon/canon.db or empty string if home dir unavailable.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "canon", "canon.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/canon/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "canon", "traces", "traces.jsonl")
}

// DefaultPackDirs returns the default pack search path: the project-local
// .canon/packs directory followed by the user-level pack directory.
func DefaultPackDirs() []string {
	dirs := []string{filepath.Join(".canon", "packs")}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "canon", "packs"))
	}
	return dirs
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		PackDirs:   DefaultPackDirs(),
		Extensions: map[string]string{},
		AutoReload: false,
		Policy: PolicyConfig{
			Behavior:         "reject",
			AttemptMigration: true,
		},
		Store: StoreConfig{
			Path: DefaultStorePath(),
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// ValidatePolicy checks policy configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidatePolicy(p PolicyConfig) error {
	switch p.Behavior {
	case "", "reject", "warn", "preserve":
		return nil
	default:
		return fmt.Errorf("policy.behavior must be \"reject\", \"warn\", or \"preserve\", got %q", p.Behavior)
	}
}

// ValidateStore checks store configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateStore(store StoreConfig) error {
	if store.Path != "" && !filepath.IsAbs(store.Path) {
		return fmt.Errorf("store.path must be an absolute path, got %q", store.Path)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	switch tracing.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
	}
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}
	return nil
}

// Validate checks the whole configuration for errors.
func (c Config) Validate() error {
	if err := ValidatePolicy(c.Policy); err != nil {
		return err
	}
	if err := ValidateStore(c.Store); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Canon Configuration

# Directories scanned for schema pack manifests (pack.yaml files).
# The project-local directory is checked first, then the user-level one.
pack_dirs:
  - .canon/packs
  # - ~/.config/canon/packs

# Installed extension table: namespace -> version.
# Compatibility checks ('canon check') run against this table.
extensions: {}
#   my-pack: 1.2.0
#   folk-tunes: 0.3.1

# Re-run checks automatically when a watched pack directory changes
# (same as 'canon check --watch').
auto_reload: false

# Default unknown-node policy applied when a command does not override it.
policy:
  # What to do with a node that fails validation: reject, warn, or preserve
  behavior: reject
  # Try migrating the node to the latest registered schema version first
  attempt_migration: true
  # Keep warned nodes in serialized output (only meaningful with behavior: warn)
  # preserve_in_serialization: false

# Schema store location
# store:
#   path: ~/.config/canon/canon.db

# Tracing configuration
# Enables end-to-end visibility into check and migration flows
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/canon/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
