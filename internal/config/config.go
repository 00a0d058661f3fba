// Package config provides configuration types and defaults for lumos.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/lumos-rgb/lumos/internal/areaspec"
	"github.com/lumos-rgb/lumos/internal/log"
	"github.com/lumos-rgb/lumos/internal/tracing"
)

// Config holds all configuration options for lumos.
type Config struct {
	DBPath    string          `mapstructure:"db_path"`
	Debug     bool            `mapstructure:"debug"`
	LogPath   string          `mapstructure:"log_path"`
	LogLevel  string          `mapstructure:"log_level"`
	Parser    ParserConfig    `mapstructure:"parser"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Watch     WatchConfig     `mapstructure:"watch"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Highlight HighlightConfig `mapstructure:"highlight"`
	Tracing   tracing.Config  `mapstructure:"tracing"`
}

// ParserConfig holds limits applied before parsing.
type ParserConfig struct {
	// MaxInputLength rejects longer inputs, counted in characters. 0 disables.
	MaxInputLength int `mapstructure:"max_input_length"`
}

// Options converts the parser settings to areaspec options.
func (p ParserConfig) Options() areaspec.Options {
	return areaspec.Options{MaxInputLength: p.MaxInputLength}
}

// CacheConfig controls the parse cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// WatchConfig controls `lumos watch`.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// BackendConfig locates the capture backend.
type BackendConfig struct {
	Address string        `mapstructure:"address"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// HighlightConfig overrides highlight colors; empty values keep the default.
type HighlightConfig struct {
	Selector    string `mapstructure:"selector"`
	Field       string `mapstructure:"field"`
	Number      string `mapstructure:"number"`
	Unit        string `mapstructure:"unit"`
	Punctuation string `mapstructure:"punctuation"`
	Error       string `mapstructure:"error"`
}

// Palette merges the configured colors over the default palette.
func (h HighlightConfig) Palette() areaspec.Palette {
	p := areaspec.DefaultPalette()
	for _, o := range []struct {
		dst *string
		val string
	}{
		{&p.Selector, h.Selector},
		{&p.Field, h.Field},
		{&p.Number, h.Number},
		{&p.Unit, h.Unit},
		{&p.Punctuation, h.Punctuation},
		{&p.Error, h.Error},
	} {
		if o.val != "" {
			*o.dst = o.val
		}
	}
	return p
}

// Dir returns ~/.config/lumos, or "" if the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "lumos")
}

// DefaultDBPath returns the default profile database location.
func DefaultDBPath() string {
	if dir := Dir(); dir != "" {
		return filepath.Join(dir, "profiles.db")
	}
	return "profiles.db"
}

// DefaultTracesFilePath returns the default JSONL trace file.
func DefaultTracesFilePath() string {
	if dir := Dir(); dir != "" {
		return filepath.Join(dir, "traces", "traces.jsonl")
	}
	return ""
}

// Defaults returns a Config with default values.
func Defaults() Config {
	traces := tracing.DefaultConfig()
	traces.FilePath = DefaultTracesFilePath()

	return Config{
		DBPath:   DefaultDBPath(),
		LogLevel: "debug",
		Parser: ParserConfig{
			MaxInputLength: 65536,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
		Backend: BackendConfig{
			Address: "ws://localhost:9901",
			Timeout: 5 * time.Second,
		},
		Tracing: traces,
	}
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	if cfg.LogLevel != "" {
		if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	if cfg.Parser.MaxInputLength < 0 {
		return fmt.Errorf("parser.max_input_length must not be negative, got %d", cfg.Parser.MaxInputLength)
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", cfg.Cache.TTL)
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", cfg.Watch.Debounce)
	}
	if err := ValidateBackend(cfg.Backend); err != nil {
		return err
	}
	if err := ValidateHighlight(cfg.Highlight); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateBackend checks the backend address and timeout.
func ValidateBackend(b BackendConfig) error {
	if b.Address != "" {
		u, err := url.Parse(b.Address)
		if err != nil {
			return fmt.Errorf("backend.address: %w", err)
		}
		if u.Scheme != "ws" && u.Scheme != "wss" {
			return fmt.Errorf("backend.address must use ws:// or wss://, got %q", b.Address)
		}
		if u.Host == "" {
			return fmt.Errorf("backend.address must include a host, got %q", b.Address)
		}
	}
	if b.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative, got %s", b.Timeout)
	}
	return nil
}

// ValidateHighlight checks that every configured color is a hex color.
func ValidateHighlight(h HighlightConfig) error {
	for _, c := range []struct{ key, val string }{
		{"selector", h.Selector},
		{"field", h.Field},
		{"number", h.Number},
		{"unit", h.Unit},
		{"punctuation", h.Punctuation},
		{"error", h.Error},
	} {
		if c.val != "" && !hexColor.MatchString(c.val) {
			return fmt.Errorf("highlight.%s must be a hex color like #A1B2C3, got %q", c.key, c.val)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration; empty values use defaults.
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	switch t.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
	}

	if t.Enabled {
		if t.Exporter == tracing.ExporterFile && t.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if t.Exporter == tracing.ExporterOTLP && t.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as commented YAML.
func DefaultConfigTemplate() string {
	return `# Lumos Configuration

# Profile database (default: ~/.config/lumos/profiles.db)
# db_path: /path/to/profiles.db

# Debug logging (also enabled by --debug or LUMOS_DEBUG=1)
debug: false
# log_path: debug.log
# log_level: debug   # debug, info, warn or error

# Area specification parser
parser:
  max_input_length: 65536   # characters; 0 disables the limit

# Parse cache used by watch and the editor
cache:
  enabled: true
  ttl: 10m

# lumos watch
watch:
  debounce: 250ms

# Capture backend that receives profiles on 'lumos profiles push'
backend:
  address: ws://localhost:9901
  timeout: 5s

# Syntax highlight colors (hex); unset keys use the built-in palette
# highlight:
#   selector: "#C084FC"
#   field: "#60A5FA"
#   number: "#FBBF24"
#   unit: "#34D399"
#   punctuation: "#9CA3AF"
#   error: "#F87171"

# Tracing
# tracing:
#   enabled: false                 # default: false
#   exporter: file                 # none, file, stdout or otlp
#   file_path: ~/.config/lumos/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at configPath with default
// settings and comments, creating the parent directory if needed.
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
