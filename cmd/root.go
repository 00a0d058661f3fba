package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/lumos-rgb/lumos/internal/areaspec"
	"github.com/lumos-rgb/lumos/internal/cachemanager"
	"github.com/lumos-rgb/lumos/internal/config"
	"github.com/lumos-rgb/lumos/internal/infrastructure/sqlite"
	"github.com/lumos-rgb/lumos/internal/log"
	"github.com/lumos-rgb/lumos/internal/tracing"
)

func init() {
	// Query the terminal background before any Bubble Tea program starts so
	// the OSC 11 reply cannot race with the editor's input loop.
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is checked before the user config directory.
const localConfigPath = ".lumos/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
	configErr error

	traces   *tracing.Provider
	stopLogs func()
)

var rootCmd = &cobra.Command{
	Use:   "lumos",
	Short: "Tools for lumos area specifications and profiles",
	Long: `Tools for the area specification language used by lumos profiles.

Check, format and highlight specifications, watch a file while editing it,
and manage the profiles that are sent to the capture backend.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/lumos/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (also LUMOS_DEBUG=1)")
}

func initConfig() {
	viper.Reset()
	configErr = nil
	cfg = config.Config{}

	setDefaults(config.Defaults())
	viper.SetEnvPrefix("LUMOS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Config lookup order:
	// 1. --config
	// 2. .lumos/config.yaml (current directory)
	// 3. ~/.config/lumos/config.yaml (user config)
	switch {
	case cfgFile != "":
		viper.SetConfigFile(cfgFile)
	case fileExists(localConfigPath):
		viper.SetConfigFile(localConfigPath)
	default:
		if dir := config.Dir(); dir != "" {
			viper.AddConfigPath(dir)
		}
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			configErr = err
			return
		}
		// No config yet: write the commented default where it was expected.
		if path := defaultConfigPath(); path != "" {
			if writeErr := config.WriteDefaultConfig(path); writeErr == nil {
				viper.SetConfigFile(path)
				_ = viper.ReadInConfig()
			}
		}
	}

	configErr = viper.Unmarshal(&cfg)
}

func setDefaults(d config.Config) {
	viper.SetDefault("db_path", d.DBPath)
	viper.SetDefault("debug", d.Debug)
	viper.SetDefault("log_path", d.LogPath)
	viper.SetDefault("log_level", d.LogLevel)
	viper.SetDefault("parser.max_input_length", d.Parser.MaxInputLength)
	viper.SetDefault("cache.enabled", d.Cache.Enabled)
	viper.SetDefault("cache.ttl", d.Cache.TTL)
	viper.SetDefault("watch.debounce", d.Watch.Debounce)
	viper.SetDefault("backend.address", d.Backend.Address)
	viper.SetDefault("backend.timeout", d.Backend.Timeout)
	viper.SetDefault("highlight.selector", d.Highlight.Selector)
	viper.SetDefault("highlight.field", d.Highlight.Field)
	viper.SetDefault("highlight.number", d.Highlight.Number)
	viper.SetDefault("highlight.unit", d.Highlight.Unit)
	viper.SetDefault("highlight.punctuation", d.Highlight.Punctuation)
	viper.SetDefault("highlight.error", d.Highlight.Error)
	viper.SetDefault("tracing.enabled", d.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", d.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", d.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

func defaultConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if dir := config.Dir(); dir != "" {
		return filepath.Join(dir, "config.yaml")
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// setup validates the configuration and starts logging and tracing.
func setup(cmd *cobra.Command, _ []string) error {
	if configErr != nil {
		return fmt.Errorf("loading config %s: %w", viper.ConfigFileUsed(), configErr)
	}
	if debugFlag {
		cfg.Debug = true
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Debug {
		logPath := cfg.LogPath
		if logPath == "" {
			logPath = "debug.log"
		}
		cleanup, err := log.Init(logPath)
		if err != nil {
			return err
		}
		stopLogs = cleanup
		if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
			log.SetMinLevel(level)
		}
	}

	areaspec.SetStyles(areaspec.NewStyles(cfg.Highlight.Palette()))

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	traces = provider

	log.Debug(log.CatCLI, "running command", "command", cmd.CommandPath(), "config", viper.ConfigFileUsed())
	return nil
}

// teardown flushes traces and closes the log file.
func teardown() {
	if traces != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := traces.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "warning: flushing traces: %v\n", err)
		}
		cancel()
		traces = nil
	}
	if stopLogs != nil {
		stopLogs()
		stopLogs = nil
	}
}

// tracer returns the command tracer, or a no-op tracer before setup.
func tracer() trace.Tracer {
	if traces == nil {
		return noop.NewTracerProvider().Tracer("lumos")
	}
	return traces.Tracer()
}

func newParseCache() *cachemanager.ParseCache {
	return cachemanager.NewParseCache(cachemanager.ParseCacheConfig{
		Enabled: cfg.Cache.Enabled,
		TTL:     cfg.Cache.TTL,
		Options: cfg.Parser.Options(),
	})
}

func openDB() (*sqlite.DB, error) {
	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening profile database: %w", err)
	}
	return db, nil
}

// input is one specification text to process.
type input struct {
	name string
	path string // empty for stdin
	text string
}

const stdinName = "<stdin>"

// readInputs reads the named files, or stdin when args is empty or "-".
func readInputs(cmd *cobra.Command, args []string) ([]input, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []input{{name: stdinName, text: string(data)}}, nil
	}

	inputs := make([]input, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied path
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		inputs = append(inputs, input{name: path, path: path, text: string(data)})
	}
	return inputs, nil
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer teardown()
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
