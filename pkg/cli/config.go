package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Fepozopo/bicubic/pkg/bicubic"
	"github.com/Fepozopo/bicubic/pkg/stdimg"
)

// Environment variables read by LoadConfig.
const (
	EnvStrategy       = "BICUBIC_STRATEGY"
	EnvWorkers        = "BICUBIC_WORKERS"
	EnvAlpha          = "BICUBIC_ALPHA"
	EnvLogLevel       = "BICUBIC_LOG_LEVEL"
	EnvPreview        = "BICUBIC_PREVIEW"
	EnvPreviewBackend = "PREVIEW_BACKEND"
	EnvSource         = "BICUBIC_SOURCE"
)

// Config holds the settings shared by all commands. Command-line flags are
// applied on top of it by the command that owns them.
type Config struct {
	Strategy       bicubic.Strategy
	Workers        int
	Alpha          bicubic.AlphaMode
	LogLevel       slog.Level
	Preview        bool
	PreviewBackend string // "", "kitty", "inline", "chafa"
	Source         stdimg.SourceLayout
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Strategy: bicubic.Sequential,
		Workers:  runtime.GOMAXPROCS(0),
		Alpha:    bicubic.AlphaOpaque,
		LogLevel: slog.LevelWarn,
	}
}

// LoadConfig reads settings from the environment, falling back to the given
// dotenv files. With no files, ./.env is used when present. Non-empty
// variables in the process environment win over file values.
func LoadConfig(envFiles ...string) (Config, error) {
	var (
		fileVals map[string]string
		err      error
	)
	if len(envFiles) == 0 {
		fileVals, err = godotenv.Read()
		if errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
	} else {
		fileVals, err = godotenv.Read(envFiles...)
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading env file: %w", err)
	}
	return configFrom(func(key string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		return fileVals[key]
	})
}

func configFrom(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()
	var err error
	if v := getenv(EnvStrategy); v != "" {
		if cfg.Strategy, err = bicubic.ParseStrategy(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvStrategy, err)
		}
	}
	if v := strings.TrimSpace(getenv(EnvWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("%s: expected a non-negative integer, got %q", EnvWorkers, v)
		}
		if n > 0 {
			cfg.Workers = n
		}
	}
	if v := getenv(EnvAlpha); v != "" {
		if cfg.Alpha, err = bicubic.ParseAlphaMode(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvAlpha, err)
		}
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		if cfg.LogLevel, err = parseLogLevel(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}
	if v := getenv(EnvPreview); v != "" {
		if cfg.Preview, err = parseBoolLike(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvPreview, err)
		}
	}
	if v := strings.ToLower(strings.TrimSpace(getenv(EnvPreviewBackend))); v != "" {
		cfg.PreviewBackend = v
	}
	if v := getenv(EnvSource); v != "" {
		if cfg.Source, err = stdimg.ParseSourceLayout(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvSource, err)
		}
	}
	return cfg, nil
}

// Processor builds a resampling processor from the configuration.
func (c Config) Processor(logger *slog.Logger) *bicubic.Processor {
	return bicubic.NewProcessor(
		bicubic.WithStrategy(c.Strategy),
		bicubic.WithWorkers(c.Workers),
		bicubic.WithAlpha(c.Alpha),
		bicubic.WithLogger(logger),
	)
}

func parseLogLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

// parseBoolLike accepts true/false, yes/no, on/off and 1/0.
func parseBoolLike(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value: %q", s)
}
