// Package config loads the estimator's start-time configuration.
//
// Values come from Default, optionally overlaid by a YAML file, then by
// command-line flags. Nothing here can change once the pool has started.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/randomizedcoder/coprime-pi/internal/cancel"
	"github.com/randomizedcoder/coprime-pi/internal/queue"
	"github.com/randomizedcoder/coprime-pi/internal/tick"
)

// ErrInvalid is returned when a configuration fails validation.
var ErrInvalid = errors.New("config: invalid")

// Config is the complete start-time configuration.
type Config struct {
	// Workers is the number of sampling goroutines.
	Workers int `yaml:"workers" validate:"gte=1,lte=65536"`

	// BatchSize is the number of samples per batch.
	BatchSize int `yaml:"batch_size" validate:"gte=1"`

	// Rounds is the total number of batches; 0 runs until interrupted.
	Rounds uint64 `yaml:"rounds"`

	// Precision is the number of significant digits per report line.
	Precision int `yaml:"precision" validate:"gte=1,lte=1000"`

	// Cancel selects the stop flag implementation.
	Cancel string `yaml:"cancel" validate:"oneof=context atomic"`

	Report   ReportConfig   `yaml:"report"`
	Progress ProgressConfig `yaml:"progress"`
	Metrics  MetricsConfig  `yaml:"metrics"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// ReportConfig controls how report lines leave the critical section.
type ReportConfig struct {
	// Queue is "none" (write under the lock), "ring" or "channel".
	Queue string `yaml:"queue" validate:"oneof=none ring channel"`

	// QueueSize is the queue capacity in snapshots.
	QueueSize int `yaml:"queue_size" validate:"gte=1"`
}

// ProgressConfig controls periodic throughput logging.
type ProgressConfig struct {
	// Interval between progress log lines; 0 disables them.
	Interval time.Duration `yaml:"interval" validate:"gte=0"`

	// Ticker is "std", "atomic" or "batch".
	Ticker string `yaml:"ticker" validate:"oneof=std atomic batch"`

	// Every is the number of merges between clock reads for the batch ticker.
	Every int `yaml:"every" validate:"gte=1"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address for /metrics; empty disables the server.
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Workers:   runtime.NumCPU(),
		BatchSize: 1_000_000,
		Rounds:    0,
		Precision: 30,
		Cancel:    cancel.KindContext,
		Report: ReportConfig{
			Queue:     queue.KindRing,
			QueueSize: 1024,
		},
		Progress: ProgressConfig{
			Interval: 10 * time.Second,
			Ticker:   tick.KindAtomic,
			Every:    1,
		},
		LogLevel: "info",
	}
}

var validate = validator.New()

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Load reads a YAML file over Default and validates the result.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode overlays YAML data onto cfg.
func Decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// An empty document leaves cfg untouched.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
