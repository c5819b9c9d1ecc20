// Package config provides configuration management for pipeline and correlation runs
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config represents the global configuration for pipeline and correlation runs
type Config struct {
	// Correlation
	CorrelationChunkSize int    `json:"correlation_chunk_size" yaml:"correlation_chunk_size"` // Rows consumed between progress callbacks
	SampleMaxPoints      int    `json:"sample_max_points" yaml:"sample_max_points"`           // Reservoir capacity
	SampleSeed           uint64 `json:"sample_seed" yaml:"sample_seed"`                       // 0 = seeded from the clock

	// Parallel processing
	WorkerPoolSize int `json:"worker_pool_size" yaml:"worker_pool_size"` // 0 = auto-detect

	// Data operations
	PreviewLimit      int    `json:"preview_limit" yaml:"preview_limit"`
	CollationLanguage string `json:"collation_language" yaml:"collation_language"` // BCP 47 tag used by the sort stage

	// Debugging
	VerboseLogging    bool   `json:"verbose_logging" yaml:"verbose_logging"`
	LogFormat         string `json:"log_format" yaml:"log_format"` // text or json
	MetricsCollection bool   `json:"metrics_collection" yaml:"metrics_collection"`
}

// Log formats accepted by LogFormat.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Default configuration values
const (
	DefaultCorrelationChunkSize = 10000
	DefaultSampleMaxPoints      = 2000
	DefaultPreviewLimit         = 50
	DefaultCollationLanguage    = "en"
)

// envPrefix namespaces every environment variable read by LoadFromEnv.
const envPrefix = "INSIGHT_"

//nolint:gochecknoglobals // process-wide configuration guarded by configMutex
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	return Config{
		CorrelationChunkSize: DefaultCorrelationChunkSize,
		SampleMaxPoints:      DefaultSampleMaxPoints,
		SampleSeed:           0,
		WorkerPoolSize:       0,
		PreviewLimit:         DefaultPreviewLimit,
		CollationLanguage:    DefaultCollationLanguage,
		VerboseLogging:       false,
		LogFormat:            LogFormatText,
		MetricsCollection:    false,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c.CorrelationChunkSize <= 0 {
		return fmt.Errorf("CorrelationChunkSize must be positive, got %d", c.CorrelationChunkSize)
	}

	if c.SampleMaxPoints <= 0 {
		return fmt.Errorf("SampleMaxPoints must be positive, got %d", c.SampleMaxPoints)
	}

	if c.WorkerPoolSize < 0 {
		return fmt.Errorf("WorkerPoolSize must be non-negative, got %d", c.WorkerPoolSize)
	}

	if c.PreviewLimit <= 0 {
		return fmt.Errorf("PreviewLimit must be positive, got %d", c.PreviewLimit)
	}

	if _, err := language.Parse(c.CollationLanguage); err != nil {
		return fmt.Errorf("CollationLanguage %q is not a valid language tag: %w", c.CollationLanguage, err)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("LogFormat must be %q or %q, got %q", LogFormatText, LogFormatJSON, c.LogFormat)
	}

	return nil
}

// WithDefaults returns a copy with defaults filled in for zero values.
// Boolean fields are left untouched so an explicit false survives.
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.CorrelationChunkSize == 0 {
		c.CorrelationChunkSize = defaults.CorrelationChunkSize
	}
	if c.SampleMaxPoints == 0 {
		c.SampleMaxPoints = defaults.SampleMaxPoints
	}
	if c.PreviewLimit == 0 {
		c.PreviewLimit = defaults.PreviewLimit
	}
	if c.CollationLanguage == "" {
		c.CollationLanguage = defaults.CollationLanguage
	}
	if c.LogFormat == "" {
		c.LogFormat = defaults.LogFormat
	}

	return c
}

// Workers resolves WorkerPoolSize, substituting the CPU count for zero.
func (c Config) Workers() int {
	if c.WorkerPoolSize > 0 {
		return c.WorkerPoolSize
	}
	return runtime.NumCPU()
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the current global configuration
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// LoadFromFile loads configuration from a JSON or YAML file. Keys absent
// from the file keep their default values.
func LoadFromFile(filename string) (Config, error) {
	return NewConfig().MergeFile(filename)
}

// MergeFile overlays the keys present in a JSON or YAML file onto c. Keys the
// file does not mention keep the value they have in c.
func (c Config) MergeFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	merged := c
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		err = json.Unmarshal(data, &merged)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &merged)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return merged.WithDefaults(), nil
}

// LoadEnvFile reads KEY=VALUE pairs from the given .env files into the
// process environment (existing variables win) and then returns
// LoadFromEnv. With no arguments ".env" in the working directory is used.
func LoadEnvFile(filenames ...string) (Config, error) {
	if err := godotenv.Load(filenames...); err != nil {
		return Config{}, fmt.Errorf("loading env file: %w", err)
	}
	return LoadFromEnv(), nil
}

// LoadFromEnv loads configuration from INSIGHT_* environment variables
func LoadFromEnv() Config {
	config := NewConfig()

	envInt("CORRELATION_CHUNK_SIZE", &config.CorrelationChunkSize)
	envInt("SAMPLE_MAX_POINTS", &config.SampleMaxPoints)
	envInt("WORKER_POOL_SIZE", &config.WorkerPoolSize)
	envInt("PREVIEW_LIMIT", &config.PreviewLimit)

	if val := os.Getenv(envPrefix + "SAMPLE_SEED"); val != "" {
		if parsed, err := strconv.ParseUint(val, 10, 64); err == nil {
			config.SampleSeed = parsed
		}
	}

	if val := os.Getenv(envPrefix + "COLLATION_LANGUAGE"); val != "" {
		config.CollationLanguage = val
	}
	if val := os.Getenv(envPrefix + "LOG_FORMAT"); val != "" {
		config.LogFormat = strings.ToLower(val)
	}

	envBool("VERBOSE_LOGGING", &config.VerboseLogging)
	envBool("METRICS_COLLECTION", &config.MetricsCollection)

	return config
}

func envInt(key string, dst *int) {
	if val := os.Getenv(envPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			*dst = parsed
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(envPrefix + key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			*dst = parsed
		}
	}
}

// Validator checks a configuration against the host it runs on and
// returns non-fatal recommendations alongside hard errors.
type Validator struct {
	cpuCount int
}

// NewValidator creates a validator for the current host.
func NewValidator() *Validator {
	return &Validator{cpuCount: runtime.NumCPU()}
}

// Validate validates a configuration and provides recommendations
func (v *Validator) Validate(config Config) (Config, []string, error) {
	var warnings []string
	validated := config

	if err := config.Validate(); err != nil {
		return Config{}, warnings, err
	}

	if config.WorkerPoolSize > v.cpuCount*2 {
		warnings = append(warnings,
			fmt.Sprintf("Worker pool size (%d) exceeds 2x CPU count (%d), may cause contention",
				config.WorkerPoolSize, v.cpuCount))
	}

	if config.SampleMaxPoints > config.CorrelationChunkSize {
		warnings = append(warnings,
			fmt.Sprintf("Sample size (%d) exceeds correlation chunk size (%d)",
				config.SampleMaxPoints, config.CorrelationChunkSize))
	}

	if config.WorkerPoolSize == 0 {
		validated.WorkerPoolSize = v.cpuCount
		warnings = append(warnings,
			fmt.Sprintf("Auto-setting worker pool size to %d (CPU count)", validated.WorkerPoolSize))
	}

	return validated, warnings, nil
}
