package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Engine drivers.
const (
	DriverRedis  = "redis"
	DriverBleve  = "bleve"
	DriverMemory = "memory"
)

// Config holds the ftbench configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Storage   StorageConfig   `yaml:"storage"`
	Benchmark BenchmarkConfig `yaml:"benchmark"`
	Datasets  []DatasetConfig `yaml:"datasets"`
	Report    ReportConfig    `yaml:"report"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// DatabaseConfig selects and connects the engine under test.
type DatabaseConfig struct {
	Driver            string   `yaml:"driver"` // redis, bleve, memory (default: redis)
	Addrs             []string `yaml:"addrs"`
	Username          string   `yaml:"username"`
	Password          string   `yaml:"password"`
	DB                int      `yaml:"db"`
	ReadinessTimeout  int      `yaml:"readiness_timeout_sec"`
	CommandTimeoutSec int      `yaml:"command_timeout_sec"`
}

// StorageConfig holds engine storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"` // redis hash key prefix
	BleveDir  string `yaml:"bleve_dir"`  // root directory of bleve indexes
}

// BenchmarkConfig holds driver settings shared by every dataset.
type BenchmarkConfig struct {
	MaxDocs             int `yaml:"max_docs"` // 0 = unlimited
	ResultSize          int `yaml:"result_size"`
	BatchSize           int `yaml:"batch_size"`
	MinElapsedMS        int `yaml:"min_elapsed_ms"`
	OperationTimeoutSec int `yaml:"operation_timeout_sec"`
}

// DatasetConfig describes one corpus and its index.
type DatasetConfig struct {
	Name        string             `yaml:"name"`
	Path        string             `yaml:"path"`
	Index       string             `yaml:"index"`
	IDField     string             `yaml:"id_field"`
	TextFields  []string           `yaml:"text_fields"`
	TextWeights map[string]float64 `yaml:"text_weights"`
	Language    string             `yaml:"language"`
	// NoStemFields are text fields indexed without stemming.
	NoStemFields []string `yaml:"no_stem_fields"`
	MaxDocs      int      `yaml:"max_docs"` // overrides benchmark.max_docs when > 0
}

// ReportConfig holds report sink settings.
type ReportConfig struct {
	Dir      string `yaml:"dir"`
	Markdown bool   `yaml:"markdown"`
}

// MetricsConfig holds the optional status server settings.
type MetricsConfig struct {
	Port            int      `yaml:"port"` // 0 disables the server
	APIKeys         []string `yaml:"api_keys"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
}

// DefaultDatasets mirrors the standard news and wiki corpora.
func DefaultDatasets() []DatasetConfig {
	return []DatasetConfig{
		{Name: "news", Path: "data/raw/news/news_raw.jsonl", Index: "ftindex-v1.0-news"},
		{Name: "wiki", Path: "data/raw/wiki/wiki_raw.jsonl", Index: "ftindex-v1.0-wiki"},
	}
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse expands env variables in data, decodes it, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = DriverRedis
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 30
	}
	if c.Database.CommandTimeoutSec <= 0 {
		c.Database.CommandTimeoutSec = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "ftbench:"
	}
	if c.Storage.BleveDir == "" {
		c.Storage.BleveDir = "data/bleve"
	}
	if c.Benchmark.ResultSize <= 0 {
		c.Benchmark.ResultSize = 10
	}
	if c.Benchmark.BatchSize <= 0 {
		c.Benchmark.BatchSize = 500
	}
	if c.Benchmark.MinElapsedMS <= 0 {
		c.Benchmark.MinElapsedMS = 1
	}
	if c.Benchmark.OperationTimeoutSec <= 0 {
		c.Benchmark.OperationTimeoutSec = 30
	}
	if len(c.Datasets) == 0 {
		c.Datasets = DefaultDatasets()
	}
	for i := range c.Datasets {
		d := &c.Datasets[i]
		if d.IDField == "" {
			d.IDField = "id"
		}
		if len(d.TextFields) == 0 {
			d.TextFields = []string{"title", "text"}
		}
		if d.Index == "" && d.Name != "" {
			d.Index = "ftindex-v1.0-" + d.Name
		}
	}
	if c.Report.Dir == "" {
		c.Report.Dir = "results/metrics"
	}
	if c.Metrics.ShutdownSec <= 0 {
		c.Metrics.ShutdownSec = 5
	}
	if c.Metrics.ReadTimeoutSec <= 0 {
		c.Metrics.ReadTimeoutSec = 10
	}
	if c.Metrics.WriteTimeoutSec <= 0 {
		c.Metrics.WriteTimeoutSec = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", DriverRedis)
		}
	case DriverBleve, DriverMemory:
	default:
		return fmt.Errorf("database.driver must be one of redis, bleve, memory, got %q", c.Database.Driver)
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 0 and 65535, got %d", c.Metrics.Port)
	}
	if c.Benchmark.MaxDocs < 0 {
		return fmt.Errorf("benchmark.max_docs must not be negative, got %d", c.Benchmark.MaxDocs)
	}

	seen := make(map[string]bool, len(c.Datasets))
	for i, d := range c.Datasets {
		if d.Name == "" {
			return fmt.Errorf("datasets[%d].name is required", i)
		}
		if seen[d.Name] {
			return fmt.Errorf("datasets[%d]: duplicate dataset %q", i, d.Name)
		}
		seen[d.Name] = true
		if d.Path == "" {
			return fmt.Errorf("datasets.%s.path is required", d.Name)
		}
		for field, w := range d.TextWeights {
			if w < 0 {
				return fmt.Errorf("datasets.%s.text_weights.%s must not be negative, got %v", d.Name, field, w)
			}
		}
		for _, f := range d.NoStemFields {
			if !slices.Contains(d.TextFields, f) {
				return fmt.Errorf("datasets.%s.no_stem_fields: %q is not a text field", d.Name, f)
			}
		}
		if d.MaxDocs < 0 {
			return fmt.Errorf("datasets.%s.max_docs must not be negative, got %d", d.Name, d.MaxDocs)
		}
	}
	return nil
}

// Dataset returns the dataset named name.
func (c *Config) Dataset(name string) (DatasetConfig, bool) {
	for _, d := range c.Datasets {
		if d.Name == name {
			return d, true
		}
	}
	return DatasetConfig{}, false
}

// EffectiveMaxDocs returns the document cap for d.
func (c *Config) EffectiveMaxDocs(d DatasetConfig) int {
	if d.MaxDocs > 0 {
		return d.MaxDocs
	}
	return c.Benchmark.MaxDocs
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
