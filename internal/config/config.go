package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Config holds the ragdex API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Provider ProviderConfig `yaml:"provider"`
	Cache    CacheConfig    `yaml:"cache"`
	Query    QueryConfig    `yaml:"query"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ProviderConfig selects and configures the retrieval provider.
type ProviderConfig struct {
	Driver    string          `yaml:"driver"` // ragapi, pgvector (default: ragapi)
	RagAPI    RagAPIConfig    `yaml:"ragapi"`
	Pgvector  PgvectorConfig  `yaml:"pgvector"`
	Embedding EmbeddingConfig `yaml:"embedding"`
}

// RagAPIConfig holds managed retrieval API settings.
type RagAPIConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// PgvectorConfig holds self-hosted Postgres provider settings.
type PgvectorConfig struct {
	DSN        string `yaml:"dsn"`
	Dimensions int    `yaml:"dimensions"`
}

// EmbeddingConfig holds embedder settings for the pgvector provider.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// CacheConfig holds corpus directory cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// QueryConfig holds retrieval defaults.
type QueryConfig struct {
	DefaultTopK          int      `yaml:"default_top_k"`
	DefaultPerCorpusTopK int      `yaml:"default_per_corpus_top_k"`
	DefaultThreshold     *float64 `yaml:"default_threshold"`
	DefaultPageSize      int      `yaml:"default_page_size"`
	MaxPageSize          int      `yaml:"max_page_size"`
	FanoutWorkers        int      `yaml:"fanout_workers"`
}

// Defaults converts the query section into the engine defaults object.
// ApplyDefaults must have run first.
func (c QueryConfig) Defaults() domain.QueryConfig {
	d := domain.DefaultQueryConfig()
	d.TopK = c.DefaultTopK
	d.PerCorpusTopK = c.DefaultPerCorpusTopK
	if c.DefaultThreshold != nil {
		d.Threshold = *c.DefaultThreshold
	}
	d.PageSize = c.DefaultPageSize
	d.MaxPageSize = c.MaxPageSize
	d.FanoutWorkers = c.FanoutWorkers
	return d
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
	stock := domain.DefaultQueryConfig()

	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Provider.Driver == "" {
		c.Provider.Driver = "ragapi"
	}
	if c.Provider.RagAPI.TimeoutSec <= 0 {
		c.Provider.RagAPI.TimeoutSec = 30
	}
	if c.Provider.Pgvector.Dimensions <= 0 {
		c.Provider.Pgvector.Dimensions = 1536
	}
	if c.Provider.Embedding.Model == "" {
		c.Provider.Embedding.Model = "text-embedding-3-small"
	}
	if c.Provider.Embedding.TimeoutSec <= 0 {
		c.Provider.Embedding.TimeoutSec = 30
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 30
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Query.DefaultTopK <= 0 {
		c.Query.DefaultTopK = stock.TopK
	}
	if c.Query.DefaultPerCorpusTopK <= 0 {
		c.Query.DefaultPerCorpusTopK = stock.PerCorpusTopK
	}
	if c.Query.DefaultPageSize <= 0 {
		c.Query.DefaultPageSize = stock.PageSize
	}
	if c.Query.MaxPageSize <= 0 {
		c.Query.MaxPageSize = stock.MaxPageSize
	}
	if c.Query.FanoutWorkers <= 0 {
		c.Query.FanoutWorkers = stock.FanoutWorkers
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Provider.Driver {
	case "ragapi":
		if c.Provider.RagAPI.BaseURL == "" {
			return fmt.Errorf("provider.ragapi.base_url is required for the ragapi driver")
		}
	case "pgvector":
		if c.Provider.Pgvector.DSN == "" {
			return fmt.Errorf("provider.pgvector.dsn is required for the pgvector driver")
		}
		if c.Provider.Embedding.APIKey == "" {
			return fmt.Errorf("provider.embedding.api_key is required for the pgvector driver")
		}
	default:
		return fmt.Errorf("provider.driver must be \"ragapi\" or \"pgvector\", got %q", c.Provider.Driver)
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache.enabled is true")
	}
	if t := c.Query.DefaultThreshold; t != nil && (*t < 0 || *t > 1) {
		return fmt.Errorf("query.default_threshold must be between 0 and 1, got %v", *t)
	}
	return nil
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
