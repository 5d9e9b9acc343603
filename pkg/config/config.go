package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Analysis struct {
		// WindowSize and ConfidenceThreshold are paired: 4.303 is the
		// two-tailed 95% t critical value for a 3-day window (df=2).
		// Changing the window without the threshold shifts the test's
		// actual confidence level.
		WindowSize          int     `yaml:"window_size" default:"3"`
		ConfidenceThreshold float64 `yaml:"confidence_threshold" default:"4.303"`
		MaxLag              int     `yaml:"max_lag" default:"7"`
		MinLagPoints        int     `yaml:"min_lag_points" default:"5"`
		MinOverlapDays      int     `yaml:"min_overlap_days" default:"10"`
		Workers             int     `yaml:"workers"` // 0 = NumCPU
	} `yaml:"analysis"`
	Schedule struct {
		Enabled    bool   `yaml:"enabled" default:"true"`
		DailyCron  string `yaml:"daily_cron" default:"0 30 0 * * *"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Export struct {
		Dir   string `yaml:"dir" default:"output"`
		CSV   bool   `yaml:"csv" default:"true"`
		Excel bool   `yaml:"excel" default:"true"`
	} `yaml:"export"`
	// Labels maps an asset-type tag to the display labels used on exported
	// tables. Label choice is configuration, never inferred from asset
	// identifiers. Unlisted types fall back to DefaultLabels.
	Labels map[string]LabelSet `yaml:"labels"`
	Kafka  struct {
		Brokers     []string `yaml:"brokers"`
		BarsTopic   string   `yaml:"bars_topic" default:"daily-bars"`
		AlertsTopic string   `yaml:"alerts_topic" default:"volume-alerts"`
		Compression string   `yaml:"compression" default:"gzip"`
		Producer    struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id" default:"perpparity-ingest"`
			Workers    int           `yaml:"workers" default:"4"`
			BufferSize int           `yaml:"buffer_size" default:"256"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"500ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"10s"`
			DLQTopic   string        `yaml:"dlq_topic"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host        string        `yaml:"host" default:"localhost"`
		Port        int           `yaml:"port" default:"9000"`
		Database    string        `yaml:"database" default:"perpparity"`
		User        string        `yaml:"user" default:"default"`
		Password    string        `yaml:"password"`
		DialTimeout time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout time.Duration `yaml:"read_timeout" default:"30s"`
	} `yaml:"clickhouse"`
	Cache struct {
		// Backend is "redis" or "memory".
		Backend  string `yaml:"backend" default:"memory"`
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		// InceptionTTL bounds staleness of cached inception dates; expiry
		// forces a recompute from storage.
		InceptionTTL time.Duration `yaml:"inception_ttl" default:"24h"`
	} `yaml:"cache"`
}

// LabelSet names the two sides of the comparison for one asset type.
type LabelSet struct {
	Onchain      string `yaml:"onchain"`
	Offchain     string `yaml:"offchain"`
	OnchainLong  string `yaml:"onchain_long"`
	OffchainLong string `yaml:"offchain_long"`
}

// DefaultLabels is the fallback label set for unconfigured asset types.
var DefaultLabels = LabelSet{
	Onchain:      "DeFi",
	Offchain:     "TradFi",
	OnchainLong:  "DeFi Perpetuals",
	OffchainLong: "Traditional Finance",
}

// LabelsFor returns the configured label set for an asset type, falling
// back to DefaultLabels.
func (c *Config) LabelsFor(assetType string) LabelSet {
	if ls, ok := c.Labels[assetType]; ok {
		return ls
	}
	return DefaultLabels
}

// Load reads and parses a YAML configuration file, applying defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Addr = v
		c.Cache.Backend = "redis"
	}
	if v := os.Getenv("EXPORT_DIR"); v != "" {
		c.Export.Dir = v
	}
	if v := os.Getenv("ANALYSIS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Analysis.Workers = n
		}
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Analysis.WindowSize < 2 {
		return fmt.Errorf("analysis.window_size must be at least 2, got %d", c.Analysis.WindowSize)
	}
	if c.Analysis.ConfidenceThreshold <= 0 {
		return fmt.Errorf("analysis.confidence_threshold must be positive")
	}
	if c.Analysis.MaxLag < 1 {
		return fmt.Errorf("analysis.max_lag must be at least 1, got %d", c.Analysis.MaxLag)
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	return nil
}
