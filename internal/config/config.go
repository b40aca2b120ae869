package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when P30_CONFIG_PATH is not set.
const DefaultPath = "configs/config.yaml"

type Config struct {
	API struct {
		BaseURL         string  `yaml:"base_url" validate:"required,url"`
		TimeoutSeconds  int     `yaml:"timeout_seconds" validate:"gte=0"`
		CacheTTLSeconds int     `yaml:"cache_ttl_seconds" validate:"gte=0"`
		RateLimitRPS    float64 `yaml:"rate_limit_rps" validate:"gte=0"`
		RateLimitBurst  int     `yaml:"rate_limit_burst" validate:"gte=0"`
	} `yaml:"api"`

	Credentials struct {
		Account  string `yaml:"account"`
		Password string `yaml:"password"`
	} `yaml:"credentials"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db" validate:"gte=0"`
	} `yaml:"redis"`

	Grid struct {
		Hours         []int `yaml:"hours" validate:"dive,gte=0,lte=23"`
		LookaheadDays int   `yaml:"lookahead_days" validate:"gte=0"`
	} `yaml:"grid"`

	Log struct {
		Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
		Format string `yaml:"format" validate:"oneof=console json"`
	} `yaml:"log"`

	Monitoring struct {
		HealthCheckPort        int  `yaml:"health_check_port" validate:"gte=0,lte=65535"`
		PrometheusEnabled      bool `yaml:"prometheus_enabled"`
		PrometheusPort         int  `yaml:"prometheus_port" validate:"gte=0,lte=65535"`
		RefreshIntervalSeconds int  `yaml:"refresh_interval_seconds" validate:"gte=0"`
	} `yaml:"monitoring"`

	Export struct {
		Path string `yaml:"path"`
	} `yaml:"export"`
}

// Load reads the YAML config at path (DefaultPath when empty). Variables from
// a .env file next to the working directory are loaded first so ${VAR}
// placeholders can refer to them.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse expands ${ENV_VAR} placeholders, decodes, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = 10
	}
	if c.API.RateLimitRPS > 0 && c.API.RateLimitBurst == 0 {
		c.API.RateLimitBurst = 1
	}
	if len(c.Grid.Hours) == 0 {
		c.Grid.Hours = []int{14, 15, 16, 17}
	}
	if c.Grid.LookaheadDays == 0 {
		c.Grid.LookaheadDays = 14
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Monitoring.HealthCheckPort == 0 {
		c.Monitoring.HealthCheckPort = 8090
	}
	if c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Monitoring.RefreshIntervalSeconds == 0 {
		c.Monitoring.RefreshIntervalSeconds = 300
	}
	if c.Export.Path == "" {
		c.Export.Path = "bookings.xlsx"
	}
}

func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.API.CacheTTLSeconds) * time.Second
}

func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Monitoring.RefreshIntervalSeconds) * time.Second
}

// HasCredentials reports whether an account to log in with is configured.
func (c *Config) HasCredentials() bool {
	return c.Credentials.Account != "" && c.Credentials.Password != ""
}
