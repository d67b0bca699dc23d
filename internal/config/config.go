package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Pricing   PricingConfig   `yaml:"pricing" mapstructure:"pricing"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the catalog/variable-config backend. Driver is
// "sqlite", "postgres", or "static" for the built-in catalog.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// AnthropicConfig holds Anthropic API settings for the advisory pass.
type AnthropicConfig struct {
	Key               string `yaml:"key" mapstructure:"key"`
	Model             string `yaml:"model" mapstructure:"model"`
	RequestsPerMinute int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	Disabled          bool   `yaml:"disabled" mapstructure:"disabled"`
}

// PipelineConfig holds the recognition and completion thresholds. The
// completion threshold is intentionally stricter: recognizing a service is
// easier than being confident enough to price it without clarification.
type PipelineConfig struct {
	RecognitionThreshold float64 `yaml:"recognition_threshold" mapstructure:"recognition_threshold"`
	CompletionThreshold  float64 `yaml:"completion_threshold" mapstructure:"completion_threshold"`
}

// PricingConfig holds company terms and an optional rate-schedule file
// overriding the built-in per-service rates.
type PricingConfig struct {
	RatesFile    string  `yaml:"rates_file" mapstructure:"rates_file"`
	HourlyRate   float64 `yaml:"hourly_rate" mapstructure:"hourly_rate"`
	TeamSize     int     `yaml:"team_size" mapstructure:"team_size"`
	ProfitMargin float64 `yaml:"profit_margin" mapstructure:"profit_margin"`
}

// BatchConfig configures batch quoting.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// ServerConfig configures the quote API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("QUOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Keys without a meaningful default still need registering
	// so AutomaticEnv can populate them during Unmarshal.
	v.SetDefault("store.driver", "static")
	v.SetDefault("store.sqlite_path", "quote-engine.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.disabled", false)
	v.SetDefault("pricing.rates_file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("batch.max_concurrent", 5)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.requests_per_minute", 50)
	v.SetDefault("pipeline.recognition_threshold", 0.7)
	v.SetDefault("pipeline.completion_threshold", 0.85)
	v.SetDefault("pricing.hourly_rate", 50.0)
	v.SetDefault("pricing.team_size", 2)
	v.SetDefault("pricing.profit_margin", 0.30)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
