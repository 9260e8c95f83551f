// Package config loads process-wide configuration once at startup. Components
// receive the parts they need by value or pointer at construction time and
// never read ambient state during a request.
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
	Memories  MemoriesConfig  `yaml:"memories" mapstructure:"memories"`
	YouTube   YouTubeConfig   `yaml:"youtube" mapstructure:"youtube"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Preflight PreflightConfig `yaml:"preflight" mapstructure:"preflight"`
	Enrich    EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the optional extraction cache backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite", "postgres" or "" (disabled)
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	PageTTLHrs  int    `yaml:"page_ttl_hours" mapstructure:"page_ttl_hours"`
}

// MemoriesConfig holds settings for the video understanding service.
type MemoriesConfig struct {
	Key             string `yaml:"key" mapstructure:"key"`
	BaseURL         string `yaml:"base_url" mapstructure:"base_url"`
	Quality         int    `yaml:"quality" mapstructure:"quality"`
	RequestTimeout  int    `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
	PollInterval    int    `yaml:"poll_interval_secs" mapstructure:"poll_interval_secs"`
	PollErrInterval int    `yaml:"poll_error_interval_secs" mapstructure:"poll_error_interval_secs"`
	PollCeiling     int    `yaml:"poll_ceiling_secs" mapstructure:"poll_ceiling_secs"`
}

// YouTubeConfig holds the platform metadata API settings.
type YouTubeConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// FetchConfig configures the page fetch collaborator.
type FetchConfig struct {
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent      string  `yaml:"user_agent" mapstructure:"user_agent"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	MaxBodyBytes   int64   `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// AnthropicConfig holds settings for the tiny recipe classifier.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	Model       string `yaml:"model" mapstructure:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// PreflightConfig configures the preflight classifier. RulesFile, when set,
// overrides the compiled-in keyword/pattern tables.
type PreflightConfig struct {
	MinDurationSecs     int     `yaml:"min_duration_secs" mapstructure:"min_duration_secs"`
	MaxDurationSecs     int     `yaml:"max_duration_secs" mapstructure:"max_duration_secs"`
	PassThreshold       int     `yaml:"pass_threshold" mapstructure:"pass_threshold"`
	BorderlineThreshold int     `yaml:"borderline_threshold" mapstructure:"borderline_threshold"`
	SniffTimeoutSecs    int     `yaml:"sniff_timeout_secs" mapstructure:"sniff_timeout_secs"`
	EnableSniff         bool    `yaml:"enable_sniff" mapstructure:"enable_sniff"`
	EnableTinyClassify  bool    `yaml:"enable_tiny_classify" mapstructure:"enable_tiny_classify"`
	TinyClassifyWeight  float64 `yaml:"tiny_classify_weight" mapstructure:"tiny_classify_weight"`
	RulesFile           string  `yaml:"rules_file" mapstructure:"rules_file"`
}

// EnrichConfig configures post-fusion step screenshot enrichment.
type EnrichConfig struct {
	BatchSize    int `yaml:"batch_size" mapstructure:"batch_size"`
	PauseMillis  int `yaml:"pause_millis" mapstructure:"pause_millis"`
	PerSecondCap int `yaml:"per_second_cap" mapstructure:"per_second_cap"`
	TimeoutSecs  int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ServerConfig configures serve mode.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.SetEnvPrefix("CHEFSTACKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "chefstacks.db")
	v.SetDefault("store.page_ttl_hours", 24)
	v.SetDefault("memories.base_url", "https://api.memories.ai/serve/api/v1")
	v.SetDefault("memories.quality", 720)
	v.SetDefault("memories.request_timeout_secs", 30)
	v.SetDefault("memories.poll_interval_secs", 10)
	v.SetDefault("memories.poll_error_interval_secs", 5)
	v.SetDefault("memories.poll_ceiling_secs", 600)
	v.SetDefault("youtube.base_url", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("youtube.timeout_secs", 10)
	v.SetDefault("fetch.timeout_secs", 20)
	v.SetDefault("fetch.user_agent", "ChefStacksBot/1.0 (+https://chefstacks.app)")
	v.SetDefault("fetch.requests_per_sec", 2.0)
	v.SetDefault("fetch.max_body_bytes", 5<<20)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.timeout_secs", 8)
	v.SetDefault("preflight.min_duration_secs", 60)
	v.SetDefault("preflight.max_duration_secs", 5400)
	v.SetDefault("preflight.pass_threshold", 50)
	v.SetDefault("preflight.borderline_threshold", 30)
	v.SetDefault("preflight.sniff_timeout_secs", 4)
	v.SetDefault("preflight.enable_sniff", true)
	v.SetDefault("preflight.enable_tiny_classify", false)
	v.SetDefault("preflight.tiny_classify_weight", 15.0)
	v.SetDefault("enrich.batch_size", 3)
	v.SetDefault("enrich.pause_millis", 500)
	v.SetDefault("enrich.per_second_cap", 5)
	v.SetDefault("enrich.timeout_secs", 60)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
