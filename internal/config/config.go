package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Providers  ProvidersConfig  `mapstructure:"providers"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Session    SessionConfig    `mapstructure:"session"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Events     EventsConfig     `mapstructure:"events"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	I18n       I18nConfig       `mapstructure:"i18n"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type ProvidersConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	Primary   GeminiConfig  `mapstructure:"primary"`
	Secondary OpenAIConfig  `mapstructure:"secondary"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type RateLimitConfig struct {
	ChatDailyLimit     int  `mapstructure:"chat_daily_limit"`
	AnalysisDailyLimit int  `mapstructure:"analysis_daily_limit"`
	BurstEnabled       bool `mapstructure:"burst_enabled"`
	RequestsPerMinute  int  `mapstructure:"requests_per_minute"`
	Burst              int  `mapstructure:"burst"`
}

type SessionConfig struct {
	Backend     string      `mapstructure:"backend"`
	MaxMessages int         `mapstructure:"max_messages"`
	Redis       RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type TelemetryConfig struct {
	BackendURL string `mapstructure:"backend_url"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
	MaxSize int           `mapstructure:"max_size"`
}

type EventsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
}

type LoggingConfig struct {
	Level  string     `mapstructure:"level"`
	Format string     `mapstructure:"format"`
	Output string     `mapstructure:"output"`
	File   FileConfig `mapstructure:"file"`
}

type FileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type MonitoringConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

type I18nConfig struct {
	DefaultLanguage string   `mapstructure:"default_language"`
	Languages       []string `mapstructure:"languages"`
	Directory       string   `mapstructure:"directory"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	viper.BindEnv("providers.primary.api_key", "GEMINI_API_KEY")
	viper.BindEnv("providers.secondary.api_key", "CEREBRAS_API_KEY")
	viper.BindEnv("providers.secondary.base_url", "CEREBRAS_BASE_URL")
	viper.BindEnv("providers.secondary.model", "CEREBRAS_MODEL")
	viper.BindEnv("session.redis.addr", "REDIS_ADDR")
	viper.BindEnv("session.redis.password", "REDIS_PASSWORD")
	viper.BindEnv("telemetry.backend_url", "BACKEND_URL")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Redis address assembled from host/port env pair if present
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		redisPort := os.Getenv("REDIS_PORT")
		if redisPort == "" {
			redisPort = "6379"
		}
		config.Session.Redis.Addr = fmt.Sprintf("%s:%s", redisHost, redisPort)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("providers.timeout", 30*time.Second)
	viper.SetDefault("providers.primary.model", "gemini-2.5-flash")
	viper.SetDefault("providers.secondary.base_url", "https://api.cerebras.ai/v1")
	viper.SetDefault("rate_limit.chat_daily_limit", 100)
	viper.SetDefault("rate_limit.analysis_daily_limit", 50)
	viper.SetDefault("session.backend", "memory")
	viper.SetDefault("session.max_messages", 20)
	viper.SetDefault("cache.ttl", 5*time.Minute)
	viper.SetDefault("cache.max_size", 1000)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("i18n.default_language", "en")
	viper.SetDefault("i18n.directory", "configs/i18n")
}

func validateConfig(cfg *Config) error {
	if cfg.Session.Backend != "memory" && cfg.Session.Backend != "redis" {
		return fmt.Errorf("unsupported session backend: %s", cfg.Session.Backend)
	}
	if cfg.Session.MaxMessages <= 0 {
		return fmt.Errorf("session max_messages must be positive")
	}
	if cfg.RateLimit.ChatDailyLimit <= 0 || cfg.RateLimit.AnalysisDailyLimit <= 0 {
		return fmt.Errorf("daily limits must be positive")
	}
	// Missing provider keys are allowed: the gateway then runs in
	// fallback-only mode and answers from templates
	return nil
}
