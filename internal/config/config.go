package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Detection DetectionConfig `mapstructure:"detection"`
	Session   SessionConfig   `mapstructure:"session"`
	Callback  CallbackConfig  `mapstructure:"callback"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

type AuthConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// DetectionConfig tunes the scam scorer.
type DetectionConfig struct {
	ScamThreshold           float64 `mapstructure:"scam_threshold"`
	HighConfidenceThreshold float64 `mapstructure:"high_confidence_threshold"`
	MaxTextRunes            int     `mapstructure:"max_text_runes"`
}

// SessionConfig tunes session lifecycle and finalization.
type SessionConfig struct {
	MaxMessages   int           `mapstructure:"max_messages"`
	MinMessages   int           `mapstructure:"min_messages"`
	IntelMargin   int           `mapstructure:"intel_margin"`
	MaxAge        time.Duration `mapstructure:"max_age"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// CallbackConfig configures delivery of finalized case reports.
type CallbackConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/scambait-lab")
	}

	v.SetEnvPrefix("SCAMBAIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("server.host", "SCAMBAIT_SERVER_HOST")
	v.BindEnv("server.http_port", "SCAMBAIT_SERVER_HTTP_PORT")
	v.BindEnv("redis.enabled", "SCAMBAIT_REDIS_ENABLED")
	v.BindEnv("redis.host", "SCAMBAIT_REDIS_HOST")
	v.BindEnv("redis.port", "SCAMBAIT_REDIS_PORT")
	v.BindEnv("redis.password", "SCAMBAIT_REDIS_PASSWORD")
	v.BindEnv("auth.api_key", "SCAMBAIT_AUTH_API_KEY")
	v.BindEnv("callback.url", "SCAMBAIT_CALLBACK_URL")
	v.BindEnv("callback.api_key", "SCAMBAIT_CALLBACK_API_KEY")
	v.BindEnv("callback.enabled", "SCAMBAIT_CALLBACK_ENABLED")
	v.BindEnv("app.environment", "SCAMBAIT_APP_ENVIRONMENT")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, env vars and defaults still apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "scambait-lab")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "dev")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.key_prefix", "scambait:")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Content-Type", "x-api-key"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.requests_per_minute", 120)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("detection.scam_threshold", 0.5)
	v.SetDefault("detection.high_confidence_threshold", 0.8)
	v.SetDefault("detection.max_text_runes", 5000)

	v.SetDefault("session.max_messages", 15)
	v.SetDefault("session.min_messages", 5)
	v.SetDefault("session.intel_margin", 3)
	v.SetDefault("session.max_age", 24*time.Hour)
	v.SetDefault("session.sweep_interval", 15*time.Minute)

	v.SetDefault("callback.enabled", true)
	v.SetDefault("callback.timeout", 10*time.Second)
}
