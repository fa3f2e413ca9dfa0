package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Session   SessionConfig
	Redis     RedisConfig
	Log       LogConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时字段（非配置文件）
	Path string `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

// BackendConfig 外部问答服务（/api/chat、/api/toggle_embeddings）
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout_seconds"` // 0 表示不设超时
}

type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl_hours"`
	Store      string        `mapstructure:"store"` // memory 或 redis
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type EmbeddingConfig struct {
	DefaultMode string `mapstructure:"default_mode"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8005")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("backend.timeout_seconds", 0)
	v.SetDefault("session.cookie_name", "aglc_session")
	v.SetDefault("session.ttl_hours", 24)
	v.SetDefault("session.store", SessionStoreMemory)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("embedding.default_mode", "openai")
	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("CITECHAT")
	v.AutomaticEnv()

	setDefaults(v)

	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	// Backend
	v.BindEnv("backend.base_url", "BACKEND_BASE_URL")
	v.BindEnv("backend.timeout_seconds", "BACKEND_TIMEOUT_SECONDS")

	// Session
	v.BindEnv("session.secret", "SESSION_SECRET")
	v.BindEnv("session.store", "SESSION_STORE")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Path = v.ConfigFileUsed()
	cfg.Backend.Timeout = cfg.Backend.Timeout * time.Second
	cfg.Session.TTL = cfg.Session.TTL * time.Hour

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}

	switch c.Embedding.DefaultMode {
	case "openai", "tfidf":
	default:
		return fmt.Errorf("invalid embedding.default_mode %q, must be 'openai' or 'tfidf'", c.Embedding.DefaultMode)
	}

	switch c.Session.Store {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("invalid session.store %q", c.Session.Store)
	}

	// 生产环境校验会话密钥强度
	if c.Server.Mode == "release" && len(c.Session.Secret) < 32 {
		return fmt.Errorf("session secret is too short (%d chars), must be at least 32 characters in release mode", len(c.Session.Secret))
	}

	return nil
}
