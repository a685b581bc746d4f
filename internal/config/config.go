package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	AI        AIConfig        `mapstructure:"ai"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
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
	GRPCPort        int           `mapstructure:"grpc_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnectRetries  int           `mapstructure:"connect_retries"`
	Schema          string        `mapstructure:"schema"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&search_path=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.Schema,
	)
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
	TLS       bool   `mapstructure:"tls"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	Enabled    bool               `mapstructure:"enabled"`
	URL        string             `mapstructure:"url"`
	StreamName string             `mapstructure:"stream_name"`
	Subjects   NATSSubjectsConfig `mapstructure:"subjects"`
}

type NATSSubjectsConfig struct {
	ImageAnalyzed   string `mapstructure:"image_analyzed"`
	ChatScanned     string `mapstructure:"chat_scanned"`
	ReportSubmitted string `mapstructure:"report_submitted"`
}

// JWTConfig validates tokens issued by the auth provider (HS256 shared secret)
type JWTConfig struct {
	Secret   string `mapstructure:"secret"`
	Issuer   string `mapstructure:"issuer"`
	Audience string `mapstructure:"audience"`
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

// AIConfig holds the upstream inference providers
type AIConfig struct {
	OpenAI      OpenAIConfig      `mapstructure:"openai"`
	HuggingFace HuggingFaceConfig `mapstructure:"huggingface"`
	Retry       RetryConfig       `mapstructure:"retry"`
	Breaker     BreakerConfig     `mapstructure:"breaker"`
}

type OpenAIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	VisionModel string        `mapstructure:"vision_model"`
	ChatModel   string        `mapstructure:"chat_model"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type HuggingFaceConfig struct {
	Token   string        `mapstructure:"token"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type RetryConfig struct {
	MaxRetries      int           `mapstructure:"max_retries"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
}

type BreakerConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures"`
	OpenTimeout         time.Duration `mapstructure:"open_timeout"`
	HalfOpenRequests    uint32        `mapstructure:"half_open_requests"`
}

// AnalysisConfig bounds user input and request coordination
type AnalysisConfig struct {
	MaxImageSize int64         `mapstructure:"max_image_size"`
	InFlightTTL  time.Duration `mapstructure:"in_flight_ttl"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	HistoryLimit int           `mapstructure:"history_limit"`
}

// setDefaults registers values that make the service runnable without a config file
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "veritas-lab")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.grpc_port", 9090)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "veritas")
	v.SetDefault("database.dbname", "veritas")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.schema", "public")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.connect_retries", 3)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.key_prefix", "veritas:")

	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.stream_name", "VERITAS_EVENTS")
	v.SetDefault("nats.subjects.image_analyzed", "veritas.image.analyzed")
	v.SetDefault("nats.subjects.chat_scanned", "veritas.chat.scanned")
	v.SetDefault("nats.subjects.report_submitted", "veritas.report.submitted")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Authorization", "Content-Type", "X-Client-Info", "apikey"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests_per_minute", 60)

	v.SetDefault("ai.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.openai.vision_model", "gpt-4o")
	v.SetDefault("ai.openai.chat_model", "gpt-4o-mini")
	v.SetDefault("ai.openai.timeout", 30*time.Second)
	v.SetDefault("ai.huggingface.base_url", "https://api-inference.huggingface.co")
	v.SetDefault("ai.huggingface.model", "microsoft/resnet-50")
	v.SetDefault("ai.huggingface.timeout", 30*time.Second)
	v.SetDefault("ai.retry.max_retries", 2)
	v.SetDefault("ai.retry.initial_interval", time.Second)
	v.SetDefault("ai.retry.multiplier", 2.0)
	v.SetDefault("ai.breaker.enabled", true)
	v.SetDefault("ai.breaker.consecutive_failures", 5)
	v.SetDefault("ai.breaker.open_timeout", 60*time.Second)
	v.SetDefault("ai.breaker.half_open_requests", 1)

	v.SetDefault("analysis.max_image_size", 5*1024*1024)
	v.SetDefault("analysis.in_flight_ttl", 2*time.Minute)
	v.SetDefault("analysis.cache_ttl", 10*time.Minute)
	v.SetDefault("analysis.history_limit", 5)
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/veritas")
	}

	// Environment variables
	v.SetEnvPrefix("VERITAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Secrets usually arrive through the environment only
	v.BindEnv("ai.openai.api_key", "VERITAS_AI_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("ai.huggingface.token", "VERITAS_AI_HUGGINGFACE_TOKEN", "HF_TOKEN")
	v.BindEnv("jwt.secret", "VERITAS_JWT_SECRET", "SUPABASE_JWT_SECRET")
	v.BindEnv("database.password", "VERITAS_DATABASE_PASSWORD")
	v.BindEnv("redis.password", "VERITAS_REDIS_PASSWORD")

	// A missing default config file is fine; an explicit path must exist
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal config
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
