package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Stripe       StripeConfig       `toml:"stripe"`
	Mailer       MailerConfig       `toml:"mailer"`
	Kafka        KafkaConfig        `toml:"kafka"`
	Redis        RedisConfig        `toml:"redis"`
	RateLimit    RateLimitConfig    `toml:"rate_limit"`
	OperatorAuth OperatorAuthConfig `toml:"operator_auth"`
	Reconciler   ReconcilerConfig   `toml:"reconciler"`
}

// ServerConfig параметры HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type StripeConfig struct {
	SecretKey     string `toml:"secret_key"`
	WebhookSecret string `toml:"webhook_secret"`
	SuccessURL    string `toml:"success_url"`
	CancelURL     string `toml:"cancel_url"`
	APIURL        string `toml:"api_url"` // пусто = api.stripe.com
	Timeout       int    `toml:"timeout"` // секунды
}

type MailerConfig struct {
	URL     string `toml:"url"`
	APIKey  string `toml:"api_key"`
	From    string `toml:"from"`
	Timeout int    `toml:"timeout"`
}

type KafkaConfig struct {
	Brokers string `toml:"brokers"` // через запятую, пусто = события не публикуются
	Topic   string `toml:"topic"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"` // пусто = лимитер в памяти
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type RateLimitConfig struct {
	Enabled  bool `toml:"enabled"`
	Requests int  `toml:"requests"`
	Window   int  `toml:"window"` // секунды
	FailOpen bool `toml:"fail_open"`
}

type OperatorAuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`
}

type ReconcilerConfig struct {
	Enabled   bool `toml:"enabled"`
	Interval  int  `toml:"interval"` // секунды
	MinAge    int  `toml:"min_age"`  // секунды
	BatchSize int  `toml:"batch_size"`
}

// Load читает .env (если есть), файл конфигурации и переменные окружения
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default значения, используемые для отсутствующих ключей
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "consultation-service",
		},
		Stripe: StripeConfig{Timeout: 10},
		Mailer: MailerConfig{Timeout: 10},
		Kafka:  KafkaConfig{Topic: "consultation.events"},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 30,
			Window:   60,
			FailOpen: true,
		},
		Reconciler: ReconcilerConfig{
			Interval:  300,
			MinAge:    900,
			BatchSize: 50,
		},
	}
}

// applyEnv секреты из окружения имеют приоритет над файлом
func (c *Config) applyEnv() {
	override(&c.Database.Password, "DB_PASSWORD")
	override(&c.Stripe.SecretKey, "STRIPE_SECRET_KEY")
	override(&c.Stripe.WebhookSecret, "STRIPE_WEBHOOK_SECRET")
	override(&c.Mailer.APIKey, "MAILER_API_KEY")
	override(&c.OperatorAuth.JWTSecret, "OPERATOR_JWT_SECRET")
	override(&c.Redis.Password, "REDIS_PASSWORD")
}

func override(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate проверяет значения, с которыми сервис не сможет работать
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, fmt.Sprintf("server.http_port %d out of range", c.Server.HTTPPort))
	}
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		problems = append(problems, "database.host, database.dbname and database.user are required")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		problems = append(problems, "database.max_idle_conns exceeds max_open_conns")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		problems = append(problems, "metrics.path must start with /")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		problems = append(problems, "rate_limit.requests and rate_limit.window must be positive")
	}
	if c.OperatorAuth.JWTSecret == "" {
		problems = append(problems, "operator_auth.jwt_secret (OPERATOR_JWT_SECRET) is required")
	}
	if c.Reconciler.Enabled {
		if c.Reconciler.Interval <= 0 || c.Reconciler.BatchSize <= 0 || c.Reconciler.MinAge < 0 {
			problems = append(problems, "reconciler.interval and reconciler.batch_size must be positive")
		}
		if c.Stripe.SecretKey == "" {
			problems = append(problems, "reconciler requires stripe.secret_key")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

func (r RateLimitConfig) WindowDuration() time.Duration {
	return time.Duration(r.Window) * time.Second
}

func (r ReconcilerConfig) IntervalDuration() time.Duration {
	return time.Duration(r.Interval) * time.Second
}

func (r ReconcilerConfig) MinAgeDuration() time.Duration {
	return time.Duration(r.MinAge) * time.Second
}
