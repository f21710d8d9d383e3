package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	// ErrReadConfig ошибка чтения или разбора файла конфигурации
	ErrReadConfig = errors.New("config: failed to read config")

	// ErrInvalidConfig конфигурация не прошла проверку
	ErrInvalidConfig = errors.New("config: invalid config")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Ledger   LedgerConfig   `toml:"ledger"`
	Expiry   ExpiryConfig   `toml:"expiry"`
}

// ServerConfig настройки HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
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

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// LedgerConfig настройки записи резерваций
type LedgerConfig struct {
	MaxRetries int `toml:"max_retries"` // 0 отключает повторы, по умолчанию 3
	BackoffMS  int `toml:"backoff_ms"`
}

// Backoff базовая пауза между повторами транзакции
func (l LedgerConfig) Backoff() time.Duration {
	return time.Duration(l.BackoffMS) * time.Millisecond
}

// ExpiryConfig настройки фоновой отмены неоплаченных броней
type ExpiryConfig struct {
	Enabled         bool `toml:"enabled"`
	PendingTTL      int  `toml:"pending_ttl"` // секунды
	IntervalSeconds int  `toml:"interval"`
	BatchSize       int  `toml:"batch_size"`
}

// TTL время жизни брони в статусе pending
func (e ExpiryConfig) TTL() time.Duration {
	return time.Duration(e.PendingTTL) * time.Second
}

// Interval период запуска обхода
func (e ExpiryConfig) Interval() time.Duration {
	return time.Duration(e.IntervalSeconds) * time.Second
}

// Load читает конфигурацию из TOML файла
// Пароль и хост БД можно переопределить переменными окружения DB_PASSWORD и DB_HOST
func Load(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	applyEnv(&cfg)
	cfg.setDefaults(md)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
}

// setDefaults заполняет незаданные поля
// Для полей, где 0 допустимое значение, смотрим, было ли поле задано в файле
func (c *Config) setDefaults(md toml.MetaData) {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "court_booking"
	}

	if !md.IsDefined("ledger", "max_retries") {
		c.Ledger.MaxRetries = 3
	}
	if c.Ledger.BackoffMS == 0 {
		c.Ledger.BackoffMS = 20
	}

	if c.Expiry.PendingTTL == 0 {
		c.Expiry.PendingTTL = 600
	}
	if c.Expiry.IntervalSeconds == 0 {
		c.Expiry.IntervalSeconds = 30
	}
	if c.Expiry.BatchSize == 0 {
		c.Expiry.BatchSize = 100
	}
}

// Validate проверяет обязательные поля и диапазоны
func (c *Config) Validate() error {
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	}
	if c.Database.User == "" {
		return fmt.Errorf("%w: database.user is required", ErrInvalidConfig)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("%w: database.max_idle_conns %d exceeds max_open_conns %d",
			ErrInvalidConfig, c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Ledger.MaxRetries < 0 {
		return fmt.Errorf("%w: ledger.max_retries must be non-negative", ErrInvalidConfig)
	}
	if c.Expiry.PendingTTL < 0 || c.Expiry.IntervalSeconds < 0 || c.Expiry.BatchSize < 0 {
		return fmt.Errorf("%w: expiry values must be non-negative", ErrInvalidConfig)
	}
	return nil
}
