package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port      string    `yaml:"port" env:"PORT" env-default:"8080"`
	JWTSecret string    `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"your-secret-key-change-in-production"`
	LogLevel  string    `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	// Storage selects the repository backend: "postgres" or "memory"
	Storage   string    `yaml:"storage" env:"STORAGE" env-default:"postgres"`
	Database  Database  `yaml:"database"`
	Cache     Cache     `yaml:"cache"`
	Redis     Redis     `yaml:"redis"`
	Kafka     Kafka     `yaml:"kafka"`
	Worker    Worker    `yaml:"worker"`
	RateLimit RateLimit `yaml:"rate_limit"`
}

type Database struct {
	User         string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password     string `yaml:"password" env:"DB_PASSWORD" env-default:"password"`
	DatabaseName string `yaml:"database_name" env:"DB_NAME" env-default:"cinema"`
	Host         string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port         string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	SSLMode      string `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`

	// Connection Pool Settings
	MaxOpenConns    int `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	ConnMaxLifetime int `yaml:"conn_max_lifetime_minutes" env:"DB_CONN_MAX_LIFETIME" env-default:"30"`
}

// GetDatabaseURL constructs the PostgreSQL connection string
func (d *Database) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DatabaseName, d.SSLMode)
}

// Cache configures the in-process object cache.
type Cache struct {
	MaxSize   int   `yaml:"max_size" env:"CACHE_MAX_SIZE" env-default:"100"`
	TTLMillis int64 `yaml:"ttl_ms" env:"CACHE_TTL_MS" env-default:"600000"`
}

func (c *Cache) TTL() time.Duration {
	return time.Duration(c.TTLMillis) * time.Millisecond
}

type Redis struct {
	Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// GetRedisURL constructs the Redis connection string
func (r *Redis) GetRedisURL() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

type Kafka struct {
	Enabled           bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers           []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092" env-separator:","`
	NotificationTopic string   `yaml:"notification_topic" env:"KAFKA_NOTIFICATION_TOPIC" env-default:"ticket-notifications"`
	ConsumerGroup     string   `yaml:"consumer_group" env:"KAFKA_CONSUMER_GROUP" env-default:"cinema-notifications"`
}

type Worker struct {
	MaxWorkers int `yaml:"max_workers" env:"WORKER_MAX_WORKERS" env-default:"10"`
}

// RateLimit throttles login and purchase per client IP. A non-positive
// RequestsPerSecond turns it off.
type RateLimit struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"RATE_LIMIT_RPS" env-default:"5"`
	Burst             int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"10"`
}

func Initialise(configPath string, useEnv bool) (*Config, error) {
	cfg := &Config{}

	if useEnv {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment variables: %w", err)
		}
		return cfg, nil
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
			return cfg, nil
		}
	}

	// Fallback to environment variables
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}

	return cfg, nil
}
