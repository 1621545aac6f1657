package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит все настройки Canteen Service
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	JWT        JWTConfig
	Classifier ClassifierConfig
	Scheduler  SchedulerConfig
	Log        LogConfig
}

type ServerConfig struct {
	Host string
	Port string
}

// DatabaseConfig - PostgreSQL, общий пул для pgx и gorm
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// RedisConfig - кеш ответов сервиса распознавания
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// KafkaConfig - события об отзывах и каталоге
type KafkaConfig struct {
	Brokers      []string
	ReviewTopic  string // REVIEW_CREATED, REVIEW_UPDATED, REVIEW_DELETED
	CatalogTopic string // ITEM_CREATED, ITEM_UPDATED, ITEM_DELETED
}

// JWTConfig - секрет для проверки токенов, которые выпускает внешний auth сервис
type JWTConfig struct {
	Secret string
}

// ClassifierConfig - внешний сервис распознавания блюда по фото
type ClassifierConfig struct {
	URL           string
	Timeout       time.Duration
	CacheTTL      time.Duration
	MaxImageBytes int64
}

type SchedulerConfig struct {
	PoolStatsSchedule string // cron выражение
}

type LogConfig struct {
	Level        string
	LogstashAddr string
}

// Load загружает конфигурацию из окружения.
// Файл .env необязателен: в контейнере переменные приходят снаружи
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, err
	}
	if minConns > maxConns {
		return nil, fmt.Errorf("DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)", minConns, maxConns)
	}
	classifierTimeout, err := getEnvDuration("CLASSIFIER_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvDuration("CLASSIFIER_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	maxImageBytes, err := getEnvInt("CLASSIFIER_MAX_IMAGE_BYTES", 16<<20)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "canteen_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(maxConns),
			MinConns: int32(minConns),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			ReviewTopic:  getEnv("KAFKA_REVIEW_TOPIC", "review_events"),
			CatalogTopic: getEnv("KAFKA_CATALOG_TOPIC", "catalog_events"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
		Classifier: ClassifierConfig{
			URL:           getEnv("CLASSIFIER_URL", "http://localhost:5001"),
			Timeout:       classifierTimeout,
			CacheTTL:      cacheTTL,
			MaxImageBytes: int64(maxImageBytes),
		},
		Scheduler: SchedulerConfig{
			PoolStatsSchedule: getEnv("POOL_STATS_SCHEDULE", "@every 15s"),
		},
		Log: LogConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			LogstashAddr: getEnv("LOGSTASH_ADDR", ""),
		},
	}, nil
}

// ConnString возвращает строку подключения в URL формате для pgxpool
func (c *DatabaseConfig) ConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// DSN возвращает строку подключения в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

// splitList разбирает "host1:9092, host2:9092"
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
