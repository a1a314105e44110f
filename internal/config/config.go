package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type SurveyServiceConfig struct {
	Port        string
	APIKey      string
	PostgresCfg PostgresConfig
	RabbitMQCfg RabbitMQConfig
	RedisCfg    RedisConfig
	MinioCfg    MinioConfig
	LogCfg      LogConfig
	CacheCfg    CacheConfig
	ExportCfg   ExportConfig
}

type MinioConfig struct {
	MinioURL       string
	MinioAccessKey string
	MinioSecretKey string
	MinioLocation  string
	MinioSecure    string
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type LogConfig struct {
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type CacheConfig struct {
	RedisTTL   time.Duration
	LocalTTL   time.Duration
	LocalPurge time.Duration
}

type ExportConfig struct {
	CronSpec      string
	Workers       int
	QueueSize     int
	PresignExpiry time.Duration
}

// New reads the service configuration from the environment. A .env file in
// the working directory is loaded first when present.
func New() *SurveyServiceConfig {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env file: %v", err)
	}

	return &SurveyServiceConfig{
		Port:   getEnvOrDefault("PORT", "8087"),
		APIKey: getEnvOrDefault("API_KEY", ""),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "survey_service"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		MinioCfg: MinioConfig{
			MinioURL:       getEnvOrDefault("MINIO_ENDPOINT", "http://localhost:9407"),
			MinioAccessKey: getEnvOrDefault("MINIO_ACCESS_KEY", "minio"),
			MinioSecretKey: getEnvOrDefault("MINIO_SECRET_KEY", "minio123"),
			MinioLocation:  getEnvOrDefault("MINIO_LOCATION", "us-east-1"),
			MinioSecure:    getEnvOrDefault("MINIO_SECURE", "false"),
		},
		LogCfg: LogConfig{
			Dir:        getEnvOrDefault("LOG_DIR", "/survey/log/survey_service"),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 7),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 30),
			Compress:   getEnvAsBool("LOG_COMPRESS", true),
		},
		CacheCfg: CacheConfig{
			RedisTTL:   getEnvAsDuration("CACHE_REDIS_TTL", 10*time.Minute),
			LocalTTL:   getEnvAsDuration("CACHE_LOCAL_TTL", time.Minute),
			LocalPurge: getEnvAsDuration("CACHE_LOCAL_PURGE", 5*time.Minute),
		},
		ExportCfg: ExportConfig{
			CronSpec:      getEnvOrDefault("EXPORT_CRON", "@daily"),
			Workers:       getEnvAsInt("EXPORT_WORKERS", 2),
			QueueSize:     getEnvAsInt("EXPORT_QUEUE_SIZE", 32),
			PresignExpiry: getEnvAsDuration("EXPORT_URL_EXPIRY", 24*time.Hour),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid integer for %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("invalid boolean for %s=%q, using %t", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("invalid duration for %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
