package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Upload    UploadConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Archive   ArchiveConfig
	Pickup    PickupConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type AuthConfig struct {
	MasterKey string
}

type UploadConfig struct {
	Dir       string
	StaticDir string
	MaxBytes  int64
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
	DedupTTL time.Duration
}

type KafkaConfig struct {
	Brokers      []string
	Enabled      bool
	CreateTopics bool
	Topics       TopicConfig
}

type TopicConfig struct {
	ReservationEvents string
}

type ArchiveConfig struct {
	Path string
}

type PickupConfig struct {
	QRSecret string
}

type RateLimitConfig struct {
	OrdersPerSecond float64
	Burst           int
}

type LogConfig struct {
	Dir   string
	Level string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", ":5000"),
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
			AllowedOrigins:  getEnvList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Auth: AuthConfig{
			MasterKey: getEnv("MASTER_KEY", "chlalsrlWKd"),
		},
		Upload: UploadConfig{
			Dir:       getEnv("UPLOAD_DIR", "uploads"),
			StaticDir: getEnv("STATIC_DIR", "web"),
			MaxBytes:  int64(getEnvInt("UPLOAD_MAX_MB", 10)) << 20,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			DedupTTL: time.Duration(getEnvInt("ORDER_DEDUP_TTL_SECONDS", 10)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:      getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Enabled:      getEnvBool("KAFKA_ENABLED", false),
			CreateTopics: getEnvBool("KAFKA_CREATE_TOPICS", true),
			Topics: TopicConfig{
				ReservationEvents: getEnv("KAFKA_TOPIC_RESERVATIONS", "booth-reservations"),
			},
		},
		Archive: ArchiveConfig{
			Path: getEnv("ARCHIVE_PATH", ""),
		},
		Pickup: PickupConfig{
			QRSecret: getEnv("PICKUP_QR_SECRET", ""),
		},
		RateLimit: RateLimitConfig{
			OrdersPerSecond: getEnvFloat("ORDER_RATE_PER_SECOND", 20),
			Burst:           getEnvInt("ORDER_RATE_BURST", 40),
		},
		Log: LogConfig{
			Dir:   getEnv("LOG_DIR", "logs"),
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
