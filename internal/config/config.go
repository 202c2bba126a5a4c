package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Dataset  DatasetConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	LLM      LLMConfig
	Auth     AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// DatasetConfig selects and tunes the ticket dataset source.
type DatasetConfig struct {
	Source        string // "csv" or "postgres"
	CSVPath       string
	ReloadSeconds int // 0 disables background reloads
}

// PostgresConfig holds DB connection values for the postgres dataset source.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values for the answer cache.
type RedisConfig struct {
	Addr             string
	Password         string
	DB               int
	AnswerTTLMinutes int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// LLMConfig configures the narration model. Analytics never depend on
// these values; they only reach the agent layer.
type LLMConfig struct {
	AnthropicAPIKey string
	AnthropicModel  string
	MaxTokens       int
}

// AuthConfig defines service-token authentication parameters. An empty
// JWTSecret disables authentication entirely.
type AuthConfig struct {
	JWTSecret       string
	TokenTTLMinutes int
	IssueKey        string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	source := getEnv("DATASET_SOURCE", "csv")
	if source != "csv" && source != "postgres" {
		return nil, fmt.Errorf("invalid DATASET_SOURCE: %q", source)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "sprint-summary-chatbot"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Dataset: DatasetConfig{
			Source:        source,
			CSVPath:       getEnv("DATASET_CSV_PATH", "sprint_tickets.csv"),
			ReloadSeconds: getEnvAsInt("DATASET_RELOAD_SECONDS", 0),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:             getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:         os.Getenv("REDIS_PASSWORD"),
			DB:               redisDB,
			AnswerTTLMinutes: getEnvAsInt("REDIS_ANSWER_TTL_MINUTES", 30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		LLM: LLMConfig{
			AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
			AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
			MaxTokens:       getEnvAsInt("LLM_MAX_TOKENS", 1024),
		},
		Auth: AuthConfig{
			JWTSecret:       os.Getenv("AUTH_JWT_SECRET"),
			TokenTTLMinutes: getEnvAsInt("AUTH_TOKEN_TTL_MINUTES", 60),
			IssueKey:        os.Getenv("AUTH_ISSUE_KEY"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ReloadInterval returns the dataset reload period, zero when disabled.
func (d DatasetConfig) ReloadInterval() time.Duration {
	if d.ReloadSeconds <= 0 {
		return 0
	}
	return time.Duration(d.ReloadSeconds) * time.Second
}

// AnswerTTL returns the cache expiry for narrated answers.
func (r RedisConfig) AnswerTTL() time.Duration {
	if r.AnswerTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(r.AnswerTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
