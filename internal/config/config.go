package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Notes     NotesConfig
	Ai        AIConfig
	Retrieval RetrievalConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

type DatabaseConfig struct {
	Driver     string // "sqlite" or "postgres"
	Connection string
}

type SessionConfig struct {
	Store string // "memory" or "redis"
	TTL   time.Duration
}

type NotesConfig struct {
	Dir          string
	ArchiveTopic string
}

type AIConfig struct {
	LLMProvider   string // "gemini", "ollama" or "openai"
	LLMModel      string
	GoogleAPIKey  string
	OllamaBaseURL string
	OpenAIBaseURL string
	OpenAIAPIKey  string
	MinInterval   time.Duration
}

type RetrievalConfig struct {
	ChunkMaxChars int
	ChunkOverlap  int
	TopK          int
}

type TelemetryConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	SampleRatio float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.json"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", "change-me"),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "sqlite"),
			Connection: getEnv("DB_CONNECTION_STRING", "study.db"),
		},
		Session: SessionConfig{
			Store: getEnv("SESSION_STORE", "memory"),
			TTL:   getEnvAsDuration("SESSION_TTL", time.Hour),
		},
		Notes: NotesConfig{
			Dir:          getEnv("NOTES_DIR", "notes"),
			ArchiveTopic: getEnv("NOTES_ARCHIVE_TOPIC", "NOTES_UPLOADED"),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:      getEnv("LLM_MODEL", "gemini-2.5-flash"),
			GoogleAPIKey:  getEnv("GOOGLE_API_KEY", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			MinInterval:   getEnvAsDuration("LLM_MIN_INTERVAL", 2*time.Second),
		},
		Retrieval: RetrievalConfig{
			ChunkMaxChars: getEnvAsInt("CHUNK_MAX_CHARS", 8000),
			ChunkOverlap:  getEnvAsInt("CHUNK_OVERLAP", 300),
			TopK:          getEnvAsInt("RETRIEVAL_TOP_K", 3),
		},
		Telemetry: TelemetryConfig{
			Enabled:     getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "study-assistant-backend"),
			SampleRatio: getEnvAsFloat("OTEL_SAMPLE_RATIO", 1),
		},
	}
}

// Validate reports settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	r := c.Retrieval
	if r.ChunkMaxChars <= 0 || r.ChunkOverlap < 0 || r.ChunkOverlap >= r.ChunkMaxChars {
		errs = append(errs, fmt.Errorf("invalid chunk window: max=%d overlap=%d", r.ChunkMaxChars, r.ChunkOverlap))
	}
	if r.TopK <= 0 {
		errs = append(errs, fmt.Errorf("RETRIEVAL_TOP_K must be positive, got %d", r.TopK))
	}

	switch c.Ai.LLMProvider {
	case "gemini", "":
		if c.Ai.GoogleAPIKey == "" {
			errs = append(errs, errors.New("GOOGLE_API_KEY is required for the gemini provider"))
		}
	case "openai":
		if c.Ai.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai provider"))
		}
	case "ollama":
	default:
		errs = append(errs, fmt.Errorf("unsupported LLM_PROVIDER %q", c.Ai.LLMProvider))
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver))
	}

	switch c.Session.Store {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("unsupported SESSION_STORE %q", c.Session.Store))
	}

	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
