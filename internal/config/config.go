package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Memory   MemoryConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	EventLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	CheckpointBackend  string // "memory", "redis" or "none"
	MarketLocation     string
	CheckpointTTL      time.Duration
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider       string // "ollama", "anthropic", "openai", "huggingface"
	LLMModel          string
	LLMTimeout        time.Duration
	AnthropicAPIKey   string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	HuggingFaceAPIKey string
	OllamaBaseURL     string

	EmbeddingProvider  string // "ollama" or "voyage"
	EmbeddingModel     string
	EmbeddingTimeout   time.Duration
	EmbeddingCacheSize int
	VoyageAPIKey       string
	VoyageBaseURL      string
}

// MemoryConfig holds the retrieval and importance knobs of the long-term memory.
type MemoryConfig struct {
	SimilarityThreshold     float64
	TopK                    int
	HighImportanceThreshold float64
	FeedbackWindow          time.Duration

	UserMessageImportance float64
	AgentReplyImportance  float64
	ActionImportance      float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			EventLogFilePath:   getEnv("EVENT_LOG_FILE_PATH", "logs/events.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			CheckpointBackend:  strings.ToLower(getEnv("CHECKPOINT_BACKEND", "memory")),
			MarketLocation:     getEnv("MARKET_LOCATION", "Remote"),
			CheckpointTTL:      getEnvAsDuration("CHECKPOINT_TTL", 24*time.Hour),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:       strings.ToLower(getEnv("LLM_PROVIDER", "anthropic")),
			LLMModel:          getEnv("LLM_MODEL", "claude-sonnet-4-5"),
			LLMTimeout:        getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
			AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
			OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
			HuggingFaceAPIKey: getEnv("HUGGINGFACE_API_KEY", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),

			EmbeddingProvider:  strings.ToLower(getEnv("EMBEDDING_PROVIDER", "voyage")),
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", "voyage-3"),
			EmbeddingTimeout:   getEnvAsDuration("EMBEDDING_TIMEOUT", 10*time.Second),
			EmbeddingCacheSize: getEnvAsInt("EMBEDDING_CACHE_SIZE", 10000),
			VoyageAPIKey:       getEnv("VOYAGE_API_KEY", ""),
			VoyageBaseURL:      getEnv("VOYAGE_BASE_URL", "https://api.voyageai.com/v1"),
		},
		Memory: MemoryConfig{
			SimilarityThreshold:     getEnvAsFloat("MEMORY_SIMILARITY_THRESHOLD", 0.7),
			TopK:                    getEnvAsInt("MEMORY_TOP_K", 5),
			HighImportanceThreshold: getEnvAsFloat("MEMORY_HIGH_IMPORTANCE_THRESHOLD", 0.7),
			FeedbackWindow:          time.Duration(getEnvAsInt("MEMORY_FEEDBACK_WINDOW_DAYS", 30)) * 24 * time.Hour,

			UserMessageImportance: getEnvAsFloat("MEMORY_USER_MESSAGE_IMPORTANCE", 0.5),
			AgentReplyImportance:  getEnvAsFloat("MEMORY_AGENT_REPLY_IMPORTANCE", 0.3),
			ActionImportance:      getEnvAsFloat("MEMORY_ACTION_IMPORTANCE", 0.8),
		},
	}
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
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
