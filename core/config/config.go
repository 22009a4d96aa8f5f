package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	OTel        OTelConfig
	Queue       QueueConfig
	OpenAI      OpenAIConfig
	TutorLLM    LLMConfig
	Typesense   TypesenseConfig
	Corpus      CorpusConfig
	Chunking    ChunkingConfig
	Env         string
	Port        string
	AdminAPIKey string
	DataDir     string
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type QueueConfig struct {
	RedisURL       string
	RedisStream    string
	RedisGroup     string
	RedisDLQStream string
	RedisConsumer  string
}

// OpenAIConfig configures the embedding API. Chat completions are
// configured separately via TutorLLM so the two can point at different
// providers.
type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	EmbeddingModel string
}

type LLMConfig struct {
	Provider  string // "openai" or "anthropic"
	APIKey    string
	BaseURL   string // Optional: for custom endpoints
	Model     string
	MaxTokens int
}

type TypesenseConfig struct {
	URL    string
	APIKey string
}

type CorpusConfig struct {
	SourceDir string // directory holding the source PDFs
	ImageDir  string // extracted page images land here; empty disables image extraction
}

type ChunkingConfig struct {
	TargetSize int
	Overlap    int
	MaxSize    int
}

type ServiceType string

const (
	ServiceTypeServer ServiceType = "server"
	ServiceTypeWorker ServiceType = "worker"
)

// Load loads configuration from environment variables.
// In development, it loads from service-specific .env files:
//   - .env.server for the API server
//   - .env.worker for the ingestion worker
//
// Falls back to .env if service-specific file doesn't exist.
func Load(serviceType ServiceType) (Config, error) {
	if getEnv("TUTOR_ENV", "development") == "development" {
		// Try service-specific env file first, fall back to .env
		envFile := fmt.Sprintf(".env.%s", serviceType)
		if err := godotenv.Load(envFile); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	cfg := Config{
		Env:         getEnv("TUTOR_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
		DataDir:     getEnv("TUTOR_DATA_DIR", "data"),
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "togaf-tutor"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		Queue: QueueConfig{
			RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
			RedisStream:    getEnv("REDIS_STREAM", "tutor_ingest"),
			RedisGroup:     getEnv("REDIS_CONSUMER_GROUP", "tutor_ingest_group"),
			RedisDLQStream: getEnv("REDIS_DLQ_STREAM", "tutor_ingest_dlq"),
			RedisConsumer:  getEnv("REDIS_CONSUMER_NAME", "tutor-"+string(serviceType)),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			BaseURL:        getEnv("OPENAI_BASE_URL", ""),
			EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		},
		TutorLLM: LLMConfig{
			Provider:  getEnv("TUTOR_LLM_PROVIDER", "openai"),
			APIKey:    getEnv("TUTOR_LLM_API_KEY", getEnv("OPENAI_API_KEY", "")),
			BaseURL:   getEnv("TUTOR_LLM_BASE_URL", ""),
			Model:     getEnv("TUTOR_LLM_MODEL", "gpt-4o-mini"),
			MaxTokens: getEnvInt("TUTOR_LLM_MAX_TOKENS", 1000),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", ""),
			APIKey: getEnv("TYPESENSE_API_KEY", ""),
		},
		Corpus: CorpusConfig{
			SourceDir: getEnv("CORPUS_SOURCE_DIR", "corpus"),
			ImageDir:  getEnv("CORPUS_IMAGE_DIR", ""),
		},
		Chunking: ChunkingConfig{
			TargetSize: getEnvInt("CHUNK_TARGET_SIZE", 0),
			Overlap:    getEnvInt("CHUNK_OVERLAP", 0),
			MaxSize:    getEnvInt("CHUNK_MAX_SIZE", 0),
		},
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c OpenAIConfig) Enabled() bool {
	return c.APIKey != ""
}

func (c LLMConfig) Enabled() bool {
	return c.APIKey != "" && (c.Provider == "openai" || c.Provider == "anthropic")
}

func (c TypesenseConfig) Enabled() bool {
	return c.URL != "" && c.APIKey != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
