package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Similarity metric conventions supported by the relevance gate. Both appear in
// the system's history; the pair (metric, threshold) must always be configured
// together and is never hard-coded in the gate itself.
const (
	// MetricCosineNormalized converts a cosine distance d in [0,2] to a
	// similarity 1 - d/2 and retains matches with similarity >= threshold.
	MetricCosineNormalized = "cosine-normalized"

	// MetricRawDistance compares the raw distance directly and retains
	// matches with d < threshold.
	MetricRawDistance = "raw-distance"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Retrieval     RetrievalConfig
	Backends      BackendsConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration for the conversation store.
// When ConnectionString (from DATABASE_URL) is set, it takes precedence over
// the individual fields.
type DatabaseConfig struct {
	ConnectionString string
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// RetrievalConfig holds vector-store and relevance-gate configuration.
type RetrievalConfig struct {
	ChromaURL           string
	Collection          string
	TopK                int
	SimilarityMetric    string
	SimilarityThreshold float64
}

// BackendsConfig holds the generation backends, in cascade priority order.
type BackendsConfig struct {
	OpenAI      BackendConfig
	Groq        BackendConfig
	HuggingFace BackendConfig
	Ollama      BackendConfig
}

// BackendConfig holds one generation backend's settings.
type BackendConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or text
}

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	// Load .env if present (repo root or current directory)
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 5000),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 5*time.Minute),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: loadDatabaseConfig(),
		Retrieval: RetrievalConfig{
			ChromaURL:           getEnv("CHROMA_URL", "http://localhost:8000"),
			Collection:          getEnv("CHROMA_COLLECTION", "lois_maroc"),
			TopK:                getEnvAsInt("RETRIEVAL_TOP_K", 3),
			SimilarityMetric:    getEnv("RETRIEVAL_SIMILARITY_METRIC", MetricCosineNormalized),
			SimilarityThreshold: getEnvAsFloat("RETRIEVAL_SIMILARITY_THRESHOLD", 0.3),
		},
		Backends: BackendsConfig{
			OpenAI: BackendConfig{
				APIKey:      getEnv("OPENAI_API_KEY", ""),
				BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
				Model:       getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
				Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 60*time.Second),
				Temperature: getEnvAsFloat("OPENAI_TEMPERATURE", 0.7),
				MaxTokens:   getEnvAsInt("OPENAI_MAX_TOKENS", 400),
			},
			Groq: BackendConfig{
				APIKey:      getEnv("GROQ_API_KEY", ""),
				BaseURL:     getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
				Model:       getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
				Timeout:     getEnvAsDuration("GROQ_TIMEOUT", 60*time.Second),
				Temperature: getEnvAsFloat("GROQ_TEMPERATURE", 0.7),
				MaxTokens:   getEnvAsInt("GROQ_MAX_TOKENS", 400),
			},
			HuggingFace: BackendConfig{
				APIKey:      getEnv("HF_TOKEN", ""),
				BaseURL:     getEnv("HF_BASE_URL", "https://api-inference.huggingface.co"),
				Model:       getEnv("HF_MODEL", "mistralai/Mistral-7B-Instruct-v0.2"),
				Timeout:     getEnvAsDuration("HF_TIMEOUT", 25*time.Second),
				Temperature: getEnvAsFloat("HF_TEMPERATURE", 0.7),
				MaxTokens:   getEnvAsInt("HF_MAX_TOKENS", 300),
			},
			Ollama: BackendConfig{
				BaseURL:     getEnv("OLLAMA_BASE_URL", ""),
				Model:       getEnv("OLLAMA_MODEL", "llama3.2"),
				Timeout:     getEnvAsDuration("OLLAMA_TIMEOUT", 5*time.Minute),
				Temperature: getEnvAsFloat("OLLAMA_TEMPERATURE", 0.7),
				MaxTokens:   getEnvAsInt("OLLAMA_MAX_TOKENS", 400),
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.Database.ConnectionString == "" && c.Database.Host == "" {
		return fmt.Errorf("database configuration required: set DATABASE_URL or DB_HOST")
	}
	if c.Database.ConnectionString == "" {
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
	}

	if c.Retrieval.ChromaURL == "" {
		return fmt.Errorf("vector store URL is required")
	}
	if c.Retrieval.Collection == "" {
		return fmt.Errorf("collection name is required")
	}
	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("retrieval top-k must be at least 1")
	}
	switch c.Retrieval.SimilarityMetric {
	case MetricCosineNormalized, MetricRawDistance:
	default:
		return fmt.Errorf("unknown similarity metric %q (want %q or %q)",
			c.Retrieval.SimilarityMetric, MetricCosineNormalized, MetricRawDistance)
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// DSN returns the PostgreSQL connection string.
// Uses ConnectionString (from DATABASE_URL) when set; otherwise builds from individual fields.
func (c *DatabaseConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// LogString returns a safe string for logging (no password). Parses ConnectionString when set.
func (c *DatabaseConfig) LogString() string {
	if c.ConnectionString != "" {
		u, err := url.Parse(c.ConnectionString)
		if err == nil {
			host := u.Hostname()
			port := u.Port()
			if port == "" {
				port = "5432"
			}
			db := strings.TrimPrefix(u.Path, "/")
			return fmt.Sprintf("host=%s port=%s database=%s", host, port, db)
		}
		return "host=<from DATABASE_URL>"
	}
	return fmt.Sprintf("host=%s port=%d database=%s", c.Host, c.Port, c.Database)
}

func loadDatabaseConfig() DatabaseConfig {
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL != "" {
		return DatabaseConfig{
			ConnectionString: dbURL,
			MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		}
	}
	return DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvAsInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "assistant"),
		Password:        getEnv("DB_PASSWORD", ""),
		Database:        getEnv("DB_NAME", "assistant_juridique"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
