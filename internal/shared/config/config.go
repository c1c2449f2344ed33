package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultLLMModelAnthropic = "claude-3-5-sonnet-20241022"
	defaultLLMModelOpenAI    = "gpt-4o-mini"
	defaultLLMMaxTokens      = 4096
	defaultLLMTimeout        = 120 * time.Second
	defaultMaxUploadBytes    = 10 << 20 // 10MB
)

// Config holds application configuration.
type Config struct {
	Port              string
	Env               string
	CORSAllowOrigin   []string
	DatabaseURL       string
	ObjectStoreType   string
	LocalStoreDir     string
	AWSRegion         string
	S3Bucket          string
	S3Prefix          string
	SSEKMSKeyID       string
	LLMProvider       string
	LLMModel          string
	LLMAPIKey         string
	LLMBaseURL        string
	LLMMaxTokens      int
	LLMTimeout        time.Duration
	AllowedExtensions []string
	MaxUploadBytes    int64
	LogFile           string
	LogLevel          string
	CatalogFile       string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	provider := normalizeProvider(getEnv("LLM_PROVIDER", "anthropic"))

	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		Env:               env,
		CORSAllowOrigin:   splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		ObjectStoreType:   normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:     getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:         getEnv("AWS_REGION", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Prefix:          getEnv("S3_PREFIX", "attachments/"),
		SSEKMSKeyID:       getEnv("SSE_KMS_KEY_ID", ""),
		LLMProvider:       provider,
		LLMModel:          getEnv("LLM_MODEL", defaultModel(provider)),
		LLMAPIKey:         apiKeyFor(provider),
		LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
		LLMMaxTokens:      getEnvInt("LLM_MAX_TOKENS", defaultLLMMaxTokens),
		LLMTimeout:        time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", int(defaultLLMTimeout/time.Second))) * time.Second,
		AllowedExtensions: normalizeExtensions(splitAndTrim(getEnv("ALLOWED_EXTENSIONS", "txt,docx,pdf"))),
		MaxUploadBytes:    int64(getEnvInt("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
		LogFile:           getEnv("LOG_FILE", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CatalogFile:       getEnv("CATALOG_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		log.Printf("config: %v", err)
	}
	return cfg
}

// Validate reports configuration problems that make the process unusable.
func (c Config) Validate() error {
	if c.Env == "production" && strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required in production")
	}
	if c.ObjectStoreType == "s3" && strings.TrimSpace(c.S3Bucket) == "" {
		return fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
	}
	if c.LLMProvider != "none" && strings.TrimSpace(c.LLMAPIKey) == "" {
		return fmt.Errorf("LLM_PROVIDER=%s requires an API key", c.LLMProvider)
	}
	if c.LLMMaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive")
	}
	return nil
}

// IsDevLike reports whether in-memory fallbacks are acceptable.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config: invalid %s=%q, using default %d", key, raw, def)
		return def
	}
	return val
}

func apiKeyFor(provider string) string {
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		return key
	}
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("CLAUDE_API_KEY")
	default:
		return ""
	}
}

func defaultModel(provider string) string {
	if provider == "openai" {
		return defaultLLMModelOpenAI
	}
	return defaultLLMModelAnthropic
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "none", "placeholder", "":
		return "none"
	default:
		return "anthropic"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
