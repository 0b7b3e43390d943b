package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"MedlyChatbot/internal/api/chat"
)

const (
	KnowledgeBuiltin  = "builtin"
	KnowledgeFile     = "file"
	KnowledgeS3       = "s3"
	KnowledgePostgres = "postgres"

	SessionMemory = "memory"
	SessionRedis  = "redis"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	FormatRich   = chat.FormatRich
	FormatSimple = chat.FormatSimple
)

type Env struct {
	AppEnv   string
	AppPort  string
	LogLevel string

	CORSOrigins    []string
	ResponseFormat string
	RateLimit      float64
	RateBurst      int

	UseRealAI   bool
	LLMProvider string
	LLMTimeout  time.Duration

	KnowledgeSource   string
	KnowledgeFile     string
	KnowledgeS3Bucket string
	KnowledgeS3Key    string

	FuzzyThreshold float64
	MinScore       int

	SessionStore       string
	SessionTTL         time.Duration
	SessionTokenSecret string
}

// LoadEnv reads the process environment. Call godotenv.Load first if a .env
// file should be honoured.
func LoadEnv() (Env, error) {
	env := Env{
		AppEnv:             getenv("APP_ENV", "development"),
		AppPort:            getenv("APP_PORT", "9292"),
		LogLevel:           getenv("LOG_LEVEL", "debug"),
		CORSOrigins:        splitList(getenv("CORS_ORIGINS", "https://mymedly.in,http://localhost:3000")),
		ResponseFormat:     strings.ToLower(getenv("RESPONSE_FORMAT", FormatRich)),
		LLMProvider:        strings.ToLower(getenv("LLM_PROVIDER", ProviderGemini)),
		KnowledgeSource:    strings.ToLower(getenv("KNOWLEDGE_SOURCE", "")),
		KnowledgeFile:      os.Getenv("KNOWLEDGE_FILE"),
		KnowledgeS3Bucket:  os.Getenv("KNOWLEDGE_S3_BUCKET"),
		KnowledgeS3Key:     os.Getenv("KNOWLEDGE_S3_KEY"),
		SessionStore:       strings.ToLower(getenv("SESSION_STORE", SessionMemory)),
		SessionTokenSecret: os.Getenv("SESSION_TOKEN_SECRET"),
	}

	var err error
	if env.UseRealAI, err = parseBool("USE_REAL_AI", false); err != nil {
		return Env{}, err
	}
	if env.LLMTimeout, err = parseDuration("LLM_TIMEOUT", 5*time.Second); err != nil {
		return Env{}, err
	}
	if env.SessionTTL, err = parseDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return Env{}, err
	}
	if env.FuzzyThreshold, err = parseFloat("MATCH_FUZZY_THRESHOLD", 0.80); err != nil {
		return Env{}, err
	}
	if env.MinScore, err = parseInt("MATCH_MIN_SCORE", 8); err != nil {
		return Env{}, err
	}
	if env.RateLimit, err = parseFloat("RATE_LIMIT_RPS", 5); err != nil {
		return Env{}, err
	}
	if env.RateBurst, err = parseInt("RATE_LIMIT_BURST", 20); err != nil {
		return Env{}, err
	}

	if env.KnowledgeSource == "" {
		env.KnowledgeSource = inferKnowledgeSource(env)
	}

	if err := env.Validate(); err != nil {
		return Env{}, err
	}
	return env, nil
}

func (e Env) Validate() error {
	if _, err := strconv.Atoi(e.AppPort); err != nil {
		return fmt.Errorf("APP_PORT must be numeric, got %q", e.AppPort)
	}
	if e.ResponseFormat != FormatRich && e.ResponseFormat != FormatSimple {
		return fmt.Errorf("RESPONSE_FORMAT must be %q or %q", FormatRich, FormatSimple)
	}
	if e.UseRealAI && e.LLMProvider != ProviderGemini && e.LLMProvider != ProviderOpenAI {
		return fmt.Errorf("LLM_PROVIDER must be %q or %q", ProviderGemini, ProviderOpenAI)
	}
	if e.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be > 0")
	}
	if e.FuzzyThreshold <= 0 || e.FuzzyThreshold > 1 {
		return fmt.Errorf("MATCH_FUZZY_THRESHOLD must be in (0,1]")
	}
	if e.MinScore < 0 {
		return fmt.Errorf("MATCH_MIN_SCORE must be >= 0")
	}
	if e.RateLimit <= 0 || e.RateBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_RPS must be > 0 and RATE_LIMIT_BURST >= 1")
	}

	switch e.KnowledgeSource {
	case KnowledgeBuiltin, KnowledgePostgres:
	case KnowledgeFile:
		if e.KnowledgeFile == "" {
			return fmt.Errorf("KNOWLEDGE_FILE is required for the file source")
		}
	case KnowledgeS3:
		if e.KnowledgeS3Bucket == "" || e.KnowledgeS3Key == "" {
			return fmt.Errorf("KNOWLEDGE_S3_BUCKET and KNOWLEDGE_S3_KEY are required for the s3 source")
		}
	default:
		return fmt.Errorf("unknown KNOWLEDGE_SOURCE %q", e.KnowledgeSource)
	}

	switch e.SessionStore {
	case SessionMemory, SessionRedis:
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", e.SessionStore)
	}

	return nil
}

func inferKnowledgeSource(e Env) string {
	switch {
	case e.KnowledgeFile != "":
		return KnowledgeFile
	case e.KnowledgeS3Bucket != "" && e.KnowledgeS3Key != "":
		return KnowledgeS3
	default:
		return KnowledgeBuiltin
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func parseFloat(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func parseInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
