package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	Workers     int
	SourceRoot  string
	LLM         LLMConfig
	Analysis    AnalysisStoreConfig
}

type LLMConfig struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	RPS         int
	Burst       int
	MaxRetries  int
	PromptExtra string
}

type AnalysisStoreConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8080", "server port")
	sourceRoot := flag.String("source", "", "source tree to scan for endpoint declarations")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	root := firstNonEmpty(strings.TrimSpace(*sourceRoot), strings.TrimSpace(os.Getenv("SOURCE_ROOT")))

	return &Config{
		Port:        *port,
		Env:         env,
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Workers:     intFromEnv("ANALYSIS_WORKERS", 0),
		SourceRoot:  root,
		LLM:         loadLLMConfig(),
		Analysis:    loadAnalysisStoreConfig(env),
	}, nil
}

func loadLLMConfig() LLMConfig {
	return LLMConfig{
		Provider:    firstNonEmpty(strings.TrimSpace(os.Getenv("LLM_PROVIDER")), "fake"),
		Model:       firstNonEmpty(strings.TrimSpace(os.Getenv("LLM_MODEL")), "gemini-2.0-flash"),
		BaseURL:     strings.TrimSpace(os.Getenv("LLM_BASE_URL")),
		APIKey:      strings.TrimSpace(os.Getenv("LLM_API_KEY")),
		RPS:         intFromEnv("LLM_RPS", 2),
		Burst:       intFromEnv("LLM_BURST", 4),
		MaxRetries:  intFromEnv("LLM_MAX_RETRIES", 3),
		PromptExtra: strings.TrimSpace(os.Getenv("LLM_PROMPT_EXTRA")),
	}
}

func loadAnalysisStoreConfig(env string) AnalysisStoreConfig {
	endpoint := resolveAnalysisEndpoint(env)
	return AnalysisStoreConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ANALYSIS_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ANALYSIS_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ANALYSIS_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ANALYSIS_S3_BUCKET")), "analysis-results"),
		UseSSL:    resolveAnalysisUseSSL(env),
	}
}

func resolveAnalysisEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return strings.TrimSpace(os.Getenv("ANALYSIS_MINIO_ENDPOINT"))
	}
	return strings.TrimSpace(os.Getenv("ANALYSIS_S3_ENDPOINT"))
}

func resolveAnalysisUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("ANALYSIS_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func intFromEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
