package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFirstNonEmpty(t *testing.T) {
	require.Equal(t, "b", firstNonEmpty("", "  ", "b", "c"))
	require.Equal(t, "", firstNonEmpty("", "   "))
}

func TestIntFromEnv(t *testing.T) {
	t.Setenv("ANALYSIS_WORKERS", "8")
	require.Equal(t, 8, intFromEnv("ANALYSIS_WORKERS", 4))

	t.Setenv("ANALYSIS_WORKERS", "not-a-number")
	require.Equal(t, 4, intFromEnv("ANALYSIS_WORKERS", 4))

	t.Setenv("ANALYSIS_WORKERS", "")
	require.Equal(t, 4, intFromEnv("ANALYSIS_WORKERS", 4))
}

func TestLLMConfigDefaults(t *testing.T) {
	for _, key := range []string{"LLM_PROVIDER", "LLM_MODEL", "LLM_RPS", "LLM_BURST", "LLM_MAX_RETRIES"} {
		t.Setenv(key, "")
	}
	cfg := loadLLMConfig()
	require.Equal(t, "fake", cfg.Provider)
	require.Equal(t, 2, cfg.RPS)
	require.Equal(t, 4, cfg.Burst)
	require.Equal(t, 3, cfg.MaxRetries)
}

func TestAnalysisStoreResolution(t *testing.T) {
	t.Setenv("ANALYSIS_MINIO_ENDPOINT", "minio:9000")
	cfg := loadAnalysisStoreConfig("local")
	require.True(t, cfg.Enabled)
	require.Equal(t, "minio:9000", cfg.Endpoint)
	require.False(t, cfg.UseSSL)

	t.Setenv("ANALYSIS_S3_ENDPOINT", "")
	cfg = loadAnalysisStoreConfig("production")
	require.False(t, cfg.Enabled)
	require.True(t, cfg.UseSSL)

	t.Setenv("ANALYSIS_S3_USE_SSL", "false")
	t.Setenv("ANALYSIS_S3_ENDPOINT", "s3.amazonaws.com")
	cfg = loadAnalysisStoreConfig("production")
	require.True(t, cfg.Enabled)
	require.False(t, cfg.UseSSL)
}
