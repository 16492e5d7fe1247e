package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MEMORY_SIMILARITY_THRESHOLD", "")
	t.Setenv("MEMORY_TOP_K", "")
	t.Setenv("CHECKPOINT_BACKEND", "memory")

	cfg := Load()

	assert.Equal(t, 0.7, cfg.Memory.SimilarityThreshold)
	assert.Equal(t, 5, cfg.Memory.TopK)
	assert.Equal(t, 0.7, cfg.Memory.HighImportanceThreshold)
	assert.Equal(t, 30*24*time.Hour, cfg.Memory.FeedbackWindow)
	assert.Equal(t, 0.5, cfg.Memory.UserMessageImportance)
	assert.Equal(t, 0.3, cfg.Memory.AgentReplyImportance)
	assert.Equal(t, 0.8, cfg.Memory.ActionImportance)
	assert.Equal(t, "memory", cfg.App.CheckpointBackend)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MEMORY_SIMILARITY_THRESHOLD", "0.42")
	t.Setenv("MEMORY_TOP_K", "9")
	t.Setenv("MEMORY_FEEDBACK_WINDOW_DAYS", "7")
	t.Setenv("LLM_TIMEOUT", "3s")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("LLM_PROVIDER", "OpenAI")

	cfg := Load()

	assert.Equal(t, 0.42, cfg.Memory.SimilarityThreshold)
	assert.Equal(t, 9, cfg.Memory.TopK)
	assert.Equal(t, 7*24*time.Hour, cfg.Memory.FeedbackWindow)
	assert.Equal(t, 3*time.Second, cfg.Ai.LLMTimeout)
	assert.True(t, cfg.App.OtelEnabled)
	assert.Equal(t, "openai", cfg.Ai.LLMProvider)
}

func TestGetEnvHelpers_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CFG_TEST_INT", "abc")
	t.Setenv("CFG_TEST_FLOAT", "x1")
	t.Setenv("CFG_TEST_BOOL", "maybe")
	t.Setenv("CFG_TEST_DURATION", "soon")

	assert.Equal(t, 3, getEnvAsInt("CFG_TEST_INT", 3))
	assert.Equal(t, 1.5, getEnvAsFloat("CFG_TEST_FLOAT", 1.5))
	assert.False(t, getEnvAsBool("CFG_TEST_BOOL", false))
	assert.Equal(t, time.Minute, getEnvAsDuration("CFG_TEST_DURATION", time.Minute))
}
