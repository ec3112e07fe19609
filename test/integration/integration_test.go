//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/mathgraph/internal/config"
	"github.com/agenthands/mathgraph/internal/core"
	"github.com/agenthands/mathgraph/internal/driver"
	"github.com/agenthands/mathgraph/internal/llm"
	"github.com/agenthands/mathgraph/internal/logger"
)

// Requires a running Memgraph/Neo4j instance and a reachable LLM.
// Configure via NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD, LLM_PROVIDER,
// LLM_MODEL, LLM_API_KEY / LLM_BASE_URL.
func setup(t *testing.T) (*core.Analyzer, *driver.MemgraphDriver) {
	_ = godotenv.Load("../../.env")

	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("Skipping integration test: NEO4J_URI not set")
	}

	log := logger.NewNop()

	d, err := driver.NewMemgraphDriver(uri, os.Getenv("NEO4J_USER"), os.Getenv("NEO4J_PASSWORD"), log)
	require.NoError(t, err)

	cfg := &config.Config{
		LLM: config.LLMConfig{
			Provider: os.Getenv("LLM_PROVIDER"),
			Model:    os.Getenv("LLM_MODEL"),
			APIKey:   os.Getenv("LLM_API_KEY"),
			BaseURL:  os.Getenv("LLM_BASE_URL"),
		},
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-oss:latest"
	}
	if cfg.LLM.Provider == "ollama" && cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "http://localhost:11434"
	}

	llmClient, err := llm.NewClient(context.Background(), cfg.LLM)
	require.NoError(t, err)

	analyzer := core.NewAnalyzer(d, llmClient, cfg, log)
	require.NoError(t, analyzer.BuildIndices(context.Background()))

	return analyzer, d
}

func TestAnalyzeFlow(t *testing.T) {
	analyzer, d := setup(t)
	ctx := context.Background()
	defer d.Close(ctx)

	question := "Solve the equation: 2x + 5 = 13"

	result, err := analyzer.Analyze(ctx, question)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Concepts)
	assert.NotEmpty(t, result.Domain)
	assert.GreaterOrEqual(t, result.DifficultyLevel, 0.0)
	assert.LessOrEqual(t, result.DifficultyLevel, 1.0)
	assert.False(t, result.Timestamp.IsZero())

	concepts, err := analyzer.AllConcepts(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, concepts)
}

func TestReanalysisIsIdempotent(t *testing.T) {
	analyzer, d := setup(t)
	ctx := context.Background()
	defer d.Close(ctx)

	question := "What is the derivative of x^2?"

	_, err := analyzer.Analyze(ctx, question)
	require.NoError(t, err)
	_, err = analyzer.Analyze(ctx, question)
	require.NoError(t, err)

	res, err := d.ExecuteQuery(ctx, `
		MATCH (q:Question {text: $text})
		RETURN count(q) AS count
	`, map[string]interface{}{"text": question})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	count, _ := res.Records[0].Get("count")
	assert.Equal(t, int64(1), count)
}
