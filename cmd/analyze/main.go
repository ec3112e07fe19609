package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/agenthands/mathgraph/internal/config"
	"github.com/agenthands/mathgraph/internal/core"
	"github.com/agenthands/mathgraph/internal/driver"
	"github.com/agenthands/mathgraph/internal/llm"
	"github.com/agenthands/mathgraph/internal/logger"
)

// One-shot pipeline driver: analyzes a question from the command line
// against real services and prints the enriched result.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	if len(os.Args) < 2 {
		log.Fatal("usage: analyze <question text>")
	}
	question := strings.Join(os.Args[1:], " ")

	zlog, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		zlog.Fatal("failed to load configuration", "error", err)
	}
	cfg.ApplyEnv()
	if cfg.Neo4j.URI == "" {
		cfg.Neo4j.URI = "bolt://localhost:7687"
	}

	ctx := context.Background()

	d, err := driver.NewMemgraphDriver(cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to graph store", "error", err)
	}
	defer d.Close(ctx)

	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		zlog.Fatal("failed to initialize llm client", "error", err)
	}

	analyzer := core.NewAnalyzer(d, llmClient, cfg, zlog)
	if err := analyzer.BuildIndices(ctx); err != nil {
		zlog.Warn("failed to build indices", "error", err)
	}

	result, err := analyzer.Analyze(ctx, question)
	if err != nil {
		zlog.Fatal("analysis failed", "error", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		zlog.Fatal("failed to marshal result", "error", err)
	}
	fmt.Println(string(out))
}
