package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/agenthands/mathgraph/internal/config"
	"github.com/agenthands/mathgraph/internal/logger"
	"github.com/agenthands/mathgraph/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

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
		zlog.Fatal("failed to load configuration", "path", cfgPath, "error", err)
	}
	cfg.ApplyEnv()

	if cfg.Neo4j.URI == "" {
		cfg.Neo4j.URI = "bolt://localhost:7687"
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}

	srv, err := server.NewServer(context.Background(), cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize server", "error", err)
	}

	r := srv.SetupRouter()
	zlog.Info("starting server", "port", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		zlog.Fatal("server exited", "error", err)
	}
}
