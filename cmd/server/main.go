package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/sycomix/inpoint-ai-backend/internal/config"
	"github.com/sycomix/inpoint-ai-backend/internal/driver"
	"github.com/sycomix/inpoint-ai-backend/internal/llm"
	"github.com/sycomix/inpoint-ai-backend/internal/logging"
	"github.com/sycomix/inpoint-ai-backend/internal/pipeline"
	"github.com/sycomix/inpoint-ai-backend/internal/server"
	"github.com/sycomix/inpoint-ai-backend/internal/store/mongo"
	"github.com/sycomix/inpoint-ai-backend/internal/upstream"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applyEnvOverrides(cfg)

	logger := logging.New(cfg.Pipeline.Debug)
	ctx := context.Background()

	graphDriver, err := driver.NewNeo4jDriver(ctx, cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password)
	if err != nil {
		logger.Fatal("failed to connect to Neo4j", "error", err)
	}
	defer graphDriver.Close(ctx)

	st, err := mongo.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", "error", err)
	}
	defer st.Close(ctx)

	embedder, err := llm.NewEmbedder(ctx, cfg.Embedder)
	if err != nil {
		logger.Fatal("failed to initialize embedder", "error", err)
	}

	source := upstream.NewClient(cfg.Upstream)
	pipe := pipeline.New(source, graphDriver, st, embedder, cfg.Pipeline, logger)

	// First run is forced so a fresh deployment has results before the
	// first scheduled tick.
	go func() {
		if _, _, err := pipe.Analyze(ctx, true); err != nil {
			logger.Error("initial analysis failed", "error", err)
		}
	}()

	scheduler := cron.New()
	schedule := fmt.Sprintf("@every %dm", cfg.Pipeline.ScheduleMinutes)
	if _, err := scheduler.AddFunc(schedule, func() {
		if _, _, err := pipe.Analyze(ctx, false); err != nil {
			logger.Error("scheduled analysis failed", "error", err)
		}
	}); err != nil {
		logger.Fatal("failed to schedule analysis", "error", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := server.NewServer(pipe, st, logger)
	r := srv.SetupRouter()

	logger.Info("starting server", "port", port)
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("server exited", "error", err)
	}
}

func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("WORKSPACES_URL"); v != "" {
		cfg.Upstream.WorkspacesURL = v
	}
	if v := os.Getenv("DISCUSSIONS_URL"); v != "" {
		cfg.Upstream.DiscussionsURL = v
	}
	if v := os.Getenv("NEO4J_URI"); v != "" {
		cfg.Neo4j.URI = v
	}
	if v := os.Getenv("NEO4J_USER"); v != "" {
		cfg.Neo4j.User = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		cfg.Neo4j.Password = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.Mongo.URI = v
	}
	if v := os.Getenv("EMBEDDER_PROVIDER"); v != "" {
		cfg.Embedder.Provider = v
	}
	if v := os.Getenv("EMBEDDER_MODEL"); v != "" {
		cfg.Embedder.Model = v
	}
	if v := os.Getenv("EMBEDDER_API_KEY"); v != "" {
		cfg.Embedder.APIKey = v
	}
	if v := os.Getenv("EMBEDDER_BASE_URL"); v != "" {
		cfg.Embedder.BaseURL = v
	}

	// Default to Ollama so the service runs without any cloud key.
	if cfg.Embedder.Provider == "" {
		cfg.Embedder.Provider = "ollama"
		cfg.Embedder.Model = "nomic-embed-text"
		cfg.Embedder.BaseURL = "http://localhost:11434"
	}
}
