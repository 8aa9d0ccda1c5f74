package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/vitalgraph/mediq/internal/config"
	"github.com/vitalgraph/mediq/internal/feedback"
	"github.com/vitalgraph/mediq/internal/graph"
	"github.com/vitalgraph/mediq/internal/llm"
	"github.com/vitalgraph/mediq/internal/memory"
	"github.com/vitalgraph/mediq/internal/qa"
	"github.com/vitalgraph/mediq/internal/server"
	"github.com/vitalgraph/mediq/internal/session"
	"github.com/vitalgraph/mediq/internal/vector"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Warn("could not load config file, using defaults", "path", cfgPath, "error", err)
		cfg = config.Default()
	}
	cfg.ApplyEnv()

	ctx := context.Background()

	graphSvc := graph.Connect(ctx, cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, log)
	if !graphSvc.Connected() {
		log.Warn("knowledge graph unavailable, answers will degrade to templates and literature")
	}
	defer graphSvc.Close(ctx)

	memStore, err := memory.NewStore(cfg.Storage.DataDir)
	if err != nil {
		log.Error("failed to open memory store", "error", err)
		os.Exit(1)
	}
	defer memStore.Close()

	sessStore, err := session.NewStore(cfg.Storage.DataDir)
	if err != nil {
		log.Error("failed to open session store", "error", err)
		os.Exit(1)
	}
	defer sessStore.Close()

	fbStore, err := feedback.NewStore(cfg.Storage.DataDir)
	if err != nil {
		log.Error("failed to open feedback store", "error", err)
		os.Exit(1)
	}
	defer fbStore.Close()

	client, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		log.Error("failed to initialize llm client", "error", err)
		os.Exit(1)
	}
	registry := llm.NewRegistry(client, cfg.LLM)
	if client == nil {
		log.Info("no llm provider configured, running in template mode")
	} else {
		log.Info("llm provider initialized", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	}

	resolver := qa.NewResolver(graphSvc)
	assembler := qa.NewAssembler(graphSvc, vector.NewStore(), memStore, resolver, log)
	generator := qa.NewGenerator(registry, time.Duration(cfg.Pipeline.LLMTimeoutSeconds)*time.Second, log)
	qaSvc := qa.NewService(assembler, generator, graphSvc, memStore, int64(cfg.Pipeline.MaxConcurrent), log)

	srv := server.New(qaSvc, graphSvc, registry, fbStore, sessStore, log)
	r := srv.SetupRouter()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("starting server", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
