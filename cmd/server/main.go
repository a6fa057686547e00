package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"rox-tutor/internal/api"
	"rox-tutor/internal/config"
	"rox-tutor/internal/db"
	"rox-tutor/internal/knowledge"
	"rox-tutor/internal/llm"
	"rox-tutor/internal/prompts"
	redisdb "rox-tutor/internal/redis"
	"rox-tutor/internal/session"
	"rox-tutor/internal/student"
	"rox-tutor/internal/tutor"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := db.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	rdb := redisdb.NewClient(cfg)
	ctx := context.Background()

	promptLib, err := prompts.Load(cfg.Tutor.PromptsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Prompts error: %v\n", err)
		os.Exit(1)
	}

	gemini, err := llm.NewGeminiClient(ctx, cfg.Gemini)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Gemini init error: %v\n", err)
		os.Exit(1)
	}

	// The knowledge base degrades rather than blocks: a dead vector store
	// yields a tutor that teaches ungrounded, not a tutor that is down.
	retriever, store := buildRetriever(ctx, cfg)

	sessions := session.NewRedisStore(rdb, time.Duration(cfg.Tutor.SessionTTLMinutes)*time.Minute)
	checkpoints := session.NewGormCheckpointer(db.DB)

	engine := tutor.NewEngine(tutor.EngineDeps{
		Classifier:    tutor.NewLLMClassifier(gemini),
		LLM:           gemini,
		Retriever:     retriever,
		Prompts:       promptLib,
		Sessions:      sessions,
		Checkpoints:   checkpoints,
		Students:      student.NewLoader(db.DB),
		TopK:          cfg.Tutor.RetrievalTopK,
		HistoryWindow: cfg.Tutor.HistoryWindow,
	})

	deps := api.Deps{
		Engine:      engine,
		Sessions:    sessions,
		Checkpoints: checkpoints,
	}
	if store != nil {
		deps.Knowledge = store
	}

	r := api.SetupRouter(cfg, rdb, deps)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Starting server on %s%s\n", addr, cfg.Server.Subpath)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func buildRetriever(ctx context.Context, cfg *config.Config) (*knowledge.Retriever, *knowledge.Store) {
	store, err := knowledge.NewStore(cfg.Qdrant.URL, cfg.Qdrant.Collection, cfg.Qdrant.APIKey)
	if err != nil {
		log.Printf("[Main] WARNING: knowledge store unavailable, running degraded: %v", err)
		return knowledge.NewDegradedRetriever(), nil
	}
	embedder, err := knowledge.NewGeminiEmbedder(ctx, cfg.Gemini)
	if err != nil {
		log.Printf("[Main] WARNING: embedder unavailable, running degraded: %v", err)
		return knowledge.NewDegradedRetriever(), store
	}
	log.Printf("[Main] knowledge base ready (collection %q)", cfg.Qdrant.Collection)
	return knowledge.NewRetriever(store, embedder), store
}
