package main

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/config"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/database"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/handlers"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/moderation"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/moderation/perspective"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/reply"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/reply/gemini"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/reply/llama"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/scheduler"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/server"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/service"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/store"
)

type app struct {
	log       *logrus.Logger
	db        database.Service // nil with the memory store
	scheduler *scheduler.Scheduler
	http      *http.Server
}

// build wires the process. Missing API keys degrade features instead of failing.
func build(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*app, error) {
	a := &app{log: log}

	var (
		st     store.Store
		health server.HealthFunc
	)
	switch cfg.Store {
	case config.StoreMemory:
		log.Warn("using in-memory store, data is lost on exit")
		st = store.NewMemoryStore()
		health = func() map[string]string { return map[string]string{"status": "up", "store": config.StoreMemory} }
	default:
		db, err := database.New(cfg.Database.DSN(), log)
		if err != nil {
			return nil, err
		}
		a.db = db
		st = store.NewGormStore(db.GetDB())
		health = db.Health
	}

	moderator := moderation.NewClient(newScorer(cfg, log), cfg.ModerationTimeout, log.WithField("component", "moderation"))
	drafter := reply.NewGenerator(newCompleter(ctx, cfg, log), log.WithField("component", "reply"))

	a.scheduler = scheduler.New(
		scheduler.WithLogger(log.WithField("component", "scheduler")),
		scheduler.WithTaskTimeout(cfg.AutoReplyTimeout),
	)

	svc := service.NewContentService(st, moderator, drafter, a.scheduler, log.WithField("component", "service"))
	secret := []byte(cfg.JWTSecret)
	h := handlers.NewHandler(st, svc, secret, log)

	a.http = server.NewServer(cfg, server.New(h, health, secret, log))
	return a, nil
}

func (a *app) close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.log.WithError(err).Error("failed to close database")
	}
}

func newScorer(cfg *config.Config, log logrus.FieldLogger) moderation.Scorer {
	if cfg.Perspective.APIKey == "" {
		log.Warn("PERSPECTIVE_API_KEY not set, content moderation disabled")
		return nil
	}
	s, err := perspective.New(&moderation.Config{
		Endpoint: cfg.Perspective.Endpoint,
		APIKey:   cfg.Perspective.APIKey,
	}, nil)
	if err != nil {
		log.WithError(err).Warn("content moderation disabled")
		return nil
	}
	return s
}

func newCompleter(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) reply.Completer {
	log = log.WithField("provider", cfg.Reply.Provider)

	switch cfg.Reply.Provider {
	case config.ReplyProviderGemini:
		if cfg.Reply.GeminiAPIKey == "" {
			log.Warn("GOOGLE_API_KEY not set, auto-replies use the fallback text")
			return nil
		}
		c, err := gemini.New(ctx, cfg.Reply.GeminiAPIKey, gemini.Options{Model: cfg.Reply.GeminiModel})
		if err != nil {
			log.WithError(err).Warn("gemini unavailable, auto-replies use the fallback text")
			return nil
		}
		return c
	default:
		if cfg.Reply.LlamaAPIKey == "" {
			log.Warn("LLAMA_API_KEY not set, auto-replies use the fallback text")
			return nil
		}
		c, err := llama.New(cfg.Reply.LlamaAPIKey, cfg.Reply.LlamaBaseURL, cfg.Reply.LlamaModel)
		if err != nil {
			log.WithError(err).Warn("llama unavailable, auto-replies use the fallback text")
			return nil
		}
		return c
	}
}
