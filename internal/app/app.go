// Package app assembles configuration, stores, the generative client
// and the HTTP server into a runnable service.
package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/analyzer"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/config"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/handler"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/llm"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/repository/analysis"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/server"
	"github.com/RamuVenkatesan-infosrc/Report-sub000/internal/sourceindex"
)

type App struct {
	server *server.Server
	model  llm.Client
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := initStore(cfg)
	if err != nil {
		return nil, err
	}

	model, err := initModel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var sources analyzer.SourceIndex
	if cfg.SourceRoot != "" {
		scanner, err := sourceindex.NewScanner(cfg.SourceRoot)
		if err != nil {
			return nil, fmt.Errorf("failed to open source root: %w", err)
		}
		sources = scanner
	}

	orch := &analyzer.Orchestrator{
		Model:       model,
		Sources:     sources,
		Store:       store,
		Workers:     cfg.Workers,
		PromptExtra: cfg.LLM.PromptExtra,
	}

	analysisHandler := handler.NewAnalysisHandler(orch)
	mux := server.NewMux(analysisHandler)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
		model:  model,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	if a.model != nil {
		if err := a.model.Close(); err != nil {
			log.Printf("model close: %v", err)
		}
	}
	return a.server.Shutdown(ctx)
}

func initStore(cfg *config.Config) (analysis.Store, error) {
	if cfg.DatabaseURL != "" {
		store, err := analysis.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres analysis store: %w", err)
		}
		log.Printf("analysis store: postgres")
		return store, nil
	}
	if cfg.Analysis.Enabled {
		store, err := analysis.NewS3Store(analysis.S3Config{
			Endpoint:  cfg.Analysis.Endpoint,
			Region:    cfg.Analysis.Region,
			AccessKey: cfg.Analysis.AccessKey,
			SecretKey: cfg.Analysis.SecretKey,
			Bucket:    cfg.Analysis.Bucket,
			UseSSL:    cfg.Analysis.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize s3 analysis store: %w", err)
		}
		log.Printf("analysis store: s3 bucket=%s endpoint=%s", cfg.Analysis.Bucket, cfg.Analysis.Endpoint)
		return store, nil
	}
	log.Printf("analysis store: in-memory")
	return analysis.NewMemoryStore(), nil
}

func initModel(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	base, err := newBaseModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, nil
	}
	return llm.Wrap(base,
		llm.WithLogging(log.Default()),
		llm.Retry(cfg.LLM.MaxRetries, time.Second),
		llm.RateLimit(float64(cfg.LLM.RPS), cfg.LLM.Burst),
	), nil
}

func newBaseModel(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "gemini":
		cli, err := llm.NewGeminiClient(ctx, cfg.LLM.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
		}
		return cli, nil
	case "openai", "groq":
		cli, err := llm.NewOpenAIClient(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize openai client: %w", err)
		}
		return cli, nil
	case "fake":
		return llm.NewFakeClient(), nil
	case "none", "off", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}
