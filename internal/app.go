package internal

import (
	"fmt"
	"log/slog"
)

// App holds the wired application components shared by the CLI commands.
type App struct {
	Config  *Config
	Logger  *slog.Logger
	Catalog *Catalog
	Store   *TranscriptStore
	Index   *Index
	Syncer  *Syncer
	RAG     *RAG
}

// AppOption customizes App creation, mainly for tests.
type AppOption func(*appDeps)

type appDeps struct {
	platform  Platform
	generator Generator
}

// WithPlatform sets a custom video platform implementation.
func WithPlatform(platform Platform) AppOption {
	return func(d *appDeps) {
		d.platform = platform
	}
}

// WithGenerator sets a custom generation collaborator.
func WithGenerator(generator Generator) AppOption {
	return func(d *appDeps) {
		d.generator = generator
	}
}

// NewApp initializes the application: logger, search index, sync orchestrator
// and query service. The caller owns the returned App and must Close it.
func NewApp(cfg *Config, options ...AppOption) (*App, error) {
	logger, err := NewLoggerFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	deps := &appDeps{}
	for _, option := range options {
		option(deps)
	}

	if deps.platform == nil {
		deps.platform = NewYTDLP(cfg.SubLangs, cfg.ListTimeout, cfg.FetchTimeout, logger)
	}
	if deps.generator == nil && cfg.OpenAIAPIKey != "" {
		deps.generator = NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.Model, cfg.AnswerTimeout)
	}

	index, err := OpenIndex(cfg.IndexPath, logger)
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}

	catalog := NewCatalog(cfg.CatalogPath, logger)
	prompts := NewPromptManager(cfg.ConfigDir, cfg.Prompt)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Catalog: catalog,
		Store:   NewTranscriptStore(cfg.TranscriptsDir),
		Index:   index,
		Syncer:  NewSyncer(cfg, deps.platform, index, logger),
		RAG:     NewRAG(index, catalog, deps.generator, prompts, cfg.SearchLimit, logger),
	}, nil
}

// SetPromptManager replaces the prompt source used when answering questions.
func (a *App) SetPromptManager(prompts *PromptManager) {
	a.RAG.prompts = prompts
}

// Close releases resources held by the app.
func (a *App) Close() error {
	return a.Index.Close()
}
