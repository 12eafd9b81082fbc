// Package app wires configuration, storage and services into one App.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/harborguide/internal/cards"
	"github.com/alexanderramin/harborguide/internal/config"
	"github.com/alexanderramin/harborguide/internal/db"
	"github.com/alexanderramin/harborguide/internal/httpapi"
	"github.com/alexanderramin/harborguide/internal/intelligence"
	"github.com/alexanderramin/harborguide/internal/llm"
	"github.com/alexanderramin/harborguide/internal/repository"
	"github.com/alexanderramin/harborguide/internal/service"
	"github.com/alexanderramin/harborguide/internal/snapshot"
	"github.com/alexanderramin/harborguide/internal/watch"
)

// App holds every wired service. LLM and Watcher are nil when disabled.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Cache   *snapshot.Cache
	Builder cards.Builder

	Contexts service.ContextService
	KPIs     service.KPIService
	Facts    service.FactService
	Asker    intelligence.AskService

	LLM       llm.LLMClient
	LLMConfig llm.LLMConfig
	Watcher   *watch.Watcher
	Handler   *httpapi.Handler

	db *sql.DB
}

// Build opens the fact store and wires services from cfg. A workbook that
// cannot be read is logged and skipped so the API still starts.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	database, err := db.OpenDB(cfg.Data.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Cache:   snapshot.NewCache(snapshot.NewMemoryStore()),
		Builder: cards.NewBuilder(cfg.Cards.MaxColumns, cfg.Cards.SampleRows),
		db:      database,
	}

	observer := service.NewLogUseCaseObserver(logger)
	calls := repository.NewSQLitePortCallRepo(database)
	a.Contexts = service.NewContextService(a.Cache, a.Builder, cfg.Cards.MaxChars, observer)
	a.KPIs = service.NewKPIService(calls, nil, observer)
	a.Facts = service.NewFactService(db.NewSQLiteUnitOfWork(database), observer)

	llmCfg := llm.LoadConfig()
	a.LLMConfig = llmCfg
	var llmObserver llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls {
		llmObserver = llm.NewSlogObserver(logger)
	}
	a.LLM, err = llm.NewClient(ctx, llmCfg, llmObserver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("creating llm client: %w", err)
	}
	if a.LLM == nil {
		logger.Info("llm disabled; answers are deterministic")
	}
	a.Asker = intelligence.NewAskService(a.LLM, a.Contexts, a.KPIs, intelligence.Mode(cfg.Ask.Mode))

	if path := cfg.Data.WorkbookPath; path != "" {
		if _, err := a.Contexts.LoadWorkbook(ctx, path); err != nil {
			logger.Warn("workbook not loaded", "path", path, "error", err)
		}
		if cfg.Data.WatchWorkbook {
			a.Watcher = watch.New(path, a.Contexts, watch.WithLogger(logger))
		}
	}

	a.Handler = httpapi.NewHandler(a.Cache, a.Contexts, a.KPIs, a.Asker)
	return a, nil
}

// Close releases the fact store.
func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	if err != nil && !errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}
