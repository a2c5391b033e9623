package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/JPClow3/Veins-of-Erid-n/cmd/game/ui"
	"github.com/JPClow3/Veins-of-Erid-n/internal/config"
	"github.com/JPClow3/Veins-of-Erid-n/internal/debug"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/director"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/illustrator"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/orchestrator"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/sensory"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/speech"
	"github.com/JPClow3/Veins-of-Erid-n/internal/llm"
	"github.com/JPClow3/Veins-of-Erid-n/internal/logging"
	"github.com/JPClow3/Veins-of-Erid-n/internal/observability"
	"github.com/JPClow3/Veins-of-Erid-n/internal/storage"
)

// app owns every long-lived collaborator of a play session.
type app struct {
	cfg            config.Config
	catalog        *config.Catalog
	debugLogger    *debug.Logger
	db             *sql.DB
	saves          *storage.Saves
	completions    *logging.CompletionLogger
	tracerProvider *observability.TracerProvider
	bridge         *ui.Bridge
	orch           *orchestrator.Orchestrator
	actors         []func(ctx context.Context)
}

// openStores opens the database with the save slots and completion log. The
// review, rate, saves and mcp commands need nothing else.
func openStores(cfg config.Config) (*sql.DB, *storage.Saves, *logging.CompletionLogger, error) {
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, nil, err
	}
	saves, err := storage.NewSaves(db)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	completions, err := logging.NewCompletionLogger(db)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	return db, saves, completions, nil
}

func createApp(ctx context.Context, cfg config.Config, resume string) (*app, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	debugLogger := debug.NewLogger(cfg.Debug, cfg.LogPath)

	tracingConfig, err := observability.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	tracerProvider, err := observability.InitTracing(ctx, tracingConfig)
	if err != nil {
		debugLogger.Printf("Failed to initialize tracing: %v", err)
		tracerProvider = &observability.TracerProvider{}
	} else if tracerProvider.IsEnabled() {
		debugLogger.Println("OpenTelemetry tracing initialized and enabled")
	} else {
		debugLogger.Println("OpenTelemetry tracing disabled (set OTEL_TRACES_ENABLED=true to enable)")
	}

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	db, saves, completions, err := openStores(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:            cfg,
		catalog:        catalog,
		debugLogger:    debugLogger,
		db:             db,
		saves:          saves,
		completions:    completions,
		tracerProvider: tracerProvider,
		bridge:         ui.NewBridge(),
	}

	llmService := llm.NewService(cfg, catalog.ImageStyle, debugLogger)
	illus := illustrator.New(llmService, debugLogger)
	a.actors = append(a.actors, illus.Run)

	deps := orchestrator.Deps{
		Generator:   llmService,
		Dispatcher:  director.NewDispatcher(debugLogger),
		Notifier:    a.bridge,
		Illustrator: illus,
		Cues:        sensory.NewRouter(a.bridge, catalog, debugLogger),
		Persister:   saves,
		TurnLog:     completions,
		Observer:    a.bridge,
		Catalog:     catalog,
		Model:       cfg.StoryModel,
		MaxTokens:   cfg.MaxTokens,
		Logger:      debugLogger,
	}
	if cfg.SpeechEnabled {
		player := speech.FilePlayer{Path: filepath.Join(filepath.Dir(cfg.LogPath), "narration.mp3")}
		seq := speech.NewSequencer(llmService, player, debugLogger)
		a.actors = append(a.actors, seq.Run)
		deps.Narrator = seq
	}

	a.orch = orchestrator.New(uuid.NewString(), game.DefaultCharacter(), nil, deps)
	a.orch.SetNarration(cfg.SpeechEnabled)

	if resume != "" {
		if err := a.resume(ctx, resume); err != nil {
			a.Close()
			return nil, err
		}
	}

	debugLogger.Info("session started", "session", a.orch.SessionID())
	return a, nil
}

func (a *app) resume(ctx context.Context, sessionID string) error {
	var (
		sv  game.Save
		err error
	)
	if sessionID == "latest" {
		sv, err = a.saves.Latest(ctx)
	} else {
		sv, err = a.saves.Load(ctx, sessionID)
	}
	if errors.Is(err, storage.ErrNoSave) {
		return fmt.Errorf("no saved session %q", sessionID)
	}
	if err != nil {
		return err
	}
	return a.orch.Restore(sv)
}

// start runs the side-effect actors until ctx is cancelled.
func (a *app) start(ctx context.Context) {
	for _, run := range a.actors {
		go run(ctx)
	}
}

func (a *app) Close() {
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(context.Background()); err != nil {
			a.debugLogger.Printf("Failed to shut down tracing: %v", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
