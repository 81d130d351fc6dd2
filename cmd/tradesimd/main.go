package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oakmere/tradewinds/internal/config"
	"github.com/oakmere/tradewinds/internal/data"
	"github.com/oakmere/tradewinds/internal/db"
	"github.com/oakmere/tradewinds/internal/game/economy"
	"github.com/oakmere/tradewinds/internal/httpapi"
)

const ConfigPath = "config/tradesimd.yaml"

// tickInterval is the wall-clock length of one simulation tick.
const tickInterval = 50 * time.Millisecond

// flushInterval is how often the world is written to disk and database.
const flushInterval = time.Minute

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("TRADEWINDS_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	})))

	slog.Info("tradewinds economy server starting", "addr", cfg.Server.Addr())

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0xda7a))
	engine := economy.New(cfg.Economy, data.DefaultRegistry(), rng)

	// Database is optional: without it the file snapshot is the only
	// durable copy.
	var world *db.WorldPersistenceService
	if cfg.Database.Host != "" {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		world = db.NewWorldPersistenceService(database.Pool())
	}

	// Restore from the file snapshot first, then prefer the database copy
	// when one exists.
	if err := engine.LoadFile(cfg.SnapshotPath, rng); err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	if world != nil {
		restored, err := world.LoadWorld(ctx, engine, rng)
		if err != nil {
			return fmt.Errorf("loading world from database: %w", err)
		}
		if restored {
			slog.Info("world restored from database", "last_tick", engine.Now())
		}
	}

	handler := httpapi.New(engine)
	server := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: handler,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting http server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return runTicker(gctx, engine)
	})

	g.Go(func() error {
		return runFlusher(gctx, engine, world, cfg.SnapshotPath)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	// Final flush after everything stopped.
	flush(context.Background(), engine, world, cfg.SnapshotPath)
	return nil
}

// runTicker advances the simulation clock in real time, resuming from the
// persisted tick. Missed intervals are caught up in one call; the engine's
// claim guard makes duplicate delivery harmless.
func runTicker(ctx context.Context, engine *economy.Engine) error {
	base := engine.Now()
	start := time.Now()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now := base + int64(time.Since(start)/tickInterval)
			engine.Tick(now)
		}
	}
}

// runFlusher periodically persists the world to the snapshot file and, when
// configured, the database.
func runFlusher(ctx context.Context, engine *economy.Engine, world *db.WorldPersistenceService, snapshotPath string) error {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			flush(ctx, engine, world, snapshotPath)
		}
	}
}

func flush(ctx context.Context, engine *economy.Engine, world *db.WorldPersistenceService, snapshotPath string) {
	if err := engine.SaveFile(snapshotPath); err != nil {
		slog.Error("snapshot save failed", "path", snapshotPath, "err", err)
	}
	if world == nil {
		return
	}
	if err := world.SaveWorld(ctx, engine); err != nil {
		slog.Error("world save failed", "err", err)
	}
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
