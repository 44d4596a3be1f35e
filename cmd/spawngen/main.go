package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-json-experiment/json"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/spawnpattern/internal/botdata"
	"github.com/udisondev/spawnpattern/internal/config"
	"github.com/udisondev/spawnpattern/internal/db"
	"github.com/udisondev/spawnpattern/internal/mapstate"
	"github.com/udisondev/spawnpattern/internal/metrics"
	"github.com/udisondev/spawnpattern/internal/regen"
)

const ConfigPath = "config/spawnpattern.yaml"

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
	once := flag.Bool("once", false, "run one regeneration pass and exit")
	schedule := flag.Bool("schedule", false, "print the generated wave schedule of every map")
	flag.Parse()

	cfgPath := ConfigPath
	if p := os.Getenv("SPAWNPATTERN_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSpawner(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("spawn pattern generator starting", "log_level", cfg.LogLevel, "storage", cfg.Storage.Driver)

	catalog, err := botdata.Load(cfg.BotCatalog)
	if err != nil {
		return fmt.Errorf("loading bot catalog: %w", err)
	}

	var opts []regen.Option
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.New()
		opts = append(opts, regen.WithMetrics(collector))
	}

	natives := mapstate.NewFileStore(cfg.Storage.LocationsDir, cfg.Storage.OutputDir)
	var store mapstate.Store = natives

	if cfg.Storage.Driver == config.StoragePostgres {
		dsn := cfg.Storage.Database.DSN()
		database, err := db.New(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, dsn); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		repo := db.NewMapStateRepository(database.Pool())
		if _, err := repo.Seed(ctx, natives); err != nil {
			return fmt.Errorf("seeding map states: %w", err)
		}
		store = repo
		opts = append(opts, regen.WithPassRecorder(db.NewPassRepository(database.Pool())))
	}

	svc := regen.NewService(cfg, store, catalog, opts...)

	if *once {
		res, err := svc.Regenerate(ctx)
		if err != nil {
			return fmt.Errorf("regenerating: %w", err)
		}
		printResult(res, *schedule)
		return nil
	}

	return serve(ctx, cfg, svc, collector, *schedule)
}

// serve exposes POST /regenerate and, when enabled, /metrics until ctx ends.
func serve(ctx context.Context, cfg config.Spawner, svc *regen.Service, collector *metrics.Collector, schedule bool) error {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /regenerate", func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Regenerate(r.Context())
		if err != nil {
			slog.Error("regeneration failed", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.MarshalWrite(w, summarize(res)); err != nil {
			slog.Error("writing regeneration summary", "error", err)
		}
	})
	if collector != nil {
		mux.Handle("GET /metrics", collector.Handler())
	}

	srv := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.GenerateOnStart {
		g.Go(func() error {
			res, err := svc.Regenerate(gctx)
			if err != nil {
				if errors.Is(err, regen.ErrDisabled) {
					slog.Warn("generator disabled, nothing generated on start")
					return nil
				}
				return fmt.Errorf("regenerating on start: %w", err)
			}
			printResult(res, schedule)
			return nil
		})
	}

	g.Go(func() error {
		slog.Info("starting http server", "address", srv.Addr, "metrics", collector != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func printResult(res *regen.Result, schedule bool) {
	fmt.Println(renderPass(res))
	if !schedule {
		return
	}
	for _, m := range res.Maps {
		fmt.Println(renderSchedule(m))
	}
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
