package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fastprodman/pointledger/internal/api"
	"github.com/fastprodman/pointledger/internal/infra/logging"
	"github.com/fastprodman/pointledger/internal/infra/pgutils"
	"github.com/fastprodman/pointledger/internal/lockreg"
	"github.com/fastprodman/pointledger/internal/metrics"
	"github.com/fastprodman/pointledger/internal/repos/balances"
	balancesmem "github.com/fastprodman/pointledger/internal/repos/balances/memory"
	balancespg "github.com/fastprodman/pointledger/internal/repos/balances/postgres"
	"github.com/fastprodman/pointledger/internal/repos/history"
	historymem "github.com/fastprodman/pointledger/internal/repos/history/memory"
	historypg "github.com/fastprodman/pointledger/internal/repos/history/postgres"
	"github.com/fastprodman/pointledger/internal/services/points"
	"github.com/fastprodman/pointledger/pkg/envconf"
	"github.com/fastprodman/pointledger/pkg/shutdownqueue"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logger := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	queue := shutdownqueue.New()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := queue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Stores ---
	b, h, err := openStores(ctx, cfg, queue)
	if err != nil {
		return err
	}

	// --- Ledger ---
	locks := lockreg.New[int64]()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := cfg.pointOptions()
	opts.Logger = logger
	opts.Metrics = metrics.NewLedger(reg, locks.Len)

	svc := points.New(locks, b, h, opts)

	// --- HTTP server ---
	srv := api.NewServer(cfg.Port, svc, api.RouterOptions{
		AllowedOrigins: cfg.CORSOrigins,
		Gatherer:       reg,
		Logger:         logger,
	})

	queue.Add(func(c context.Context) error {
		slog.Info("shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	})

	slog.Info("API started", "port", cfg.Port, "store", cfg.StoreBackend)

	// Wait until either ctx cancels or the server errors out.
	<-gctx.Done()

	if ctx.Err() != nil {
		// graceful path; deferred queue.Shutdown closes the server
		return nil
	}

	return g.Wait()
}

func openStores(ctx context.Context, cfg *apiConfig, queue *shutdownqueue.Queue) (balances.Balances, history.History, error) {
	switch cfg.StoreBackend {
	case storeMemory:
		return balancesmem.New(), historymem.New(), nil
	case storePostgres:
		db, err := pgutils.OpenDB(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("open db: %w", err)
		}

		queue.Add(func(context.Context) error {
			return closeDB(db)
		})

		return balancespg.New(db), historypg.New(db), nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func closeDB(db *sql.DB) error {
	slog.Info("close db")

	err := db.Close()
	if err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}
