package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gnacomplaints/backend/internal/api/handler"
	"gnacomplaints/backend/internal/cache"
	"gnacomplaints/backend/internal/complaint"
	"gnacomplaints/backend/internal/config"
	"gnacomplaints/backend/internal/livehub"
	"gnacomplaints/backend/internal/localization"
	"gnacomplaints/backend/internal/logging"
	"gnacomplaints/backend/internal/models"
	"gnacomplaints/backend/internal/storage"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	if envErr != nil {
		slog.Debug("no .env file loaded", "error", envErr)
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting GNA complaints viewer", "store", cfg.StoreDriver, "port", cfg.Port)

	store, rdb, err := storage.Open(ctx, cfg.StoreDriver, cfg.DatabaseURL, cfg.RedisURL)
	if err != nil {
		return err
	}

	var viewCache cache.Cache = cache.Noop{}
	if rdb != nil {
		defer rdb.Close()
		viewCache = cache.NewRedisCache(rdb, cfg.ViewCacheTTL)
	}

	svc := complaint.NewService(store, cfg.ComplaintsPath, cfg.CounterPath, cfg.Location())
	svc.Invalidator = viewCache

	texts, err := localization.Default()
	if err != nil {
		return err
	}

	hub := livehub.NewManagerService()
	h := handler.NewHandler(svc, hub, viewCache, texts, handler.NewViewerTokens(cfg.ViewerTokenSecret, cfg.ViewerTokenTTL), store)
	router, err := handler.NewRouter(h, handler.RouterOptions{
		Sentry:           sentry.CurrentHub().Client() != nil,
		UpdateRatePerMin: cfg.UpdateRatePerMin,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		return feedViewers(gctx, svc, store, hub, viewCache)
	})

	g.Go(func() error {
		slog.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// feedViewers pushes every complaints snapshot to the hub and refreshes the
// cached views. It returns when ctx is done.
func feedViewers(ctx context.Context, svc *complaint.Service, store storage.Storage, hub *livehub.ManagerService, viewCache cache.Cache) error {
	feed := complaint.NewViewFeed(svc, viewCache, func(ctx context.Context, view complaint.ListView) {
		hub.Publish(ctx, livehub.Snapshot(view.Complaints, view.SerialOffset))
	})
	sub, err := svc.SubscribeComplaints(ctx, func(list []models.Complaint) {
		feed.Apply(ctx, list)
	})
	if err != nil {
		return err
	}

	<-ctx.Done()
	return store.Unsubscribe(sub)
}
