package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sitebuilder/internal/config"
	"sitebuilder/internal/payment"
	"sitebuilder/internal/scheduler"
	"sitebuilder/internal/server"
	"sitebuilder/internal/service"
	"sitebuilder/internal/storage"
	"sitebuilder/internal/storage/events"
	"sitebuilder/internal/storage/lite"
	"sitebuilder/internal/storage/providers"
	httptransport "sitebuilder/internal/transport/http"

	"github.com/joho/godotenv"
)

// recordStore is everything the services need from the record store, for
// whichever driver is configured.
type recordStore struct {
	websites    service.WebsiteProvider
	templates   service.TemplateProvider
	submissions service.SubmissionProvider
	analytics   service.AnalyticsProvider
	retention   scheduler.AnalyticsRetentionProvider
	close       func()
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env", "err", err)
	}

	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to open record store", "err", err, "driver", cfg.Database.Driver)
		os.Exit(1)
	}
	defer store.close()

	var (
		sink    service.ViewSink
		history service.ViewHistory
	)
	if cfg.ClickHouse.Addr != "" {
		chSink, err := events.NewClickHouseSink(ctx, events.Options{
			Addr:     cfg.ClickHouse.Addr,
			Database: cfg.ClickHouse.Database,
			Username: cfg.ClickHouse.Username,
			Password: cfg.ClickHouse.Password,
		})
		if err != nil {
			slog.Warn("page view sink disabled", "err", err)
		} else {
			defer chSink.Close()
			sink = chSink
			history = chSink
		}
	}

	if cfg.Stripe.SecretKey == "" {
		slog.Warn("stripe secret key is empty; checkout calls will fail")
	}
	gate := payment.NewGate(payment.NewStripeProvider(cfg.Stripe.SecretKey))

	websites := service.NewWebsiteService(store.websites, store.analytics, store.submissions)
	if history != nil {
		websites.WithViewHistory(history)
	}
	templates := service.NewTemplateService(store.templates)
	publisher := service.NewPublicationService(gate, store.websites, cfg.Public.BaseURL)
	forms := service.NewFormService(store.websites, store.submissions)
	views := service.NewViewCounter(store.analytics, !cfg.Analytics.ReadModifyWrite, sink)
	slog.Info("view counter ready", "mode", views.Mode(), "sink", sink != nil)

	scheduler.NewRetentionScheduler(store.retention, cfg.Analytics.RetentionDays, cfg.Analytics.CleanupInterval).Start(ctx)

	public := httptransport.NewPublicHandlers(websites, views)
	// Runs before the sink and store are closed.
	defer public.Wait()

	router := httptransport.Router(httptransport.Handlers{
		Payments:  httptransport.NewPaymentHandlers(gate, publisher),
		Websites:  httptransport.NewWebsiteHandlers(websites, forms),
		Templates: httptransport.NewTemplateHandlers(templates),
		Public:    public,
	}, logger)

	if err := server.Start(ctx, cfg.Addr(), router, cfg.Server.AllowedOrigins); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func openStore(cfg *config.Config) (*recordStore, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		s, err := lite.NewStore(cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		slog.Info("using sqlite store", "path", cfg.Database.SQLitePath)
		return &recordStore{
			websites:    s,
			templates:   s,
			submissions: s,
			analytics:   s,
			retention:   s,
			close:       func() { s.Close() },
		}, nil
	default:
		if err := storage.Migrate(cfg.Database.URL); err != nil {
			return nil, err
		}
		db, err := storage.InitDB(cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return nil, err
		}
		p := providers.New(db)
		return &recordStore{
			websites:    p.WebsiteProvider,
			templates:   p.TemplateProvider,
			submissions: p.SubmissionProvider,
			analytics:   p.AnalyticsProvider,
			retention:   p.AnalyticsProvider,
			close:       db.Close,
		}, nil
	}
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}
