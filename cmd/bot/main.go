package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	subguard "github.com/set-night/subguard"
	"github.com/set-night/subguard/internal/config"
	"github.com/set-night/subguard/internal/handler"
	"github.com/set-night/subguard/internal/metrics"
	"github.com/set-night/subguard/internal/middleware"
	"github.com/set-night/subguard/internal/repository"
	"github.com/set-night/subguard/internal/server"
	"github.com/set-night/subguard/internal/service"
	"github.com/set-night/subguard/internal/telegram"
)

type submissionStore interface {
	service.SubmissionStore
	server.Pinger
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "error", err, "driver", cfg.StorageDriver)
		os.Exit(1)
	}
	defer closeStore()

	catalog, err := service.LoadCatalog(subguard.CatalogYAML)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog loaded", "entries", catalog.Len())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(reg)

	// Handler pointer for use in default handler closure
	var h *handler.Handler

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.SenderLoader(),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil {
				return
			}
			h.Default(ctx, b, update)
		}),
	}
	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}
	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("failed to drop pending updates", "error", err)
		}
	}

	admin := telegram.NewAdminChannel(b, cfg.AdminChatID)
	payments := service.NewPaymentService(service.PaymentDeps{
		Store:        store,
		Gateway:      telegram.NewInvoiceSender(b, cfg.PaymentToken),
		Admin:        admin,
		Metrics:      recorder,
		FiatEnabled:  cfg.FiatEnabled(),
		StarsEnabled: cfg.StarsEnabled,
	})
	sessions := service.NewSessionStore()
	conv := service.NewConversation(service.ConversationDeps{
		Sessions:  sessions,
		Assistant: service.NewChatAssistant(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel),
		Catalog:   catalog,
		Store:     store,
		Admin:     admin,
		Payments:  payments,
		Metrics:   recorder,
	})

	h = handler.New(handler.Deps{
		Bot:          b,
		Conversation: conv,
		Payments:     payments,
	})
	h.Register()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting bot", "username", me.Username, "fiat", cfg.FiatEnabled(), "stars", cfg.StarsEnabled)
		b.Start(ctx)
		return nil
	})

	g.Go(func() error {
		return server.Run(ctx, cfg.Port, server.NewRouter(store, reg))
	})

	// Idle session and payment state sweeper
	g.Go(func() error {
		ticker := time.NewTicker(config.SessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := sessions.Evict(cfg.SessionIdleTTL); n > 0 {
					recorder.SessionsEvicted(n)
					slog.Info("idle sessions evicted", "count", n)
				}
				if n := payments.Evict(cfg.SessionIdleTTL); n > 0 {
					slog.Info("idle payment states evicted", "count", n)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		slog.Error("shutdown with error", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}

// openStore connects the configured submission store. Postgres runs the
// embedded migrations first.
func openStore(ctx context.Context, cfg *config.Config) (submissionStore, func(), error) {
	if cfg.StorageDriver == config.StorageDriverSQLite {
		store, err := repository.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}

	migrationsFS, err := fs.Sub(subguard.MigrationsFS, "migrations")
	if err != nil {
		return nil, nil, err
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		return nil, nil, err
	}

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewPostgresStore(pool), pool.Close, nil
}
