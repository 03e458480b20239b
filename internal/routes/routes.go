package routes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/athirchat/athirchat/internal/account"
	"github.com/athirchat/athirchat/internal/config"
	"github.com/athirchat/athirchat/internal/ledger"
	"github.com/athirchat/athirchat/internal/middleware"
	"github.com/athirchat/athirchat/internal/notification"
)

// Deps carries the shared dependencies route registration needs.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup wires middleware, repositories, services and every route group onto
// the Fiber app. Without a database pool it falls back to in-memory stores,
// which only development mode permits.
func Setup(app *fiber.App, d Deps) error {
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	accountRepo, notificationRepo, err := buildRepositories(d)
	if err != nil {
		return err
	}

	accountService := account.NewService(accountRepo)
	notificationService := notification.NewService(notificationRepo)
	engine := ledger.NewEngine(accountRepo, notificationService, d.Logger, d.Cfg.AllowSelfTransfer)

	accountHandler := account.NewHandler(accountService)
	notificationHandler := notification.NewHandler(notificationService)
	walletHandler := ledger.NewHandler(engine)

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", accountHandler.Register)
	auth.Post("/login", middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRatePerMin), accountHandler.Login)
	auth.Post("/request-password-reset", accountHandler.RequestPasswordReset)

	admin := api.Group("/admin")
	admin.Get("/password-reset-requests", accountHandler.ListResetRequests)
	admin.Post("/password-reset-requests/:id", accountHandler.ResolveResetRequest)

	wallet := api.Group("/wallet", middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	wallet.Post("/transfer", walletHandler.Transfer)
	wallet.Post("/trade", walletHandler.Trade)
	wallet.Get("/:userId", walletHandler.GetBalances)

	notifications := api.Group("/notifications")
	notifications.Get("/:userId", notificationHandler.List)
	notifications.Post("/:id/read", notificationHandler.MarkRead)
	notifications.Post("/:userId/read-all", notificationHandler.MarkAllRead)

	RegisterHealthRoutes(app, d)

	return nil
}

func buildRepositories(d Deps) (account.Repository, notification.Repository, error) {
	if d.DB == nil {
		if !d.Cfg.Development() {
			return nil, nil, fmt.Errorf("database pool is required outside development")
		}
		d.Logger.Warn("no database configured, using in-memory stores")
		return account.NewMemoryRepository(), notification.NewMemoryRepository(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	accountRepo := account.NewPostgresRepository(d.DB)
	if err := accountRepo.Migrate(ctx); err != nil {
		return nil, nil, fmt.Errorf("migrate accounts: %w", err)
	}
	notificationRepo := notification.NewPostgresRepository(d.DB)
	if err := notificationRepo.Migrate(ctx); err != nil {
		return nil, nil, fmt.Errorf("migrate notifications: %w", err)
	}
	return accountRepo, notificationRepo, nil
}
