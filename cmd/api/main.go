package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/item-lending/internal/api/http"
	"github.com/spec-kit/item-lending/internal/api/http/handlers"
	"github.com/spec-kit/item-lending/internal/auth"
	"github.com/spec-kit/item-lending/internal/config"
	"github.com/spec-kit/item-lending/internal/events"
	"github.com/spec-kit/item-lending/internal/observability"
	"github.com/spec-kit/item-lending/internal/platform/keylock"
	"github.com/spec-kit/item-lending/internal/repository"
	"github.com/spec-kit/item-lending/internal/service"
	"github.com/spec-kit/item-lending/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	locks := keylock.New()

	userRepo := repository.NewUserRepository()
	loanRepo := repository.NewLoanRepository()

	userService := service.NewUserService(userRepo, loanRepo, locks)
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		UserRepo:   userRepo,
		Locks:      locks,
		Dispatcher: dispatcher,
	})
	loanService := service.NewLoanService(service.LoanDependencies{
		UserRepo:   userRepo,
		LoanRepo:   loanRepo,
		Locks:      locks,
		Dispatcher: dispatcher,
		Config:     cfg.Loans,
	})
	listingService := service.NewListingService(userRepo, locks)

	activityService := service.NewActivityService(dispatcher, logger, metrics, cfg.Activity)
	worker.StartActivityWorker(activityService)

	authService := service.NewAuthService(cfg.Auth, userService)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, userService, metrics),
		Users:          handlers.NewUsersHandler(authService, userService),
		Items:          handlers.NewItemsHandler(catalogService, loanService, cfg.Loans.DateLayout),
		Loans:          handlers.NewLoansHandler(loanService, cfg.Loans.DateLayout),
		Listing:        handlers.NewListingHandler(listingService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	logger.Info("item lending registry started",
		zap.String("addr", cfg.App.Addr()),
		zap.String("env", cfg.App.Env))

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
