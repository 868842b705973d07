package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"service-desk/internal/config"
	"service-desk/internal/database"
	"service-desk/internal/handler"
	"service-desk/internal/middleware"
	"service-desk/internal/repository"
	"service-desk/internal/router"
	"service-desk/internal/service"
	"service-desk/internal/token"
)

type App struct {
	server *http.Server
	db     *database.DB
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	locationRepo := repository.NewLocationRepository(pool)
	machineRepo := repository.NewMachineRepository(pool)
	slog.Info("database ready")

	tokenService := token.New(cfg.JWTSecret, cfg.SessionTTL)
	authService := service.NewAuthService(tokenService, userRepo)
	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService)

	ticketService := service.NewTicketService(ticketRepo, userRepo, locationRepo, machineRepo)
	commentService := service.NewCommentService(commentRepo, ticketRepo)
	ticketHandler := handler.NewTicketHandler(ticketService, commentService)

	catalogService := service.NewCatalogService(locationRepo, machineRepo)
	catalogHandler := handler.NewCatalogHandler(catalogService)

	appRouter := router.New(cfg, authMiddleware, authHandler, ticketHandler, catalogHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{server: server, db: db}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.db.Close()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
