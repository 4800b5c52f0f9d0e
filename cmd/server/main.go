package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/polls/internal/adapters/handler/http"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/polls/internal/config"
	"github.com/vncsmyrnk/polls/internal/core/ports"
	"github.com/vncsmyrnk/polls/internal/core/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeDB, err := openRepository(ctx, cfg)
	if err != nil {
		logger.Error("failed to open database", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer closeDB()

	if cfg.AdminPasswordHash == "" {
		logger.Warn("ADMIN_PASSWORD_HASH is not set, admin login is disabled")
	}

	clock := services.SystemClock{Location: cfg.Location()}

	views, err := http.NewViews(clock.Now)
	if err != nil {
		logger.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	// Initialize Services
	questionService := services.NewQuestionService(repo, clock)
	voteService := services.NewVoteService(repo, clock)
	adminService := services.NewAdminService(repo, clock)
	authService := services.NewAuthService(cfg.JWTSecret, cfg.AdminUsername, cfg.AdminPasswordHash, clock)

	// Initialize Handlers
	cookie := http.CookieOptions{
		Domain:   cfg.CookieDomain,
		Secure:   cfg.CookieSecure,
		SameSite: stdhttp.SameSiteLaxMode,
	}
	handler := http.NewHandler(
		http.NewQuestionHandler(questionService, views, logger),
		http.NewVoteHandler(voteService, views, logger),
		http.NewAdminHandler(adminService, logger),
		http.NewAuthHandler(authService, "/admin/api/questions", cookie, logger),
	)

	server := &stdhttp.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", server.Addr, "database", cfg.DatabaseType, "time_zone", cfg.TimeZone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func openRepository(ctx context.Context, cfg config.Config) (ports.QuestionRepository, func(), error) {
	switch cfg.DatabaseType {
	case config.DatabaseMemory:
		return memory.NewQuestionRepository(), func() {}, nil
	case config.DatabaseSQLite:
		db, err := sqlite.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewQuestionRepository(db), func() { db.Close() }, nil
	default:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewQuestionRepository(db), func() { db.Close() }, nil
	}
}
