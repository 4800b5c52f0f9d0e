package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/polls/internal/config"
)

// Usage: migrations <name|all> [up|down]
func main() {
	if len(os.Args) < 2 {
		slog.Error("a migration name is required", "usage", "migrations <name|all> [up|down]")
		os.Exit(1)
	}
	migrationName := os.Args[1]

	direction := postgres.Up
	if len(os.Args) > 2 {
		direction = postgres.Direction(os.Args[2])
	}
	if direction != postgres.Up && direction != postgres.Down {
		slog.Error("invalid migration direction", "direction", direction)
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found")
	}

	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		connStr = config.PostgresDSNFromEnv()
	}
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := run(ctx, db, migrationName, direction); err != nil {
		slog.Error("migration failed", "name", migrationName, "direction", direction, "error", err)
		os.Exit(1)
	}

	fmt.Println("Migration executed successfully.")
}

func run(ctx context.Context, db *sql.DB, name string, direction postgres.Direction) error {
	if name == "all" {
		return postgres.ApplyMigrations(ctx, db, direction)
	}

	content, err := postgres.MigrationFileContent(name, direction)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute SQL file: %w", err)
	}
	return nil
}
