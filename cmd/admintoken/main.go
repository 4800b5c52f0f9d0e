package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/vncsmyrnk/polls/internal/core/services"
)

const usage = `usage:
  admintoken hash <password>   print a bcrypt hash for ADMIN_PASSWORD_HASH
  admintoken token <subject>   print an admin access token signed with JWT_SECRET`

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "hash":
		hash, err := services.HashPassword(os.Args[2])
		if err != nil {
			slog.Error("failed to hash password", "error", err)
			os.Exit(1)
		}
		fmt.Println(hash)
	case "token":
		_ = godotenv.Load()
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			slog.Error("JWT_SECRET required")
			os.Exit(1)
		}
		auth := services.NewAuthService(secret, os.Args[2], "", services.SystemClock{})
		token, err := auth.IssueToken(os.Args[2])
		if err != nil {
			slog.Error("failed to issue token", "error", err)
			os.Exit(1)
		}
		fmt.Println(token)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}
