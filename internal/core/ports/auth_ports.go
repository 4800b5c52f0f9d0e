package ports

import (
	"context"

	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type AuthService interface {
	// Login checks the admin credentials and returns a signed access token.
	Login(ctx context.Context, username, password string) (string, error)
	IssueToken(subject string) (string, error)
	Verify(token string) (*domain.AdminClaims, error)
}
