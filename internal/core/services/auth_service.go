package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

// AccessTokenTTL is the lifetime of an admin access token.
const AccessTokenTTL = 15 * time.Minute

type AuthService struct {
	jwtSecret    []byte
	username     string
	passwordHash []byte
	clock        ports.Clock
}

func NewAuthService(jwtSecret, username, passwordHash string, clock ports.Clock) *AuthService {
	return &AuthService{
		jwtSecret:    []byte(jwtSecret),
		username:     username,
		passwordHash: []byte(passwordHash),
		clock:        clock,
	}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if len(s.passwordHash) == 0 {
		return "", domain.ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) != 1 {
		return "", domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	return s.IssueToken(username)
}

func (s *AuthService) IssueToken(subject string) (string, error) {
	if len(s.jwtSecret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}

	now := s.clock.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": now.Add(AccessTokenTTL).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) Verify(tokenString string) (*domain.AdminClaims, error) {
	if len(s.jwtSecret) == 0 {
		return nil, domain.ErrUnauthorized
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, domain.ErrUnauthorized
	}

	admin := &domain.AdminClaims{Subject: sub}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		admin.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		admin.IssuedAt = iat.Time
	}
	return admin, nil
}

// HashPassword returns the bcrypt hash stored as ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
