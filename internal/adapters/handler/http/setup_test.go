package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/services"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type testApp struct {
	Server *httptest.Server
	Client *http.Client
	Repo   *memory.QuestionRepository
	Clock  *fixedClock
	Auth   *services.AuthService
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	clock := &fixedClock{now: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
	repo := memory.NewQuestionRepository()

	hash, err := services.HashPassword("s3cret")
	require.NoError(t, err)
	authService := services.NewAuthService("test-secret", "admin", hash, clock)

	views, err := NewViews(clock.Now)
	require.NoError(t, err)

	handler := NewHandler(
		NewQuestionHandler(services.NewQuestionService(repo, clock), views, nil),
		NewVoteHandler(services.NewVoteService(repo, clock), views, nil),
		NewAdminHandler(services.NewAdminService(repo, clock), nil),
		NewAuthHandler(authService, "/admin/api/questions", CookieOptions{SameSite: http.SameSiteLaxMode}, nil),
	)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := server.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &testApp{
		Server: server,
		Client: client,
		Repo:   repo,
		Clock:  clock,
		Auth:   authService,
	}
}

func (a *testApp) createQuestion(t *testing.T, text string, days int, choices ...string) *domain.Question {
	t.Helper()

	q := &domain.Question{Text: text, PubDate: a.Clock.now.AddDate(0, 0, days)}
	for _, c := range choices {
		q.Choices = append(q.Choices, domain.Choice{Text: c})
	}
	require.NoError(t, a.Repo.Create(context.Background(), q))
	return q
}

func (a *testApp) adminToken(t *testing.T) string {
	t.Helper()
	token, err := a.Auth.IssueToken("admin")
	require.NoError(t, err)
	return token
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
