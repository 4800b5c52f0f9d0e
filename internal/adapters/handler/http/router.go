package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/vncsmyrnk/polls/internal/adapters/handler/http/docs"
)

// @title        Polls API
// @version      1.0
// @description  Public poll pages and the administrative question API.
// @BasePath     /
func NewHandler(questionHandler *QuestionHandler, voteHandler *VoteHandler, adminHandler *AdminHandler, authHandler *AuthHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/polls/", http.StatusFound)
	})

	r.Route("/polls", func(r chi.Router) {
		r.Get("/", questionHandler.Index)
		r.Get("/{id}", questionHandler.Detail)
		r.Get("/{id}/results", questionHandler.Results)
		r.Post("/{id}/vote", voteHandler.Vote)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		r.Route("/api", func(r chi.Router) {
			r.Use(authHandler.RequireAdmin)

			r.Get("/me", authHandler.Me)
			r.Route("/questions", func(r chi.Router) {
				r.Get("/", adminHandler.ListQuestions)
				r.Post("/", adminHandler.CreateQuestion)
				r.Get("/new", adminHandler.NewQuestion)
				r.Get("/{id}", adminHandler.GetQuestion)
				r.Put("/{id}", adminHandler.UpdateQuestion)
				r.Delete("/{id}", adminHandler.DeleteQuestion)
			})
		})
	})

	// StripSlashes turns "/swagger/" into "/swagger", which the wildcard below does not match.
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
