package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
	views   *Views
	logger  *slog.Logger
}

func NewVoteHandler(service ports.VoteService, views *Views, logger *slog.Logger) *VoteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &VoteHandler{
		service: service,
		views:   views,
		logger:  logger,
	}
}

// Vote handles the detail page form. A missing or unknown choice re-renders
// the form with an error and a 200 status; a recorded vote redirects to the
// results page so a refresh cannot submit it twice.
func (h *VoteHandler) Vote(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	input := ports.VoteInput{
		QuestionID: chi.URLParam(r, "id"),
		ChoiceID:   r.PostFormValue("choice"),
	}

	question, err := h.service.Vote(r.Context(), input)
	switch {
	case err == nil:
		http.Redirect(w, r, resultsURL(question), http.StatusSeeOther)
	case errors.Is(err, domain.ErrNoChoiceSelected):
		view := detailView{Question: question, ErrorMessage: domain.NoChoiceSelectedMessage}
		if err := h.views.render(w, http.StatusOK, "detail.html", view); err != nil {
			h.logger.Error("request failed", "op", "vote", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	case errors.Is(err, domain.ErrQuestionNotFound):
		http.NotFound(w, r)
	default:
		h.logger.Error("request failed", "op", "vote", "question_id", input.QuestionID, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func resultsURL(q *domain.Question) string {
	return fmt.Sprintf("/polls/%s/results/", q.ID)
}
