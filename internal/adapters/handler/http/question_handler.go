package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type QuestionHandler struct {
	service ports.QuestionService
	views   *Views
	logger  *slog.Logger
}

func NewQuestionHandler(service ports.QuestionService, views *Views, logger *slog.Logger) *QuestionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestionHandler{
		service: service,
		views:   views,
		logger:  logger,
	}
}

func (h *QuestionHandler) Index(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.Index(r.Context())
	if err != nil {
		h.serverError(w, "index", err)
		return
	}

	view := indexView{Questions: questions}
	if len(questions) == 0 {
		view.EmptyMessage = domain.NoPollsMessage
	}
	if err := h.views.render(w, http.StatusOK, "index.html", view); err != nil {
		h.serverError(w, "index", err)
	}
}

func (h *QuestionHandler) Detail(w http.ResponseWriter, r *http.Request) {
	question, err := h.service.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.lookupError(w, r, "detail", err)
		return
	}

	if err := h.views.render(w, http.StatusOK, "detail.html", detailView{Question: question}); err != nil {
		h.serverError(w, "detail", err)
	}
}

func (h *QuestionHandler) Results(w http.ResponseWriter, r *http.Request) {
	question, err := h.service.Results(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.lookupError(w, r, "results", err)
		return
	}

	if err := h.views.render(w, http.StatusOK, "results.html", resultsView{Question: question}); err != nil {
		h.serverError(w, "results", err)
	}
}

func (h *QuestionHandler) lookupError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, domain.ErrQuestionNotFound) {
		http.NotFound(w, r)
		return
	}
	h.serverError(w, op, err)
}

func (h *QuestionHandler) serverError(w http.ResponseWriter, op string, err error) {
	h.logger.Error("request failed", "op", op, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
