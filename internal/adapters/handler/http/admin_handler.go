package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type AdminHandler struct {
	service ports.AdminService
	logger  *slog.Logger
}

func NewAdminHandler(service ports.AdminService, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{
		service: service,
		logger:  logger,
	}
}

type choiceRequest struct {
	ID         string `json:"id,omitempty"`
	ChoiceText string `json:"choice_text"`
	Delete     bool   `json:"delete,omitempty"`
}

type questionRequest struct {
	QuestionText string          `json:"question_text"`
	PubDate      *time.Time      `json:"pub_date"`
	Choices      []choiceRequest `json:"choices"`
}

func (req questionRequest) toInput() ports.SaveQuestionInput {
	input := ports.SaveQuestionInput{
		Text:    req.QuestionText,
		PubDate: req.PubDate,
	}
	for _, c := range req.Choices {
		input.Choices = append(input.Choices, ports.ChoiceInput{
			ID:     c.ID,
			Text:   c.ChoiceText,
			Delete: c.Delete,
		})
	}
	return input
}

// ListQuestions godoc
// @Summary      Lists questions for administrators
// @Description  Includes unpublished questions and the was_published_recently flag. Ordered by pub_date, newest first.
// @Tags         admin
// @Produce      json
// @Param        q         query  string  false  "case-insensitive search on question text"
// @Param        pub_date  query  string  false  "any, today, past_7_days, this_month or this_year"
// @Param        page      query  int     false  "page number, 10 questions per page"
// @Success      200  {array}   domain.AdminQuestionRow
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /admin/api/questions [get]
func (h *AdminHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := 1
	if raw := query.Get("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			writeError(w, http.StatusBadRequest, "invalid_page", "page must be a positive integer")
			return
		}
		page = p
	}

	rows, err := h.service.List(r.Context(), ports.ListQuestionsInput{
		Page:    page,
		Query:   query.Get("q"),
		PubDate: query.Get("pub_date"),
	})
	if err != nil {
		h.writeDomainError(w, "list_questions", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// NewQuestion godoc
// @Summary      Blank question form
// @Description  Returns an empty question with pub_date set to now and three blank choice slots.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  domain.Question
// @Router       /admin/api/questions/new [get]
func (h *AdminHandler) NewQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := h.service.Blank(r.Context())
	if err != nil {
		h.writeDomainError(w, "new_question", err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

// CreateQuestion godoc
// @Summary      Creates a question with inline choices
// @Description  Choice rows with blank text are ignored.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        question  body  questionRequest  true  "question"
// @Success      201  {object}  domain.Question
// @Failure      400  {object}  errorResponse
// @Router       /admin/api/questions [post]
func (h *AdminHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	question, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		h.writeDomainError(w, "create_question", err)
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

// GetQuestion godoc
// @Summary      Question change form
// @Description  Returns the question with all of its choices followed by three blank choice slots.
// @Tags         admin
// @Produce      json
// @Param        id  path  string  true  "question id"
// @Success      200  {object}  domain.AdminQuestionRow
// @Failure      404  {object}  errorResponse
// @Router       /admin/api/questions/{id} [get]
func (h *AdminHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	row, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "get_question", err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// UpdateQuestion godoc
// @Summary      Updates a question and its inline choices
// @Description  Rows with an id are updated, or removed when delete is true. Rows without id are added.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id        path  string           true  "question id"
// @Param        question  body  questionRequest  true  "question"
// @Success      200  {object}  domain.Question
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/api/questions/{id} [put]
func (h *AdminHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	question, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		h.writeDomainError(w, "update_question", err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary      Deletes a question and its choices
// @Tags         admin
// @Param        id  path  string  true  "question id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /admin/api/questions/{id} [delete]
func (h *AdminHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, "delete_question", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrQuestionNotFound):
		writeError(w, http.StatusNotFound, "question_not_found", domain.ErrQuestionNotFound.Error())
	case errors.Is(err, domain.ErrInvalidQuestion):
		writeError(w, http.StatusBadRequest, "invalid_question", err.Error())
	case errors.Is(err, domain.ErrInvalidPubDateFilter):
		writeError(w, http.StatusBadRequest, "invalid_pub_date_filter", err.Error())
	default:
		h.logger.Error("admin request failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
