package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/sportshub/internal/model"
	"github.com/sakif/sportshub/internal/service"
	"github.com/sakif/sportshub/internal/validate"
)

type articleResponse struct {
	Message string             `json:"message"`
	Article *model.NewsArticle `json:"article"`
}

type articlesResponse struct {
	Articles []model.NewsArticle `json:"articles"`
}

type newsQuery struct {
	Sport string `json:"sport" validate:"oneof=football cricket"`
}

type NewsHandler struct {
	news      *service.NewsService
	validator *validate.Validator
	logger    *slog.Logger
}

func NewNewsHandler(news *service.NewsService, validator *validate.Validator, logger *slog.Logger) *NewsHandler {
	return &NewsHandler{news: news, validator: validator, logger: logger}
}

// HandleList returns curated articles followed by upstream ones. The sport
// defaults to football. An unreachable upstream is not an error.
//
// HTTP: GET /sports-news?sport=cricket
func (h *NewsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := newsQuery{Sport: r.URL.Query().Get("sport")}
	if q.Sport == "" {
		q.Sport = string(model.SportFootball)
	}
	if err := h.validator.Struct(q); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	articles, err := h.news.List(r.Context(), model.SportType(q.Sport))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, articlesResponse{Articles: articles})
}

// HTTP: POST /admin/news
func (h *NewsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.NewsInput
	if err := decode(w, r, h.validator, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	a, err := h.news.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, articleResponse{Message: "Article created", Article: a})
}

// HTTP: DELETE /admin/news/{id}
func (h *NewsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.news.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "Article deleted")
}
