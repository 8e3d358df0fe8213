// Package list реализует HTTP-обработчик для постраничного списка клиентов.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/devprocess-manager/internal/http/response"
	"github.com/magabrotheeeer/devprocess-manager/internal/lib/sl"
	"github.com/magabrotheeeer/devprocess-manager/internal/models"
)

// Service описывает интерфейс бизнес-логики получения списка клиентов.
type Service interface {
	List(ctx context.Context, page, pageSize int) (*models.PaginatedResult[models.Client], error)
}

// Handler обрабатывает HTTP-запросы на получение списка клиентов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список клиентов
// @Description Возвращает страницу списка клиентов с общим числом записей.
// @Tags Clients
// @Security BearerAuth
// @Produce  json
// @Param page query int false "Номер страницы (по умолчанию 1)"
// @Param page_size query int false "Размер страницы (по умолчанию 10)"
// @Success 200 {object} map[string]any "Страница списка клиентов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /clients [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	result, err := h.service.List(r.Context(), page, pageSize)
	if err != nil {
		log.Error("failed to list clients", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list clients"))
		return
	}

	log.Info("clients listed",
		slog.Int("page", result.Page),
		slog.Int("count", len(result.Items)))
	render.JSON(w, r, response.OKWithData(result))
}
