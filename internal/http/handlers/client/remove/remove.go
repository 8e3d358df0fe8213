// Package remove реализует HTTP-обработчик для удаления клиента.
//
// Удаление идемпотентно: повторный запрос по тому же UID вернет deleted=false.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/devprocess-manager/internal/http/response"
	"github.com/magabrotheeeer/devprocess-manager/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики удаления клиента.
type Service interface {
	Remove(ctx context.Context, uid string) (bool, error)
}

// Handler обрабатывает HTTP-запросы на удаление клиента.
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
// @Summary Удалить клиента
// @Description Удаляет клиента по UID. Поле deleted показывает, была ли запись.
// @Tags Clients
// @Security BearerAuth
// @Produce  json
// @Param id path string true "UID клиента"
// @Success 200 {object} map[string]any "Результат удаления"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /clients/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "id")
	if _, err := uuid.Parse(uid); err != nil {
		log.Error("invalid uid", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid uid"))
		return
	}

	deleted, err := h.service.Remove(r.Context(), uid)
	if err != nil {
		log.Error("failed to remove client", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove client"))
		return
	}

	log.Info("client remove processed", slog.String("uid", uid), slog.Bool("deleted", deleted))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"deleted": deleted,
	}))
}
