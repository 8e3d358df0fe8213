// Package read реализует HTTP-обработчик для получения клиента по UID.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/devprocess-manager/internal/http/response"
	"github.com/magabrotheeeer/devprocess-manager/internal/lib/sl"
	"github.com/magabrotheeeer/devprocess-manager/internal/models"
	"github.com/magabrotheeeer/devprocess-manager/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики чтения клиента.
type Service interface {
	Read(ctx context.Context, uid string) (*models.Client, error)
}

// Handler обрабатывает HTTP-запросы на чтение клиента.
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
// @Summary Получить клиента по UID
// @Description Возвращает данные клиента по его UID.
// @Tags Clients
// @Security BearerAuth
// @Produce  json
// @Param id path string true "UID клиента"
// @Success 200 {object} models.Client "Данные клиента"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /clients/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.read"
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

	client, err := h.service.Read(r.Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("client not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("client not found"))
			return
		}
		log.Error("failed to read client", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read client"))
		return
	}

	log.Info("client found", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData(client))
}
