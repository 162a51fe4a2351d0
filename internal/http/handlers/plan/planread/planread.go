// Package planread реализует HTTP-обработчик получения тарифного плана по ID.
package planread

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/rkonweb/pre-school-sub006/internal/http/response"
	"github.com/rkonweb/pre-school-sub006/internal/lib/sl"
	"github.com/rkonweb/pre-school-sub006/internal/models"
	"github.com/rkonweb/pre-school-sub006/internal/storage/repository"
)

// Handler обрабатывает запросы на получение плана по идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики каталога планов
}

// Service описывает интерфейс бизнес-логики чтения плана.
type Service interface {
	Read(ctx context.Context, id string) (*models.SubscriptionPlan, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить тарифный план
// @Description Возвращает тарифный план по его ID.
// @Tags Plans
// @Produce  json
// @Param id path string true "ID плана"
// @Success 200 {object} map[string]any "Данные плана"
// @Failure 404 {object} response.ErrorResponse "План не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /plans/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	res, err := h.service.Read(r.Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		log.Error("plan not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("plan not found"))
		return
	case err != nil:
		log.Error("failed to read plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read plan"))
		return
	}

	log.Info("success to read plan", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"plan": res,
	}))
}
