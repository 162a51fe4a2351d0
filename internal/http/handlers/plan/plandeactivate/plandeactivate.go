// Package plandeactivate реализует HTTP-обработчик снятия плана с витрины.
//
// План не удаляется: существующие подписки продолжают ссылаться на него,
// он лишь перестаёт быть доступным для выбора.
package plandeactivate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/rkonweb/pre-school-sub006/internal/http/response"
	"github.com/rkonweb/pre-school-sub006/internal/lib/sl"
)

// Handler обрабатывает запросы на деактивацию плана.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики каталога планов
}

// Service описывает интерфейс бизнес-логики деактивации плана.
type Service interface {
	Deactivate(ctx context.Context, id string) (int64, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Снять план с витрины
// @Description Помечает тарифный план неактивным, не трогая существующие подписки.
// @Tags Plans
// @Produce  json
// @Param id path string true "ID плана"
// @Success 200 {object} map[string]any "Успешная деактивация"
// @Failure 404 {object} response.ErrorResponse "План не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /plans/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.deactivate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	count, err := h.service.Deactivate(r.Context(), id)
	switch {
	case err != nil:
		log.Error("failed to deactivate plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not deactivate plan"))
		return
	case count == 0:
		log.Error("plan not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("plan not found"))
		return
	}

	log.Info("success to deactivate plan", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deactivated": count,
	}))
}
