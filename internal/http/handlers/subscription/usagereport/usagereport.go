// Package usagereport реализует HTTP-обработчик отчёта о потреблении ресурсов
// арендатора против итоговых лимитов его подписки.
package usagereport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/rkonweb/pre-school-sub006/internal/billing"
	"github.com/rkonweb/pre-school-sub006/internal/http/middlewarectx"
	"github.com/rkonweb/pre-school-sub006/internal/http/response"
	"github.com/rkonweb/pre-school-sub006/internal/lib/sl"
	"github.com/rkonweb/pre-school-sub006/internal/services/subscription"
)

// Handler обрабатывает запросы отчёта о потреблении.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики жизненного цикла
}

// Service описывает интерфейс бизнес-логики отчёта о потреблении.
type Service interface {
	UsageReport(ctx context.Context, tenantUID string) (*billing.Report, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отчёт о потреблении ресурсов
// @Description Возвращает свежий отчёт о потреблении пользователей и хранилища против итоговых лимитов подписки.
// @Tags Subscription
// @Produce  json
// @Success 200 {object} map[string]any "Отчёт о потреблении"
// @Failure 401 {object} response.ErrorResponse "Арендатор не авторизован"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscription/usage [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.usagereport"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tenantUID, ok := r.Context().Value(middlewarectx.TenantUID).(string)
	if !ok || tenantUID == "" {
		log.Error("tenant uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	report, err := h.service.UsageReport(r.Context(), tenantUID)
	switch {
	case errors.Is(err, subscription.ErrSubscriptionNotFound):
		log.Error("subscription not found", slog.String("tenant_uid", tenantUID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("subscription not found"))
		return
	case err != nil:
		log.Error("failed to build usage report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build usage report"))
		return
	}

	log.Info("success to build usage report", slog.String("tenant_uid", tenantUID))
	render.JSON(w, r, response.StatusOKWithData(report))
}
