// Package invoicelist реализует HTTP-обработчик получения начислений арендатора.
package invoicelist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/rkonweb/pre-school-sub006/internal/http/middlewarectx"
	"github.com/rkonweb/pre-school-sub006/internal/http/response"
	"github.com/rkonweb/pre-school-sub006/internal/lib/sl"
	"github.com/rkonweb/pre-school-sub006/internal/models"
)

// Handler обрабатывает запросы на получение начислений арендатора.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис строк инвойсов
}

// Service описывает интерфейс чтения строк инвойсов.
type Service interface {
	List(ctx context.Context, tenantUID string, limit, offset int) ([]*models.ChargeEvent, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Начисления арендатора
// @Description Возвращает начисления текущего арендатора с пагинацией, новые первыми.
// @Tags Subscription
// @Produce  json
// @Param limit query int false "Максимум записей" default(10)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список начислений"
// @Failure 401 {object} response.ErrorResponse "Арендатор не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscription/invoices [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.invoicelist"
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

	limit := queryInt(r, "limit", 10)
	offset := queryInt(r, "offset", 0)

	lines, err := h.service.List(r.Context(), tenantUID, limit, offset)
	if err != nil {
		log.Error("failed to list invoice lines", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list invoice lines"))
		return
	}

	log.Info("success to list invoice lines",
		slog.String("tenant_uid", tenantUID), slog.Int("count", len(lines)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"invoice_lines": lines,
	}))
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return def
	}
	return val
}
