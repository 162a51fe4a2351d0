// Package addonpurchase реализует HTTP-обработчик покупки дополнительных
// пользовательских слотов.
//
// Стоимость считается сервером по ценовым диапазонам текущего плана от
// накопленного счётчика купленных слотов; клиент передаёт только количество.
package addonpurchase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/rkonweb/pre-school-sub006/internal/billing"
	"github.com/rkonweb/pre-school-sub006/internal/http/middlewarectx"
	"github.com/rkonweb/pre-school-sub006/internal/http/response"
	"github.com/rkonweb/pre-school-sub006/internal/lib/sl"
	"github.com/rkonweb/pre-school-sub006/internal/models"
	"github.com/rkonweb/pre-school-sub006/internal/services/subscription"
	"github.com/rkonweb/pre-school-sub006/internal/storage/repository"
)

// Handler управляет HTTP-запросами на покупку дополнительных пользователей.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики жизненного цикла
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики покупки слотов.
type Service interface {
	PurchaseAddonUsers(ctx context.Context, tenantUID string, count int) (*models.AddonPurchaseResult, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Купить дополнительные пользовательские слоты
// @Description Покупает указанное количество дополнительных пользователей по диапазонам текущего плана и возвращает списанную сумму.
// @Tags Subscription
// @Accept  json
// @Produce  json
// @Param request body models.DummyAddonPurchase true "Количество слотов"
// @Success 200 {object} map[string]any "Результат покупки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Арендатор не авторизован"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 409 {object} response.ErrorResponse "Конкурирующее изменение подписки"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или конфигурации цен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscription/addons [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.addonpurchase"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyAddonPurchase
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	tenantUID, ok := r.Context().Value(middlewarectx.TenantUID).(string)
	if !ok || tenantUID == "" {
		log.Error("tenant uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.PurchaseAddonUsers(r.Context(), tenantUID, req.Count)
	switch {
	case errors.Is(err, subscription.ErrSubscriptionNotFound):
		log.Error("subscription not found", slog.String("tenant_uid", tenantUID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("subscription not found"))
		return
	case errors.Is(err, billing.ErrInvalidCount),
		errors.Is(err, billing.ErrTierGap),
		errors.Is(err, subscription.ErrPlanHasNoPricing):
		log.Error("cannot price addon purchase", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case errors.Is(err, repository.ErrConcurrentModification):
		log.Error("concurrent subscription modification", slog.String("tenant_uid", tenantUID))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("subscription was modified concurrently, try again"))
		return
	case err != nil:
		log.Error("failed to purchase addon users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not purchase addon users"))
		return
	}

	log.Info("success to purchase addon users",
		slog.String("tenant_uid", tenantUID),
		slog.Int("new_total", res.NewAddonTotal))
	render.JSON(w, r, response.StatusOKWithData(res))
}
