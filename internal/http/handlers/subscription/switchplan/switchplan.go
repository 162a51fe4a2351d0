// Package switchplan реализует HTTP-обработчик смены тарифного плана арендатора.
//
// Handler принимает JSON-запрос с ID целевого плана, извлекает идентификатор
// арендатора из контекста и вызывает бизнес-логику жизненного цикла подписки.
// Апгрейд применяется немедленно, при даунгрейде денежная сверка откладывается
// до следующего биллингового цикла.
package switchplan

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/rkonweb/pre-school-sub006/internal/http/middlewarectx"
	"github.com/rkonweb/pre-school-sub006/internal/http/response"
	"github.com/rkonweb/pre-school-sub006/internal/lib/sl"
	"github.com/rkonweb/pre-school-sub006/internal/models"
	"github.com/rkonweb/pre-school-sub006/internal/services/subscription"
)

// Handler управляет HTTP-запросами на смену тарифного плана.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики жизненного цикла
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики смены плана.
type Service interface {
	SwitchPlan(ctx context.Context, tenantUID, targetPlanID string) (*models.SwitchPlanResult, error)
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
// @Summary Сменить тарифный план
// @Description Переводит текущего арендатора на другой план. Апгрейд действует немедленно, при даунгрейде сверка откладывается до следующего цикла.
// @Tags Subscription
// @Accept  json
// @Produce  json
// @Param request body models.DummySwitchPlan true "ID целевого плана"
// @Success 200 {object} map[string]any "Результат смены плана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Арендатор не авторизован"
// @Failure 404 {object} response.ErrorResponse "Подписка или план не найдены"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или неактивный план"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscription/switch [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.switchplan"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySwitchPlan
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

	res, err := h.service.SwitchPlan(r.Context(), tenantUID, req.PlanID)
	switch {
	case errors.Is(err, subscription.ErrSubscriptionNotFound):
		log.Error("subscription not found", slog.String("tenant_uid", tenantUID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("subscription not found"))
		return
	case errors.Is(err, subscription.ErrPlanNotFound):
		log.Error("target plan not found", slog.String("plan_id", req.PlanID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("target plan not found"))
		return
	case errors.Is(err, subscription.ErrPlanInactive):
		log.Error("target plan is not active", slog.String("plan_id", req.PlanID))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("target plan is not active"))
		return
	case err != nil:
		log.Error("failed to switch plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not switch plan"))
		return
	}

	log.Info("success to switch plan",
		slog.String("tenant_uid", tenantUID),
		slog.String("change", res.Change))
	render.JSON(w, r, response.StatusOKWithData(res))
}
