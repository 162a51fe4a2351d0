package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы подписки арендатора. Перевод в EXPIRED выполняет внешний
// планировщик платформы по истечении EndDate.
const (
	SubscriptionStatusActive  = "ACTIVE"
	SubscriptionStatusTrial   = "TRIAL"
	SubscriptionStatusExpired = "EXPIRED"
)

// TenantSubscription подписка школы-арендатора на тарифный план.
// AddonUsers накопленный счётчик купленных дополнительных пользовательских
// слотов, при нормальной работе не убывает. Version поддерживает
// оптимистическую блокировку: конкурирующие покупки не должны считать
// стоимость от одного и того же базового счётчика.
type TenantSubscription struct {
	TenantUID  string    // Идентификатор арендатора
	PlanID     uuid.UUID // Текущий тарифный план
	Status     string    // ACTIVE, TRIAL или EXPIRED
	StartDate  time.Time // Начало подписки
	EndDate    time.Time // Окончание оплаченного периода
	AddonUsers int       // Куплено дополнительных пользователей
	Version    int       // Счётчик версий строки
}

// DummySwitchPlan запрос смены тарифного плана.
type DummySwitchPlan struct {
	PlanID string `json:"plan_id" validate:"required,uuid"`
}

// DummyAddonPurchase запрос покупки дополнительных пользовательских слотов.
type DummyAddonPurchase struct {
	Count int `json:"count" validate:"required,gte=1"`
}

// SwitchPlanResult результат смены плана для слоя представления.
type SwitchPlanResult struct {
	Message string `json:"message"`
	Change  string `json:"change"`
	PlanID  string `json:"plan_id"`
}

// AddonPurchaseResult результат покупки дополнительных пользователей.
type AddonPurchaseResult struct {
	Message       string  `json:"message"`
	NewAddonTotal int     `json:"new_addon_total"`
	ChargedAmount float64 `json:"charged_amount"`
	Currency      string  `json:"currency"`
}
