package models

import "time"

// Причины начислений, публикуемых в очередь биллинга.
const (
	ChargeReasonAddonUsers         = "addon_users_purchase"
	ChargeReasonDowngradeScheduled = "downgrade_scheduled"
)

// ChargeEvent событие начисления для внешнего биллинга. Публикуется в
// очередь после фиксации изменения подписки в хранилище; сверку отложенных
// корректировок при даунгрейде выполняет процесс биллингового цикла.
type ChargeEvent struct {
	TenantUID  string    `json:"tenant_uid"`
	PlanID     string    `json:"plan_id"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}
