// Package models содержит доменные структуры тарифных планов и подписок
// арендаторов, а также вспомогательные типы для приёма данных из
// JSON-запросов до их конвертации в доменные структуры.
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rkonweb/pre-school-sub006/internal/billing"
)

// Поддерживаемые периоды тарификации плана.
const (
	BillingPeriodMonthly = "monthly"
	BillingPeriodYearly  = "yearly"
)

// SubscriptionPlan тарифный план платформы. Диапазоны цен дополнительных
// пользователей хранятся типизированным списком и валидируются на записи,
// а не терпятся испорченными на чтении.
type SubscriptionPlan struct {
	ID                   uuid.UUID           // Идентификатор плана
	Name                 string              // Отображаемое имя
	Slug                 string              // Уникальный машинный идентификатор
	Tier                 billing.Tier        // Тарифный уровень
	Price                float64             // Базовая цена за период
	Currency             string              // Код валюты
	BillingPeriod        string              // monthly или yearly
	Limits               billing.PlanLimits  // Базовые лимиты ресурсов
	AdditionalStaffPrice float64             // Плоская ставка за пользователя без диапазонов
	AddonUserTiers       []billing.PriceBand // Ступенчатые цены дополнительных пользователей
	IncludedModules      []string            // Идентификаторы доступных модулей
	IsActive             bool                // Доступен ли план для выбора
	SortOrder            int                 // Порядок показа в каталоге
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// DummyPlan используется для приёма данных плана из JSON-запроса
// админской консоли, прежде чем конвертировать их в SubscriptionPlan.
type DummyPlan struct {
	Name                 string      `json:"name" validate:"required"`
	Slug                 string      `json:"slug"`
	Tier                 string      `json:"tier" validate:"required"`
	Price                float64     `json:"price" validate:"gte=0"`
	Currency             string      `json:"currency" validate:"required"`
	BillingPeriod        string      `json:"billing_period" validate:"required"`
	MaxStudents          int         `json:"max_students" validate:"gte=0"`
	MaxStaff             int         `json:"max_staff" validate:"gte=0"`
	MaxStorageGB         int         `json:"max_storage_gb" validate:"gte=0"`
	AdditionalStaffPrice float64     `json:"additional_staff_price" validate:"gte=0"`
	AddonUserTiers       []DummyBand `json:"addon_user_tiers"`
	IncludedModules      []string    `json:"included_modules"`
	IsActive             *bool       `json:"is_active"`
	SortOrder            int         `json:"sort_order"`
}

// DummyBand один ценовой диапазон из JSON-запроса.
type DummyBand struct {
	From         int     `json:"from" validate:"gte=1"`
	To           *int    `json:"to"`
	PricePerUser float64 `json:"price_per_user" validate:"gte=0"`
}
