package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/rkonweb/pre-school-sub006/internal/billing"
	"github.com/rkonweb/pre-school-sub006/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreatePlan создает тестовый тарифный план и возвращает его ID
func (f *TestDataFactory) CreatePlan(t *testing.T, plan models.SubscriptionPlan) string {
	id, err := f.storage.CreatePlan(context.Background(), plan)
	require.NoError(t, err)
	return id
}

// CreateSubscription создает тестовую подписку арендатора
func (f *TestDataFactory) CreateSubscription(t *testing.T, tenantUID, planID string, addonUsers int) {
	err := f.storage.CreateSubscription(context.Background(), models.TenantSubscription{
		TenantUID:  tenantUID,
		PlanID:     uuid.MustParse(planID),
		Status:     models.SubscriptionStatusActive,
		StartDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		AddonUsers: addonUsers,
		Version:    1,
	})
	require.NoError(t, err)
}

// CreateUsage создает тестовый снимок потребления арендатора
func (f *TestDataFactory) CreateUsage(t *testing.T, tenantUID string, students, staff, storageGB int) {
	_, err := f.storage.DB.Exec(`INSERT INTO tenant_usage
		(tenant_uid, current_students, current_staff, storage_used_gb)
		VALUES ($1, $2, $3, $4)`,
		tenantUID, students, staff, storageGB)
	require.NoError(t, err)
}

// GetTestPlan возвращает стандартный тестовый план с двумя диапазонами цен
func GetTestPlan(name, slug string, tier billing.Tier) models.SubscriptionPlan {
	ten := 10
	return models.SubscriptionPlan{
		Name:          name,
		Slug:          slug,
		Tier:          tier,
		Price:         2999,
		Currency:      "USD",
		BillingPeriod: models.BillingPeriodMonthly,
		Limits: billing.PlanLimits{
			MaxStudents:  80,
			MaxStaff:     20,
			MaxStorageGB: 10,
		},
		AdditionalStaffPrice: 0,
		AddonUserTiers: []billing.PriceBand{
			{From: 1, To: &ten, PricePerUser: 20},
			{From: 11, To: nil, PricePerUser: 15},
		},
		IncludedModules: []string{"attendance", "billing"},
		IsActive:        true,
		SortOrder:       1,
	}
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute)),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			err = storage.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	// Создаем таблицы
	_, err = storage.DB.Exec(`
        CREATE EXTENSION IF NOT EXISTS "pgcrypto";

        CREATE TABLE subscription_plans (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            name TEXT NOT NULL,
            slug TEXT NOT NULL UNIQUE,
            tier TEXT NOT NULL CHECK (tier IN ('free', 'basic', 'premium', 'enterprise')),
            price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
            currency TEXT NOT NULL,
            billing_period TEXT NOT NULL CHECK (billing_period IN ('monthly', 'yearly')),
            max_students INTEGER NOT NULL CHECK (max_students >= 0),
            max_staff INTEGER NOT NULL CHECK (max_staff >= 0),
            max_storage_gb INTEGER NOT NULL CHECK (max_storage_gb >= 0),
            additional_staff_price NUMERIC(10, 2) NOT NULL DEFAULT 0,
            addon_user_tiers JSONB NOT NULL DEFAULT '[]',
            included_modules JSONB NOT NULL DEFAULT '[]',
            is_active BOOLEAN NOT NULL DEFAULT true,
            sort_order INTEGER NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE tenant_subscriptions (
            tenant_uid UUID PRIMARY KEY,
            plan_id UUID NOT NULL REFERENCES subscription_plans (id),
            status TEXT NOT NULL CHECK (status IN ('ACTIVE', 'TRIAL', 'EXPIRED')),
            start_date DATE NOT NULL,
            end_date DATE NOT NULL,
            addon_users INTEGER NOT NULL DEFAULT 0 CHECK (addon_users >= 0),
            version INTEGER NOT NULL DEFAULT 1
        );

        CREATE TABLE tenant_usage (
            tenant_uid UUID PRIMARY KEY,
            current_students INTEGER NOT NULL DEFAULT 0,
            current_staff INTEGER NOT NULL DEFAULT 0,
            storage_used_gb INTEGER NOT NULL DEFAULT 0,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE invoice_lines (
            id SERIAL PRIMARY KEY,
            tenant_uid UUID NOT NULL,
            plan_id UUID NOT NULL,
            amount NUMERIC(12, 2) NOT NULL,
            currency TEXT NOT NULL,
            reason TEXT NOT NULL,
            occurred_at TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if postgresContainer != nil {
			_ = postgresContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
