package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rkonweb/pre-school-sub006/internal/models"
)

// CreateSubscription вставляет подписку арендатора. Используется
// модулем онбординга школ и тестовыми данными.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.TenantSubscription) error {
	const op = "storage.CreateSubscription"

	query := `INSERT INTO tenant_subscriptions (tenant_uid, plan_id, status, start_date,
			      end_date, addon_users, version)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.DB.ExecContext(ctx, query,
		sub.TenantUID, sub.PlanID, sub.Status, sub.StartDate, sub.EndDate,
		sub.AddonUsers, sub.Version)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSubscription возвращает подписку арендатора вместе с текущей версией
// строки для оптимистической блокировки.
func (s *Storage) GetSubscription(ctx context.Context, tenantUID string) (*models.TenantSubscription, error) {
	const op = "storage.GetSubscription"

	query := `SELECT tenant_uid, plan_id, status, start_date, end_date, addon_users, version
			  FROM tenant_subscriptions WHERE tenant_uid = $1`
	var sub models.TenantSubscription
	err := s.DB.QueryRowContext(ctx, query, tenantUID).Scan(
		&sub.TenantUID, &sub.PlanID, &sub.Status, &sub.StartDate, &sub.EndDate,
		&sub.AddonUsers, &sub.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// UpdateSubscriptionPlan переводит подписку на другой план. Версия строки
// растёт, чтобы конкурирующая покупка дополнительных пользователей
// увидела конфликт.
func (s *Storage) UpdateSubscriptionPlan(ctx context.Context, tenantUID, planID string, expectedVersion int) error {
	const op = "storage.UpdateSubscriptionPlan"

	query := `UPDATE tenant_subscriptions
			  SET plan_id = $1, version = version + 1
			  WHERE tenant_uid = $2 AND version = $3`
	result, err := s.DB.ExecContext(ctx, query, planID, tenantUID, expectedVersion)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrConcurrentModification)
	}
	return nil
}

// IncrementAddonUsers атомарно увеличивает счётчик купленных
// дополнительных пользователей относительно версии, на которой
// рассчитывалась стоимость. Ноль изменённых строк означает, что
// базовый счётчик успел измениться и расчёт нужно повторить.
func (s *Storage) IncrementAddonUsers(ctx context.Context, tenantUID string, count, expectedVersion int) (int, error) {
	const op = "storage.IncrementAddonUsers"

	query := `UPDATE tenant_subscriptions
			  SET addon_users = addon_users + $1, version = version + 1
			  WHERE tenant_uid = $2 AND version = $3
			  RETURNING addon_users`
	var newTotal int
	err := s.DB.QueryRowContext(ctx, query, count, tenantUID, expectedVersion).Scan(&newTotal)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", op, ErrConcurrentModification)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newTotal, nil
}
