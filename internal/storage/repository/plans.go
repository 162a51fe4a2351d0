package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rkonweb/pre-school-sub006/internal/billing"
	"github.com/rkonweb/pre-school-sub006/internal/models"
)

const uniqueViolationCode = "23505"

// CreatePlan вставляет новый тарифный план и возвращает его ID.
// Ценовые диапазоны сериализуются в JSONB уже провалидированными.
func (s *Storage) CreatePlan(ctx context.Context, plan models.SubscriptionPlan) (string, error) {
	const op = "storage.CreatePlan"

	bands, err := json.Marshal(plan.AddonUserTiers)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	modules, err := json.Marshal(plan.IncludedModules)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO subscription_plans (name, slug, tier, price, currency, billing_period,
				  max_students, max_staff, max_storage_gb, additional_staff_price,
				  addon_user_tiers, included_modules, is_active, sort_order)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			  RETURNING id`
	var newID string
	err = s.DB.QueryRowContext(ctx, query,
		plan.Name, plan.Slug, string(plan.Tier), plan.Price, plan.Currency, plan.BillingPeriod,
		plan.Limits.MaxStudents, plan.Limits.MaxStaff, plan.Limits.MaxStorageGB,
		plan.AdditionalStaffPrice, bands, modules, plan.IsActive, plan.SortOrder).Scan(&newID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return "", fmt.Errorf("%s: %w", op, ErrSlugTaken)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdatePlan обновляет тарифный план по ID и возвращает число изменённых строк.
func (s *Storage) UpdatePlan(ctx context.Context, plan models.SubscriptionPlan) (int64, error) {
	const op = "storage.UpdatePlan"

	bands, err := json.Marshal(plan.AddonUserTiers)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	modules, err := json.Marshal(plan.IncludedModules)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE subscription_plans
			  SET name = $1, slug = $2, tier = $3, price = $4, currency = $5,
			      billing_period = $6, max_students = $7, max_staff = $8,
			      max_storage_gb = $9, additional_staff_price = $10,
			      addon_user_tiers = $11, included_modules = $12,
			      is_active = $13, sort_order = $14, updated_at = now()
			  WHERE id = $15`
	result, err := s.DB.ExecContext(ctx, query,
		plan.Name, plan.Slug, string(plan.Tier), plan.Price, plan.Currency, plan.BillingPeriod,
		plan.Limits.MaxStudents, plan.Limits.MaxStaff, plan.Limits.MaxStorageGB,
		plan.AdditionalStaffPrice, bands, modules, plan.IsActive, plan.SortOrder,
		plan.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return 0, fmt.Errorf("%s: %w", op, ErrSlugTaken)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// ReadPlan возвращает тарифный план по ID.
func (s *Storage) ReadPlan(ctx context.Context, id string) (*models.SubscriptionPlan, error) {
	const op = "storage.ReadPlan"

	query := `SELECT id, name, slug, tier, price, currency, billing_period,
				 max_students, max_staff, max_storage_gb, additional_staff_price,
				 addon_user_tiers, included_modules, is_active, sort_order,
				 created_at, updated_at
			  FROM subscription_plans WHERE id = $1`
	plan, err := scanPlan(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return plan, nil
}

// ListActivePlans возвращает активные планы в порядке показа каталога.
func (s *Storage) ListActivePlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	const op = "storage.ListActivePlans"

	query := `SELECT id, name, slug, tier, price, currency, billing_period,
				 max_students, max_staff, max_storage_gb, additional_staff_price,
				 addon_user_tiers, included_modules, is_active, sort_order,
				 created_at, updated_at
			  FROM subscription_plans
			  WHERE is_active
			  ORDER BY sort_order, name`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.SubscriptionPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeactivatePlan снимает план с витрины; существующие подписки план
// не теряют.
func (s *Storage) DeactivatePlan(ctx context.Context, id string) (int64, error) {
	const op = "storage.DeactivatePlan"

	result, err := s.DB.ExecContext(ctx,
		`UPDATE subscription_plans SET is_active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// rowScanner покрывает *sql.Row и *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPlan читает строку плана, разбирает JSONB-поля и валидирует
// ценовые диапазоны: испорченная конфигурация обнаруживается на чтении,
// а не доживает до расчёта стоимости.
func scanPlan(row rowScanner) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	var tier string
	var bandsRaw, modulesRaw []byte

	err := row.Scan(&plan.ID, &plan.Name, &plan.Slug, &tier, &plan.Price, &plan.Currency,
		&plan.BillingPeriod, &plan.Limits.MaxStudents, &plan.Limits.MaxStaff,
		&plan.Limits.MaxStorageGB, &plan.AdditionalStaffPrice, &bandsRaw, &modulesRaw,
		&plan.IsActive, &plan.SortOrder, &plan.CreatedAt, &plan.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	plan.Tier, err = billing.ParseTier(tier)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(bandsRaw, &plan.AddonUserTiers); err != nil {
		return nil, err
	}
	if err := billing.ValidateBands(plan.AddonUserTiers); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(modulesRaw, &plan.IncludedModules); err != nil {
		return nil, err
	}
	return &plan, nil
}
