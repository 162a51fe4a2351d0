package repository

import (
	"context"
	"fmt"

	"github.com/rkonweb/pre-school-sub006/internal/models"
)

// CreateInvoiceLine записывает начисление в строки следующего инвойса
// арендатора. Вызывается воркером инвойсов при обработке события из
// очереди биллинга.
func (s *Storage) CreateInvoiceLine(ctx context.Context, event models.ChargeEvent) (int, error) {
	const op = "storage.CreateInvoiceLine"

	query := `INSERT INTO invoice_lines (tenant_uid, plan_id, amount, currency, reason, occurred_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		event.TenantUID, event.PlanID, event.Amount, event.Currency,
		event.Reason, event.OccurredAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListInvoiceLines возвращает начисления арендатора с пагинацией,
// новые первыми.
func (s *Storage) ListInvoiceLines(ctx context.Context, tenantUID string, limit, offset int) ([]*models.ChargeEvent, error) {
	const op = "storage.ListInvoiceLines"

	query := `SELECT tenant_uid, plan_id, amount, currency, reason, occurred_at
			  FROM invoice_lines
			  WHERE tenant_uid = $1
			  ORDER BY occurred_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, tenantUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.ChargeEvent
	for rows.Next() {
		var item models.ChargeEvent
		err := rows.Scan(&item.TenantUID, &item.PlanID, &item.Amount,
			&item.Currency, &item.Reason, &item.OccurredAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
