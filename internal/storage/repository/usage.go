package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rkonweb/pre-school-sub006/internal/billing"
)

// GetUsageSnapshot возвращает текущее потребление арендатора: счётчики
// учеников и сотрудников и занятое хранилище. Таблицу tenant_usage ведут
// модули данных арендатора; биллинговое ядро её только читает и никогда
// не кэширует между запросами.
func (s *Storage) GetUsageSnapshot(ctx context.Context, tenantUID string) (billing.Snapshot, error) {
	const op = "storage.GetUsageSnapshot"

	query := `SELECT current_students, current_staff, storage_used_gb
			  FROM tenant_usage WHERE tenant_uid = $1`
	var snap billing.Snapshot
	err := s.DB.QueryRowContext(ctx, query, tenantUID).Scan(
		&snap.CurrentStudents, &snap.CurrentStaff, &snap.StorageUsedGB)
	if errors.Is(err, sql.ErrNoRows) {
		// у нового арендатора счётчиков ещё нет
		return billing.Snapshot{}, nil
	}
	if err != nil {
		return billing.Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}
	return snap, nil
}
