// Package invoice содержит воркер, материализующий события начислений из
// очереди биллинга в строки инвойсов арендаторов.
package invoice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rkonweb/pre-school-sub006/internal/lib/sl"
	"github.com/rkonweb/pre-school-sub006/internal/models"
)

// LineRepository определяет методы хранилища строк инвойсов.
type LineRepository interface {
	CreateInvoiceLine(ctx context.Context, event models.ChargeEvent) (int, error)
	ListInvoiceLines(ctx context.Context, tenantUID string, limit, offset int) ([]*models.ChargeEvent, error)
}

// Service обрабатывает события начислений и отдаёт строки инвойсов.
type Service struct {
	repo LineRepository
	log  *slog.Logger
}

// New создает новый Service инвойсов.
func New(repo LineRepository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// HandleChargeMessage разбирает тело сообщения из очереди и записывает
// начисление в строки инвойса. Ошибка разбора не ретраибельна, ошибка
// хранилища возвращается вызывающему для nack.
func (s *Service) HandleChargeMessage(ctx context.Context, body []byte) error {
	var event models.ChargeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal charge event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if event.TenantUID == "" {
		return fmt.Errorf("charge event without tenant uid")
	}

	id, err := s.repo.CreateInvoiceLine(ctx, event)
	if err != nil {
		s.log.Error("failed to store invoice line",
			slog.String("tenant_uid", event.TenantUID), sl.Err(err))
		return err
	}

	s.log.Info("stored invoice line",
		slog.Int("id", id),
		slog.String("tenant_uid", event.TenantUID),
		slog.String("reason", event.Reason),
		slog.Float64("amount", event.Amount))
	return nil
}

// List возвращает начисления арендатора с пагинацией, новые первыми.
func (s *Service) List(ctx context.Context, tenantUID string, limit, offset int) ([]*models.ChargeEvent, error) {
	return s.repo.ListInvoiceLines(ctx, tenantUID, limit, offset)
}
