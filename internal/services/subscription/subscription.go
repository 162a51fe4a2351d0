// Package subscription содержит бизнес-логику жизненного цикла подписки
// арендатора: смену тарифного плана, покупку дополнительных
// пользовательских слотов и отчёт о потреблении ресурсов.
//
// Апгрейд и смена на план того же уровня применяются немедленно.
// Даунгрейд тоже меняет план сразу — доступ и лимиты падают — но
// денежная сверка откладывается до следующего биллингового цикла:
// операция не считает и не возвращает никаких компенсаций.
//
// Купленные дополнительные пользователи переживают смену плана:
// счётчик addon_users не зависит от плана, диапазоны нового плана
// применяются только к будущим покупкам.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/rkonweb/pre-school-sub006/internal/billing"
	"github.com/rkonweb/pre-school-sub006/internal/lib/rabbitmq"
	"github.com/rkonweb/pre-school-sub006/internal/lib/sl"
	"github.com/rkonweb/pre-school-sub006/internal/models"
	"github.com/rkonweb/pre-school-sub006/internal/storage/repository"
)

// Ошибки операций жизненного цикла, различаемые обработчиками.
var (
	// ErrSubscriptionNotFound у арендатора нет подписки.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrPlanNotFound целевой план не существует.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrPlanInactive целевой план снят с витрины.
	ErrPlanInactive = errors.New("plan is not active")
	// ErrPlanHasNoPricing у плана нет ни диапазонов, ни плоской ставки.
	ErrPlanHasNoPricing = errors.New("plan has no addon pricing configured")
)

// SubscriptionRepository определяет методы хранилища подписок.
type SubscriptionRepository interface {
	GetSubscription(ctx context.Context, tenantUID string) (*models.TenantSubscription, error)
	UpdateSubscriptionPlan(ctx context.Context, tenantUID, planID string, expectedVersion int) error
	IncrementAddonUsers(ctx context.Context, tenantUID string, count, expectedVersion int) (int, error)
	GetUsageSnapshot(ctx context.Context, tenantUID string) (billing.Snapshot, error)
}

// PlanProvider отдаёт тарифные планы каталога.
type PlanProvider interface {
	Read(ctx context.Context, id string) (*models.SubscriptionPlan, error)
}

// Publisher публикует события начислений во внешний биллинг.
type Publisher interface {
	Publish(exchange, routingKey string, message any) error
}

// ChannelPublisher адаптирует канал RabbitMQ под интерфейс Publisher.
type ChannelPublisher struct {
	Ch *amqp.Channel
}

// Publish отправляет сообщение в обмен биллинга.
func (p ChannelPublisher) Publish(exchange, routingKey string, message any) error {
	return rabbitmq.PublishMessage(p.Ch, exchange, routingKey, message)
}

// Service реализует операции жизненного цикла подписки.
type Service struct {
	repo      SubscriptionRepository
	plans     PlanProvider
	publisher Publisher
	log       *slog.Logger
}

// New создает новый Service жизненного цикла подписок.
func New(repo SubscriptionRepository, plans PlanProvider, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		plans:     plans,
		publisher: publisher,
		log:       log,
	}
}

// SwitchPlan переводит арендатора на другой тарифный план.
// План применяется немедленно при любом направлении смены; при
// даунгрейде в очередь биллинга уходит событие для отложенной сверки.
func (s *Service) SwitchPlan(ctx context.Context, tenantUID, targetPlanID string) (*models.SwitchPlanResult, error) {
	sub, err := s.getSubscription(ctx, tenantUID)
	if err != nil {
		return nil, err
	}

	targetPlan, err := s.getPlan(ctx, targetPlanID)
	if err != nil {
		return nil, err
	}
	if !targetPlan.IsActive {
		return nil, ErrPlanInactive
	}

	currentPlan, err := s.getPlan(ctx, sub.PlanID.String())
	if err != nil {
		return nil, err
	}

	change, err := billing.Classify(currentPlan.Tier, targetPlan.Tier)
	if err != nil {
		return nil, err
	}

	err = s.withConflictRetry(ctx, tenantUID, func(version int) error {
		return s.repo.UpdateSubscriptionPlan(ctx, tenantUID, targetPlanID, version)
	}, sub.Version)
	if err != nil {
		return nil, err
	}
	s.log.Info("switched plan",
		slog.String("tenant_uid", tenantUID),
		slog.String("plan_id", targetPlanID),
		slog.String("change", string(change)))

	if change == billing.ChangeDowngrade {
		s.publishCharge(models.ChargeEvent{
			TenantUID:  tenantUID,
			PlanID:     targetPlanID,
			Amount:     0,
			Currency:   targetPlan.Currency,
			Reason:     models.ChargeReasonDowngradeScheduled,
			OccurredAt: time.Now().UTC(),
		})
	}

	return &models.SwitchPlanResult{
		Message: switchMessage(change, targetPlan.Name),
		Change:  string(change),
		PlanID:  targetPlanID,
	}, nil
}

// PurchaseAddonUsers покупает count дополнительных пользовательских
// слотов. Стоимость считается от текущего накопленного счётчика по
// диапазонам текущего плана; инкремент атомарен относительно версии,
// на которой считалась цена, и повторяется один раз при конфликте.
func (s *Service) PurchaseAddonUsers(ctx context.Context, tenantUID string, count int) (*models.AddonPurchaseResult, error) {
	if count < 1 {
		return nil, billing.ErrInvalidCount
	}

	var result *models.AddonPurchaseResult
	attempt := func() error {
		sub, err := s.getSubscription(ctx, tenantUID)
		if err != nil {
			return err
		}
		plan, err := s.getPlan(ctx, sub.PlanID.String())
		if err != nil {
			return err
		}
		if len(plan.AddonUserTiers) == 0 && plan.AdditionalStaffPrice <= 0 {
			return ErrPlanHasNoPricing
		}

		cost, err := billing.CalculateTieredAddonCost(
			sub.AddonUsers, count, plan.AddonUserTiers, plan.AdditionalStaffPrice)
		if err != nil {
			return err
		}

		newTotal, err := s.repo.IncrementAddonUsers(ctx, tenantUID, count, sub.Version)
		if err != nil {
			return err
		}

		s.publishCharge(models.ChargeEvent{
			TenantUID:  tenantUID,
			PlanID:     sub.PlanID.String(),
			Amount:     cost,
			Currency:   plan.Currency,
			Reason:     models.ChargeReasonAddonUsers,
			OccurredAt: time.Now().UTC(),
		})

		result = &models.AddonPurchaseResult{
			Message:       fmt.Sprintf("purchased %d additional user slots", count),
			NewAddonTotal: newTotal,
			ChargedAmount: cost,
			Currency:      plan.Currency,
		}
		return nil
	}

	err := attempt()
	if errors.Is(err, repository.ErrConcurrentModification) {
		s.log.Info("addon purchase conflicted, retrying with fresh read",
			slog.String("tenant_uid", tenantUID))
		err = attempt()
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("purchased addon users",
		slog.String("tenant_uid", tenantUID),
		slog.Int("count", count),
		slog.Int("new_total", result.NewAddonTotal),
		slog.Float64("charged", result.ChargedAmount))
	return result, nil
}

// EffectiveLimits возвращает итоговые потолки ресурсов арендатора.
func (s *Service) EffectiveLimits(ctx context.Context, tenantUID string) (billing.EffectiveLimits, error) {
	sub, err := s.getSubscription(ctx, tenantUID)
	if err != nil {
		return billing.EffectiveLimits{}, err
	}
	plan, err := s.getPlan(ctx, sub.PlanID.String())
	if err != nil {
		return billing.EffectiveLimits{}, err
	}
	return billing.ComputeEffectiveLimits(plan.Limits, sub.AddonUsers)
}

// UsageReport строит свежий отчёт о потреблении против итоговых лимитов.
// Снимок потребления читается заново на каждый вызов.
func (s *Service) UsageReport(ctx context.Context, tenantUID string) (*billing.Report, error) {
	limits, err := s.EffectiveLimits(ctx, tenantUID)
	if err != nil {
		return nil, err
	}
	snap, err := s.repo.GetUsageSnapshot(ctx, tenantUID)
	if err != nil {
		return nil, err
	}
	report := billing.EvaluateUsage(snap, limits)
	return &report, nil
}

// Read возвращает подписку арендатора.
func (s *Service) Read(ctx context.Context, tenantUID string) (*models.TenantSubscription, error) {
	return s.getSubscription(ctx, tenantUID)
}

func (s *Service) getSubscription(ctx context.Context, tenantUID string) (*models.TenantSubscription, error) {
	sub, err := s.repo.GetSubscription(ctx, tenantUID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Service) getPlan(ctx context.Context, planID string) (*models.SubscriptionPlan, error) {
	plan, err := s.plans.Read(ctx, planID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// withConflictRetry выполняет обновление с ожидаемой версией строки и
// один раз повторяет его со свежей версией при конкурентном изменении.
func (s *Service) withConflictRetry(ctx context.Context, tenantUID string, update func(version int) error, version int) error {
	err := update(version)
	if !errors.Is(err, repository.ErrConcurrentModification) {
		return err
	}

	s.log.Info("subscription update conflicted, retrying with fresh read",
		slog.String("tenant_uid", tenantUID))
	sub, readErr := s.getSubscription(ctx, tenantUID)
	if readErr != nil {
		return readErr
	}
	return update(sub.Version)
}

// publishCharge отправляет событие начисления во внешний биллинг.
// Неудача публикации логируется, но не откатывает уже зафиксированное
// изменение подписки: очередь догонит событие при повторной доставке
// со стороны вызывающего слоя.
func (s *Service) publishCharge(event models.ChargeEvent) {
	if err := s.publisher.Publish(rabbitmq.BillingExchange, rabbitmq.ChargeRoutingKey, event); err != nil {
		s.log.Error("failed to publish charge event",
			slog.String("tenant_uid", event.TenantUID), sl.Err(err))
	}
}

func switchMessage(change billing.PlanChange, planName string) string {
	switch change {
	case billing.ChangeUpgrade:
		return fmt.Sprintf("upgraded to plan %q, effective immediately", planName)
	case billing.ChangeDowngrade:
		return fmt.Sprintf("downgraded to plan %q, billing adjustment deferred to the next cycle", planName)
	default:
		return fmt.Sprintf("switched to plan %q", planName)
	}
}
