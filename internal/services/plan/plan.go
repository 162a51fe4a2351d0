// Package plan содержит бизнес-логику каталога тарифных планов:
// создание и изменение планов админской консолью платформы, чтение
// каталога с кешированием. Ценовые диапазоны проверяются на записи,
// испорченная конфигурация не попадает в хранилище.
package plan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/rkonweb/pre-school-sub006/internal/billing"
	"github.com/rkonweb/pre-school-sub006/internal/lib/sl"
	"github.com/rkonweb/pre-school-sub006/internal/models"
)

// Repository определяет методы хранилища тарифных планов.
type Repository interface {
	CreatePlan(ctx context.Context, plan models.SubscriptionPlan) (string, error)
	UpdatePlan(ctx context.Context, plan models.SubscriptionPlan) (int64, error)
	ReadPlan(ctx context.Context, id string) (*models.SubscriptionPlan, error)
	ListActivePlans(ctx context.Context) ([]*models.SubscriptionPlan, error)
	DeactivatePlan(ctx context.Context, id string) (int64, error)
}

// Cache описывает методы для кэширования данных каталога.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

const activePlansCacheKey = "plans:active"

// Service реализует бизнес-логику каталога планов.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый Service каталога планов.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create валидирует и сохраняет новый тарифный план, возвращает его ID.
func (s *Service) Create(ctx context.Context, req models.DummyPlan) (string, error) {
	plan, err := planFromRequest(req)
	if err != nil {
		return "", err
	}

	id, err := s.repo.CreatePlan(ctx, plan)
	if err != nil {
		return "", err
	}
	s.log.Info("created new plan", slog.String("id", id), slog.String("slug", plan.Slug))

	s.invalidateCatalog()
	return id, nil
}

// Update валидирует и обновляет тарифный план по ID.
func (s *Service) Update(ctx context.Context, id string, req models.DummyPlan) (int64, error) {
	plan, err := planFromRequest(req)
	if err != nil {
		return 0, err
	}
	plan.ID, err = parsePlanID(id)
	if err != nil {
		return 0, err
	}

	count, err := s.repo.UpdatePlan(ctx, plan)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated plan", slog.String("id", id))

	s.invalidateCatalog()
	if err := s.cache.Invalidate(planCacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate plan cache", slog.String("id", id), sl.Err(err))
	}
	return count, nil
}

// Read возвращает план по ID, используя кеш или хранилище.
func (s *Service) Read(ctx context.Context, id string) (*models.SubscriptionPlan, error) {
	var result *models.SubscriptionPlan
	cacheKey := planCacheKey(id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read plan from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ReadPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache plan", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// ListActive возвращает активные планы каталога, используя кеш.
func (s *Service) ListActive(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	var result []*models.SubscriptionPlan
	found, err := s.cache.Get(activePlansCacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read catalog from cache", sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ListActivePlans(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(activePlansCacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache catalog", sl.Err(err))
	}
	return result, nil
}

// Deactivate снимает план с витрины.
func (s *Service) Deactivate(ctx context.Context, id string) (int64, error) {
	count, err := s.repo.DeactivatePlan(ctx, id)
	if err != nil {
		return 0, err
	}
	s.log.Info("deactivated plan", slog.String("id", id))

	s.invalidateCatalog()
	if err := s.cache.Invalidate(planCacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate plan cache", slog.String("id", id), sl.Err(err))
	}
	return count, nil
}

func (s *Service) invalidateCatalog() {
	if err := s.cache.Invalidate(activePlansCacheKey); err != nil {
		s.log.Warn("failed to invalidate catalog cache", sl.Err(err))
	}
}

func planCacheKey(id string) string {
	return fmt.Sprintf("plan:%s", id)
}

func parsePlanID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid plan id: %w", err)
	}
	return parsed, nil
}

// planFromRequest конвертирует JSON-запрос в доменную структуру плана,
// проверяя тарифный уровень, период и ценовые диапазоны.
func planFromRequest(req models.DummyPlan) (models.SubscriptionPlan, error) {
	tier, err := billing.ParseTier(req.Tier)
	if err != nil {
		return models.SubscriptionPlan{}, err
	}
	if req.BillingPeriod != models.BillingPeriodMonthly && req.BillingPeriod != models.BillingPeriodYearly {
		return models.SubscriptionPlan{}, fmt.Errorf("invalid billing period: %q", req.BillingPeriod)
	}

	bands := make([]billing.PriceBand, 0, len(req.AddonUserTiers))
	for _, b := range req.AddonUserTiers {
		bands = append(bands, billing.PriceBand{From: b.From, To: b.To, PricePerUser: b.PricePerUser})
	}
	if err := billing.ValidateBands(bands); err != nil {
		return models.SubscriptionPlan{}, err
	}

	planSlug := req.Slug
	if planSlug == "" {
		planSlug = slug.Make(req.Name)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	return models.SubscriptionPlan{
		Name:          req.Name,
		Slug:          planSlug,
		Tier:          tier,
		Price:         req.Price,
		Currency:      req.Currency,
		BillingPeriod: req.BillingPeriod,
		Limits: billing.PlanLimits{
			MaxStudents:  req.MaxStudents,
			MaxStaff:     req.MaxStaff,
			MaxStorageGB: req.MaxStorageGB,
		},
		AdditionalStaffPrice: req.AdditionalStaffPrice,
		AddonUserTiers:       bands,
		IncludedModules:      req.IncludedModules,
		IsActive:             isActive,
		SortOrder:            req.SortOrder,
	}, nil
}
