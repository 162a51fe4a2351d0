package plan

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rkonweb/pre-school-sub006/internal/billing"
	"github.com/rkonweb/pre-school-sub006/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePlan(ctx context.Context, plan models.SubscriptionPlan) (string, error) {
	args := m.Called(ctx, plan)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) UpdatePlan(ctx context.Context, plan models.SubscriptionPlan) (int64, error) {
	args := m.Called(ctx, plan)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) ReadPlan(ctx context.Context, id string) (*models.SubscriptionPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionPlan), args.Error(1)
}
func (m *RepoMock) ListActivePlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscriptionPlan), args.Error(1)
}
func (m *RepoMock) DeactivatePlan(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validPlanRequest() models.DummyPlan {
	ten := 10
	return models.DummyPlan{
		Name:          "Premium School",
		Tier:          "premium",
		Price:         4999,
		Currency:      "USD",
		BillingPeriod: models.BillingPeriodMonthly,
		MaxStudents:   500,
		MaxStaff:      50,
		MaxStorageGB:  100,
		AddonUserTiers: []models.DummyBand{
			{From: 1, To: &ten, PricePerUser: 20},
			{From: 11, To: nil, PricePerUser: 15},
		},
		IncludedModules: []string{"attendance", "billing"},
	}
}

func TestPlanService_Create(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		mutate     func(req *models.DummyPlan)
		wantID     string
		wantErr    error
	}{
		{
			name: "success create, slug derived from name",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreatePlan", mock.Anything, mock.MatchedBy(func(p models.SubscriptionPlan) bool {
					return p.Slug == "premium-school" &&
						p.Tier == billing.TierPremium &&
						p.IsActive &&
						len(p.AddonUserTiers) == 2
				})).Return("11111111-1111-1111-1111-111111111111", nil).Once()
				c.On("Invalidate", "plans:active").Return(nil).Once()
			},
			mutate: func(_ *models.DummyPlan) {},
			wantID: "11111111-1111-1111-1111-111111111111",
		},
		{
			name:       "unknown tier",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			mutate: func(req *models.DummyPlan) {
				req.Tier = "platinum"
			},
			wantErr: billing.ErrInvalidTierKind,
		},
		{
			name:       "bands with gap rejected before storage",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			mutate: func(req *models.DummyPlan) {
				ten := 10
				req.AddonUserTiers = []models.DummyBand{
					{From: 1, To: &ten, PricePerUser: 20},
					{From: 12, To: nil, PricePerUser: 15},
				}
			},
			wantErr: billing.ErrMalformedBands,
		},
		{
			name:       "invalid billing period",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			mutate: func(req *models.DummyPlan) {
				req.BillingPeriod = "weekly"
			},
			wantErr: errors.New("invalid billing period"),
		},
		{
			name: "catalog invalidation failure does not fail create",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreatePlan", mock.Anything, mock.Anything).
					Return("22222222-2222-2222-2222-222222222222", nil).Once()
				c.On("Invalidate", "plans:active").Return(errors.New("redis down")).Once()
			},
			mutate: func(_ *models.DummyPlan) {},
			wantID: "22222222-2222-2222-2222-222222222222",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := New(repo, cache, newNoopLogger())

			req := validPlanRequest()
			tt.mutate(&req)
			tt.setupMocks(repo, cache)

			got, err := svc.Create(context.Background(), req)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, got)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestPlanService_Update(t *testing.T) {
	planID := "33333333-3333-3333-3333-333333333333"

	tests := []struct {
		name       string
		id         string
		setupMocks func(r *RepoMock, c *CacheMock)
		wantCount  int64
		wantErr    bool
	}{
		{
			name: "success update invalidates both cache keys",
			id:   planID,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("UpdatePlan", mock.Anything, mock.MatchedBy(func(p models.SubscriptionPlan) bool {
					return p.ID == uuid.MustParse(planID)
				})).Return(int64(1), nil).Once()
				c.On("Invalidate", "plans:active").Return(nil).Once()
				c.On("Invalidate", "plan:"+planID).Return(nil).Once()
			},
			wantCount: 1,
		},
		{
			name:       "malformed plan id",
			id:         "not-a-uuid",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			wantErr:    true,
		},
		{
			name: "repo error",
			id:   planID,
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("UpdatePlan", mock.Anything, mock.Anything).
					Return(int64(0), errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := New(repo, cache, newNoopLogger())

			tt.setupMocks(repo, cache)

			count, err := svc.Update(context.Background(), tt.id, validPlanRequest())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantCount, count)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestPlanService_Read(t *testing.T) {
	planID := "44444444-4444-4444-4444-444444444444"
	plan := &models.SubscriptionPlan{
		ID:   uuid.MustParse(planID),
		Name: "Basic",
		Tier: billing.TierBasic,
	}

	tests := []struct {
		name       string
		cacheFound bool
		cacheErr   error
		repoPlan   *models.SubscriptionPlan
		repoErr    error
		wantErr    bool
	}{
		{
			name:       "cache hit skips repo",
			cacheFound: true,
		},
		{
			name:     "cache miss then repo success",
			repoPlan: plan,
		},
		{
			name:     "cache error falls through to repo",
			cacheErr: errors.New("cache unavailable"),
			repoPlan: plan,
		},
		{
			name:    "repo error",
			repoErr: errors.New("not found"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := New(repo, cache, newNoopLogger())

			cacheKey := "plan:" + planID
			cache.On("Get", cacheKey, mock.Anything).Return(tt.cacheFound, tt.cacheErr).Run(func(args mock.Arguments) {
				if tt.cacheFound {
					ptrPtr := args.Get(1).(**models.SubscriptionPlan)
					*ptrPtr = plan
				}
			}).Once()

			if !tt.cacheFound {
				repo.On("ReadPlan", mock.Anything, planID).Return(tt.repoPlan, tt.repoErr).Once()
				if tt.repoErr == nil {
					cache.On("Set", cacheKey, tt.repoPlan, time.Hour).Return(nil).Once()
				}
			}

			got, err := svc.Read(context.Background(), planID)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, plan, got)
			}

			cache.AssertExpectations(t)
			repo.AssertExpectations(t)
		})
	}
}

func TestPlanService_ListActive(t *testing.T) {
	plans := []*models.SubscriptionPlan{
		{Name: "Free", Tier: billing.TierFree, SortOrder: 0},
		{Name: "Premium", Tier: billing.TierPremium, SortOrder: 2},
	}

	t.Run("cache miss then repo list cached", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, newNoopLogger())

		cache.On("Get", "plans:active", mock.Anything).Return(false, nil).Once()
		repo.On("ListActivePlans", mock.Anything).Return(plans, nil).Once()
		cache.On("Set", "plans:active", plans, time.Hour).Return(nil).Once()

		got, err := svc.ListActive(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, plans, got)

		cache.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("repo error", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, newNoopLogger())

		cache.On("Get", "plans:active", mock.Anything).Return(false, nil).Once()
		repo.On("ListActivePlans", mock.Anything).Return(nil, errors.New("db error")).Once()

		_, err := svc.ListActive(context.Background())
		assert.Error(t, err)
	})
}

func TestPlanService_Deactivate(t *testing.T) {
	planID := "55555555-5555-5555-5555-555555555555"

	t.Run("success deactivate", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, newNoopLogger())

		repo.On("DeactivatePlan", mock.Anything, planID).Return(int64(1), nil).Once()
		cache.On("Invalidate", "plans:active").Return(nil).Once()
		cache.On("Invalidate", "plan:"+planID).Return(nil).Once()

		count, err := svc.Deactivate(context.Background(), planID)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("repo error", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, newNoopLogger())

		repo.On("DeactivatePlan", mock.Anything, planID).Return(int64(0), errors.New("db error")).Once()

		_, err := svc.Deactivate(context.Background(), planID)
		assert.Error(t, err)
	})
}
