package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeEffectiveLimits(t *testing.T) {
	tests := []struct {
		name       string
		limits     PlanLimits
		addonUsers int
		want       EffectiveLimits
		wantErr    bool
	}{
		{
			name:       "базовые лимиты плюс дополнительные пользователи",
			limits:     PlanLimits{MaxStudents: 200, MaxStaff: 30, MaxStorageGB: 50},
			addonUsers: 15,
			want:       EffectiveLimits{MaxUsers: 245, MaxStorageGB: 50},
		},
		{
			name:   "без дополнительных пользователей",
			limits: PlanLimits{MaxStudents: 100, MaxStaff: 10, MaxStorageGB: 5},
			want:   EffectiveLimits{MaxUsers: 110, MaxStorageGB: 5},
		},
		{
			name: "нулевой план",
			want: EffectiveLimits{},
		},
		{
			name:    "отрицательный лимит плана",
			limits:  PlanLimits{MaxStudents: -1},
			wantErr: true,
		},
		{
			name:       "отрицательный счётчик дополнительных пользователей",
			limits:     PlanLimits{MaxStudents: 100},
			addonUsers: -3,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeEffectiveLimits(tt.limits, tt.addonUsers)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidLimitValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Итоговый потолок пользователей аддитивен по числу купленных слотов.
func TestComputeEffectiveLimits_Additive(t *testing.T) {
	limits := PlanLimits{MaxStudents: 120, MaxStaff: 20, MaxStorageGB: 10}
	for x := 0; x <= 50; x += 5 {
		got, err := ComputeEffectiveLimits(limits, x)
		require.NoError(t, err)
		assert.Equal(t, 140+x, got.MaxUsers)
	}
}
