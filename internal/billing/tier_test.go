package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Tier
		wantErr bool
	}{
		{name: "известный уровень free", input: "free", want: TierFree},
		{name: "известный уровень enterprise", input: "enterprise", want: TierEnterprise},
		{name: "неизвестный уровень", input: "platinum", wantErr: true},
		{name: "пустая строка", input: "", wantErr: true},
		{name: "регистр имеет значение", input: "Basic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTier(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTierKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		current Tier
		target  Tier
		want    PlanChange
		wantErr bool
	}{
		{name: "free -> basic это апгрейд", current: TierFree, target: TierBasic, want: ChangeUpgrade},
		{name: "basic -> enterprise это апгрейд", current: TierBasic, target: TierEnterprise, want: ChangeUpgrade},
		{name: "premium -> basic это даунгрейд", current: TierPremium, target: TierBasic, want: ChangeDowngrade},
		{name: "enterprise -> free это даунгрейд", current: TierEnterprise, target: TierFree, want: ChangeDowngrade},
		{name: "неизвестный текущий уровень", current: Tier("gold"), target: TierBasic, wantErr: true},
		{name: "неизвестный целевой уровень", current: TierBasic, target: Tier("gold"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.current, tt.target)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTierKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Classify(t, t) == SAME для каждого уровня полного порядка.
func TestClassify_SameTier(t *testing.T) {
	for _, tier := range []Tier{TierFree, TierBasic, TierPremium, TierEnterprise} {
		got, err := Classify(tier, tier)
		require.NoError(t, err)
		assert.Equal(t, ChangeSame, got, "tier %s", tier)
	}
}
