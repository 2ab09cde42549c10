package commission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/commission-engine/internal/model"
)

func standardTiers(cumulative bool) model.TieredCommissionConfig {
	return model.TieredCommissionConfig{
		CumulativeCalculation: cumulative,
		Tiers: []model.TieredRate{
			{ID: "t1", MinAmount: 0, MaxAmount: bound(10000), Rate: 5, RateType: model.RateTypePercentage},
			{ID: "t2", MinAmount: 10001, MaxAmount: bound(50000), Rate: 8, RateType: model.RateTypePercentage},
			{ID: "t3", MinAmount: 50001, Rate: 12, RateType: model.RateTypePercentage},
		},
	}
}

func TestCalculateTieredCommission_CumulativeVsBracket(t *testing.T) {
	cumulative := CalculateTieredCommission(60000, standardTiers(true))
	bracket := CalculateTieredCommission(60000, standardTiers(false))

	t.Run("cumulative rates each slice", func(t *testing.T) {
		// 10000*5% + 39999*8% + 9999*12%
		assert.Equal(t, 4899.80, cumulative.TotalCommission)
		require.Len(t, cumulative.TierBreakdown, 3)
		assert.Equal(t, 10000.0, cumulative.TierBreakdown[0].AmountInTier)
		assert.Equal(t, 39999.0, cumulative.TierBreakdown[1].AmountInTier)
		assert.Equal(t, 9999.0, cumulative.TierBreakdown[2].AmountInTier)
		assert.InDelta(t, 1199.88, cumulative.TierBreakdown[2].Commission, 1e-9)
		assert.Equal(t, 8.17, cumulative.EffectiveRate)
	})

	t.Run("bracket rates the whole amount", func(t *testing.T) {
		assert.Equal(t, 7200.0, bracket.TotalCommission)
		require.Len(t, bracket.TierBreakdown, 1)
		assert.Equal(t, "t3", bracket.TierBreakdown[0].TierID)
		assert.Equal(t, 60000.0, bracket.TierBreakdown[0].AmountInTier)
		assert.Equal(t, 12.0, bracket.EffectiveRate)
	})

	assert.NotEqual(t, cumulative.TotalCommission, bracket.TotalCommission)
}

func TestCalculateTieredCommission_CumulativeBoundaries(t *testing.T) {
	// Hand-computed references for amounts crossing each bracket edge.
	tests := []struct {
		amount float64
		want   float64
		tiers  int
	}{
		{amount: 9999, want: 499.95, tiers: 1},
		{amount: 10000, want: 500, tiers: 1},
		{amount: 10001, want: 500, tiers: 1},
		{amount: 10002, want: 500.08, tiers: 2},
		{amount: 50000, want: 3699.92, tiers: 2},
		{amount: 50001, want: 3699.92, tiers: 2},
		{amount: 50002, want: 3700.04, tiers: 3},
		{amount: 100000, want: 9699.80, tiers: 3},
	}

	for _, tt := range tests {
		got := CalculateTieredCommission(tt.amount, standardTiers(true))
		assert.Equal(t, tt.want, got.TotalCommission, "amount %.0f", tt.amount)
		assert.Len(t, got.TierBreakdown, tt.tiers, "amount %.0f", tt.amount)
	}
}

func TestCalculateTieredCommission_BaseAmount(t *testing.T) {
	surgery, ok := DefaultConfiguration(PresetHighValueSurgery)
	require.True(t, ok)

	t.Run("amount above base", func(t *testing.T) {
		got := CalculateTieredCommission(150000, surgery)
		// 75000*10% + 49999*15%
		assert.Equal(t, 14999.85, got.TotalCommission)
		require.Len(t, got.TierBreakdown, 2)
		assert.Equal(t, 75000.0, got.TierBreakdown[0].AmountInTier)
		assert.Equal(t, 49999.0, got.TierBreakdown[1].AmountInTier)
		assert.Equal(t, 10.0, got.EffectiveRate)
	})

	t.Run("amount below base earns nothing", func(t *testing.T) {
		got := CalculateTieredCommission(20000, surgery)
		assert.Equal(t, 0.0, got.TotalCommission)
		assert.Empty(t, got.TierBreakdown)
		assert.Equal(t, 0.0, got.EffectiveRate)
	})

	t.Run("bracket mode rates amount minus base", func(t *testing.T) {
		cfg := surgery.Clone()
		cfg.CumulativeCalculation = false
		got := CalculateTieredCommission(150000, cfg)
		// 150000 lies in surgery-2; (150000-25000)*15%
		assert.Equal(t, 18750.0, got.TotalCommission)
		require.Len(t, got.TierBreakdown, 1)
		assert.Equal(t, "surgery-2", got.TierBreakdown[0].TierID)
	})
}

func TestCalculateTieredCommission_Bracket(t *testing.T) {
	referral, ok := DefaultConfiguration(PresetAgentReferralVolume)
	require.True(t, ok)

	t.Run("fixed tier pays flat", func(t *testing.T) {
		got := CalculateTieredCommission(20000, referral)
		assert.Equal(t, 500.0, got.TotalCommission)
		assert.Equal(t, 2.5, got.EffectiveRate)
	})

	t.Run("top tier", func(t *testing.T) {
		got := CalculateTieredCommission(150000, referral)
		assert.Equal(t, 7500.0, got.TotalCommission)
		assert.Equal(t, "High-value referral", got.TierBreakdown[0].TierDescription)
	})

	t.Run("amount in a gap between tiers", func(t *testing.T) {
		got := CalculateTieredCommission(25000.5, referral)
		assert.Equal(t, 0.0, got.TotalCommission)
		assert.Empty(t, got.TierBreakdown)
	})
}

func TestCalculateTieredCommission_Edges(t *testing.T) {
	t.Run("unsorted tiers are sorted first", func(t *testing.T) {
		cfg := standardTiers(true)
		cfg.Tiers[0], cfg.Tiers[2] = cfg.Tiers[2], cfg.Tiers[0]
		got := CalculateTieredCommission(60000, cfg)
		assert.Equal(t, 4899.80, got.TotalCommission)
		assert.Equal(t, "t3", cfg.Tiers[0].ID, "input slice is not reordered")
	})

	t.Run("zero amount", func(t *testing.T) {
		got := CalculateTieredCommission(0, standardTiers(true))
		assert.Equal(t, 0.0, got.TotalCommission)
		assert.Equal(t, 0.0, got.EffectiveRate)

		got = CalculateTieredCommission(0, standardTiers(false))
		assert.Equal(t, 0.0, got.EffectiveRate)
	})

	t.Run("fixed tier in cumulative mode", func(t *testing.T) {
		cfg := model.TieredCommissionConfig{
			CumulativeCalculation: true,
			Tiers: []model.TieredRate{
				{ID: "flat", MinAmount: 0, MaxAmount: bound(1000), Rate: 50, RateType: model.RateTypeFixed},
				{ID: "pct", MinAmount: 1001, Rate: 10, RateType: model.RateTypePercentage},
			},
		}
		got := CalculateTieredCommission(3000, cfg)
		assert.Equal(t, 249.9, got.TotalCommission)
	})

	t.Run("generated descriptions", func(t *testing.T) {
		got := CalculateTieredCommission(60000, standardTiers(true))
		assert.Equal(t, "₹0 - ₹10,000", got.TierBreakdown[0].TierDescription)
		assert.Equal(t, "₹10,001 - ₹50,000", got.TierBreakdown[1].TierDescription)
		assert.Equal(t, "₹50,001+", got.TierBreakdown[2].TierDescription)
	})
}

func TestSimpleTieredCommission(t *testing.T) {
	assert.InDelta(t, 500.0, SimpleTieredCommission(5000, 10), 1e-9)
	assert.InDelta(t, 1000.0, SimpleTieredCommission(10000, 10), 1e-9)
	assert.InDelta(t, 3400.0, SimpleTieredCommission(30000, 10), 1e-9)
	assert.InDelta(t, 9550.0, SimpleTieredCommission(75000, 10), 1e-9)
}

func TestDefaultConfigurations(t *testing.T) {
	configs := DefaultConfigurations()
	require.Len(t, configs, 3)
	assert.Equal(t, PresetStandardMedical, configs[0].ID)
	assert.Equal(t, PresetHighValueSurgery, configs[1].ID)
	assert.Equal(t, PresetAgentReferralVolume, configs[2].ID)

	t.Run("returned presets cannot corrupt the registry", func(t *testing.T) {
		configs[0].Tiers[0].Rate = 99
		*configs[0].Tiers[0].MaxAmount = 1
		configs[0].Tiers = nil

		fresh := DefaultConfigurations()
		assert.Equal(t, 5.0, fresh[0].Tiers[0].Rate)
		assert.Equal(t, 10000.0, *fresh[0].Tiers[0].MaxAmount)
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, ok := DefaultConfiguration("vip")
		assert.False(t, ok)
	})
}
