package commission

import (
	"github.com/anyulbade/commission-engine/internal/model"
)

const (
	PresetStandardMedical     = "standard-medical"
	PresetHighValueSurgery    = "high-value-surgery"
	PresetAgentReferralVolume = "agent-referral-volume"
)

func bound(v float64) *float64 { return &v }

// presets is never handed out directly; DefaultConfigurations clones it.
var presets = []model.TieredCommissionConfig{
	{
		ID:                    PresetStandardMedical,
		Name:                  "Standard Medical Services",
		Description:           "Progressive rates for consultations and routine procedures",
		CumulativeCalculation: true,
		Tiers: []model.TieredRate{
			{ID: "tier-1", MinAmount: 0, MaxAmount: bound(10000), Rate: 5, RateType: model.RateTypePercentage, Description: "Basic services (up to ₹10,000)"},
			{ID: "tier-2", MinAmount: 10001, MaxAmount: bound(50000), Rate: 8, RateType: model.RateTypePercentage, Description: "Standard procedures (₹10,001 - ₹50,000)"},
			{ID: "tier-3", MinAmount: 50001, Rate: 12, RateType: model.RateTypePercentage, Description: "Premium services (above ₹50,000)"},
		},
	},
	{
		ID:                    PresetHighValueSurgery,
		Name:                  "High-Value Surgery",
		Description:           "Surgical schedule with a ₹25,000 deductible floor",
		CumulativeCalculation: true,
		BaseAmount:            25000,
		Tiers: []model.TieredRate{
			{ID: "surgery-1", MinAmount: 0, MaxAmount: bound(100000), Rate: 10, RateType: model.RateTypePercentage, Description: "Minor surgery"},
			{ID: "surgery-2", MinAmount: 100001, MaxAmount: bound(500000), Rate: 15, RateType: model.RateTypePercentage, Description: "Major surgery"},
			{ID: "surgery-3", MinAmount: 500001, Rate: 20, RateType: model.RateTypePercentage, Description: "Complex surgery"},
		},
	},
	{
		ID:                    PresetAgentReferralVolume,
		Name:                  "Agent Referral Volume",
		Description:           "Single-bracket referral payout by billed amount",
		CumulativeCalculation: false,
		Tiers: []model.TieredRate{
			{ID: "referral-1", MinAmount: 0, MaxAmount: bound(25000), Rate: 500, RateType: model.RateTypeFixed, Description: "Flat referral bonus"},
			{ID: "referral-2", MinAmount: 25001, MaxAmount: bound(100000), Rate: 3, RateType: model.RateTypePercentage, Description: "Mid-value referral"},
			{ID: "referral-3", MinAmount: 100001, Rate: 5, RateType: model.RateTypePercentage, Description: "High-value referral"},
		},
	},
}

// DefaultConfigurations returns fresh copies of the canned tiered schedules.
func DefaultConfigurations() []model.TieredCommissionConfig {
	out := make([]model.TieredCommissionConfig, len(presets))
	for i, p := range presets {
		out[i] = p.Clone()
	}
	return out
}

func DefaultConfiguration(id string) (model.TieredCommissionConfig, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return model.TieredCommissionConfig{}, false
}
