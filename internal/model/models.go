package model

import (
	"time"
)

type TransactionType string

const (
	TransactionTypeDoctor     TransactionType = "doctor"
	TransactionTypeAgent      TransactionType = "agent"
	TransactionTypeDepartment TransactionType = "department"
)

type RateType string

const (
	RateTypePercentage RateType = "percentage"
	RateTypeFixed      RateType = "fixed"
	RateTypeTiered     RateType = "tiered"
)

type Transaction struct {
	ID       string          `json:"id"`
	Amount   float64         `json:"amount"`
	Quantity int             `json:"quantity"`
	Category string          `json:"category"`
	Type     TransactionType `json:"type"`
	Date     time.Time       `json:"date"`
}

// Units returns the quantity used by fixed-rate rules; an unset quantity counts as one.
func (t Transaction) Units() int {
	if t.Quantity <= 0 {
		return 1
	}
	return t.Quantity
}

type CommissionRule struct {
	ID                 string                  `json:"id"`
	Name               string                  `json:"name"`
	Type               TransactionType         `json:"type"`
	IsActive           bool                    `json:"is_active"`
	MinAmount          *float64                `json:"min_amount,omitempty"`
	MaxAmount          *float64                `json:"max_amount,omitempty"`
	Category           string                  `json:"category,omitempty"`
	RateType           RateType                `json:"rate_type"`
	Rate               float64                 `json:"rate"`
	TieredConfig       *TieredCommissionConfig `json:"tiered_config,omitempty"`
	AdvancedConditions *AdvancedConditions     `json:"advanced_conditions,omitempty"`
	TimeBasedRates     []TimeBasedRate         `json:"time_based_rates,omitempty"`
}

type TimeBasedRate struct {
	ID             string  `json:"id"`
	Name           string  `json:"name,omitempty"`
	StartTime      string  `json:"start_time,omitempty"`
	EndTime        string  `json:"end_time,omitempty"`
	DaysOfWeek     []int   `json:"days_of_week,omitempty"`
	IsWeekend      bool    `json:"is_weekend,omitempty"`
	IsPeakHour     bool    `json:"is_peak_hour,omitempty"`
	RateMultiplier float64 `json:"rate_multiplier"`
}

type TieredRate struct {
	ID          string   `json:"id"`
	MinAmount   float64  `json:"min_amount"`
	MaxAmount   *float64 `json:"max_amount,omitempty"`
	Rate        float64  `json:"rate"`
	RateType    RateType `json:"rate_type"`
	Description string   `json:"description,omitempty"`
}

type TieredCommissionConfig struct {
	ID                    string       `json:"id,omitempty"`
	Name                  string       `json:"name,omitempty"`
	Description           string       `json:"description,omitempty"`
	Tiers                 []TieredRate `json:"tiers"`
	CumulativeCalculation bool         `json:"cumulative_calculation"`
	BaseAmount            float64      `json:"base_amount,omitempty"`
}

// Clone returns a deep copy so callers can never alias tier slices or bounds.
func (c TieredCommissionConfig) Clone() TieredCommissionConfig {
	out := c
	out.Tiers = make([]TieredRate, len(c.Tiers))
	for i, tier := range c.Tiers {
		out.Tiers[i] = tier
		if tier.MaxAmount != nil {
			v := *tier.MaxAmount
			out.Tiers[i].MaxAmount = &v
		}
	}
	return out
}

type CommissionCalculation struct {
	TransactionID string   `json:"transaction_id"`
	RuleID        string   `json:"rule_id"`
	RuleName      string   `json:"rule_name"`
	Amount        float64  `json:"amount"`
	Rate          float64  `json:"rate"`
	RateType      RateType `json:"rate_type"`
	Commission    float64  `json:"commission"`
	Details       string   `json:"details"`
}

type CommissionResult struct {
	Transaction     Transaction             `json:"transaction"`
	Calculations    []CommissionCalculation `json:"calculations"`
	TotalCommission float64                 `json:"total_commission"`
	ApplicableRules int                     `json:"applicable_rules"`
}

type TierBreakdown struct {
	TierID          string   `json:"tier_id"`
	TierDescription string   `json:"tier_description"`
	AmountInTier    float64  `json:"amount_in_tier"`
	Rate            float64  `json:"rate"`
	RateType        RateType `json:"rate_type"`
	Commission      float64  `json:"commission"`
}

type TieredCalculationResult struct {
	TotalCommission float64         `json:"total_commission"`
	TierBreakdown   []TierBreakdown `json:"tier_breakdown"`
	EffectiveRate   float64         `json:"effective_rate"`
}
