package dto

import (
	"time"
)

type RuleDocument struct {
	ID                 string                  `json:"id" yaml:"id" validate:"required"`
	Name               string                  `json:"name" yaml:"name" validate:"required"`
	Type               string                  `json:"type" yaml:"type" validate:"required,oneof=doctor agent department"`
	IsActive           bool                    `json:"is_active" yaml:"is_active"`
	MinAmount          *float64                `json:"min_amount,omitempty" yaml:"min_amount,omitempty" validate:"omitempty,gte=0"`
	MaxAmount          *float64                `json:"max_amount,omitempty" yaml:"max_amount,omitempty" validate:"omitempty,gte=0"`
	Category           string                  `json:"category,omitempty" yaml:"category,omitempty"`
	RateType           string                  `json:"rate_type" yaml:"rate_type" validate:"required,oneof=percentage fixed tiered"`
	Rate               float64                 `json:"rate" yaml:"rate" validate:"gte=0"`
	TieredConfig       *TieredConfigDocument   `json:"tiered_config,omitempty" yaml:"tiered_config,omitempty"`
	PresetID           string                  `json:"preset,omitempty" yaml:"preset,omitempty"`
	AdvancedConditions *AdvancedConditionsDoc  `json:"advanced_conditions,omitempty" yaml:"advanced_conditions,omitempty"`
	TimeBasedRates     []TimeBasedRateDocument `json:"time_based_rates,omitempty" yaml:"time_based_rates,omitempty" validate:"dive"`
}

type AdvancedConditionsDoc struct {
	Logic      string              `json:"logic" yaml:"logic" validate:"required,oneof=AND OR"`
	Conditions []ConditionDocument `json:"conditions" yaml:"conditions" validate:"dive"`
}

type ConditionDocument struct {
	ID           string                `json:"id,omitempty" yaml:"id,omitempty"`
	Field        string                `json:"field" yaml:"field" validate:"required,oneof=amount quantity category type date time dayOfWeek hour"`
	Operator     string                `json:"operator" yaml:"operator" validate:"required,oneof=gt gte lt lte eq neq between in time_between day_of_week is_weekend is_peak_hour"`
	Value        any                   `json:"value,omitempty" yaml:"value,omitempty"`
	SecondValue  any                   `json:"second_value,omitempty" yaml:"second_value,omitempty"`
	RateOverride *RateOverrideDocument `json:"rate_override,omitempty" yaml:"rate_override,omitempty"`
}

type RateOverrideDocument struct {
	RateType string  `json:"rate_type" yaml:"rate_type" validate:"required,oneof=percentage fixed tiered"`
	Rate     float64 `json:"rate" yaml:"rate" validate:"gte=0"`
}

type TimeBasedRateDocument struct {
	ID             string  `json:"id" yaml:"id"`
	Name           string  `json:"name,omitempty" yaml:"name,omitempty"`
	StartTime      string  `json:"start_time,omitempty" yaml:"start_time,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime        string  `json:"end_time,omitempty" yaml:"end_time,omitempty" validate:"omitempty,datetime=15:04"`
	DaysOfWeek     []int   `json:"days_of_week,omitempty" yaml:"days_of_week,omitempty" validate:"dive,min=0,max=6"`
	IsWeekend      bool    `json:"is_weekend,omitempty" yaml:"is_weekend,omitempty"`
	IsPeakHour     bool    `json:"is_peak_hour,omitempty" yaml:"is_peak_hour,omitempty"`
	RateMultiplier float64 `json:"rate_multiplier" yaml:"rate_multiplier" validate:"gt=0"`
}

type TieredConfigDocument struct {
	ID                    string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name                  string         `json:"name,omitempty" yaml:"name,omitempty"`
	Tiers                 []TierDocument `json:"tiers" yaml:"tiers" validate:"required,min=1,dive"`
	CumulativeCalculation bool           `json:"cumulative_calculation" yaml:"cumulative_calculation"`
	BaseAmount            float64        `json:"base_amount,omitempty" yaml:"base_amount,omitempty" validate:"gte=0"`
}

type TierDocument struct {
	ID          string   `json:"id" yaml:"id" validate:"required"`
	MinAmount   float64  `json:"min_amount" yaml:"min_amount" validate:"gte=0"`
	MaxAmount   *float64 `json:"max_amount,omitempty" yaml:"max_amount,omitempty" validate:"omitempty,gtefield=MinAmount"`
	Rate        float64  `json:"rate" yaml:"rate" validate:"gte=0"`
	RateType    string   `json:"rate_type" yaml:"rate_type" validate:"required,oneof=percentage fixed"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

type TransactionDocument struct {
	ID       string    `json:"id" yaml:"id"`
	Amount   float64   `json:"amount" yaml:"amount" validate:"gte=0"`
	Quantity int       `json:"quantity,omitempty" yaml:"quantity,omitempty" validate:"gte=0"`
	Category string    `json:"category" yaml:"category"`
	Type     string    `json:"type" yaml:"type" validate:"required,oneof=doctor agent department"`
	Date     time.Time `json:"date" yaml:"date" validate:"required"`
}
