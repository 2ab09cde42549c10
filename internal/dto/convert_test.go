package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/anyulbade/commission-engine/internal/model"
)

const ruleJSON = `{
	"id": "doc-weekend",
	"name": "Weekend Surgery",
	"type": "doctor",
	"is_active": true,
	"min_amount": 1000,
	"category": "surgery",
	"rate_type": "percentage",
	"rate": 10,
	"advanced_conditions": {
		"logic": "OR",
		"conditions": [
			{"field": "amount", "operator": "gt", "value": 50000, "rate_override": {"rate_type": "percentage", "rate": 15}},
			{"field": "amount", "operator": "between", "value": 1000, "second_value": "5000"},
			{"field": "category", "operator": "in", "value": ["surgery", "icu"]},
			{"field": "time", "operator": "time_between", "value": "22:00", "second_value": "06:00"},
			{"field": "dayOfWeek", "operator": "is_weekend"}
		]
	},
	"time_based_rates": [
		{"id": "night", "start_time": "22:00", "end_time": "06:00", "rate_multiplier": 1.5}
	]
}`

func TestRuleDocument_ToModel(t *testing.T) {
	var doc RuleDocument
	require.NoError(t, json.Unmarshal([]byte(ruleJSON), &doc))

	rule, err := doc.ToModel(0)
	require.NoError(t, err)

	assert.Equal(t, model.TransactionTypeDoctor, rule.Type)
	assert.Equal(t, model.RateTypePercentage, rule.RateType)
	require.NotNil(t, rule.MinAmount)
	assert.Equal(t, 1000.0, *rule.MinAmount)
	assert.Nil(t, rule.MaxAmount)

	require.NotNil(t, rule.AdvancedConditions)
	assert.Equal(t, model.LogicOr, rule.AdvancedConditions.Logic)
	conds := rule.AdvancedConditions.Conditions
	require.Len(t, conds, 5)

	assert.Equal(t, model.Scalar{Value: model.Number(50000)}, conds[0].Operand)
	require.NotNil(t, conds[0].RateOverride)
	assert.Equal(t, 15.0, conds[0].RateOverride.Rate)
	assert.Equal(t, model.Range{Min: 1000, Max: 5000}, conds[1].Operand)
	assert.Equal(t, model.Set{Values: []model.Value{model.String("surgery"), model.String("icu")}}, conds[2].Operand)
	assert.Equal(t, model.TimeWindow{Start: "22:00", End: "06:00"}, conds[3].Operand)
	assert.Equal(t, model.NoOperand{}, conds[4].Operand)

	require.Len(t, rule.TimeBasedRates, 1)
	assert.Equal(t, 1.5, rule.TimeBasedRates[0].RateMultiplier)
}

func TestRuleDocument_ToModel_YAML(t *testing.T) {
	src := `
id: agent-volume
name: Agent Volume
type: agent
is_active: true
rate_type: tiered
rate: 0
preset: agent-referral-volume
advanced_conditions:
  logic: AND
  conditions:
    - field: dayOfWeek
      operator: day_of_week
      value: [1, 2, 3, 4, 5]
`
	var doc RuleDocument
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))

	rule, err := doc.ToModel(3)
	require.NoError(t, err)
	require.NotNil(t, rule.TieredConfig)
	assert.Equal(t, "agent-referral-volume", rule.TieredConfig.ID)
	assert.False(t, rule.TieredConfig.CumulativeCalculation)

	set, ok := rule.AdvancedConditions.Conditions[0].Operand.(model.Set)
	require.True(t, ok)
	assert.Len(t, set.Values, 5)
	assert.True(t, set.Values[0].Equal(model.Number(1)), "yaml ints become numbers")
}

func TestRuleDocument_ToModel_Invalid(t *testing.T) {
	t.Run("bad: struct tag failures carry the batch index", func(t *testing.T) {
		doc := RuleDocument{ID: "r", Type: "nurse", RateType: "bonus", Rate: -1}
		_, err := doc.ToModel(7)
		require.Error(t, err)

		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		fields := map[string]string{}
		for _, ve := range verrs {
			assert.Equal(t, 7, ve.Index)
			fields[ve.Field] = ve.Message
		}
		assert.Equal(t, "is required", fields["name"])
		assert.Contains(t, fields["type"], "must be one of")
		assert.Contains(t, fields["rate_type"], "must be one of")
		assert.Equal(t, "must be at least 0", fields["rate"])
	})

	t.Run("bad: operand does not fit operator", func(t *testing.T) {
		doc := RuleDocument{
			ID: "r", Name: "R", Type: "doctor", RateType: "fixed", Rate: 100,
			AdvancedConditions: &AdvancedConditionsDoc{Logic: "AND", Conditions: []ConditionDocument{
				{Field: "category", Operator: "in", Value: "surgery"},
			}},
		}
		_, err := doc.ToModel(0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "advanced_conditions.conditions[0]")
		assert.Contains(t, err.Error(), "must be a list")
	})

	t.Run("bad: inverted bounds", func(t *testing.T) {
		lo, hi := 5000.0, 1000.0
		doc := RuleDocument{ID: "r", Name: "R", Type: "doctor", RateType: "fixed", Rate: 1, MinAmount: &lo, MaxAmount: &hi}
		_, err := doc.ToModel(0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_amount")
	})

	t.Run("bad: unknown preset", func(t *testing.T) {
		doc := RuleDocument{ID: "r", Name: "R", Type: "agent", RateType: "tiered", PresetID: "vip"}
		_, err := doc.ToModel(0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown tiered preset")
	})

	t.Run("bad: time window format", func(t *testing.T) {
		doc := RuleDocument{ID: "r", Name: "R", Type: "agent", RateType: "fixed", Rate: 1,
			TimeBasedRates: []TimeBasedRateDocument{{ID: "x", StartTime: "9pm", EndTime: "23:00", RateMultiplier: 2}}}
		_, err := doc.ToModel(0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HH:MM")
	})
}

func TestTransactionDocument_ToModel(t *testing.T) {
	t.Run("happy", func(t *testing.T) {
		var doc TransactionDocument
		require.NoError(t, json.Unmarshal([]byte(`{"id":"T1","amount":2500,"quantity":2,"category":"referral","type":"agent","date":"2025-03-15T09:30:00Z"}`), &doc))
		tx, err := doc.ToModel(0)
		require.NoError(t, err)
		assert.Equal(t, model.TransactionTypeAgent, tx.Type)
		assert.Equal(t, 2, tx.Quantity)
		assert.Equal(t, 9, tx.Date.Hour())
	})

	t.Run("bad: missing date and type", func(t *testing.T) {
		_, err := TransactionDocument{Amount: 10}.ToModel(2)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "[2] date: is required")
		assert.Contains(t, err.Error(), "[2] type: is required")
	})
}

func TestParseAmount(t *testing.T) {
	for in, want := range map[string]float64{"75000": 75000, "1,25,000": 125000, "60_000.50": 60000.5} {
		got, err := ParseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseAmount("-5")
	assert.Error(t, err)
	_, err = ParseAmount("lots")
	assert.Error(t, err)
}
