package dto

import (
	"fmt"
	"strconv"

	"github.com/anyulbade/commission-engine/internal/commission"
	"github.com/anyulbade/commission-engine/internal/model"
)

// ToModel validates the document and converts it into an engine rule. The
// loosely-typed condition operands are resolved per operator here, so the
// engine only ever sees typed operands.
func (d RuleDocument) ToModel(index int) (model.CommissionRule, error) {
	if errs := Validate(index, d); len(errs) > 0 {
		return model.CommissionRule{}, errs
	}

	var errs ValidationErrors
	rule := model.CommissionRule{
		ID:        d.ID,
		Name:      d.Name,
		Type:      model.TransactionType(d.Type),
		IsActive:  d.IsActive,
		MinAmount: d.MinAmount,
		MaxAmount: d.MaxAmount,
		Category:  d.Category,
		RateType:  model.RateType(d.RateType),
		Rate:      d.Rate,
	}

	if d.MinAmount != nil && d.MaxAmount != nil && *d.MinAmount > *d.MaxAmount {
		errs = append(errs, ValidationError{Index: index, Field: "max_amount", Message: "must not be below min_amount"})
	}

	switch {
	case d.TieredConfig != nil:
		cfg := d.TieredConfig.toModel()
		rule.TieredConfig = &cfg
	case d.PresetID != "":
		cfg, ok := commission.DefaultConfiguration(d.PresetID)
		if !ok {
			errs = append(errs, ValidationError{Index: index, Field: "preset", Message: fmt.Sprintf("unknown tiered preset %q", d.PresetID)})
		} else {
			rule.TieredConfig = &cfg
		}
	}

	if d.AdvancedConditions != nil {
		ac := &model.AdvancedConditions{
			Logic:      model.Logic(d.AdvancedConditions.Logic),
			Conditions: make([]model.ConditionRule, 0, len(d.AdvancedConditions.Conditions)),
		}
		for i, c := range d.AdvancedConditions.Conditions {
			cond, err := c.toModel()
			if err != nil {
				errs = append(errs, ValidationError{
					Index:   index,
					Field:   fmt.Sprintf("advanced_conditions.conditions[%d]", i),
					Message: err.Error(),
				})
				continue
			}
			ac.Conditions = append(ac.Conditions, cond)
		}
		rule.AdvancedConditions = ac
	}

	for _, tr := range d.TimeBasedRates {
		rule.TimeBasedRates = append(rule.TimeBasedRates, model.TimeBasedRate{
			ID:             tr.ID,
			Name:           tr.Name,
			StartTime:      tr.StartTime,
			EndTime:        tr.EndTime,
			DaysOfWeek:     tr.DaysOfWeek,
			IsWeekend:      tr.IsWeekend,
			IsPeakHour:     tr.IsPeakHour,
			RateMultiplier: tr.RateMultiplier,
		})
	}

	if len(errs) > 0 {
		return model.CommissionRule{}, errs
	}
	return rule, nil
}

func (d TieredConfigDocument) toModel() model.TieredCommissionConfig {
	cfg := model.TieredCommissionConfig{
		ID:                    d.ID,
		Name:                  d.Name,
		CumulativeCalculation: d.CumulativeCalculation,
		BaseAmount:            d.BaseAmount,
		Tiers:                 make([]model.TieredRate, len(d.Tiers)),
	}
	for i, t := range d.Tiers {
		cfg.Tiers[i] = model.TieredRate{
			ID:          t.ID,
			MinAmount:   t.MinAmount,
			MaxAmount:   t.MaxAmount,
			Rate:        t.Rate,
			RateType:    model.RateType(t.RateType),
			Description: t.Description,
		}
	}
	return cfg
}

func (d ConditionDocument) toModel() (model.ConditionRule, error) {
	op := model.Operator(d.Operator)
	operand, err := toOperand(op, d.Value, d.SecondValue)
	if err != nil {
		return model.ConditionRule{}, err
	}

	cond := model.ConditionRule{
		ID:       d.ID,
		Field:    model.Field(d.Field),
		Operator: op,
		Operand:  operand,
	}
	if d.RateOverride != nil {
		cond.RateOverride = &model.RateOverride{
			RateType: model.RateType(d.RateOverride.RateType),
			Rate:     d.RateOverride.Rate,
		}
	}
	return cond, nil
}

func toOperand(op model.Operator, value, second any) (model.Operand, error) {
	switch op {
	case model.OpGreaterThan, model.OpGreaterThanEqual, model.OpLessThan, model.OpLessThanEqual,
		model.OpEqual, model.OpNotEqual:
		v, err := toValue(value)
		if err != nil {
			return nil, fmt.Errorf("%s value: %w", op, err)
		}
		return model.Scalar{Value: v}, nil
	case model.OpBetween:
		lo, err := toValue(value)
		if err != nil {
			return nil, fmt.Errorf("between value: %w", err)
		}
		hi, err := toValue(second)
		if err != nil {
			return nil, fmt.Errorf("between second_value: %w", err)
		}
		return model.Range{Min: lo.Float(), Max: hi.Float()}, nil
	case model.OpIn, model.OpDayOfWeek:
		items, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("%s value must be a list, got %T", op, value)
		}
		set := model.Set{Values: make([]model.Value, 0, len(items))}
		for i, item := range items {
			v, err := toValue(item)
			if err != nil {
				return nil, fmt.Errorf("%s value[%d]: %w", op, i, err)
			}
			set.Values = append(set.Values, v)
		}
		return set, nil
	case model.OpTimeBetween:
		start, ok1 := value.(string)
		end, ok2 := second.(string)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("time_between needs HH:MM value and second_value")
		}
		return model.TimeWindow{Start: start, End: end}, nil
	case model.OpIsWeekend, model.OpIsPeakHour:
		return model.NoOperand{}, nil
	}
	return nil, fmt.Errorf("unsupported operator %q", op)
}

func toValue(raw any) (model.Value, error) {
	switch v := raw.(type) {
	case float64:
		return model.Number(v), nil
	case float32:
		return model.Number(float64(v)), nil
	case int:
		return model.Number(float64(v)), nil
	case int64:
		return model.Number(float64(v)), nil
	case uint64:
		return model.Number(float64(v)), nil
	case string:
		return model.String(v), nil
	case nil:
		return model.Value{}, fmt.Errorf("missing")
	}
	return model.Value{}, fmt.Errorf("unsupported type %T", raw)
}

func (d TransactionDocument) ToModel(index int) (model.Transaction, error) {
	if errs := Validate(index, d); len(errs) > 0 {
		return model.Transaction{}, errs
	}
	return model.Transaction{
		ID:       d.ID,
		Amount:   d.Amount,
		Quantity: d.Quantity,
		Category: d.Category,
		Type:     model.TransactionType(d.Type),
		Date:     d.Date,
	}, nil
}

// ParseAmount accepts amounts typed on the command line, e.g. "75000" or "1,25,000".
func ParseAmount(s string) (float64, error) {
	clean := make([]rune, 0, len(s))
	for _, r := range s {
		if r != ',' && r != '_' && r != ' ' {
			clean = append(clean, r)
		}
	}
	f, err := strconv.ParseFloat(string(clean), 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("parse amount %q: must not be negative", s)
	}
	return f, nil
}
