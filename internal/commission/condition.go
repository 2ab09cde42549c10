package commission

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/anyulbade/commission-engine/internal/model"
)

// Peak hours are a fixed policy: 08:00-10:59 and 18:00-20:59.
var peakHourWindows = [][2]int{{8, 10}, {18, 20}}

type EvalContext struct {
	Amount    float64
	Quantity  int
	Category  string
	Type      model.TransactionType
	Date      time.Time
	Time      string
	DayOfWeek int
	Hour      int
}

func NewEvalContext(tx model.Transaction) EvalContext {
	return EvalContext{
		Amount:    tx.Amount,
		Quantity:  tx.Quantity,
		Category:  tx.Category,
		Type:      tx.Type,
		Date:      tx.Date,
		Time:      tx.Date.Format("15:04"),
		DayOfWeek: int(tx.Date.Weekday()),
		Hour:      tx.Date.Hour(),
	}
}

// Lookup resolves a condition field against the context. The second return is
// false when the field is unknown or carries no data.
func (c EvalContext) Lookup(field model.Field) (model.Value, bool) {
	switch field {
	case model.FieldAmount:
		return model.Number(c.Amount), true
	case model.FieldQuantity:
		if c.Quantity <= 0 {
			return model.Value{}, false
		}
		return model.Number(float64(c.Quantity)), true
	case model.FieldCategory:
		return model.String(c.Category), true
	case model.FieldType:
		return model.String(string(c.Type)), true
	case model.FieldDate:
		return model.Number(float64(c.Date.UnixMilli())), true
	case model.FieldTime:
		return model.String(c.Time), true
	case model.FieldDayOfWeek:
		return model.Number(float64(c.DayOfWeek)), true
	case model.FieldHour:
		return model.Number(float64(c.Hour)), true
	}
	return model.Value{}, false
}

func (c EvalContext) IsWeekend() bool {
	return c.DayOfWeek == int(time.Sunday) || c.DayOfWeek == int(time.Saturday)
}

func (c EvalContext) IsPeakHour() bool {
	for _, w := range peakHourWindows {
		if c.Hour >= w[0] && c.Hour <= w[1] {
			return true
		}
	}
	return false
}

func EvaluateCondition(cond model.ConditionRule, ctx EvalContext) bool {
	fieldValue, ok := ctx.Lookup(cond.Field)
	if !ok {
		return false
	}

	switch cond.Operator {
	case model.OpGreaterThan, model.OpGreaterThanEqual, model.OpLessThan, model.OpLessThanEqual:
		s, ok := cond.Operand.(model.Scalar)
		if !ok {
			return operandMismatch(cond)
		}
		a, b := fieldValue.Float(), s.Value.Float()
		switch cond.Operator {
		case model.OpGreaterThan:
			return a > b
		case model.OpGreaterThanEqual:
			return a >= b
		case model.OpLessThan:
			return a < b
		default:
			return a <= b
		}
	case model.OpEqual, model.OpNotEqual:
		s, ok := cond.Operand.(model.Scalar)
		if !ok {
			return operandMismatch(cond)
		}
		if cond.Operator == model.OpEqual {
			return fieldValue.Equal(s.Value)
		}
		return !fieldValue.Equal(s.Value)
	case model.OpBetween:
		r, ok := cond.Operand.(model.Range)
		if !ok {
			return operandMismatch(cond)
		}
		v := fieldValue.Float()
		return v >= r.Min && v <= r.Max
	case model.OpIn:
		s, ok := cond.Operand.(model.Set)
		if !ok {
			return operandMismatch(cond)
		}
		return containsValue(s.Values, fieldValue)
	case model.OpTimeBetween:
		w, ok := cond.Operand.(model.TimeWindow)
		if !ok {
			return operandMismatch(cond)
		}
		return IsTimeBetween(ctx.Time, w.Start, w.End)
	case model.OpDayOfWeek:
		s, ok := cond.Operand.(model.Set)
		if !ok {
			return operandMismatch(cond)
		}
		return containsValue(s.Values, model.Number(float64(ctx.DayOfWeek)))
	case model.OpIsWeekend:
		return ctx.IsWeekend()
	case model.OpIsPeakHour:
		return ctx.IsPeakHour()
	}

	log.Warn().
		Str("field", string(cond.Field)).
		Str("operator", string(cond.Operator)).
		Msg("unknown condition operator, treating as no match")
	return false
}

// EvaluateAdvancedConditions reports whether the flat predicate list holds.
// An absent or empty list imposes no constraint.
func EvaluateAdvancedConditions(ac *model.AdvancedConditions, ctx EvalContext) bool {
	if ac.IsEmpty() {
		return true
	}

	if ac.Logic == model.LogicOr {
		for _, cond := range ac.Conditions {
			if EvaluateCondition(cond, ctx) {
				return true
			}
		}
		return false
	}

	for _, cond := range ac.Conditions {
		if !EvaluateCondition(cond, ctx) {
			return false
		}
	}
	return true
}

// CalculateConditionalRate returns the override of the first matching condition
// that carries one, in list order. Later matches are ignored even when their
// rate is higher.
func CalculateConditionalRate(ac *model.AdvancedConditions, ctx EvalContext, defaultRate model.RateOverride) model.RateOverride {
	if ac.IsEmpty() {
		return defaultRate
	}
	for _, cond := range ac.Conditions {
		if cond.RateOverride != nil && EvaluateCondition(cond, ctx) {
			return *cond.RateOverride
		}
	}
	return defaultRate
}

// CalculateTimeBasedMultiplier returns the largest multiplier among matching
// entries, starting from 1. Multipliers never compound.
func CalculateTimeBasedMultiplier(rates []model.TimeBasedRate, ctx EvalContext) float64 {
	multiplier := 1.0
	for _, r := range rates {
		if timeBasedRateMatches(r, ctx) {
			multiplier = math.Max(multiplier, r.RateMultiplier)
		}
	}
	return multiplier
}

func timeBasedRateMatches(r model.TimeBasedRate, ctx EvalContext) bool {
	if r.StartTime != "" && r.EndTime != "" && !IsTimeBetween(ctx.Time, r.StartTime, r.EndTime) {
		return false
	}
	if len(r.DaysOfWeek) > 0 && !containsDay(r.DaysOfWeek, ctx.DayOfWeek) {
		return false
	}
	if r.IsWeekend && !ctx.IsWeekend() {
		return false
	}
	if r.IsPeakHour && !ctx.IsPeakHour() {
		return false
	}
	return true
}

// IsTimeBetween checks an inclusive "HH:MM" window. A window whose start is
// after its end spans midnight.
func IsTimeBetween(current, start, end string) bool {
	if current == "" || start == "" || end == "" {
		return false
	}
	cur, ok1 := minutesSinceMidnight(current)
	s, ok2 := minutesSinceMidnight(start)
	e, ok3 := minutesSinceMidnight(end)
	if !ok1 || !ok2 || !ok3 {
		return false
	}
	if s <= e {
		return cur >= s && cur <= e
	}
	return cur >= s || cur <= e
}

func minutesSinceMidnight(clock string) (int, bool) {
	hh, mm, found := strings.Cut(clock, ":")
	if !found {
		return 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(hh))
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(mm))
	if err != nil {
		return 0, false
	}
	return h*60 + m, true
}

func containsValue(values []model.Value, v model.Value) bool {
	for _, candidate := range values {
		if candidate.Equal(v) {
			return true
		}
	}
	return false
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

func operandMismatch(cond model.ConditionRule) bool {
	log.Warn().
		Str("field", string(cond.Field)).
		Str("operator", string(cond.Operator)).
		Msgf("operand %T does not fit operator, treating as no match", cond.Operand)
	return false
}
