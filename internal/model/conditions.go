package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type Field string

const (
	FieldAmount    Field = "amount"
	FieldQuantity  Field = "quantity"
	FieldCategory  Field = "category"
	FieldType      Field = "type"
	FieldDate      Field = "date"
	FieldTime      Field = "time"
	FieldDayOfWeek Field = "dayOfWeek"
	FieldHour      Field = "hour"
)

type Operator string

const (
	OpGreaterThan      Operator = "gt"
	OpGreaterThanEqual Operator = "gte"
	OpLessThan         Operator = "lt"
	OpLessThanEqual    Operator = "lte"
	OpEqual            Operator = "eq"
	OpNotEqual         Operator = "neq"
	OpBetween          Operator = "between"
	OpIn               Operator = "in"
	OpTimeBetween      Operator = "time_between"
	OpDayOfWeek        Operator = "day_of_week"
	OpIsWeekend        Operator = "is_weekend"
	OpIsPeakHour       Operator = "is_peak_hour"
)

type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// Value is a number-or-string scalar as it appears in rule configuration and
// in the evaluation context.
type Value struct {
	num   float64
	str   string
	isStr bool
}

func Number(f float64) Value { return Value{num: f} }

func String(s string) Value { return Value{str: s, isStr: true} }

func (v Value) IsString() bool { return v.isStr }

// Float coerces the value to a number. Strings that do not parse yield NaN,
// which makes every ordered comparison false.
func (v Value) Float() float64 {
	if !v.isStr {
		return v.num
	}
	s := strings.TrimSpace(v.str)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func (v Value) String() string {
	if v.isStr {
		return v.str
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

// Equal is strict: a number never equals a string, even "5" and 5.
func (v Value) Equal(o Value) bool {
	if v.isStr != o.isStr {
		return false
	}
	if v.isStr {
		return v.str == o.str
	}
	return v.num == o.num
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.isStr {
		return json.Marshal(v.str)
	}
	return json.Marshal(v.num)
}

// Operand carries the comparison operands of a condition. Each operator family
// has its own concrete type.
type Operand interface {
	isOperand()
}

// Scalar is used by gt, gte, lt, lte, eq and neq.
type Scalar struct {
	Value Value `json:"value"`
}

// Range is used by between; both bounds are inclusive.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Set is used by in and day_of_week.
type Set struct {
	Values []Value `json:"values"`
}

// TimeWindow is used by time_between, bounds are "HH:MM".
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NoOperand is used by is_weekend and is_peak_hour.
type NoOperand struct{}

func (Scalar) isOperand()     {}
func (Range) isOperand()      {}
func (Set) isOperand()        {}
func (TimeWindow) isOperand() {}
func (NoOperand) isOperand()  {}

type RateOverride struct {
	RateType RateType `json:"rate_type"`
	Rate     float64  `json:"rate"`
}

type ConditionRule struct {
	ID           string        `json:"id,omitempty"`
	Field        Field         `json:"field"`
	Operator     Operator      `json:"operator"`
	Operand      Operand       `json:"operand"`
	RateOverride *RateOverride `json:"rate_override,omitempty"`
}

type AdvancedConditions struct {
	Logic      Logic           `json:"logic"`
	Conditions []ConditionRule `json:"conditions"`
}

func (ac *AdvancedConditions) IsEmpty() bool {
	return ac == nil || len(ac.Conditions) == 0
}
