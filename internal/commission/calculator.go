package commission

import (
	"github.com/shopspring/decimal"

	"github.com/anyulbade/commission-engine/internal/model"
)

// Calculator evaluates a fixed set of active rules against transactions.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	rules []model.CommissionRule
}

// NewCalculator keeps only active rules; inactive ones are invisible for the
// lifetime of the calculator.
func NewCalculator(rules []model.CommissionRule) *Calculator {
	active := make([]model.CommissionRule, 0, len(rules))
	for _, r := range rules {
		if r.IsActive {
			active = append(active, r)
		}
	}
	return &Calculator{rules: active}
}

func (c *Calculator) Rules() []model.CommissionRule {
	out := make([]model.CommissionRule, len(c.rules))
	copy(out, c.rules)
	return out
}

func (c *Calculator) Calculate(tx model.Transaction) model.CommissionResult {
	calculations := make([]model.CommissionCalculation, 0)
	applicable := 0
	total := decimal.Zero

	for _, rule := range c.rules {
		if rule.Type != tx.Type || !IsRuleApplicable(rule, tx) {
			continue
		}
		applicable++

		calc, ok := CalculateRuleCommission(rule, tx)
		if !ok {
			continue
		}
		calculations = append(calculations, calc)
		total = total.Add(decimal.NewFromFloat(calc.Commission))
	}

	return model.CommissionResult{
		Transaction:     tx,
		Calculations:    calculations,
		TotalCommission: total.InexactFloat64(),
		ApplicableRules: applicable,
	}
}

func (c *Calculator) CalculateBatch(txs []model.Transaction) []model.CommissionResult {
	results := make([]model.CommissionResult, len(txs))
	for i, tx := range txs {
		results[i] = c.Calculate(tx)
	}
	return results
}

// TotalCommissionByRule groups by rule name. Distinct rules sharing a name are
// merged; use TotalCommissionByRuleID for an id-keyed roll-up.
func (c *Calculator) TotalCommissionByRule(txs []model.Transaction) map[string]float64 {
	return TotalsByRuleName(c.CalculateBatch(txs))
}

func (c *Calculator) TotalCommissionByRuleID(txs []model.Transaction) map[string]float64 {
	return TotalsByRuleID(c.CalculateBatch(txs))
}

func (c *Calculator) TotalCommissionByType(txs []model.Transaction) map[model.TransactionType]float64 {
	return TotalsByType(c.CalculateBatch(txs))
}

// TotalsByRuleName rolls up already computed results by rule name.
func TotalsByRuleName(results []model.CommissionResult) map[string]float64 {
	return sumCalculations(results, func(calc model.CommissionCalculation) string {
		return calc.RuleName
	})
}

func TotalsByRuleID(results []model.CommissionResult) map[string]float64 {
	return sumCalculations(results, func(calc model.CommissionCalculation) string {
		return calc.RuleID
	})
}

func TotalsByType(results []model.CommissionResult) map[model.TransactionType]float64 {
	sums := make(map[model.TransactionType]decimal.Decimal)
	for _, r := range results {
		sums[r.Transaction.Type] = sums[r.Transaction.Type].Add(decimal.NewFromFloat(r.TotalCommission))
	}

	out := make(map[model.TransactionType]float64, len(sums))
	for k, v := range sums {
		out[k] = v.InexactFloat64()
	}
	return out
}

func sumCalculations(results []model.CommissionResult, key func(model.CommissionCalculation) string) map[string]float64 {
	sums := make(map[string]decimal.Decimal)
	for _, r := range results {
		for _, calc := range r.Calculations {
			k := key(calc)
			sums[k] = sums[k].Add(decimal.NewFromFloat(calc.Commission))
		}
	}

	out := make(map[string]float64, len(sums))
	for k, v := range sums {
		out[k] = v.InexactFloat64()
	}
	return out
}
