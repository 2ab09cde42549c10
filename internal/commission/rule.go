package commission

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/anyulbade/commission-engine/internal/model"
)

// IsRuleApplicable checks the static bounds and category first; advanced
// conditions, when present, must hold as well.
func IsRuleApplicable(rule model.CommissionRule, tx model.Transaction) bool {
	if rule.MinAmount != nil && tx.Amount < *rule.MinAmount {
		return false
	}
	if rule.MaxAmount != nil && tx.Amount > *rule.MaxAmount {
		return false
	}
	if rule.Category != "" && !strings.EqualFold(rule.Category, tx.Category) {
		return false
	}
	if !rule.AdvancedConditions.IsEmpty() {
		return EvaluateAdvancedConditions(rule.AdvancedConditions, NewEvalContext(tx))
	}
	return true
}

// CalculateRuleCommission computes one rule's contribution to a transaction.
// The boolean is false only for an unrecognized rate type.
func CalculateRuleCommission(rule model.CommissionRule, tx model.Transaction) (model.CommissionCalculation, bool) {
	ctx := NewEvalContext(tx)

	effective := model.RateOverride{RateType: rule.RateType, Rate: rule.Rate}
	if !rule.AdvancedConditions.IsEmpty() {
		effective = CalculateConditionalRate(rule.AdvancedConditions, ctx, effective)
	}

	multiplier := CalculateTimeBasedMultiplier(rule.TimeBasedRates, ctx)

	var commission float64
	var details string

	switch effective.RateType {
	case model.RateTypePercentage:
		commission = tx.Amount * effective.Rate * multiplier / 100
		details = fmt.Sprintf("%s%% of ₹%s", formatRate(effective.Rate), formatAmount(tx.Amount))
	case model.RateTypeFixed:
		units := tx.Units()
		commission = effective.Rate * float64(units) * multiplier
		details = fmt.Sprintf("₹%s × %d unit(s)", formatAmount(effective.Rate), units)
	case model.RateTypeTiered:
		if rule.TieredConfig != nil {
			tiered := CalculateTieredCommission(tx.Amount, *rule.TieredConfig)
			commission = tiered.TotalCommission * multiplier
			details = fmt.Sprintf("Tiered schedule on ₹%s across %d tier(s), effective rate %s%%",
				formatAmount(tx.Amount), len(tiered.TierBreakdown), formatRate(tiered.EffectiveRate))
		} else {
			commission = SimpleTieredCommission(tx.Amount, effective.Rate) * multiplier
			details = fmt.Sprintf("Tiered rate from %s%% base on ₹%s", formatRate(effective.Rate), formatAmount(tx.Amount))
		}
	default:
		log.Warn().
			Str("rule_id", rule.ID).
			Str("rate_type", string(effective.RateType)).
			Msg("unrecognized rate type, skipping rule")
		return model.CommissionCalculation{}, false
	}

	if multiplier != 1 {
		details += fmt.Sprintf(" with %sx time multiplier", formatRate(multiplier))
	}

	return model.CommissionCalculation{
		TransactionID: tx.ID,
		RuleID:        rule.ID,
		RuleName:      rule.Name,
		Amount:        tx.Amount,
		Rate:          effective.Rate,
		RateType:      effective.RateType,
		Commission:    round2(commission),
		Details:       details,
	}, true
}

func formatRate(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
