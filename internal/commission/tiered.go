package commission

import (
	"math"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/anyulbade/commission-engine/internal/model"
)

var amountPrinter = message.NewPrinter(language.English)

// CalculateTieredCommission applies a bracket schedule to amount. In cumulative
// mode each tier rates only the slice of the amount that falls inside it; in
// bracket mode the single highest tier containing the amount rates everything
// above the base amount.
func CalculateTieredCommission(amount float64, config model.TieredCommissionConfig) model.TieredCalculationResult {
	tiers := make([]model.TieredRate, len(config.Tiers))
	copy(tiers, config.Tiers)
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].MinAmount < tiers[j].MinAmount
	})

	base := config.BaseAmount
	taxable := amount - base
	remaining := math.Max(0, taxable)

	total := 0.0
	breakdown := make([]model.TierBreakdown, 0, len(tiers))

	if config.CumulativeCalculation {
		for _, tier := range tiers {
			if remaining <= 0 {
				break
			}

			tierMin := math.Max(tier.MinAmount-base, 0)
			tierMax := math.Inf(1)
			if tier.MaxAmount != nil {
				tierMax = *tier.MaxAmount - base
			}

			processed := taxable - remaining
			amountInTier := math.Min(remaining-math.Max(0, tierMin-processed), tierMax-tierMin)
			if amountInTier <= 0 {
				continue
			}

			c := tierCommission(tier, amountInTier)
			total += c
			breakdown = append(breakdown, newTierBreakdown(tier, amountInTier, c))
			remaining -= amountInTier
		}
	} else {
		for i := len(tiers) - 1; i >= 0; i-- {
			tier := tiers[i]
			if amount < tier.MinAmount || (tier.MaxAmount != nil && amount > *tier.MaxAmount) {
				continue
			}
			c := tierCommission(tier, remaining)
			total += c
			breakdown = append(breakdown, newTierBreakdown(tier, remaining, c))
			break
		}
	}

	effectiveRate := 0.0
	if amount != 0 {
		effectiveRate = total / amount * 100
	}

	return model.TieredCalculationResult{
		TotalCommission: round2(total),
		TierBreakdown:   breakdown,
		EffectiveRate:   round2(effectiveRate),
	}
}

// SimpleTieredCommission is the progressive fallback used by tiered rules that
// carry no structured schedule: the base rate up to 10,000, base+2 points up to
// 50,000 and base+5 points above that.
func SimpleTieredCommission(amount, baseRate float64) float64 {
	switch {
	case amount <= 10000:
		return amount * baseRate / 100
	case amount <= 50000:
		return 10000*baseRate/100 + (amount-10000)*(baseRate+2)/100
	default:
		return 10000*baseRate/100 + 40000*(baseRate+2)/100 + (amount-50000)*(baseRate+5)/100
	}
}

func tierCommission(tier model.TieredRate, amountInTier float64) float64 {
	if tier.RateType == model.RateTypeFixed {
		return tier.Rate
	}
	return amountInTier * tier.Rate / 100
}

func newTierBreakdown(tier model.TieredRate, amountInTier, commission float64) model.TierBreakdown {
	return model.TierBreakdown{
		TierID:          tier.ID,
		TierDescription: TierDescription(tier),
		AmountInTier:    amountInTier,
		Rate:            tier.Rate,
		RateType:        tier.RateType,
		Commission:      commission,
	}
}

// TierDescription returns the tier's own description, or a generated range label.
func TierDescription(tier model.TieredRate) string {
	if tier.Description != "" {
		return tier.Description
	}
	if tier.MaxAmount == nil {
		return "₹" + formatAmount(tier.MinAmount) + "+"
	}
	return "₹" + formatAmount(tier.MinAmount) + " - ₹" + formatAmount(*tier.MaxAmount)
}

func formatAmount(v float64) string {
	if v == math.Trunc(v) {
		return amountPrinter.Sprintf("%d", int64(v))
	}
	return amountPrinter.Sprintf("%.2f", v)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
