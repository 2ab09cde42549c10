package service

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/anyulbade/commission-engine/internal/commission"
	"github.com/anyulbade/commission-engine/internal/model"
)

const defaultWorkers = 4

type CommissionService struct {
	calc    *commission.Calculator
	workers int
}

func NewCommissionService(calc *commission.Calculator, workers int) *CommissionService {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &CommissionService{calc: calc, workers: workers}
}

type CommissionSummary struct {
	TotalTransactions          int                               `json:"total_transactions"`
	TransactionsWithCommission int                               `json:"transactions_with_commission"`
	TotalAmount                float64                           `json:"total_amount"`
	TotalCommission            float64                           `json:"total_commission"`
	EffectiveRate              float64                           `json:"effective_rate"`
	ActiveRules                int                               `json:"active_rules"`
	ByRule                     map[string]float64                `json:"by_rule"`
	ByRuleID                   map[string]float64                `json:"by_rule_id"`
	ByType                     map[model.TransactionType]float64 `json:"by_type"`
}

// CalculateBatch fans transactions out over a bounded worker pool. Results
// keep the input order.
func (s *CommissionService) CalculateBatch(ctx context.Context, txns []model.Transaction) ([]model.CommissionResult, error) {
	start := time.Now()
	results := make([]model.CommissionResult, len(txns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range txns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.calc.Calculate(txns[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().
		Int("transactions", len(txns)).
		Int("workers", s.workers).
		Dur("elapsed", time.Since(start)).
		Msg("commission batch calculated")

	return results, nil
}

func (s *CommissionService) Summarize(results []model.CommissionResult) CommissionSummary {
	summary := CommissionSummary{
		TotalTransactions: len(results),
		ActiveRules:       len(s.calc.Rules()),
		ByRule:            commission.TotalsByRuleName(results),
		ByRuleID:          commission.TotalsByRuleID(results),
		ByType:            commission.TotalsByType(results),
	}

	amount := decimal.Zero
	total := decimal.Zero
	for _, r := range results {
		amount = amount.Add(decimal.NewFromFloat(r.Transaction.Amount))
		total = total.Add(decimal.NewFromFloat(r.TotalCommission))
		if len(r.Calculations) > 0 {
			summary.TransactionsWithCommission++
		}
	}

	summary.TotalAmount = amount.InexactFloat64()
	summary.TotalCommission = total.InexactFloat64()
	if !amount.IsZero() {
		rate := total.Div(amount).Mul(decimal.NewFromInt(100)).InexactFloat64()
		summary.EffectiveRate = math.Round(rate*100) / 100
	}

	return summary
}

func (s *CommissionService) Rules() []model.CommissionRule {
	return s.calc.Rules()
}
