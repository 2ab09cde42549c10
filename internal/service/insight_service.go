package service

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anyulbade/commission-engine/internal/model"
)

const (
	InsightDormantRule         = "dormant_rule"
	InsightUncoveredTxn        = "uncovered_transaction"
	InsightRuleConcentration   = "rule_concentration"
	dormantHighVolume          = 20
	uncoveredHighValueAmount   = 50000.0
	concentrationMediumPercent = 50.0
	concentrationHighPercent   = 80.0
)

type InsightService struct {
	rules []model.CommissionRule
}

func NewInsightService(rules []model.CommissionRule) *InsightService {
	return &InsightService{rules: rules}
}

type Insight struct {
	InsightID         string         `json:"insight_id"`
	Type              string         `json:"type"`
	Severity          string         `json:"severity"`
	RuleID            string         `json:"rule_id,omitempty"`
	TransactionID     string         `json:"transaction_id,omitempty"`
	TriggeringMetric  string         `json:"triggering_metric"`
	MetricValue       float64        `json:"metric_value"`
	Threshold         float64        `json:"threshold"`
	Description       string         `json:"description"`
	RecommendedAction string         `json:"recommended_action"`
	SupportingData    map[string]any `json:"supporting_data,omitempty"`
	GeneratedAt       time.Time      `json:"generated_at"`
}

// DetectInsights runs every detector over a calculated batch. An empty
// insightType or severity disables that filter.
func (s *InsightService) DetectInsights(ctx context.Context, results []model.CommissionResult, insightType, severity string) ([]Insight, error) {
	g, gctx := errgroup.WithContext(ctx)

	var dormant, uncovered, concentrated []Insight

	if insightType == "" || insightType == InsightDormantRule {
		g.Go(func() error {
			var err error
			dormant, err = s.detectDormantRules(gctx, results)
			return err
		})
	}

	if insightType == "" || insightType == InsightUncoveredTxn {
		g.Go(func() error {
			var err error
			uncovered, err = s.detectUncovered(gctx, results)
			return err
		})
	}

	if insightType == "" || insightType == InsightRuleConcentration {
		g.Go(func() error {
			var err error
			concentrated, err = s.detectConcentration(gctx, results)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Insight
	all = append(all, dormant...)
	all = append(all, uncovered...)
	all = append(all, concentrated...)

	if severity != "" {
		var filtered []Insight
		for _, i := range all {
			if i.Severity == severity {
				filtered = append(filtered, i)
			}
		}
		all = filtered
	}

	return all, nil
}

// detectDormantRules flags active rules that produced no commission line
// anywhere in the batch.
func (s *InsightService) detectDormantRules(ctx context.Context, results []model.CommissionResult) ([]Insight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	paid := make(map[string]int)
	typeVolume := make(map[model.TransactionType]int)
	for _, r := range results {
		typeVolume[r.Transaction.Type]++
		for _, c := range r.Calculations {
			paid[c.RuleID]++
		}
	}

	now := time.Now()
	var insights []Insight

	for _, rule := range s.rules {
		if !rule.IsActive || paid[rule.ID] > 0 {
			continue
		}

		sev := "LOW"
		if typeVolume[rule.Type] >= dormantHighVolume {
			sev = "HIGH"
		} else if typeVolume[rule.Type] > 0 {
			sev = "MEDIUM"
		}

		insights = append(insights, Insight{
			InsightID:         hashID(InsightDormantRule, rule.ID),
			Type:              InsightDormantRule,
			Severity:          sev,
			RuleID:            rule.ID,
			TriggeringMetric:  "calculations",
			MetricValue:       0,
			Threshold:         1,
			Description:       fmt.Sprintf("Rule %q (%s) paid no commission across %d %s transactions", rule.Name, rule.RateType, typeVolume[rule.Type], rule.Type),
			RecommendedAction: "Review the rule bounds, category and conditions, or deactivate the rule.",
			SupportingData: map[string]any{
				"type_volume": typeVolume[rule.Type],
				"rate_type":   rule.RateType,
				"category":    rule.Category,
			},
			GeneratedAt: now,
		})
	}

	return insights, nil
}

func (s *InsightService) detectUncovered(ctx context.Context, results []model.CommissionResult) ([]Insight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	var insights []Insight

	for _, r := range results {
		if r.ApplicableRules > 0 {
			continue
		}

		sev := "LOW"
		if r.Transaction.Amount >= uncoveredHighValueAmount {
			sev = "MEDIUM"
		}

		insights = append(insights, Insight{
			InsightID:         hashID(InsightUncoveredTxn, r.Transaction.ID),
			Type:              InsightUncoveredTxn,
			Severity:          sev,
			TransactionID:     r.Transaction.ID,
			TriggeringMetric:  "applicable_rules",
			MetricValue:       0,
			Threshold:         1,
			Description:       fmt.Sprintf("%s transaction %s of %.2f in %q matched no commission rule", r.Transaction.Type, r.Transaction.ID, r.Transaction.Amount, r.Transaction.Category),
			RecommendedAction: "Confirm the transaction is meant to be commission-free or add a covering rule.",
			SupportingData: map[string]any{
				"amount":   r.Transaction.Amount,
				"category": r.Transaction.Category,
			},
			GeneratedAt: now,
		})
	}

	return insights, nil
}

// detectConcentration flags a single rule carrying most of the payout.
func (s *InsightService) detectConcentration(ctx context.Context, results []model.CommissionResult) ([]Insight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	byRule := make(map[string]float64)
	names := make(map[string]string)
	var total float64
	for _, r := range results {
		for _, c := range r.Calculations {
			byRule[c.RuleID] += c.Commission
			names[c.RuleID] = c.RuleName
			total += c.Commission
		}
	}
	if total <= 0 || len(byRule) < 2 {
		return nil, nil
	}

	ids := make([]string, 0, len(byRule))
	for id := range byRule {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	now := time.Now()
	var insights []Insight

	for _, id := range ids {
		share := math.Round(byRule[id]/total*10000) / 100
		if share <= concentrationMediumPercent {
			continue
		}

		sev := "MEDIUM"
		if share > concentrationHighPercent {
			sev = "HIGH"
		}

		insights = append(insights, Insight{
			InsightID:         hashID(InsightRuleConcentration, id),
			Type:              InsightRuleConcentration,
			Severity:          sev,
			RuleID:            id,
			TriggeringMetric:  "commission_share_pct",
			MetricValue:       share,
			Threshold:         concentrationMediumPercent,
			Description:       fmt.Sprintf("Rule %q accounts for %.1f%% of total commission", names[id], share),
			RecommendedAction: "Check whether the rule rate or bounds are wider than intended.",
			SupportingData: map[string]any{
				"rule_commission":  math.Round(byRule[id]*100) / 100,
				"total_commission": math.Round(total*100) / 100,
			},
			GeneratedAt: now,
		})
	}

	return insights, nil
}

func hashID(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}
