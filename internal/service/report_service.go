package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/anyulbade/commission-engine/internal/model"
)

const (
	SheetSummary      = "Summary"
	SheetCalculations = "Calculations"
	SheetByRule       = "By Rule"
	SheetByType       = "By Type"
	SheetInsights     = "Insights"
	SheetTrends       = "Trends"
)

type ReportService struct {
	commissionSvc *CommissionService
	insightSvc    *InsightService
	trendSvc      *TrendService
}

func NewReportService(commissionSvc *CommissionService, insightSvc *InsightService, trendSvc *TrendService) *ReportService {
	return &ReportService{commissionSvc: commissionSvc, insightSvc: insightSvc, trendSvc: trendSvc}
}

type ReportData struct {
	GeneratedAt string                   `json:"generated_at"`
	Summary     CommissionSummary        `json:"summary"`
	Results     []model.CommissionResult `json:"results"`
	Insights    []Insight                `json:"insights"`
	Trends      []TrendSummary           `json:"trends"`
}

func (s *ReportService) GenerateReport(ctx context.Context, txns []model.Transaction) (*ReportData, error) {
	results, err := s.commissionSvc.CalculateBatch(ctx, txns)
	if err != nil {
		return nil, fmt.Errorf("calculate commissions: %w", err)
	}

	insights, err := s.insightSvc.DetectInsights(ctx, results, "", "")
	if err != nil {
		return nil, fmt.Errorf("detect insights: %w", err)
	}

	return &ReportData{
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05 MST"),
		Summary:     s.commissionSvc.Summarize(results),
		Results:     results,
		Insights:    insights,
		Trends:      s.trendSvc.CommissionTrends(results, TrendMetricCommission),
	}, nil
}

func (s *ReportService) RenderJSON(data *ReportData) ([]byte, error) {
	return json.MarshalIndent(data, "", "  ")
}

// RenderXLSX builds a workbook with one sheet per report section.
func (s *ReportService) RenderXLSX(data *ReportData) ([]byte, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	xl.SetSheetName(xl.GetSheetName(0), SheetSummary)
	for _, name := range []string{SheetCalculations, SheetByRule, SheetByType, SheetInsights, SheetTrends} {
		if _, err := xl.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	sum := data.Summary
	summaryRows := [][]any{
		{"metric", "value"},
		{"generated_at", data.GeneratedAt},
		{"total_transactions", sum.TotalTransactions},
		{"transactions_with_commission", sum.TransactionsWithCommission},
		{"active_rules", sum.ActiveRules},
		{"total_amount", sum.TotalAmount},
		{"total_commission", sum.TotalCommission},
		{"effective_rate", sum.EffectiveRate},
		{"insights", len(data.Insights)},
	}
	if err := writeRows(xl, SheetSummary, summaryRows); err != nil {
		return nil, err
	}

	calcRows := [][]any{{"transaction_id", "type", "category", "date", "rule_id", "rule_name", "rate_type", "rate", "amount", "commission", "details"}}
	for _, r := range data.Results {
		for _, c := range r.Calculations {
			calcRows = append(calcRows, []any{
				c.TransactionID,
				string(r.Transaction.Type),
				r.Transaction.Category,
				r.Transaction.Date.UTC().Format(time.RFC3339),
				c.RuleID,
				c.RuleName,
				string(c.RateType),
				c.Rate,
				c.Amount,
				c.Commission,
				c.Details,
			})
		}
	}
	if err := writeRows(xl, SheetCalculations, calcRows); err != nil {
		return nil, err
	}

	ruleRows := [][]any{{"rule_id", "commission"}}
	for _, id := range sortedKeys(sum.ByRuleID) {
		ruleRows = append(ruleRows, []any{id, sum.ByRuleID[id]})
	}
	if err := writeRows(xl, SheetByRule, ruleRows); err != nil {
		return nil, err
	}

	byType := make(map[string]float64, len(sum.ByType))
	for t, v := range sum.ByType {
		byType[string(t)] = v
	}
	typeRows := [][]any{{"type", "commission"}}
	for _, t := range sortedKeys(byType) {
		typeRows = append(typeRows, []any{t, byType[t]})
	}
	if err := writeRows(xl, SheetByType, typeRows); err != nil {
		return nil, err
	}

	insightRows := [][]any{{"insight_id", "type", "severity", "rule_id", "transaction_id", "metric", "value", "description"}}
	for _, i := range data.Insights {
		insightRows = append(insightRows, []any{i.InsightID, i.Type, i.Severity, i.RuleID, i.TransactionID, i.TriggeringMetric, i.MetricValue, i.Description})
	}
	if err := writeRows(xl, SheetInsights, insightRows); err != nil {
		return nil, err
	}

	trendRows := [][]any{{"type", "period", "commission", "change_pct", "direction"}}
	for _, tr := range data.Trends {
		for _, p := range tr.Points {
			trendRows = append(trendRows, []any{string(tr.Type), p.Period, p.Value, p.PercentageChange, p.Direction})
		}
	}
	if err := writeRows(xl, SheetTrends, trendRows); err != nil {
		return nil, err
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(xl *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := xl.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
