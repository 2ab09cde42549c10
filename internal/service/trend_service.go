package service

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/anyulbade/commission-engine/internal/model"
)

const (
	TrendMetricCommission = "commission"
	TrendMetricAmount     = "amount"
	TrendMetricCount      = "transaction_count"

	monthLayout = "2006-01"
)

type TrendService struct{}

func NewTrendService() *TrendService {
	return &TrendService{}
}

type TrendPoint struct {
	Period           string  `json:"period"`
	Value            float64 `json:"value"`
	PreviousValue    float64 `json:"previous_value,omitempty"`
	AbsoluteChange   float64 `json:"absolute_change"`
	PercentageChange float64 `json:"percentage_change"`
	Direction        string  `json:"direction,omitempty"`
}

type TrendSummary struct {
	Type         model.TransactionType `json:"type"`
	Metric       string                `json:"metric"`
	Points       []TrendPoint          `json:"points"`
	OverallTrend string                `json:"overall_trend"`
	Slope        float64               `json:"slope"`
	RSquared     float64               `json:"r_squared"`
}

type trendBucket struct {
	commission decimal.Decimal
	amount     decimal.Decimal
	count      int
}

// CommissionTrends buckets results by calendar month (UTC) per transaction
// type. Months with no transactions for a type are left out of its series.
func (s *TrendService) CommissionTrends(results []model.CommissionResult, metric string) []TrendSummary {
	grouped := make(map[model.TransactionType]map[string]*trendBucket)
	for _, r := range results {
		t := r.Transaction.Type
		if grouped[t] == nil {
			grouped[t] = make(map[string]*trendBucket)
		}
		period := r.Transaction.Date.UTC().Format(monthLayout)
		b := grouped[t][period]
		if b == nil {
			b = &trendBucket{}
			grouped[t][period] = b
		}
		b.commission = b.commission.Add(decimal.NewFromFloat(r.TotalCommission))
		b.amount = b.amount.Add(decimal.NewFromFloat(r.Transaction.Amount))
		b.count++
	}

	types := make([]string, 0, len(grouped))
	for t := range grouped {
		types = append(types, string(t))
	}
	sort.Strings(types)

	summaries := make([]TrendSummary, 0, len(types))
	for _, t := range types {
		buckets := grouped[model.TransactionType(t)]

		periods := make([]string, 0, len(buckets))
		for p := range buckets {
			periods = append(periods, p)
		}
		sort.Strings(periods)

		values := make([]float64, len(periods))
		for i, p := range periods {
			values[i] = metricValue(buckets[p], metric)
		}

		points := make([]TrendPoint, len(values))
		for i, v := range values {
			tp := TrendPoint{Period: periods[i], Value: v}
			if i > 0 {
				tp.PreviousValue = values[i-1]
				tp.AbsoluteChange = math.Round((v-values[i-1])*100) / 100
				if values[i-1] != 0 {
					tp.PercentageChange = math.Round((v-values[i-1])/values[i-1]*10000) / 100
				}
				if math.Abs(tp.PercentageChange) < 1 {
					tp.Direction = "FLAT"
				} else if tp.AbsoluteChange > 0 {
					tp.Direction = "UP"
				} else {
					tp.Direction = "DOWN"
				}
			}
			points[i] = tp
		}

		slope, r2 := linearRegression(values)
		overall := "VOLATILE"
		if len(values) >= 2 && r2 >= 0.5 {
			if slope > 0 {
				overall = "GROWING"
			} else {
				overall = "DECLINING"
			}
		}

		summaries = append(summaries, TrendSummary{
			Type:         model.TransactionType(t),
			Metric:       metric,
			Points:       points,
			OverallTrend: overall,
			Slope:        math.Round(slope*100) / 100,
			RSquared:     math.Round(r2*10000) / 10000,
		})
	}

	return summaries
}

func metricValue(b *trendBucket, metric string) float64 {
	switch metric {
	case TrendMetricAmount:
		return b.amount.Round(2).InexactFloat64()
	case TrendMetricCount:
		return float64(b.count)
	default:
		return b.commission.Round(2).InexactFloat64()
	}
}

func linearRegression(values []float64) (slope, rSquared float64) {
	n := float64(len(values))
	if n < 2 {
		return 0, 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumX2 += x * x
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, 0
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for i, v := range values {
		predicted := slope*float64(i) + intercept
		ssRes += (v - predicted) * (v - predicted)
		ssTot += (v - meanY) * (v - meanY)
	}

	if ssTot == 0 {
		return slope, 1.0
	}
	return slope, 1 - ssRes/ssTot
}
