package seeddata

import (
	_ "embed"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/anyulbade/commission-engine/internal/model"
)

//go:embed demo_rules.yaml
var DemoRulesYAML []byte

type txnProfile struct {
	Type      model.TransactionType
	Category  string
	Weight    int
	AmountMin float64
	AmountMax float64
	QtyMax    int // 0 leaves quantity unset
}

var profiles = []txnProfile{
	// Doctors
	{Type: model.TransactionTypeDoctor, Category: "consultation", Weight: 30, AmountMin: 500, AmountMax: 5000},
	{Type: model.TransactionTypeDoctor, Category: "surgery", Weight: 12, AmountMin: 8000, AmountMax: 250000},
	{Type: model.TransactionTypeDoctor, Category: "procedure", Weight: 10, AmountMin: 1500, AmountMax: 20000, QtyMax: 8},

	// Agents
	{Type: model.TransactionTypeAgent, Category: "referral", Weight: 20, AmountMin: 2000, AmountMax: 180000},
	{Type: model.TransactionTypeAgent, Category: "insurance", Weight: 8, AmountMin: 5000, AmountMax: 60000},

	// Departments
	{Type: model.TransactionTypeDepartment, Category: "cardiology", Weight: 10, AmountMin: 20000, AmountMax: 800000},
	{Type: model.TransactionTypeDepartment, Category: "radiology", Weight: 6, AmountMin: 3000, AmountMax: 120000},
	{Type: model.TransactionTypeDepartment, Category: "pharmacy", Weight: 4, AmountMin: 100, AmountMax: 9000, QtyMax: 40},
}

// GenerateTransactions returns n pseudo-random transactions spread over six
// months starting September 2025. The same seed always yields the same batch.
func GenerateTransactions(seed int64, n int) []model.Transaction {
	rng := rand.New(rand.NewSource(seed))
	baseDate := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	totalWeight := 0
	for _, p := range profiles {
		totalWeight += p.Weight
	}

	txns := make([]model.Transaction, 0, n)
	for i := 0; i < n; i++ {
		p := pickProfile(rng.Intn(totalWeight))

		date := baseDate.AddDate(0, rng.Intn(6), rng.Intn(28)).
			Add(time.Duration(rng.Intn(24)) * time.Hour).
			Add(time.Duration(rng.Intn(4)*15) * time.Minute)

		amount := p.AmountMin + rng.Float64()*(p.AmountMax-p.AmountMin)
		amount = math.Round(amount*100) / 100

		qty := 0
		if p.QtyMax > 0 {
			qty = 1 + rng.Intn(p.QtyMax)
		}

		txns = append(txns, model.Transaction{
			ID:       fmt.Sprintf("DEMO-%05d", i+1),
			Amount:   amount,
			Quantity: qty,
			Category: p.Category,
			Type:     p.Type,
			Date:     date,
		})
	}

	log.Debug().Int64("seed", seed).Int("count", len(txns)).Msg("generated demo transactions")
	return txns
}

func pickProfile(roll int) txnProfile {
	for _, p := range profiles {
		if roll < p.Weight {
			return p
		}
		roll -= p.Weight
	}
	return profiles[len(profiles)-1]
}
