package report

import (
	"sort"

	"github.com/Hwalker900/Trading-Signal-Bot/internal/ledger"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/models"
)

// PairStats is the per-pair performance breakdown over a report window.
type PairStats struct {
	Pair       string  `json:"pair"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	BreakEvens int     `json:"break_evens"`
	NetRisk    float64 `json:"net_risk_units"` // net profit in risk multiples
	NetProfit  float64 `json:"net_profit"`     // net profit in currency
}

// Summary is an aggregated report over a set of closed trades.
type Summary struct {
	Pairs []PairStats `json:"pairs"` // sorted by pair symbol
	Total PairStats   `json:"total"`
}

// Aggregator turns closed trades into periodic performance summaries.
type Aggregator struct {
	riskPerTrade float64
}

// NewAggregator creates an aggregator. riskPerTrade is the fixed currency
// amount risked per trade, used to convert realized profit back into risk
// units for reporting.
func NewAggregator(riskPerTrade float64) *Aggregator {
	return &Aggregator{riskPerTrade: riskPerTrade}
}

// Aggregate groups closed trades by pair, counting wins, losses and
// break-evens and summing net profit both in currency and in risk units.
// The grand total spans all pairs.
func (a *Aggregator) Aggregate(trades []ledger.ClosedTrade) Summary {
	byPair := make(map[string]*PairStats)
	total := PairStats{Pair: "TOTAL"}

	for _, t := range trades {
		stats, ok := byPair[t.Pair]
		if !ok {
			stats = &PairStats{Pair: t.Pair}
			byPair[t.Pair] = stats
		}

		switch t.ExitType {
		case models.ExitTakeProfit:
			stats.Wins++
			total.Wins++
		case models.ExitStopLoss:
			stats.Losses++
			total.Losses++
		case models.ExitBreakEven:
			stats.BreakEvens++
			total.BreakEvens++
		}

		stats.NetProfit += t.Profit
		total.NetProfit += t.Profit
		if a.riskPerTrade != 0 {
			stats.NetRisk += t.Profit / a.riskPerTrade
			total.NetRisk += t.Profit / a.riskPerTrade
		}
	}

	summary := Summary{Total: total}
	for _, stats := range byPair {
		summary.Pairs = append(summary.Pairs, *stats)
	}
	sort.Slice(summary.Pairs, func(i, j int) bool {
		return summary.Pairs[i].Pair < summary.Pairs[j].Pair
	})
	return summary
}
