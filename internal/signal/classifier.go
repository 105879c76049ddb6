package signal

import (
	"math"

	"github.com/Hwalker900/Trading-Signal-Bot/internal/models"
)

// breakEvenThreshold is the price distance from entry, in price units, below
// which an exit counts as break-even regardless of direction.
const breakEvenThreshold = 0.0001

// Classify determines the exit type and realized profit for a closing trade.
// The price difference is normalized so that favorable movement is positive
// for both directions. Profit is the risk/reward ratio (price difference over
// the pair's fixed stop-loss distance, rounded to 2 decimals) multiplied by
// the fixed risk amount per trade.
func Classify(direction string, entryPrice, exitPrice, stopDistance, riskPerTrade float64) (string, float64) {
	priceDiff := exitPrice - entryPrice
	if direction == models.DirectionSell {
		priceDiff = entryPrice - exitPrice
	}

	if math.Abs(priceDiff) <= breakEvenThreshold {
		return models.ExitBreakEven, 0
	}

	// A zero stop distance would divide by zero; treat it as no measurable
	// risk unit and report zero profit.
	var ratio float64
	if stopDistance != 0 {
		ratio = math.Round(priceDiff/stopDistance*100) / 100
	}
	profit := ratio * riskPerTrade

	if priceDiff > 0 {
		return models.ExitTakeProfit, profit
	}
	return models.ExitStopLoss, profit
}
