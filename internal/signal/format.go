package signal

import (
	"fmt"
	"strings"
	"time"

	"github.com/Hwalker900/Trading-Signal-Bot/internal/models"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/pairs"
)

// ExitLabel maps an exit classification to its human-readable message label.
func ExitLabel(exitType string) string {
	switch exitType {
	case models.ExitTakeProfit:
		return "Take Profit"
	case models.ExitStopLoss:
		return "Stop Loss"
	case models.ExitBreakEven:
		return "Break Even"
	default:
		return "Exit"
	}
}

func humanTime(t time.Time) string {
	return t.UTC().Format("02 Jan 15:04") + " UTC"
}

func symbolLabel(reg *pairs.Registry, symbol string) string {
	if p, ok := reg.Get(symbol); ok && p.Kind == pairs.KindStock {
		return "Stock"
	}
	return "Pair"
}

// FormatEntryMessage renders the Telegram alert for a new BUY/SELL signal.
// Prices are rendered as received from the webhook.
func FormatEntryMessage(reg *pairs.Registry, pair, direction, entry, stopLoss string, at time.Time) string {
	action := "📈 Buy"
	if direction == models.DirectionSell {
		action = "📉 Sell"
	}

	return fmt.Sprintf(`*🌟 New Signal Alert!*

💱 *%s*: %s
📢 *Action*: %s
💵 *Entry Price*: %s
🛑 *Stop Loss*: %s
🕒 *Time*: %s
`, symbolLabel(reg, pair), reg.Display(pair), action, entry, stopLoss, humanTime(at))
}

// FormatExitMessage renders the Telegram alert for an exit signal.
func FormatExitMessage(reg *pairs.Registry, pair, exitType, exitPrice string, at time.Time) string {
	return fmt.Sprintf(`*🚪 Exit Alert!*

💱 *%s*: %s
📢 *Exit Type*: %s
💵 *Exit Price*: %s
🕒 *Time*: %s
`, symbolLabel(reg, pair), reg.Display(pair), ExitLabel(exitType), exitPrice, humanTime(at))
}

// FormatDailySummary renders the end-of-day list of opened signals.
func FormatDailySummary(entries []Entry, now time.Time) string {
	lines := []string{fmt.Sprintf("*📅 Today's Signals – %s*", now.UTC().Format("02 Jan"))}
	for _, e := range entries {
		emoji := "📈"
		if e.Direction == models.DirectionSell {
			emoji = "📉"
		}
		lines = append(lines, fmt.Sprintf("💱 %s: %s %s", e.Pair, emoji, e.Direction))
	}
	lines = append(lines, "\n🌟 Review these and plan your next move!")
	return strings.Join(lines, "\n")
}
