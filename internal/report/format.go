package report

import (
	"fmt"
	"strings"
)

// Format renders a summary as a Telegram Markdown message. Each pair gets a
// win/loss/break-even line with net profit in risk units and currency,
// followed by a grand total.
func Format(title string, s Summary) string {
	lines := []string{fmt.Sprintf("*📊 %s*", title)}

	if len(s.Pairs) == 0 {
		lines = append(lines, "\nNo closed trades this period.")
		return strings.Join(lines, "\n")
	}

	for _, p := range s.Pairs {
		lines = append(lines, fmt.Sprintf("💱 %s: ✅ %d | ❌ %d | ➖ %d | %+.2fR (%+.2f)",
			p.Pair, p.Wins, p.Losses, p.BreakEvens, p.NetRisk, p.NetProfit))
	}

	t := s.Total
	lines = append(lines, fmt.Sprintf("\n*Total*: ✅ %d | ❌ %d | ➖ %d | %+.2fR (%+.2f)",
		t.Wins, t.Losses, t.BreakEvens, t.NetRisk, t.NetProfit))

	return strings.Join(lines, "\n")
}
