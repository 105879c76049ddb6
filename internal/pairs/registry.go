package pairs

import (
	"strings"

	"github.com/Hwalker900/Trading-Signal-Bot/internal/config"
)

// Pair kinds, controlling display formatting and message wording.
const (
	KindStock = "stock"
	KindForex = "forex"
)

// Pair is one registered symbol with its display kind and the fixed
// stop-loss distance used to normalize profit into risk units.
type Pair struct {
	Symbol       string
	Kind         string
	StopDistance float64
}

// Registry is the static set of valid pairs. It is built once from config
// and read-only afterwards, so it is safe for concurrent use.
type Registry struct {
	pairs map[string]Pair
}

// NewRegistry builds a registry from the configured pair list. Symbols are
// stored uppercased without separators so lookups match normalized input.
func NewRegistry(cfgPairs []config.PairConfig) *Registry {
	r := &Registry{pairs: make(map[string]Pair, len(cfgPairs))}
	for _, p := range cfgPairs {
		symbol := Normalize(p.Symbol)
		kind := strings.ToLower(p.Kind)
		if kind != KindStock {
			kind = KindForex
		}
		r.pairs[symbol] = Pair{
			Symbol:       symbol,
			Kind:         kind,
			StopDistance: p.StopDistance,
		}
	}
	return r
}

// Normalize maps a raw symbol to its registry key form: uppercase, no
// separator. "usd/jpy" and "USDJPY" both become "USDJPY".
func Normalize(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(symbol), "/", ""))
}

// Get returns the pair for a normalized symbol, and whether it is registered.
func (r *Registry) Get(symbol string) (Pair, bool) {
	p, ok := r.pairs[symbol]
	return p, ok
}

// Contains reports whether the normalized symbol is a valid pair.
func (r *Registry) Contains(symbol string) bool {
	_, ok := r.pairs[symbol]
	return ok
}

// Display returns the human-readable form of a symbol: stocks verbatim
// ("TSLA"), forex crosses with a slash after the base currency ("USD/JPY").
// Unknown symbols are returned as-is.
func (r *Registry) Display(symbol string) string {
	p, ok := r.pairs[symbol]
	if !ok {
		return symbol
	}
	if p.Kind == KindForex && len(p.Symbol) >= 6 {
		return p.Symbol[:3] + "/" + p.Symbol[3:]
	}
	return p.Symbol
}

// StopDistance returns the fixed per-pair stop-loss distance, or 0 for an
// unknown symbol.
func (r *Registry) StopDistance(symbol string) float64 {
	return r.pairs[symbol].StopDistance
}
