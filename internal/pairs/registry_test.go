package pairs

import (
	"testing"

	"github.com/Hwalker900/Trading-Signal-Bot/internal/config"
	"github.com/stretchr/testify/assert"
)

func testRegistry() *Registry {
	return NewRegistry([]config.PairConfig{
		{Symbol: "TSLA", Kind: "stock", StopDistance: 6.0},
		{Symbol: "USDJPY", Kind: "forex", StopDistance: 0.16},
		{Symbol: "btcusd", Kind: "forex", StopDistance: 450},
	})
}

func TestRegistryDisplay(t *testing.T) {
	r := testRegistry()

	assert.Equal(t, "TSLA", r.Display("TSLA"))
	assert.Equal(t, "USD/JPY", r.Display("USDJPY"))
	assert.Equal(t, "BTC/USD", r.Display("BTCUSD"))
	// Unknown symbols pass through untouched.
	assert.Equal(t, "EURUSD", r.Display("EURUSD"))
}

func TestRegistryNormalizeAndLookup(t *testing.T) {
	r := testRegistry()

	assert.Equal(t, "USDJPY", Normalize("usd/jpy"))
	assert.Equal(t, "TSLA", Normalize(" tsla "))

	assert.True(t, r.Contains("USDJPY"))
	assert.True(t, r.Contains(Normalize("usd/jpy")))
	assert.False(t, r.Contains("EURUSD"))

	p, ok := r.Get("BTCUSD")
	assert.True(t, ok)
	assert.Equal(t, KindForex, p.Kind)
	assert.Equal(t, 450.0, p.StopDistance)
}

func TestRegistryStopDistance(t *testing.T) {
	r := testRegistry()

	assert.Equal(t, 0.16, r.StopDistance("USDJPY"))
	assert.Zero(t, r.StopDistance("EURUSD"))
}
