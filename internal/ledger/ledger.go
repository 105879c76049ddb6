package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/Hwalker900/Trading-Signal-Bot/internal/models"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/pairs"
	"gorm.io/gorm"
)

// ClosedTrade is the slice of a closed trade row that reporting needs.
type ClosedTrade struct {
	Pair     string
	ExitType string
	Profit   float64
}

// Ledger owns the trade table. It is the only component that writes trade
// rows. Note that it does not enforce one-open-trade-per-pair: duplicate
// opens are permitted by the store and resolved by FindLatestOpenTrade's
// highest-id-wins lookup order.
type Ledger struct {
	db       *gorm.DB
	registry *pairs.Registry
}

// NewLedger creates a ledger backed by the given database.
func NewLedger(db *gorm.DB, registry *pairs.Registry) *Ledger {
	return &Ledger{db: db, registry: registry}
}

// InsertOpenTrade records a new OPEN trade and returns its id. The pair must
// be registered.
func (l *Ledger) InsertOpenTrade(pair, direction string, entryPrice, stopLossPrice float64, entryTime time.Time) (uint, error) {
	if !l.registry.Contains(pair) {
		return 0, fmt.Errorf("pair %q is not registered", pair)
	}

	trade := models.Trade{
		Pair:          pair,
		Direction:     direction,
		EntryPrice:    entryPrice,
		StopLossPrice: stopLossPrice,
		EntryTime:     entryTime,
		Status:        models.StatusOpen,
	}
	if err := l.db.Create(&trade).Error; err != nil {
		return 0, fmt.Errorf("failed to insert open trade for %s: %w", pair, err)
	}
	return trade.ID, nil
}

// FindLatestOpenTrade returns the most recently opened OPEN trade for the
// pair, i.e. the one with the greatest id. Returns (nil, nil) when the pair
// has no open trade.
func (l *Ledger) FindLatestOpenTrade(pair string) (*models.Trade, error) {
	var trade models.Trade
	err := l.db.
		Where("pair = ? AND status = ?", pair, models.StatusOpen).
		Order("id desc").
		First(&trade).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up open trade for %s: %w", pair, err)
	}
	return &trade, nil
}

// CloseTrade transitions a trade to CLOSED and fills its exit fields. The
// store does not guard against double-closing; callers must close each trade
// at most once.
func (l *Ledger) CloseTrade(tradeID uint, exitPrice float64, exitTime time.Time, exitType string, profit float64) error {
	updates := map[string]interface{}{
		"status":     models.StatusClosed,
		"exit_price": exitPrice,
		"exit_time":  exitTime,
		"exit_type":  exitType,
		"profit":     profit,
	}
	if err := l.db.Model(&models.Trade{}).Where("id = ?", tradeID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to close trade %d: %w", tradeID, err)
	}
	return nil
}

// ClosedInWindow returns the closed trades whose exit time falls inside
// [start, end], inclusive on both ends.
func (l *Ledger) ClosedInWindow(start, end time.Time) ([]ClosedTrade, error) {
	var trades []models.Trade
	err := l.db.
		Where("status = ? AND exit_time >= ? AND exit_time <= ?", models.StatusClosed, start, end).
		Order("id asc").
		Find(&trades).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query closed trades: %w", err)
	}

	closed := make([]ClosedTrade, 0, len(trades))
	for _, t := range trades {
		closed = append(closed, ClosedTrade{Pair: t.Pair, ExitType: t.ExitType, Profit: t.Profit})
	}
	return closed, nil
}

// RecentTrades returns up to limit trades, most recent first.
func (l *Ledger) RecentTrades(limit int) ([]models.Trade, error) {
	var trades []models.Trade
	if err := l.db.Order("id desc").Limit(limit).Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	return trades, nil
}
