package models

import (
	"time"

	"gorm.io/gorm"
)

// Trade lifecycle states.
const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

// Trade directions.
const (
	DirectionBuy  = "BUY"
	DirectionSell = "SELL"
)

// Exit classifications.
const (
	ExitTakeProfit = "TAKE_PROFIT"
	ExitStopLoss   = "STOP_LOSS"
	ExitBreakEven  = "BREAK_EVEN"
	ExitUnknown    = "UNKNOWN"
)

// Trade represents one signal lifecycle in the database. A trade is created
// OPEN by an entry signal and transitions to CLOSED exactly once when an exit
// signal for the same pair arrives. The exit fields are only meaningful once
// Status is CLOSED.
type Trade struct {
	gorm.Model
	Pair          string    `json:"pair" gorm:"index"`
	Direction     string    `json:"direction"` // "BUY" or "SELL"
	EntryPrice    float64   `json:"entry_price"`
	StopLossPrice float64   `json:"stop_loss_price"`
	EntryTime     time.Time `json:"entry_time"`
	Status        string    `json:"status" gorm:"index;default:OPEN"`
	ExitPrice     float64   `json:"exit_price,omitempty"`
	ExitTime      time.Time `json:"exit_time,omitempty"`
	ExitType      string    `json:"exit_type,omitempty"`
	Profit        float64   `json:"profit,omitempty"`
}
