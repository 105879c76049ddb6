package signal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Hwalker900/Trading-Signal-Bot/internal/config"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/ledger"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/models"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/pairs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockNotifier is a mock implementation of the telegram.Notifier interface.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

// setupService creates a full intake environment with a mock notifier and
// in-memory DB.
func setupService(t *testing.T) (*Service, *gorm.DB, *MockNotifier) {
	// Use a new, non-shared in-memory database for each test to ensure
	// isolation, pinned to one connection so every query sees the migrated
	// table.
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Trade{}))

	registry := pairs.NewRegistry([]config.PairConfig{
		{Symbol: "TSLA", Kind: "stock", StopDistance: 6.0},
		{Symbol: "USDJPY", Kind: "forex", StopDistance: 0.16},
	})

	mockNotifier := new(MockNotifier)
	svc := NewService(zap.NewNop(), registry, ledger.NewLedger(db, registry), NewBuffer(), mockNotifier, 50)

	return svc, db, mockNotifier
}

func TestProcess_EntrySignal(t *testing.T) {
	// Arrange
	svc, db, mockNotifier := setupService(t)
	mockNotifier.On("Send", mock.Anything, mock.MatchedBy(func(msg string) bool {
		return strings.Contains(msg, "New Signal Alert") &&
			strings.Contains(msg, "USD/JPY") &&
			strings.Contains(msg, "Buy")
	})).Return(nil)

	// Act
	err := svc.Process(context.Background(), Payload{
		Pair:     "USDJPY",
		Signal:   "buy",
		Time:     "2025-03-14T09:30:00Z",
		Entry:    "150.10",
		StopLoss: "149.80",
	})

	// Assert
	assert.NoError(t, err)

	var trade models.Trade
	require.NoError(t, db.First(&trade).Error)
	assert.Equal(t, "USDJPY", trade.Pair)
	assert.Equal(t, models.DirectionBuy, trade.Direction)
	assert.Equal(t, models.StatusOpen, trade.Status)
	assert.Equal(t, 150.10, trade.EntryPrice)

	entries, ok := svc.buffer.TakeForSummary(trade.EntryTime.Add(12 * time.Hour))
	assert.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{Pair: "USDJPY", Direction: "BUY"}, entries[0])

	mockNotifier.AssertExpectations(t)
}

func TestProcess_ExitClosesLatestOpenTrade(t *testing.T) {
	// Arrange
	svc, db, mockNotifier := setupService(t)
	mockNotifier.On("Send", mock.Anything, mock.Anything).Return(nil)

	// Two open trades for the same pair; the exit must close the newer one.
	require.NoError(t, svc.Process(context.Background(), Payload{
		Pair: "USDJPY", Signal: "BUY", Time: "2025-03-14T09:00:00Z",
		Entry: "1.1000", StopLoss: "1.0950",
	}))
	require.NoError(t, svc.Process(context.Background(), Payload{
		Pair: "USDJPY", Signal: "BUY", Time: "2025-03-14T10:00:00Z",
		Entry: "1.2000", StopLoss: "1.1950",
	}))

	// Act
	err := svc.Process(context.Background(), Payload{
		Pair: "USDJPY", Signal: "EXIT", Time: "2025-03-14T12:00:00Z",
		ExitPrice: "1.2050",
	})

	// Assert
	assert.NoError(t, err)

	var trades []models.Trade
	require.NoError(t, db.Order("id asc").Find(&trades).Error)
	require.Len(t, trades, 2)

	// The earlier trade stays OPEN forever under this design.
	assert.Equal(t, models.StatusOpen, trades[0].Status)

	closed := trades[1]
	assert.Equal(t, models.StatusClosed, closed.Status)
	assert.Equal(t, models.ExitTakeProfit, closed.ExitType)
	assert.Equal(t, 1.2050, closed.ExitPrice)
	// 0.0050 / 0.16 rounds to 0.03 risk units at 50 per trade.
	assert.InDelta(t, 0.03*50, closed.Profit, 0.0001)
}

func TestProcess_ExitWithNoOpenTrade(t *testing.T) {
	// Arrange
	svc, db, mockNotifier := setupService(t)
	mockNotifier.On("Send", mock.Anything, mock.MatchedBy(func(msg string) bool {
		return strings.Contains(msg, "Exit Alert") && strings.Contains(msg, "*Exit Type*: Exit")
	})).Return(nil)

	// Act
	err := svc.Process(context.Background(), Payload{
		Pair: "TSLA", Signal: "EXIT", Time: "2025-03-14T12:00:00Z",
		ExitPrice: "250.00",
	})

	// Assert: notified with the unknown label, nothing written.
	assert.NoError(t, err)

	var count int64
	db.Model(&models.Trade{}).Count(&count)
	assert.Zero(t, count)
	mockNotifier.AssertExpectations(t)
}

func TestProcess_ValidationFailures(t *testing.T) {
	svc, db, mockNotifier := setupService(t)

	testCases := []struct {
		name    string
		payload Payload
	}{
		{
			name:    "Missing time",
			payload: Payload{Pair: "USDJPY", Signal: "BUY", Entry: "1.1", StopLoss: "1.0"},
		},
		{
			name:    "Unknown pair",
			payload: Payload{Pair: "EURUSD", Signal: "BUY", Time: "2025-03-14T09:00:00Z", Entry: "1.1", StopLoss: "1.0"},
		},
		{
			name:    "Bad timestamp",
			payload: Payload{Pair: "USDJPY", Signal: "BUY", Time: "yesterday", Entry: "1.1", StopLoss: "1.0"},
		},
		{
			name:    "Missing entry price",
			payload: Payload{Pair: "USDJPY", Signal: "BUY", Time: "2025-03-14T09:00:00Z", StopLoss: "1.0"},
		},
		{
			name:    "Unparseable entry price",
			payload: Payload{Pair: "USDJPY", Signal: "BUY", Time: "2025-03-14T09:00:00Z", Entry: "abc", StopLoss: "1.0"},
		},
		{
			name:    "Negative stop loss",
			payload: Payload{Pair: "USDJPY", Signal: "SELL", Time: "2025-03-14T09:00:00Z", Entry: "1.1", StopLoss: "-1.0"},
		},
		{
			name:    "Missing exit price",
			payload: Payload{Pair: "USDJPY", Signal: "EXIT", Time: "2025-03-14T09:00:00Z"},
		},
		{
			name:    "Invalid signal",
			payload: Payload{Pair: "USDJPY", Signal: "HOLD", Time: "2025-03-14T09:00:00Z"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Process(context.Background(), tc.payload)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	// No ledger rows, no notifications for any rejected payload.
	var count int64
	db.Model(&models.Trade{}).Count(&count)
	assert.Zero(t, count)
	mockNotifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestProcess_NotificationFailureIsSwallowed(t *testing.T) {
	// Arrange
	svc, db, mockNotifier := setupService(t)
	mockNotifier.On("Send", mock.Anything, mock.Anything).Return(errors.New("telegram down"))

	// Act
	err := svc.Process(context.Background(), Payload{
		Pair: "TSLA", Signal: "SELL", Time: "2025-03-14T09:00:00Z",
		Entry: "250.00", StopLoss: "256.00",
	})

	// Assert: the ledger write sticks even though the notification failed.
	assert.NoError(t, err)

	var trade models.Trade
	require.NoError(t, db.First(&trade).Error)
	assert.Equal(t, models.StatusOpen, trade.Status)
	mockNotifier.AssertExpectations(t)
}
