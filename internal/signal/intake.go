package signal

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Hwalker900/Trading-Signal-Bot/internal/ledger"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/models"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/pairs"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/telegram"
	"go.uber.org/zap"
)

// ErrValidation marks a payload that was rejected before any ledger write.
// The webhook layer maps it to HTTP 400.
var ErrValidation = errors.New("invalid signal payload")

// timeLayout is the webhook's timestamp format, e.g. "2025-03-14T21:05:00Z".
const timeLayout = "2006-01-02T15:04:05Z"

// Payload is the inbound webhook body.
type Payload struct {
	Pair      string `json:"pair"`
	Signal    string `json:"signal"`
	Time      string `json:"time"`
	Entry     string `json:"entry"`
	StopLoss  string `json:"sl"`
	ExitPrice string `json:"exit_price"`
}

// Service drives the signal lifecycle: it validates and normalizes inbound
// events, writes the ledger, and sends notifications. Ledger writes always
// happen before the notification; a failed notification is logged and
// swallowed, never rolled back into the ledger.
type Service struct {
	logger       *zap.Logger
	registry     *pairs.Registry
	ledger       *ledger.Ledger
	buffer       *Buffer
	notifier     telegram.Notifier
	riskPerTrade float64
}

// NewService creates the intake service.
func NewService(logger *zap.Logger, registry *pairs.Registry, l *ledger.Ledger, buffer *Buffer, notifier telegram.Notifier, riskPerTrade float64) *Service {
	return &Service{
		logger:       logger,
		registry:     registry,
		ledger:       l,
		buffer:       buffer,
		notifier:     notifier,
		riskPerTrade: riskPerTrade,
	}
}

// event is a validated, normalized payload.
type event struct {
	pair      string // registry key form, e.g. "USDJPY"
	signal    string // BUY, SELL or EXIT
	at        time.Time
	entry     float64
	stopLoss  float64
	exitPrice float64
	raw       Payload
}

// Process handles one inbound webhook event end to end. A returned error
// wrapping ErrValidation means the payload was rejected with no side effects;
// any other error is an internal failure.
func (s *Service) Process(ctx context.Context, p Payload) error {
	ev, err := s.validate(p)
	if err != nil {
		return err
	}

	switch ev.signal {
	case models.DirectionBuy, models.DirectionSell:
		return s.processEntry(ctx, ev)
	default: // EXIT
		return s.processExit(ctx, ev)
	}
}

func (s *Service) validate(p Payload) (event, error) {
	if p.Pair == "" || p.Signal == "" || p.Time == "" {
		return event{}, fmt.Errorf("%w: missing required field", ErrValidation)
	}

	ev := event{
		pair:   pairs.Normalize(p.Pair),
		signal: normalizeSignal(p.Signal),
		raw:    p,
	}

	if !s.registry.Contains(ev.pair) {
		return event{}, fmt.Errorf("%w: invalid pair %q", ErrValidation, p.Pair)
	}

	at, err := time.Parse(timeLayout, p.Time)
	if err != nil {
		return event{}, fmt.Errorf("%w: bad timestamp %q", ErrValidation, p.Time)
	}
	ev.at = at.UTC()

	switch ev.signal {
	case models.DirectionBuy, models.DirectionSell:
		if p.Entry == "" || p.StopLoss == "" {
			return event{}, fmt.Errorf("%w: missing entry or stop loss", ErrValidation)
		}
		if ev.entry, err = parsePrice(p.Entry); err != nil {
			return event{}, fmt.Errorf("%w: bad entry price %q", ErrValidation, p.Entry)
		}
		if ev.stopLoss, err = parsePrice(p.StopLoss); err != nil {
			return event{}, fmt.Errorf("%w: bad stop loss %q", ErrValidation, p.StopLoss)
		}
	case "EXIT":
		if p.ExitPrice == "" {
			return event{}, fmt.Errorf("%w: missing exit price", ErrValidation)
		}
		if ev.exitPrice, err = parsePrice(p.ExitPrice); err != nil {
			return event{}, fmt.Errorf("%w: bad exit price %q", ErrValidation, p.ExitPrice)
		}
	default:
		return event{}, fmt.Errorf("%w: invalid signal %q", ErrValidation, p.Signal)
	}

	return ev, nil
}

func (s *Service) processEntry(ctx context.Context, ev event) error {
	tradeID, err := s.ledger.InsertOpenTrade(ev.pair, ev.signal, ev.entry, ev.stopLoss, ev.at)
	if err != nil {
		return err
	}
	s.buffer.Add(ev.pair, ev.signal)

	s.logger.Info("Opened trade",
		zap.Uint("trade_id", tradeID),
		zap.String("pair", ev.pair),
		zap.String("direction", ev.signal),
		zap.Float64("entry", ev.entry),
	)

	s.notify(ctx, FormatEntryMessage(s.registry, ev.pair, ev.signal, ev.raw.Entry, ev.raw.StopLoss, ev.at))
	return nil
}

func (s *Service) processExit(ctx context.Context, ev event) error {
	trade, err := s.ledger.FindLatestOpenTrade(ev.pair)
	if err != nil {
		return err
	}

	exitType := models.ExitUnknown
	if trade != nil {
		var profit float64
		exitType, profit = Classify(trade.Direction, trade.EntryPrice, ev.exitPrice, s.registry.StopDistance(ev.pair), s.riskPerTrade)

		if err := s.ledger.CloseTrade(trade.ID, ev.exitPrice, ev.at, exitType, profit); err != nil {
			return err
		}
		s.logger.Info("Closed trade",
			zap.Uint("trade_id", trade.ID),
			zap.String("pair", ev.pair),
			zap.String("exit_type", exitType),
			zap.Float64("profit", profit),
		)
	} else {
		// Nothing to close; still announce the exit.
		s.logger.Warn("Exit signal with no open trade", zap.String("pair", ev.pair))
	}

	s.notify(ctx, FormatExitMessage(s.registry, ev.pair, exitType, ev.raw.ExitPrice, ev.at))
	return nil
}

// notify sends a message best-effort. Failures never propagate to the
// webhook caller.
func (s *Service) notify(ctx context.Context, msg string) {
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Error("Failed to send notification", zap.Error(err))
	}
}

func normalizeSignal(signal string) string {
	return strings.ToUpper(strings.TrimSpace(signal))
}

func parsePrice(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, fmt.Errorf("price %q is not a finite positive number", v)
	}
	return f, nil
}
