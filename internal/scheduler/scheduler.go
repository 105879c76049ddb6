package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Hwalker900/Trading-Signal-Bot/internal/config"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/ledger"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/report"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/signal"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/telegram"
	"go.uber.org/zap"
)

// firingWindowMinutes bounds the weekly/monthly triggers to the first minutes
// of the report hour. With a poll interval of at least this window, a report
// fires at most once per boundary.
const firingWindowMinutes = 10

// Scheduler is the periodic loop that emits the daily signal summary and the
// weekly/monthly performance reports. Report failures are logged and the loop
// carries on; it only stops when its context is cancelled.
type Scheduler struct {
	logger     *zap.Logger
	cfg        config.Scheduler
	ledger     *ledger.Ledger
	aggregator *report.Aggregator
	buffer     *signal.Buffer
	notifier   telegram.Notifier

	now func() time.Time
}

// NewScheduler creates the report scheduler.
func NewScheduler(logger *zap.Logger, cfg config.Scheduler, l *ledger.Ledger, agg *report.Aggregator, buffer *signal.Buffer, notifier telegram.Notifier) *Scheduler {
	return &Scheduler{
		logger:     logger,
		cfg:        cfg,
		ledger:     l,
		aggregator: agg,
		buffer:     buffer,
		notifier:   notifier,
		now:        time.Now,
	}
}

// Run starts the polling loop and blocks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	interval := time.Duration(s.cfg.PollIntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Starting report scheduler", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Stopping report scheduler...")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick evaluates all report boundaries against the current instant.
func (s *Scheduler) tick(ctx context.Context) {
	now := s.now().UTC()
	s.maybeDailySummary(ctx, now)
	s.maybeWeeklyReport(ctx, now)
	s.maybeMonthlyReport(ctx, now)
}

// maybeDailySummary sends the list of signals opened today, at most once per
// UTC calendar date. The buffer handles the date dedup and clears itself in
// the same step that hands the entries out.
func (s *Scheduler) maybeDailySummary(ctx context.Context, now time.Time) {
	if now.Hour() != s.cfg.DailySummaryHour {
		return
	}

	entries, ok := s.buffer.TakeForSummary(now)
	if !ok {
		return
	}

	s.logger.Info("Sending daily summary", zap.Int("signals", len(entries)))
	if err := s.notifier.Send(ctx, signal.FormatDailySummary(entries, now)); err != nil {
		s.logger.Error("Failed to send daily summary", zap.Error(err))
	}
}

// maybeWeeklyReport fires on Friday in the first minutes of the report hour,
// aggregating trades closed since the most recent Saturday 00:00 UTC.
func (s *Scheduler) maybeWeeklyReport(ctx context.Context, now time.Time) {
	if now.Weekday() != time.Friday || now.Hour() != s.cfg.ReportHour || now.Minute() >= firingWindowMinutes {
		return
	}

	start, end := report.WeekWindow(now)
	title := fmt.Sprintf("Weekly Report – %s", now.Format("02 Jan 2006"))
	s.sendReport(ctx, title, start, end)
}

// maybeMonthlyReport fires in the first minutes of the report hour on the
// month's last calendar day, but only when that day is a weekday. A month
// whose last day falls on a weekend gets no report.
func (s *Scheduler) maybeMonthlyReport(ctx context.Context, now time.Time) {
	if !report.LastDayOfMonth(now) {
		return
	}
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return
	}
	if now.Hour() != s.cfg.ReportHour || now.Minute() >= firingWindowMinutes {
		return
	}

	start, end := report.MonthWindow(now)
	title := fmt.Sprintf("Monthly Report – %s", now.Format("Jan 2006"))
	s.sendReport(ctx, title, start, end)
}

func (s *Scheduler) sendReport(ctx context.Context, title string, start, end time.Time) {
	trades, err := s.ledger.ClosedInWindow(start, end)
	if err != nil {
		s.logger.Error("Failed to load closed trades for report",
			zap.String("title", title), zap.Error(err))
		return
	}

	summary := s.aggregator.Aggregate(trades)
	s.logger.Info("Sending report",
		zap.String("title", title),
		zap.Time("window_start", start),
		zap.Time("window_end", end),
		zap.Int("closed_trades", len(trades)),
	)

	if err := s.notifier.Send(ctx, report.Format(title, summary)); err != nil {
		s.logger.Error("Failed to send report", zap.String("title", title), zap.Error(err))
	}
}
