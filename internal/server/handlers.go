package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Hwalker900/Trading-Signal-Bot/internal/report"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/signal"
	"go.uber.org/zap"
)

// WebhookHandler receives trading-signal events. Validation failures come
// back as 400 with a one-line reason; anything else that goes wrong inside
// the pipeline is a 500. Notification failures never surface here.
func (h *Handler) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	var payload signal.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.log.Warn("Failed to decode webhook body", zap.Error(err))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	h.log.Info("Incoming webhook payload",
		zap.String("pair", payload.Pair),
		zap.String("signal", payload.Signal),
		zap.String("time", payload.Time),
	)

	if err := h.intake.Process(r.Context(), payload); err != nil {
		if errors.Is(err, signal.ErrValidation) {
			h.log.Warn("Rejected webhook payload", zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error("Failed to process webhook", zap.Error(err))
		http.Error(w, "Error processing webhook", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Webhook received!"))
}

// TradesHandler returns recent trades, most recent first.
func (h *Handler) TradesHandler(w http.ResponseWriter, r *http.Request) {
	trades, err := h.ledger.RecentTrades(100)
	if err != nil {
		h.log.Error("Failed to get trades from database", zap.Error(err))
		http.Error(w, "Failed to get trades", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(trades)
}

// ReportHandler returns the current weekly aggregate on demand, using the
// same window the scheduled Friday report uses.
func (h *Handler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	start, end := report.WeekWindow(time.Now().UTC())
	trades, err := h.ledger.ClosedInWindow(start, end)
	if err != nil {
		h.log.Error("Failed to get closed trades for report", zap.Error(err))
		http.Error(w, "Failed to build report", http.StatusInternalServerError)
		return
	}

	summary := h.aggregator.Aggregate(trades)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(summary)
}
