package server

import (
	"net/http"

	"github.com/Hwalker900/Trading-Signal-Bot/internal/ledger"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/report"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/signal"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Handler holds dependencies for the webhook and API endpoints.
type Handler struct {
	log        *zap.Logger
	intake     *signal.Service
	ledger     *ledger.Ledger
	aggregator *report.Aggregator
}

// NewHandler creates the HTTP handler set.
func NewHandler(log *zap.Logger, intake *signal.Service, l *ledger.Ledger, agg *report.Aggregator) *Handler {
	return &Handler{log: log, intake: intake, ledger: l, aggregator: agg}
}

// Router builds the route table.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.recoverMiddleware)

	r.HandleFunc("/webhook", h.WebhookHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/trades", h.TradesHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/report", h.ReportHandler).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.HealthHandler).Methods(http.MethodGet)

	return r
}

// recoverMiddleware turns a panic anywhere in the request path into a plain
// 500 so the process keeps serving.
func (h *Handler) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.log.Error("Panic in request handler",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
				)
				http.Error(w, "Error processing request", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// HealthHandler reports liveness.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
