// Package server assembles the HTTP handler tree: the LedgerService RPCs,
// health and metrics endpoints, and the shared middleware.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/pkg/ledgerapi"
)

// NewHandler returns the root handler. It speaks HTTP/1.1 and cleartext
// HTTP/2 so both Connect and gRPC clients can reach it without TLS.
func NewHandler(book *ledger.Book, m *metrics.Metrics, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)

	r.Get("/healthz", healthz(book))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	interceptors := []connect.Interceptor{middleware.LoggingInterceptor()}
	if m != nil {
		interceptors = append(interceptors, m.Interceptor())
	}
	path, handler := ledgerapi.NewLedgerServiceHandler(
		service.NewLedgerService(book),
		connect.WithInterceptors(interceptors...),
	)
	r.Mount(path, handler)

	return h2c.NewHandler(r, &http2.Server{})
}

type healthResponse struct {
	Status  string `json:"status"`
	Members int    `json:"members"`
	Error   string `json:"error,omitempty"`
}

// healthz reports whether the ledger can be loaded.
func healthz(book *ledger.Book) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		status := http.StatusOK

		members, err := book.Members(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Health check failed", "error", err)
			resp = healthResponse{Status: "unavailable", Error: err.Error()}
			status = http.StatusServiceUnavailable
		} else {
			resp.Members = len(members)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
