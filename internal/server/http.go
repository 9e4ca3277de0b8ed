// Package server builds the HTTP and gRPC servers of the point-of-sale service.
package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/butcherpos/internal/config"
	"github.com/abgdnv/butcherpos/internal/platform/web"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewHTTPServer creates and configures a new HTTP server instance.
func NewHTTPServer(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.Timeout.Read,
		WriteTimeout:      cfg.Timeout.Write,
		IdleTimeout:       cfg.Timeout.Idle,
		ReadHeaderTimeout: cfg.Timeout.ReadHeader,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

// NewChiRouter creates a new Chi router with tracing, request id injection,
// structured logging and panic recovery.
func NewChiRouter(logger *slog.Logger) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "pos-http", otelhttp.WithSpanNameFormatter(spanName))
	})
	mux.Use(web.RequestIDInjector)
	mux.Use(web.StructuredLogger(logger))
	mux.Use(web.Recoverer(logger))
	return mux
}

func spanName(_ string, r *http.Request) string {
	return r.Method + " " + r.URL.Path
}
