// Package app wires the point-of-sale components together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/butcherpos/internal/catalog"
	"github.com/abgdnv/butcherpos/internal/config"
	"github.com/abgdnv/butcherpos/internal/docstore"
	"github.com/abgdnv/butcherpos/internal/ledger"
	"github.com/abgdnv/butcherpos/internal/messaging"
	pnats "github.com/abgdnv/butcherpos/internal/messaging/nats"
	"github.com/abgdnv/butcherpos/internal/server"
	"github.com/abgdnv/butcherpos/internal/telemetry"
	"github.com/abgdnv/butcherpos/internal/transport/rest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Dependencies holds the single engine shared by every adapter of the process.
type Dependencies struct {
	Store     docstore.Store
	Engine    *ledger.Engine
	Publisher messaging.Publisher
	Metrics   *telemetry.Metrics
	Logger    *slog.Logger

	closers []func(context.Context) error
}

// SetupDependencies opens the document store, connects the event publisher and opens the ledger.
// metrics may be nil when the process does not expose Prometheus metrics.
func SetupDependencies(ctx context.Context, cfg *config.Config, metrics *telemetry.Metrics, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Metrics: metrics, Logger: logger}

	store, err := docstore.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}
	deps.Store = store
	deps.closers = append(deps.closers, func(context.Context) error { return store.Close() })
	logger.Info("Document store opened", "driver", cfg.Store.Driver)

	publisher, err := deps.setupPublisher(ctx, cfg.Events)
	if err != nil {
		_ = deps.Close(ctx)
		return nil, err
	}
	deps.Publisher = publisher

	cat := catalog.New(store, seedProducts(cfg.Seed), logger.With("component", "catalog"))
	deps.Engine = ledger.NewEngine(cat, store, publisher, logger)
	if err := deps.Engine.Open(ctx); err != nil {
		_ = deps.Close(ctx)
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	return deps, nil
}

func (d *Dependencies) setupPublisher(ctx context.Context, cfg config.EventsConfig) (messaging.Publisher, error) {
	if !cfg.Enabled {
		return messaging.NoopPublisher{}, nil
	}
	nc, err := pnats.NewClient(cfg.NATS.Url, cfg.NATS.Timeout)
	if err != nil {
		return nil, err
	}
	d.closers = append(d.closers, func(context.Context) error { return nc.Drain() })

	js, err := pnats.NewJetStreamContext(nc)
	if err != nil {
		return nil, err
	}
	if err := pnats.EnsureStream(ctx, js, cfg.Subject); err != nil {
		return nil, err
	}
	d.Logger.Info("Publishing sale events", "subject", cfg.Subject, "stream", pnats.SalesStream)
	return messaging.NewBreakerPublisher(pnats.NewPublisher(js, cfg.Subject), cfg.CircuitBreaker, d.Logger), nil
}

// Close releases everything SetupDependencies acquired, in reverse order.
func (d *Dependencies) Close(ctx context.Context) error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}

func seedProducts(cfg config.SeedConfig) []catalog.Product {
	if len(cfg.Products) == 0 {
		return nil
	}
	seed := make([]catalog.Product, 0, len(cfg.Products))
	for _, p := range cfg.Products {
		seed = append(seed, catalog.NewProduct(p.Name, p.PricePerKg, p.InitialWeight))
	}
	return seed
}

// SetupHttpHandler builds the router with the ledger routes and, when available, the Prometheus endpoint.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	if deps.Metrics != nil {
		mux.Method(http.MethodGet, "/telemetry/metrics", deps.Metrics.Handler())
	}
	rest.NewHandler(deps.Engine, deps.Logger).RegisterRoutes(mux)
	return mux
}

// SetupHttpServer creates the HTTP server of the service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(cfg.HTTPServer, SetupHttpHandler(deps))
}

// SetupGrpcServer creates the gRPC server. The ledger is open by now, so health reports SERVING.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) (*grpc.Server, *health.Server) {
	grpcServer, healthServer := server.NewGRPCServer(deps.Logger, reflectionEnabled)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	return grpcServer, healthServer
}
