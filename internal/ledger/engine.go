// Package ledger applies sales against the catalog and keeps the sale history and the shrinkage log.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/abgdnv/butcherpos/internal/catalog"
	"github.com/abgdnv/butcherpos/internal/docstore"
	poserrors "github.com/abgdnv/butcherpos/internal/errors"
	"github.com/abgdnv/butcherpos/internal/messaging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/abgdnv/butcherpos/internal/ledger"

// Engine is the single writer of stock, sale history and shrinkage log.
// One RWMutex serialises sales; queries share the read lock.
type Engine struct {
	mu        sync.RWMutex
	catalog   *catalog.Catalog
	store     docstore.Store
	publisher messaging.Publisher
	logger    *slog.Logger
	now       func() time.Time

	sales     []SaleRecord
	shrinkage ShrinkageLog
	revenue   decimal.Decimal

	tracer       trace.Tracer
	salesCounter metric.Int64Counter
	weightSold   metric.Float64Counter
	revenueSum   metric.Float64Counter
}

// NewEngine creates an engine over cat whose history and shrinkage log live in store.
// A nil publisher disables sale events.
func NewEngine(cat *catalog.Catalog, store docstore.Store, publisher messaging.Publisher, logger *slog.Logger) *Engine {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	meter := otel.Meter(instrumentationName)
	salesCounter, err := meter.Int64Counter("pos_sales", metric.WithDescription("Number of completed sales"))
	if err != nil {
		panic(fmt.Sprintf("failed to create pos_sales counter: %v", err))
	}
	weightSold, err := meter.Float64Counter("pos_weight_sold", metric.WithDescription("Weight sold"), metric.WithUnit("kg"))
	if err != nil {
		panic(fmt.Sprintf("failed to create pos_weight_sold counter: %v", err))
	}
	revenueSum, err := meter.Float64Counter("pos_revenue", metric.WithDescription("Revenue of completed sales"))
	if err != nil {
		panic(fmt.Sprintf("failed to create pos_revenue counter: %v", err))
	}
	return &Engine{
		catalog:      cat,
		store:        store,
		publisher:    publisher,
		logger:       logger.With("component", "ledger"),
		now:          time.Now,
		sales:        []SaleRecord{},
		shrinkage:    ShrinkageLog{},
		tracer:       otel.Tracer(instrumentationName),
		salesCounter: salesCounter,
		weightSold:   weightSold,
		revenueSum:   revenueSum,
	}
}

// Open loads the catalog, the sale history and the shrinkage log, and rebuilds the revenue total.
func (e *Engine) Open(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.catalog.Load(ctx); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	sales, err := docstore.LoadJSON(ctx, e.store, docstore.Sales, []SaleRecord{})
	if err != nil {
		return fmt.Errorf("failed to load sale history: %w", err)
	}
	shrinkage, err := docstore.LoadJSON(ctx, e.store, docstore.Shrinkage, ShrinkageLog{})
	if err != nil {
		return fmt.Errorf("failed to load shrinkage log: %w", err)
	}
	if sales == nil {
		sales = []SaleRecord{}
	}
	if shrinkage == nil {
		shrinkage = ShrinkageLog{}
	}

	e.sales = sales
	e.shrinkage = shrinkage
	e.revenue = decimal.Zero
	for _, s := range e.sales {
		e.revenue = e.revenue.Add(s.TotalPrice)
	}
	e.logger.InfoContext(ctx, "ledger opened",
		"products", e.catalog.Len(), "sales", len(e.sales), "revenue", e.revenue.String())
	return nil
}

// ApplySale sells weight kilograms of the named product.
//
// Validation failures (ErrProductNotFound, ErrInvalidWeight, ErrInsufficientStock) leave every
// piece of state untouched. A failed flush returns ErrPersistence; the in-memory changes made
// before it are kept and the remaining steps are skipped.
func (e *Engine) ApplySale(ctx context.Context, productName string, weight float64) (SaleRecord, error) {
	ctx, span := e.tracer.Start(ctx, "ledger.ApplySale", trace.WithAttributes(
		attribute.String("pos.product", productName),
		attribute.Float64("pos.weight", weight),
	))
	defer span.End()

	rec, err := e.applySale(ctx, productName, weight)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if poserrors.IsValidation(err) {
			e.logger.WarnContext(ctx, "sale rejected", "product", productName, "weight", weight, "error", err)
		} else {
			e.logger.ErrorContext(ctx, "sale failed", "product", productName, "weight", weight, "error", err)
		}
		return SaleRecord{}, err
	}

	e.recordMetrics(ctx, rec)
	e.publish(ctx, rec)
	e.logger.InfoContext(ctx, "sale completed",
		"product", rec.Product, "weight", rec.Weight.String(), "total_price", rec.TotalPrice.String())
	return rec, nil
}

func (e *Engine) applySale(ctx context.Context, productName string, weight float64) (SaleRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.catalog.Get(productName)
	if err != nil {
		return SaleRecord{}, err
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return SaleRecord{}, fmt.Errorf("%w: %v", poserrors.ErrInvalidWeight, weight)
	}
	w := decimal.NewFromFloat(weight)
	if w.GreaterThan(p.CurrentWeight) {
		return SaleRecord{}, fmt.Errorf("%w: %s requested, %s available for %q",
			poserrors.ErrInsufficientStock, w, p.CurrentWeight, p.Name)
	}

	total := w.Mul(p.PricePerKg)
	p.CurrentWeight = p.CurrentWeight.Sub(w)
	if err := e.catalog.Save(ctx); err != nil {
		return SaleRecord{}, persistenceError(docstore.Catalog, err)
	}

	// Shrinkage as the till has always computed it; it reduces to the remaining stock.
	merma := p.InitialWeight.Sub(p.InitialWeight.Sub(p.CurrentWeight))
	e.shrinkage[p.Name] = append(e.shrinkage[p.Name], merma)
	if err := docstore.SaveJSON(ctx, e.store, docstore.Shrinkage, e.shrinkage); err != nil {
		return SaleRecord{}, persistenceError(docstore.Shrinkage, err)
	}

	rec := SaleRecord{
		Product:        p.Name,
		Weight:         w,
		TotalPrice:     total,
		MermaAfterSale: &merma,
		Timestamp:      e.now().Format(time.RFC3339Nano),
	}
	e.sales = append(e.sales, rec)
	e.revenue = e.revenue.Add(total)
	if err := docstore.SaveJSON(ctx, e.store, docstore.Sales, e.sales); err != nil {
		return SaleRecord{}, persistenceError(docstore.Sales, err)
	}
	return rec, nil
}

func persistenceError(doc docstore.Document, err error) error {
	return fmt.Errorf("%w: flush %s: %w", poserrors.ErrPersistence, doc, err)
}

func (e *Engine) recordMetrics(ctx context.Context, rec SaleRecord) {
	attrs := metric.WithAttributes(attribute.String("product", rec.Product))
	e.salesCounter.Add(ctx, 1, attrs)
	e.weightSold.Add(ctx, rec.Weight.InexactFloat64(), attrs)
	e.revenueSum.Add(ctx, rec.TotalPrice.InexactFloat64(), attrs)
}

// publish is best effort: a sale is already durable when it runs.
func (e *Engine) publish(ctx context.Context, rec SaleRecord) {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	ts, err := time.Parse(time.RFC3339Nano, rec.Timestamp)
	if err != nil {
		ts = e.now()
	}
	var merma decimal.Decimal
	if rec.MermaAfterSale != nil {
		merma = *rec.MermaAfterSale
	}
	event := messaging.SaleCompleted{
		Carrier:        carrier,
		EventID:        uuid.New(),
		Product:        rec.Product,
		Weight:         rec.Weight,
		TotalPrice:     rec.TotalPrice,
		MermaAfterSale: merma,
		Timestamp:      ts,
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.ErrorContext(ctx, "Failed to publish SaleCompleted event", "product", rec.Product, "error", err)
	}
}

// TotalRevenue returns the sum of total_price over the sale history.
func (e *Engine) TotalRevenue() decimal.Decimal {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.revenue
}

// MetricsReport returns, per product, the weight sold and the shrinkage, plus the total revenue.
func (e *Engine) MetricsReport() Report {
	e.mu.RLock()
	defer e.mu.RUnlock()

	report := Report{Products: make([]ProductMetrics, 0, e.catalog.Len()), Ganancias: e.revenue}
	for p := range e.catalog.List() {
		sold := p.InitialWeight.Sub(p.CurrentWeight)
		report.Products = append(report.Products, ProductMetrics{
			Name:  p.Name,
			Sold:  sold,
			Merma: p.InitialWeight.Sub(sold),
		})
	}
	return report
}

// Inventory returns a copy of every product in catalog order.
func (e *Engine) Inventory() []catalog.Product {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]catalog.Product, 0, e.catalog.Len())
	for p := range e.catalog.List() {
		out = append(out, p)
	}
	return out
}

// Sales returns a copy of the sale history.
func (e *Engine) Sales() []SaleRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.sales)
}

// Shrinkage returns a copy of the shrinkage log.
func (e *Engine) Shrinkage() ShrinkageLog {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.shrinkage.clone()
}

// ProductAt returns a copy of the product at the 1-based position index.
func (e *Engine) ProductAt(index int) (catalog.Product, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, err := e.catalog.At(index)
	if err != nil {
		return catalog.Product{}, err
	}
	return *p, nil
}
