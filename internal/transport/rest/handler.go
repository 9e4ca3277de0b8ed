// Package rest exposes the ledger over HTTP.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/abgdnv/butcherpos/internal/catalog"
	poserrors "github.com/abgdnv/butcherpos/internal/errors"
	"github.com/abgdnv/butcherpos/internal/ledger"
	"github.com/abgdnv/butcherpos/internal/platform/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

// Ledger is the part of the ledger engine the HTTP adapter uses.
type Ledger interface {
	ApplySale(ctx context.Context, productName string, weight float64) (ledger.SaleRecord, error)
	Inventory() []catalog.Product
	Sales() []ledger.SaleRecord
	Shrinkage() ledger.ShrinkageLog
	TotalRevenue() decimal.Decimal
}

type Handler struct {
	ledger   Ledger
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(l Ledger, logger *slog.Logger) *Handler {
	return &Handler{
		ledger:   l,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// SaleRequest is the body of POST /sales.
type SaleRequest struct {
	Product string   `json:"product" validate:"required"`
	Weight  *float64 `json:"weight" validate:"required,gt=0"`
}

// SaleResponse is the body of a successful POST /sales.
type SaleResponse struct {
	Product    string          `json:"product"`
	Weight     decimal.Decimal `json:"weight"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// MetricsResponse is the body of GET /metrics.
type MetricsResponse struct {
	Ganancias decimal.Decimal     `json:"ganancias"`
	Mermas    ledger.ShrinkageLog `json:"mermas"`
}

// RegisterRoutes registers the HTTP routes. Unknown paths and methods answer 404 with `{}`.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/inventory", h.Inventory)
	r.Get("/metrics", h.Metrics)
	r.Get("/sales", h.ListSales)
	r.Post("/sales", h.CreateSale)
	r.Get("/healthz", h.HealthCheck)

	r.NotFound(h.notFound)
	r.MethodNotAllowed(h.notFound)
}

// Inventory lists every product with its current stock.
func (h *Handler) Inventory(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, h.ledger.Inventory())
}

// Metrics reports the total revenue and the shrinkage log.
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, MetricsResponse{
		Ganancias: h.ledger.TotalRevenue(),
		Mermas:    h.ledger.Shrinkage(),
	})
}

// ListSales returns the full sale history.
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, h.ledger.Sales())
}

// CreateSale records one sale.
func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req SaleRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "Error decoding request body", "error", err)
		web.RespondEmpty(w, h.logger, http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			failed := make(map[string]string, len(validationErrors))
			for _, fieldErr := range validationErrors {
				failed[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			h.logger.WarnContext(ctx, "Validation errors occurred", "errors", failed)
		} else {
			h.logger.ErrorContext(ctx, "Error validating request body", "error", err)
		}
		web.RespondEmpty(w, h.logger, http.StatusBadRequest)
		return
	}

	rec, err := h.ledger.ApplySale(ctx, req.Product, *req.Weight)
	if err != nil {
		if poserrors.IsValidation(err) {
			web.RespondEmpty(w, h.logger, http.StatusBadRequest)
			return
		}
		web.RespondEmpty(w, h.logger, http.StatusInternalServerError)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusCreated, SaleResponse{
		Product:    rec.Product,
		Weight:     rec.Weight,
		TotalPrice: rec.TotalPrice,
	})
}

// HealthCheck answers liveness probes.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "No route", "method", r.Method, "path", r.URL.Path)
	web.RespondEmpty(w, h.logger, http.StatusNotFound)
}
