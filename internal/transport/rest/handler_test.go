package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abgdnv/butcherpos/internal/catalog"
	poserrors "github.com/abgdnv/butcherpos/internal/errors"
	"github.com/abgdnv/butcherpos/internal/ledger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLedger is a mock implementation of the Ledger interface.
type mockLedger struct {
	record    ledger.SaleRecord
	err       error
	products  []catalog.Product
	sales     []ledger.SaleRecord
	shrinkage ledger.ShrinkageLog
	revenue   decimal.Decimal

	gotProduct string
	gotWeight  float64
	calls      int
}

func (m *mockLedger) ApplySale(_ context.Context, productName string, weight float64) (ledger.SaleRecord, error) {
	m.calls++
	m.gotProduct, m.gotWeight = productName, weight
	if m.err != nil {
		return ledger.SaleRecord{}, m.err
	}
	return m.record, nil
}

func (m *mockLedger) Inventory() []catalog.Product { return m.products }

func (m *mockLedger) Sales() []ledger.SaleRecord { return m.sales }

func (m *mockLedger) Shrinkage() ledger.ShrinkageLog { return m.shrinkage }

func (m *mockLedger) TotalRevenue() decimal.Decimal { return m.revenue }

func newRouter(l Ledger) http.Handler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	mux := chi.NewRouter()
	NewHandler(l, logger).RegisterRoutes(mux)
	return mux
}

func bistecRecord() ledger.SaleRecord {
	merma := decimal.NewFromInt(7)
	return ledger.SaleRecord{
		Product:        "Bistec de res",
		Weight:         decimal.NewFromInt(3),
		TotalPrice:     decimal.NewFromInt(750),
		MermaAfterSale: &merma,
		Timestamp:      "2026-05-04T12:00:00Z",
	}
}

func Test_Handler_CreateSale(t *testing.T) {
	testCases := []struct {
		name         string
		mockLedger   mockLedger
		body         string
		expectedCode int
		expectedBody string
		expectCall   bool
	}{
		{
			name:         "Success - sale created",
			mockLedger:   mockLedger{record: bistecRecord()},
			body:         `{"product": "Bistec de res", "weight": 3.0}`,
			expectedCode: http.StatusCreated,
			expectedBody: `{"product":"Bistec de res","weight":3,"total_price":750}`,
			expectCall:   true,
		},
		{
			name:         "Error - unknown product",
			mockLedger:   mockLedger{err: fmt.Errorf("%w: %q", poserrors.ErrProductNotFound, "Unknown")},
			body:         `{"product": "Unknown", "weight": 1}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{}`,
			expectCall:   true,
		},
		{
			name:         "Error - insufficient stock",
			mockLedger:   mockLedger{err: poserrors.ErrInsufficientStock},
			body:         `{"product": "Bistec de res", "weight": 8}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{}`,
			expectCall:   true,
		},
		{
			name:         "Error - weight is a string",
			body:         `{"product": "Bistec de res", "weight": "3"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{}`,
		},
		{
			name:         "Error - weight is a boolean",
			body:         `{"product": "Bistec de res", "weight": true}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{}`,
		},
		{
			name:         "Error - missing weight",
			body:         `{"product": "Bistec de res"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{}`,
		},
		{
			name:         "Error - zero weight",
			body:         `{"product": "Bistec de res", "weight": 0}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{}`,
		},
		{
			name:         "Error - negative weight",
			body:         `{"product": "Bistec de res", "weight": -2}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{}`,
		},
		{
			name:         "Error - missing product",
			body:         `{"weight": 1}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{}`,
		},
		{
			name:         "Error - malformed body",
			body:         `{"product": `,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{}`,
		},
		{
			name:         "Error - persistence failure",
			mockLedger:   mockLedger{err: fmt.Errorf("%w: flush sales: %w", poserrors.ErrPersistence, poserrors.ErrStoreIO)},
			body:         `{"product": "Bistec de res", "weight": 1}`,
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{}`,
			expectCall:   true,
		},
		{
			name:         "Error - unexpected failure",
			mockLedger:   mockLedger{err: errors.New("boom")},
			body:         `{"product": "Bistec de res", "weight": 1}`,
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{}`,
			expectCall:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			router := newRouter(&tc.mockLedger)
			req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			// when
			router.ServeHTTP(rec, req)

			// then
			assert.Equal(t, tc.expectedCode, rec.Code)
			assert.JSONEq(t, tc.expectedBody, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tc.expectCall {
				assert.Equal(t, 1, tc.mockLedger.calls)
			} else {
				assert.Equal(t, 0, tc.mockLedger.calls, "invalid requests must not reach the ledger")
			}
		})
	}
}

func Test_Handler_CreateSale_PassesRequest(t *testing.T) {
	// given
	m := &mockLedger{record: bistecRecord()}
	router := newRouter(m)
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(`{"product":"Chuleta de cerdo","weight":1.125}`))
	// when
	router.ServeHTTP(httptest.NewRecorder(), req)
	// then
	assert.Equal(t, "Chuleta de cerdo", m.gotProduct)
	assert.InDelta(t, 1.125, m.gotWeight, 1e-12)
}

func Test_Handler_Queries(t *testing.T) {
	shrinkage := ledger.ShrinkageLog{"Bistec de res": {decimal.NewFromInt(8), decimal.NewFromInt(5)}}
	m := &mockLedger{
		products:  []catalog.Product{catalog.NewProduct("Bistec de res", 250, 10)},
		sales:     []ledger.SaleRecord{bistecRecord()},
		shrinkage: shrinkage,
		revenue:   decimal.NewFromInt(1250),
	}
	testCases := []struct {
		name         string
		method       string
		path         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "inventory",
			method:       http.MethodGet,
			path:         "/inventory",
			expectedCode: http.StatusOK,
			expectedBody: `[{"name":"Bistec de res","price_per_kg":250,"initial_weight":10,"current_weight":10}]`,
		},
		{
			name:         "metrics",
			method:       http.MethodGet,
			path:         "/metrics",
			expectedCode: http.StatusOK,
			expectedBody: `{"ganancias":1250,"mermas":{"Bistec de res":[8,5]}}`,
		},
		{
			name:         "sales history",
			method:       http.MethodGet,
			path:         "/sales",
			expectedCode: http.StatusOK,
			expectedBody: `[{"product":"Bistec de res","weight":3,"total_price":750,"merma_after_sale":7,"timestamp":"2026-05-04T12:00:00Z"}]`,
		},
		{
			name:         "health",
			method:       http.MethodGet,
			path:         "/healthz",
			expectedCode: http.StatusOK,
			expectedBody: `{"status":"ok"}`,
		},
		{
			name:         "unknown path",
			method:       http.MethodGet,
			path:         "/products",
			expectedCode: http.StatusNotFound,
			expectedBody: `{}`,
		},
		{
			name:         "wrong method",
			method:       http.MethodDelete,
			path:         "/inventory",
			expectedCode: http.StatusNotFound,
			expectedBody: `{}`,
		},
		{
			name:         "post to metrics",
			method:       http.MethodPost,
			path:         "/metrics",
			expectedCode: http.StatusNotFound,
			expectedBody: `{}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			router := newRouter(m)
			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()
			// when
			router.ServeHTTP(rec, req)
			// then
			require.Equal(t, tc.expectedCode, rec.Code)
			assert.JSONEq(t, tc.expectedBody, rec.Body.String())
		})
	}
}

func Test_Handler_EmptyLedger(t *testing.T) {
	// given
	router := newRouter(&mockLedger{products: []catalog.Product{}, shrinkage: ledger.ShrinkageLog{}})
	rec := httptest.NewRecorder()
	// when
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	// then
	assert.JSONEq(t, `{"ganancias":0,"mermas":{}}`, rec.Body.String())
}
