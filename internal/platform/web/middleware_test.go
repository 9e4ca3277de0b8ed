package web

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRequestIDInjector(t *testing.T) {
	testCases := []struct {
		name     string
		headerID string
	}{
		{name: "generated", headerID: ""},
		{name: "propagated", headerID: "till-1-0001"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var seen string
			h := RequestIDInjector(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen = middleware.GetReqID(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/inventory", nil)
			if tc.headerID != "" {
				req.Header.Set(RequestIDHeader, tc.headerID)
			}
			rec := httptest.NewRecorder()
			// when
			h.ServeHTTP(rec, req)
			// then
			require.NotEmpty(t, seen)
			if tc.headerID != "" {
				assert.Equal(t, tc.headerID, seen)
			}
			assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
		})
	}
}

func TestStructuredLogger(t *testing.T) {
	// given
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	h := StructuredLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":1}`))
	}))
	// when
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/sales", nil))
	// then
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "POST", rec["method"])
	assert.Equal(t, "/sales", rec["path"])
	assert.EqualValues(t, http.StatusCreated, rec["status"])
	assert.EqualValues(t, 8, rec["bytes_written"])
}

func TestRecoverer(t *testing.T) {
	// given
	h := Recoverer(discard)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("scale exploded")
	}))
	rec := httptest.NewRecorder()
	// when
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inventory", nil))
	// then
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "{}", rec.Body.String())
}

func TestRespondJSON(t *testing.T) {
	testCases := []struct {
		name         string
		payload      any
		expectedCode int
		expectedBody string
	}{
		{name: "object", payload: map[string]int{"a": 1}, expectedCode: http.StatusOK, expectedBody: `{"a":1}`},
		{name: "nil payload", payload: nil, expectedCode: http.StatusOK, expectedBody: ``},
		{name: "unencodable", payload: math.Inf(1), expectedCode: http.StatusInternalServerError, expectedBody: `{}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			rec := httptest.NewRecorder()
			// when
			RespondJSON(rec, discard, http.StatusOK, tc.payload)
			// then
			assert.Equal(t, tc.expectedCode, rec.Code)
			assert.Equal(t, tc.expectedBody, rec.Body.String())
		})
	}
}
