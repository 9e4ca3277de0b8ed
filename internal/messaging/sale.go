package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/propagation"
)

func init() {
	// Consumers read amounts as JSON numbers, matching the persisted documents.
	decimal.MarshalJSONWithoutQuotes = true
}

// SaleCompleted is emitted once a sale has been durably recorded.
// Carrier holds the trace context of the sale so consumers can continue the trace.
type SaleCompleted struct {
	Carrier        propagation.MapCarrier `json:"carrier,omitempty"`
	EventID        uuid.UUID              `json:"event_id"`
	Product        string                 `json:"product"`
	Weight         decimal.Decimal        `json:"weight"`
	TotalPrice     decimal.Decimal        `json:"total_price"`
	MermaAfterSale decimal.Decimal        `json:"merma_after_sale"`
	Timestamp      time.Time              `json:"timestamp"`
}

func (e SaleCompleted) Subject() string {
	return SalesCompletedSubject
}

func (e SaleCompleted) Payload() ([]byte, error) {
	return json.Marshal(e)
}
