package ledger

import (
	"slices"

	"github.com/shopspring/decimal"
)

// SaleRecord is one completed sale. Records are appended to the history and never changed.
// Histories written by older tills may lack MermaAfterSale and Timestamp; those fields stay
// absent when the history is written back. Timestamp is kept as text for the same reason.
type SaleRecord struct {
	Product        string           `json:"product"`
	Weight         decimal.Decimal  `json:"weight"`
	TotalPrice     decimal.Decimal  `json:"total_price"`
	MermaAfterSale *decimal.Decimal `json:"merma_after_sale,omitempty"`
	Timestamp      string           `json:"timestamp,omitempty"`
}

// ShrinkageLog maps a product name to the shrinkage value recorded after each of its sales.
type ShrinkageLog map[string][]decimal.Decimal

func (l ShrinkageLog) clone() ShrinkageLog {
	out := make(ShrinkageLog, len(l))
	for name, values := range l {
		out[name] = slices.Clone(values)
	}
	return out
}

// ProductMetrics is the per-product line of a metrics report.
type ProductMetrics struct {
	Name  string          `json:"name"`
	Sold  decimal.Decimal `json:"sold"`
	Merma decimal.Decimal `json:"merma"`
}

// Report summarises sales per product plus the total revenue.
type Report struct {
	Products  []ProductMetrics `json:"products"`
	Ganancias decimal.Decimal  `json:"ganancias"`
}
