// Package docstore persists the three whole documents the ledger works with:
// the product catalog, the sale history and the shrinkage log.
// Drivers only move bytes; encoding lives in LoadJSON and SaveJSON.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	poserrors "github.com/abgdnv/butcherpos/internal/errors"
	"github.com/shopspring/decimal"
)

func init() {
	// Weights and prices are bare JSON numbers in every document.
	decimal.MarshalJSONWithoutQuotes = true
}

// Document names one independently loadable and saveable document.
type Document string

const (
	Catalog   Document = "inventory"
	Sales     Document = "sales"
	Shrinkage Document = "metrics"
)

// Documents lists every document the ledger persists.
var Documents = []Document{Catalog, Sales, Shrinkage}

func (d Document) String() string { return string(d) }

// Store is a durable key-value store of whole documents.
type Store interface {
	// Load returns the last saved content of doc.
	// Returns ErrDocumentNotFound if doc was never saved and ErrStoreIO on read failures.
	Load(ctx context.Context, doc Document) ([]byte, error)

	// Save replaces the full content of doc. Readers never observe a partial write.
	// Returns ErrStoreIO on write failures.
	Save(ctx context.Context, doc Document, data []byte) error

	// Close releases the resources held by the store.
	Close() error
}

// LoadJSON decodes doc into a value of type T, returning def when the document does not exist yet.
// Returns ErrStoreCorrupt when the stored content cannot be decoded.
func LoadJSON[T any](ctx context.Context, s Store, doc Document, def T) (T, error) {
	data, err := s.Load(ctx, doc)
	if err != nil {
		if errors.Is(err, poserrors.ErrDocumentNotFound) {
			return def, nil
		}
		return def, err
	}
	var v T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return def, fmt.Errorf("%w: decode %s: %w", poserrors.ErrStoreCorrupt, doc, err)
	}
	return v, nil
}

// SaveJSON encodes v as indented JSON and overwrites doc with it.
func SaveJSON(ctx context.Context, s Store, doc Document, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", poserrors.ErrStoreIO, doc, err)
	}
	return s.Save(ctx, doc, data)
}

// ioError wraps a driver failure so callers can match it with errors.Is(err, ErrStoreIO).
func ioError(op string, doc Document, err error) error {
	return fmt.Errorf("%w: %s %s: %w", poserrors.ErrStoreIO, op, doc, err)
}
