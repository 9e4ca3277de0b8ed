// Package errors provides the error taxonomy shared by the catalog, the ledger and the document stores.
package errors

import "errors"

// Validation errors. They never leave state mutated.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidWeight     = errors.New("invalid weight")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Persistence errors.
var (
	ErrStoreIO          = errors.New("store i/o failure")
	ErrStoreCorrupt     = errors.New("store content corrupt")
	ErrDocumentNotFound = errors.New("document not found")

	// ErrPersistence is returned by a sale whose flush failed after stock was already deducted.
	ErrPersistence = errors.New("persistence failure")
)

// IsValidation reports whether err is caused by bad caller input rather than a server fault.
func IsValidation(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrInvalidWeight) ||
		errors.Is(err, ErrInsufficientStock)
}
