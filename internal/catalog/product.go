// Package catalog holds the set of products for sale, keyed by name, in insertion order.
package catalog

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Product is a sellable item priced per kilogram.
type Product struct {
	Name          string          `json:"name"`
	PricePerKg    decimal.Decimal `json:"price_per_kg"`
	InitialWeight decimal.Decimal `json:"initial_weight"`
	CurrentWeight decimal.Decimal `json:"current_weight"`
}

// Sold returns the weight sold since the product was stocked.
func (p Product) Sold() decimal.Decimal {
	return p.InitialWeight.Sub(p.CurrentWeight)
}

// NewProduct returns a fully stocked product.
func NewProduct(name string, pricePerKg, initialWeight float64) Product {
	return Product{
		Name:          name,
		PricePerKg:    decimal.NewFromFloat(pricePerKg),
		InitialWeight: decimal.NewFromFloat(initialWeight),
		CurrentWeight: decimal.NewFromFloat(initialWeight),
	}
}

// DefaultSeed returns the products written to an empty catalog.
func DefaultSeed() []Product {
	return []Product{
		NewProduct("Bistec de res", 250.0, 10.0),
		NewProduct("Chuleta de cerdo", 180.0, 8.0),
	}
}

// record is the persisted form of a product. Pointers tell a missing field from a zero one.
type record struct {
	Name          string           `json:"name" validate:"required"`
	PricePerKg    *decimal.Decimal `json:"price_per_kg" validate:"required,gt=0"`
	InitialWeight *decimal.Decimal `json:"initial_weight" validate:"required,gt=0"`
	CurrentWeight *decimal.Decimal `json:"current_weight" validate:"omitempty,gte=0"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}
