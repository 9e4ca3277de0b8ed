package config

import (
	"fmt"
	"strings"
)

// SeedConfig overrides the products written to an empty catalog.
// An empty list keeps the built-in seed.
type SeedConfig struct {
	Products []SeedProduct `koanf:"products"`
}

type SeedProduct struct {
	Name          string  `koanf:"name"`
	PricePerKg    float64 `koanf:"priceperkg"`
	InitialWeight float64 `koanf:"initialweight"`
}

// String returns a string representation of the seed configuration.
func (c *SeedConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Seed ---\n")
	if len(c.Products) == 0 {
		b.WriteString("  seed.products: <built-in>\n")
		return b.String()
	}
	for _, p := range c.Products {
		b.WriteString(fmt.Sprintf("  - %s: %.2f/kg, %.2f kg\n", p.Name, p.PricePerKg, p.InitialWeight))
	}
	return b.String()
}

func (c *SeedConfig) Validate() error {
	seen := make(map[string]struct{}, len(c.Products))
	for _, p := range c.Products {
		if p.Name == "" {
			return fmt.Errorf("seed product name is empty")
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("duplicate seed product: %q", p.Name)
		}
		seen[p.Name] = struct{}{}
		if p.PricePerKg <= 0 {
			return fmt.Errorf("seed product %q: price must be positive", p.Name)
		}
		if p.InitialWeight <= 0 {
			return fmt.Errorf("seed product %q: initial weight must be positive", p.Name)
		}
	}
	return nil
}
