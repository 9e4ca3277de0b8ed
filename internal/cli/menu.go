// Package cli is the interactive till menu.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/abgdnv/butcherpos/internal/catalog"
	poserrors "github.com/abgdnv/butcherpos/internal/errors"
	"github.com/abgdnv/butcherpos/internal/ledger"
	"github.com/abgdnv/butcherpos/internal/scale"
)

// Ledger is the part of the ledger engine the menu uses.
type Ledger interface {
	ApplySale(ctx context.Context, productName string, weight float64) (ledger.SaleRecord, error)
	Inventory() []catalog.Product
	MetricsReport() ledger.Report
	ProductAt(index int) (catalog.Product, error)
}

type Menu struct {
	ledger Ledger
	scale  scale.Reader
	in     *bufio.Scanner
	out    io.Writer
	logger *slog.Logger
}

func New(l Ledger, reader scale.Reader, in io.Reader, out io.Writer, logger *slog.Logger) *Menu {
	if reader == nil {
		reader = scale.Manual{}
	}
	return &Menu{
		ledger: l,
		scale:  reader,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger.With("component", "cli"),
	}
}

// Run shows the menu until the operator exits, the input ends or ctx is cancelled.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		m.printf("Menú:\n1. Realizar Venta\n2. Ver Inventario\n3. Ver Métricas\n4. Salir\n")
		choice, ok := m.prompt("Elige una opción (1-4): ")
		if !ok {
			return m.in.Err()
		}
		switch choice {
		case "1":
			m.sale(ctx)
		case "2":
			m.inventory()
		case "3":
			m.metrics()
		case "4":
			return nil
		default:
			m.printf("Opción inválida. Intenta de nuevo.\n\n")
		}
	}
}

func (m *Menu) sale(ctx context.Context) {
	products := m.ledger.Inventory()
	if len(products) == 0 {
		m.printf("No hay productos disponibles.\n")
		return
	}
	m.printf("Productos disponibles:\n")
	m.listProducts(products)

	line, ok := m.prompt("Elige el producto: ")
	if !ok {
		return
	}
	choice, err := strconv.Atoi(line)
	if err != nil {
		m.printf("Opción inválida.\n")
		return
	}
	product, err := m.ledger.ProductAt(choice)
	if err != nil {
		m.printf("Producto inexistente.\n")
		return
	}

	weight, ok := m.weight(ctx)
	if !ok {
		return
	}

	rec, err := m.ledger.ApplySale(ctx, product.Name, weight)
	switch {
	case errors.Is(err, poserrors.ErrInvalidWeight), errors.Is(err, poserrors.ErrInsufficientStock):
		m.printf("Peso fuera de rango.\n")
		return
	case errors.Is(err, poserrors.ErrProductNotFound):
		m.printf("Producto inexistente.\n")
		return
	case err != nil:
		m.printf("No se pudo registrar la venta: %v\n", err)
		return
	}

	m.printf("\nVenta realizada:\n")
	m.printf("- Producto: %s\n", rec.Product)
	m.printf("- Peso: %s kg\n", rec.Weight.StringFixed(2))
	m.printf("- Total: $ %s\n", rec.TotalPrice.StringFixed(2))
	if rec.MermaAfterSale != nil {
		m.printf("- Merma actual del producto: %s kg\n", rec.MermaAfterSale.StringFixed(2))
	}
	m.printf("\n")
}

// weight takes the reading from the scale, falling back to typed entry when there is none.
func (m *Menu) weight(ctx context.Context) (float64, bool) {
	w, err := m.scale.ReadWeight(ctx)
	if err == nil {
		m.printf("Peso leído de la balanza: %.3f kg\n", w)
		return w, true
	}
	if errors.Is(err, scale.ErrUnavailable) {
		m.logger.DebugContext(ctx, "falling back to manual weight entry", "error", err)
	} else {
		m.logger.WarnContext(ctx, "scale read failed", "error", err)
	}

	line, ok := m.prompt("Ingresa el peso en kg: ")
	if !ok {
		return 0, false
	}
	w, err = strconv.ParseFloat(line, 64)
	if err != nil {
		m.printf("Peso inválido.\n")
		return 0, false
	}
	return w, true
}

func (m *Menu) inventory() {
	m.printf("\nInventario actual:\n")
	m.listProducts(m.ledger.Inventory())
	m.printf("\n")
}

func (m *Menu) metrics() {
	report := m.ledger.MetricsReport()
	m.printf("\nMétricas:\n")
	for _, p := range report.Products {
		m.printf("- %s: vendido %s kg, merma %s kg\n", p.Name, p.Sold.StringFixed(2), p.Merma.StringFixed(2))
	}
	m.printf("Ganancia total: $ %s\n\n", report.Ganancias.StringFixed(2))
}

func (m *Menu) listProducts(products []catalog.Product) {
	for i, p := range products {
		m.printf("%d. %s ($ %s/kg, %s kg disponibles)\n",
			i+1, p.Name, p.PricePerKg.StringFixed(2), p.CurrentWeight.StringFixed(2))
	}
}

func (m *Menu) prompt(label string) (string, bool) {
	m.printf("%s", label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(m.out, format, args...)
}
