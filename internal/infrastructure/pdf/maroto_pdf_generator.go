// Package pdf genera los reportes exportables de ventas y productos con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la tienda  │  Título + fecha de emisión  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: una fila por venta o producto                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES                                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/application/ports"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/pkg/money"
)

var _ ports.DocumentRenderer = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.DocumentRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	shopName string
	loc      *time.Location
	now      func() time.Time
}

// NewMarotoPDFGenerator construye el generador. loc define cómo se imprimen las fechas.
func NewMarotoPDFGenerator(shopName string, loc *time.Location) *MarotoPDFGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &MarotoPDFGenerator{shopName: shopName, loc: loc, now: time.Now}
}

func (g *MarotoPDFGenerator) ContentType() string { return "application/pdf" }
func (g *MarotoPDFGenerator) Extension() string   { return "pdf" }

// column describe una columna de la tabla (el ancho suma 12 en la grilla de Maroto).
type column struct {
	label string
	size  int
	align align.Type
}

var salesColumns = []column{
	{"Fecha", 2, align.Left},
	{"Producto", 3, align.Left},
	{"Kg", 1, align.Right},
	{"Tarifa/kg", 2, align.Right},
	{"Total", 2, align.Right},
	{"Pago", 2, align.Center},
}

var productColumns = []column{
	{"SKU", 2, align.Left},
	{"Producto", 4, align.Left},
	{"Precio/kg", 2, align.Right},
	{"Costo/kg", 2, align.Right},
	{"Stock kg", 2, align.Right},
}

// RenderSales genera el PDF con el listado de ventas y su total.
func (g *MarotoPDFGenerator) RenderSales(ctx context.Context, sales []entity.Sale) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := g.newDocument("Reporte de ventas")

	total, qty := decimal.Zero, decimal.Zero
	rows := make([][]string, 0, len(sales))
	for _, s := range sales {
		total = total.Add(s.Total)
		qty = qty.Add(s.QuantityKg)
		rows = append(rows, []string{
			s.SaleDate.In(g.loc).Format("02/01/2006"),
			s.ProductName,
			money.Kg(s.QuantityKg),
			money.Format(s.RatePerKg),
			money.Format(s.Total),
			s.PaymentType,
		})
	}

	m.AddRows(tableHeaderRow(salesColumns))
	m.AddRows(tableDetailRows(salesColumns, rows, nil)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow([][2]string{
		{"Ventas:", fmt.Sprintf("%d", len(sales))},
		{"Cantidad (kg):", money.Kg(qty)},
		{"TOTAL:", money.Format(total)},
	}))
	return generate(m)
}

// RenderProducts genera el PDF del catálogo; los productos con stock bajo van en rojo.
func (g *MarotoPDFGenerator) RenderProducts(ctx context.Context, products []*entity.Product) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := g.newDocument("Inventario de productos")

	value := decimal.Zero
	rows := make([][]string, 0, len(products))
	low := make(map[int]bool)
	for i, p := range products {
		value = value.Add(p.AvailableStockKg.Mul(p.PurchaseCostPerKg))
		low[i] = p.IsLowStock()
		rows = append(rows, []string{
			p.SKU,
			p.Name,
			money.Format(p.PricePerKg),
			money.Format(p.PurchaseCostPerKg),
			money.Kg(p.AvailableStockKg),
		})
	}

	m.AddRows(tableHeaderRow(productColumns))
	m.AddRows(tableDetailRows(productColumns, rows, low)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow([][2]string{
		{"Productos:", fmt.Sprintf("%d", len(products))},
		{"VALOR A COSTO:", money.Format(value)},
	}))
	return generate(m)
}

func (g *MarotoPDFGenerator) newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.shopName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(g.shopName, title, g.now().In(g.loc)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	return m
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tienda (izq) y título + fecha de emisión (der).
func headerRow(shopName, title string, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(shopName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow(cols []column) core.Row {
	cells := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		cells = append(cells, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cells...)
}

// tableDetailRows: una fila por registro; highlight marca filas en rojo.
func tableDetailRows(cols []column, data [][]string, highlight map[int]bool) []core.Row {
	result := make([]core.Row, 0, len(data))
	for i, values := range data {
		cells := make([]core.Col, 0, len(cols))
		for j, c := range cols {
			p := props.Text{Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1}
			if highlight[i] {
				p.Color = colorRed
			}
			cells = append(cells, col.New(c.size).Add(text.New(values[j], p)))
		}
		result = append(result, row.New(6).Add(cells...))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(pairs [][2]string) core.Row {
	labels := make([]core.Component, 0, len(pairs))
	values := make([]core.Component, 0, len(pairs))
	for i, p := range pairs {
		top := float64(i * 6)
		labels = append(labels, text.New(p[0], props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		}))
		values = append(values, text.New(p[1], props.Text{
			Size: 9, Align: align.Right, Right: 1, Top: top,
		}))
	}
	return row.New(float64(len(pairs)*6+4)).Add(
		col.New(6),
		col.New(3).Add(labels...),
		col.New(3).Add(values...),
	)
}
