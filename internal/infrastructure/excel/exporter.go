// Package excel exporta ventas y productos a XLSX e importa catálogos desde XLSX o CSV.
package excel

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/retail-ledger-api/internal/application/ports"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

var _ ports.DocumentRenderer = (*Exporter)(nil)

// Exporter implementa ports.DocumentRenderer con excelize.
type Exporter struct {
	loc *time.Location
}

// NewExporter construye el exportador; loc define cómo se escriben las fechas.
func NewExporter(loc *time.Location) *Exporter {
	if loc == nil {
		loc = time.UTC
	}
	return &Exporter{loc: loc}
}

func (e *Exporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *Exporter) Extension() string { return "xlsx" }

// RenderSales una hoja "Ventas" con una fila por venta. Los importes van como números.
func (e *Exporter) RenderSales(ctx context.Context, sales []entity.Sale) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	header := []any{"Fecha", "Producto", "Cantidad (kg)", "Tarifa/kg", "Total", "Pago", "Cliente", "Estado"}
	rows := make([][]any, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, []any{
			s.SaleDate.In(e.loc).Format("2006-01-02 15:04"),
			s.ProductName,
			s.QuantityKg.InexactFloat64(),
			s.RatePerKg.InexactFloat64(),
			s.Total.InexactFloat64(),
			s.PaymentType,
			s.CustomerName,
			s.Status,
		})
	}
	return writeSheet("Ventas", header, rows, []float64{18, 28, 14, 12, 14, 10, 24, 10})
}

// RenderProducts una hoja "Productos" con el catálogo activo.
func (e *Exporter) RenderProducts(ctx context.Context, products []*entity.Product) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	header := []any{"SKU", "Nombre", "Categoría", "Precio/kg", "Costo/kg", "Stock (kg)", "Umbral stock bajo", "Stock bajo"}
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		low := "NO"
		if p.IsLowStock() {
			low = "SI"
		}
		rows = append(rows, []any{
			p.SKU,
			p.Name,
			p.Category,
			p.PricePerKg.InexactFloat64(),
			p.PurchaseCostPerKg.InexactFloat64(),
			p.AvailableStockKg.InexactFloat64(),
			p.LowStockThreshold.InexactFloat64(),
			low,
		})
	}
	return writeSheet("Productos", header, rows, []float64{16, 30, 16, 12, 12, 12, 18, 10})
}

func writeSheet(name string, header []any, rows [][]any, widths []float64) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", name); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DCE6F1"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo de cabecera: %w", err)
	}

	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return nil, fmt.Errorf("excel: cabecera: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(name, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("excel: aplicar estilo: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(name, cell, &r); err != nil {
			return nil, fmt.Errorf("excel: fila %d: %w", i+2, err)
		}
	}

	for i, w := range widths {
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(name, colName, colName, w); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir archivo: %w", err)
	}
	return buf.Bytes(), nil
}
