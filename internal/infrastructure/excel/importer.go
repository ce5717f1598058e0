package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
)

var headerAliases = map[string]string{
	"sku":                  "sku",
	"codigo":               "sku",
	"código":               "sku",
	"name":                 "name",
	"product":              "name",
	"product name":         "name",
	"nombre":               "name",
	"producto":             "name",
	"category":             "category",
	"categoria":            "category",
	"categoría":            "category",
	"description":          "description",
	"descripcion":          "description",
	"descripción":          "description",
	"price per kg":         "price_per_kg",
	"price":                "price_per_kg",
	"precio":               "price_per_kg",
	"precio/kg":            "price_per_kg",
	"purchase cost per kg": "purchase_cost_per_kg",
	"cost":                 "purchase_cost_per_kg",
	"costo":                "purchase_cost_per_kg",
	"costo/kg":             "purchase_cost_per_kg",
	"available stock kg":   "available_stock_kg",
	"stock":                "available_stock_kg",
	"stock (kg)":           "available_stock_kg",
	"low stock threshold":  "low_stock_threshold",
	"threshold":            "low_stock_threshold",
	"umbral stock bajo":    "low_stock_threshold",
	"umbral":               "low_stock_threshold",
}

// ErrUnsupportedFile extensión distinta de .xlsx o .csv.
var ErrUnsupportedFile = errors.New("formato de archivo no soportado (.xlsx o .csv)")

// ParseProductsFile elige el parser por la extensión del nombre de archivo.
func ParseProductsFile(filename string, reader io.Reader) ([]dto.CreateProductRequest, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return ParseProductsXLSX(reader)
	case ".csv":
		return ParseProductsCSV(reader)
	default:
		return nil, ErrUnsupportedFile
	}
}

// ParseProductsXLSX lee la primera hoja de un XLSX con cabecera en la fila 1.
func ParseProductsXLSX(reader io.Reader) ([]dto.CreateProductRequest, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("abrir archivo excel: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("el archivo excel no tiene hojas")
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer filas: %w", err)
	}
	return parseRows(rows, false)
}

// ParseProductsCSV lee un CSV separado por comas o punto y coma. Si el contenido no es
// UTF-8 válido se decodifica como Windows-1252, el formato que exporta Excel en español.
// Con punto y coma la coma es el separador decimal ("1.250,5").
func ParseProductsCSV(reader io.Reader) ([]dto.CreateProductRequest, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	if !utf8.Valid(raw) {
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("decodificar csv: %w", err)
		}
		raw = decoded
	}
	text := strings.TrimPrefix(string(raw), "\ufeff")

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = detectComma(text)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	return parseRows(rows, r.Comma == ';')
}

func detectComma(text string) rune {
	first, _, _ := strings.Cut(text, "\n")
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';'
	}
	return ','
}

func parseRows(rows [][]string, decimalComma bool) ([]dto.CreateProductRequest, error) {
	if len(rows) == 0 {
		return nil, errors.New("el archivo está vacío")
	}
	colMap := mapColumns(rows[0])
	if _, ok := colMap["name"]; !ok {
		return nil, errors.New("falta la columna obligatoria: name")
	}

	result := make([]dto.CreateProductRequest, 0, len(rows)-1)
	for index := 1; index < len(rows); index++ {
		cells := rows[index]
		name := strings.TrimSpace(readCell(cells, colMap, "name"))
		if name == "" {
			continue
		}
		item := dto.CreateProductRequest{
			SKU:         strings.TrimSpace(readCell(cells, colMap, "sku")),
			Name:        name,
			Category:    strings.TrimSpace(readCell(cells, colMap, "category")),
			Description: strings.TrimSpace(readCell(cells, colMap, "description")),
		}
		fields := []struct {
			key string
			dst *decimal.Decimal
		}{
			{"price_per_kg", &item.PricePerKg},
			{"purchase_cost_per_kg", &item.PurchaseCostPerKg},
			{"available_stock_kg", &item.AvailableStockKg},
			{"low_stock_threshold", &item.LowStockThreshold},
		}
		for _, f := range fields {
			v, err := parseDecimal(readCell(cells, colMap, f.key), decimalComma)
			if err != nil {
				return nil, fmt.Errorf("fila %d: %s inválido: %w", index+1, f.key, err)
			}
			*f.dst = v
		}
		result = append(result, item)
	}
	if len(result) == 0 {
		return nil, errors.New("el archivo no tiene filas válidas")
	}
	return result, nil
}

func mapColumns(header []string) map[string]int {
	mapped := make(map[string]int)
	for idx, col := range header {
		canonical, ok := headerAliases[normalizeHeader(col)]
		if !ok {
			continue
		}
		if _, exists := mapped[canonical]; !exists {
			mapped[canonical] = idx
		}
	}
	return mapped
}

func normalizeHeader(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "\ufeff")
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "_", " ")
	return strings.Join(strings.Fields(value), " ")
}

func readCell(row []string, colMap map[string]int, key string) string {
	idx, ok := colMap[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseDecimal acepta "1,250.50" (o "1.250,50" con decimalComma) y vacío (cero).
func parseDecimal(raw string, decimalComma bool) (decimal.Decimal, error) {
	value := strings.TrimSpace(raw)
	if decimalComma {
		value = strings.ReplaceAll(value, ".", "")
		value = strings.ReplaceAll(value, ",", ".")
	} else {
		value = strings.ReplaceAll(value, ",", "")
	}
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q no es un número", raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%q es negativo", raw)
	}
	return d, nil
}
