package sandbox

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/MrJamesThe3rd/cajero/internal/catalog"
	enc "github.com/MrJamesThe3rd/cajero/internal/encoding"
	"github.com/MrJamesThe3rd/cajero/internal/money"
	"github.com/MrJamesThe3rd/cajero/internal/record"
)

// Accepted header names per product field, already folded (see fold).
var productColumns = map[string][]string{
	"codigo":    {"codigo", "cod", "sku", "codigo de barras"},
	"nombre":    {"nombre", "descripcion", "producto", "articulo"},
	"precio":    {"precio", "precio venta", "precio de venta", "pvp"},
	"stock":     {"stock", "cantidad", "existencia"},
	"categoria": {"categoria", "rubro"},
}

var requiredProductColumns = []string{"codigo", "nombre", "precio"}

// LoadProducts reads a product list exported from a spreadsheet: ';' or ','
// separated, UTF-8 or Windows-1252, prices like "1.234,56". The header row
// may appear after a few title rows. Rows without a code or with an
// unreadable price are skipped.
func LoadProducts(r io.Reader, companyID string) ([]catalog.Product, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	raw, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.Comma = guessSeparator(string(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx, ok := findHeader(rows)
	if !ok {
		return nil, fmt.Errorf("no header with columns %v found", requiredProductColumns)
	}

	var products []catalog.Product

	for i, row := range rows[headerIdx+1:] {
		rowNum := headerIdx + i + 2

		code := cell(row, cols, "codigo")
		if code == "" {
			continue
		}

		price, err := money.Input(cell(row, cols, "precio")).NonNegative()
		if err != nil {
			slog.Warn("skipping product row", "row", rowNum, "code", code, "error", err)
			continue
		}

		stock := decimal.Zero
		if s := cell(row, cols, "stock"); s != "" {
			stock = money.Input(s).OrZero()
		}

		products = append(products, catalog.Product{
			ID:        uuid.NewString(),
			Codigo:    code,
			Nombre:    cell(row, cols, "nombre"),
			Precio:    price,
			Stock:     stock,
			Categoria: cell(row, cols, "categoria"),
			Activo:    true,
			Empresa:   record.NewRef(companyID),
		})
	}

	slog.Info("loaded products", "count", len(products), "charset", charset)

	return products, nil
}

func guessSeparator(s string) rune {
	first, _, _ := strings.Cut(s, "\n")
	if strings.Count(first, ";") >= strings.Count(first, ",") {
		return ';'
	}

	return ','
}

type columns map[string]int

func findHeader(rows [][]string) (columns, int, bool) {
	for rowIdx, row := range rows {
		cols := make(columns)

		for i, name := range row {
			folded := fold(name)

			for field, aliases := range productColumns {
				if _, taken := cols[field]; taken {
					continue
				}

				for _, a := range aliases {
					if folded == a {
						cols[field] = i
						break
					}
				}
			}
		}

		complete := true

		for _, req := range requiredProductColumns {
			if _, ok := cols[req]; !ok {
				complete = false
				break
			}
		}

		if complete {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

func cell(row []string, cols columns, field string) string {
	i, ok := cols[field]
	if !ok || i >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[i])
}

// fold lowercases s and strips accents, so "Código" matches "codigo".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}

	return out
}
