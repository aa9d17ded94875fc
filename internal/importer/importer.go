package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"puntoventa/internal/domain"
	"github.com/shopspring/decimal"
)

type ProductWriter interface {
	UpsertBySKU(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads a product CSV export and inserts/updates products by SKU.
// Expected columns: name, description, sku, price, cost, stock, min_stock,
// image_url. Only name and sku are required.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and upserts one product per row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		p, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}
		if p == nil {
			continue
		}

		if _, err := i.productRepo.UpsertBySKU(ctx, *p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.SKU, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	name := pick(record, index, "name")
	sku := pick(record, index, "sku")
	if name == "" && sku == "" {
		return nil, nil // blank row
	}
	if name == "" || sku == "" {
		return nil, fmt.Errorf("name and sku are required (name=%q sku=%q)", name, sku)
	}

	price, err := parseAmount(pick(record, index, "price"))
	if err != nil {
		return nil, fmt.Errorf("invalid price for sku %q: %w", sku, err)
	}
	cost, err := parseAmount(pick(record, index, "cost"))
	if err != nil {
		return nil, fmt.Errorf("invalid cost for sku %q: %w", sku, err)
	}
	stock, err := parseCount(pick(record, index, "stock"))
	if err != nil {
		return nil, fmt.Errorf("invalid stock for sku %q: %w", sku, err)
	}
	minStock, err := parseCount(pick(record, index, "min_stock"))
	if err != nil {
		return nil, fmt.Errorf("invalid min_stock for sku %q: %w", sku, err)
	}

	return &domain.Product{
		Name:        name,
		Description: pick(record, index, "description"),
		SKU:         sku,
		Price:       price,
		Cost:        cost,
		Stock:       stock,
		MinStock:    minStock,
		ImageURL:    pick(record, index, "image_url"),
		Active:      true,
	}, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsNegative() {
		return decimal.Decimal{}, errors.New("negative amount")
	}
	return d, nil
}

func parseCount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("negative count")
	}
	return n, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
