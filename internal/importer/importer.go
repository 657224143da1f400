package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"farmstore/internal/domain"
	"farmstore/internal/money"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV files and inserts/updates products by name.
//
// Expected headers: name, description, category, unit, price_ngn, price_usd,
// stock_quantity, image_url, is_available. Prices are in major units.
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

// Run parses CSV rows and upserts one product per non-blank row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, errors.New("missing name column")
	}

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
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if p == nil {
			continue
		}
		if _, err := i.productRepo.Upsert(ctx, *p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.Name, err)
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
	if name == "" {
		return nil, nil
	}

	priceNGN, err := money.ParseMajor(pick(record, index, "price_ngn"))
	if err != nil {
		return nil, err
	}
	priceUSD, err := money.ParseMajor(pick(record, index, "price_usd"))
	if err != nil {
		return nil, err
	}
	if priceNGN == 0 && priceUSD == 0 {
		return nil, fmt.Errorf("product %q has no price", name)
	}

	stock := 0
	if s := pick(record, index, "stock_quantity"); s != "" {
		stock, err = strconv.Atoi(s)
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("invalid stock %q for %q", s, name)
		}
	}

	available := true
	if s := pick(record, index, "is_available"); s != "" {
		available, err = strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid is_available %q for %q", s, name)
		}
	}

	unit := pick(record, index, "unit")
	if unit == "" {
		unit = "unit"
	}
	category := pick(record, index, "category")
	if category == "" {
		category = domain.DefaultCategory
	}

	return &domain.Product{
		Name:          name,
		Description:   pick(record, index, "description"),
		Category:      strings.ToLower(category),
		PriceNGN:      priceNGN,
		PriceUSD:      priceUSD,
		Unit:          unit,
		StockQuantity: stock,
		ImageURL:      pick(record, index, "image_url"),
		IsAvailable:   available,
	}, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
