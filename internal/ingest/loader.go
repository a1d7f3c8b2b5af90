// Package ingest reads external sales CSV exports into ledger rows. The CSV
// schema belongs to the exporting system; this package owns only the header
// mapping onto SalesObservation.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shelfaware/wastewatch/internal/domain"
)

// shelfLifeDefaults maps CSV category names to shelf life in days when the
// export does not carry the column itself.
var shelfLifeDefaults = map[string]int{
	"Produce":       7,
	"Fresh Produce": 7,
	"Dairy":         14,
	"Bakery":        5,
	"Meat":          7,
	"Frozen":        180,
}

const fallbackShelfLife = 30

var perishableCategories = map[string]bool{
	"Produce":       true,
	"Fresh Produce": true,
	"Dairy":         true,
	"Bakery":        true,
	"Meat":          true,
}

var dateLayouts = []string{"2006-01-02", "2006/01/02", "01/02/2006", time.RFC3339}

// Loader reads sales CSV files. DefaultStoreID is used when the export has
// no store column.
type Loader struct {
	DefaultStoreID int
}

// NewLoader returns a Loader assigning rows without a store column to the
// given store.
func NewLoader(defaultStoreID int) *Loader {
	if defaultStoreID <= 0 {
		defaultStoreID = 1
	}
	return &Loader{DefaultStoreID: defaultStoreID}
}

// LoadFile opens and parses a CSV file.
func (l *Loader) LoadFile(path string) ([]domain.SalesObservation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := l.Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	log.Info().Str("file", path).Int("rows", len(rows)).Msg("loaded sales CSV")
	return rows, nil
}

// Load parses CSV content. Required columns: date, product, category, sales,
// stock, waste, price (case-insensitive, separators ignored). Missing
// mandatory columns or an unparseable date fail the whole load with no
// partial output.
func (l *Loader) Load(r io.Reader) ([]domain.SalesObservation, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIndex := func(names ...string) int {
		targets := make(map[string]struct{}, len(names))
		for _, name := range names {
			targets[normalizeColumnName(name)] = struct{}{}
		}
		for i, h := range header {
			if _, ok := targets[normalizeColumnName(h)]; ok {
				return i
			}
		}
		return -1
	}

	idxDate := colIndex("date")
	idxProduct := colIndex("product")
	idxCategory := colIndex("category")
	idxSales := colIndex("sales")
	idxStock := colIndex("stock", "stok")
	idxWaste := colIndex("waste")
	idxPrice := colIndex("price")
	idxStore := colIndex("store_id", "store")

	var missing []string
	for _, col := range []struct {
		name string
		idx  int
	}{
		{"date", idxDate}, {"product", idxProduct}, {"category", idxCategory},
		{"sales", idxSales}, {"stock", idxStock}, {"waste", idxWaste}, {"price", idxPrice},
	} {
		if col.idx < 0 {
			missing = append(missing, col.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var rows []domain.SalesObservation
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line++

		get := func(idx int) string {
			if idx < 0 || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		date, err := parseDate(get(idxDate))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		parseFloat := func(idx int, name string) (float64, error) {
			v := strings.ReplaceAll(get(idx), ",", "")
			if v == "" {
				return 0, nil
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return 0, fmt.Errorf("line %d: invalid %s value %q", line, name, v)
			}
			return f, nil
		}

		sales, err := parseFloat(idxSales, "sales")
		if err != nil {
			return nil, err
		}
		stock, err := parseFloat(idxStock, "stock")
		if err != nil {
			return nil, err
		}
		waste, err := parseFloat(idxWaste, "waste")
		if err != nil {
			return nil, err
		}
		price, err := parseFloat(idxPrice, "price")
		if err != nil {
			return nil, err
		}

		storeID := l.DefaultStoreID
		if raw := get(idxStore); raw != "" {
			if id, err := strconv.Atoi(raw); err == nil && id > 0 {
				storeID = id
			}
		}

		category := get(idxCategory)
		wastePct := 0.0
		if stock > 0 {
			wastePct = waste / stock * 100
		}

		shelfLife, ok := shelfLifeDefaults[category]
		if !ok {
			shelfLife = fallbackShelfLife
		}

		rows = append(rows, domain.SalesObservation{
			Date:            date,
			StoreID:         storeID,
			Category:        category,
			Product:         get(idxProduct),
			Sales:           sales,
			Stock:           stock,
			Waste:           waste,
			WastePercentage: wastePct,
			Price:           price,
			DayOfWeek:       (int(date.Weekday()) + 6) % 7,
			ShelfLifeDays:   shelfLife,
			Perishable:      perishableCategories[category],
		})
	}

	return rows, nil
}

func parseDate(v string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", v)
}

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	return columnNameSanitizer.Replace(strings.TrimSpace(strings.ToLower(name)))
}
