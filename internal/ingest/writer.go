package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shelfaware/wastewatch/internal/domain"
)

// csvHeader matches the column set Load expects, so generated files
// round-trip through the loader.
var csvHeader = []string{
	"date", "store_id", "product", "category",
	"sales", "stock", "waste", "price",
}

// WriteCSV writes rows in the exported sales ledger format.
func WriteCSV(w io.Writer, rows []domain.SalesObservation) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("could not write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Date.Format("2006-01-02"),
			strconv.Itoa(row.StoreID),
			row.Product,
			row.Category,
			strconv.FormatFloat(row.Sales, 'f', 2, 64),
			strconv.FormatFloat(row.Stock, 'f', 2, 64),
			strconv.FormatFloat(row.Waste, 'f', 2, 64),
			strconv.FormatFloat(row.Price, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("could not write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes rows to a file, creating or truncating it.
func WriteCSVFile(path string, rows []domain.SalesObservation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	defer f.Close()

	return WriteCSV(f, rows)
}
