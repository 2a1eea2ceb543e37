// Package csvout serializes price records to the output CSV file.
package csvout

import (
	"encoding/csv"
	"fmt"
	"os"

	"YahooPrices/internal/model"
)

// Header is the fixed output column order.
var Header = []string{"Symbol", "Date", "Name", "Currency", "Price"}

// Write replaces the file at path with one header row plus one row per
// record, in the order given. Prices are formatted with two decimal places.
func Write(path string, records []model.PriceRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{r.Symbol, r.Date, r.Name, r.Currency, r.Price.StringFixed(2)}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write row for %s: %w", r.Symbol, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}
