// Package extract converts a downloaded multi-symbol price series into the
// flat, sorted sequence of records written to the output CSV.
package extract

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"YahooPrices/internal/logging"
	"YahooPrices/internal/model"
)

// MetadataFunc looks up the display name and currency for one symbol.
type MetadataFunc func(symbol string) (model.SymbolMetadata, error)

const (
	// penceCurrency is the provider's code for prices quoted in 1/100 GBP.
	penceCurrency = "GBp"
	unknownName   = "Unknown Name"
)

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// Records extracts one PriceRecord per symbol per bar, in the caller-supplied
// symbol order, and returns the records sorted ascending by (Date, Symbol)
// together with the number of symbols whose row extraction failed.
//
// Symbols in the provider error list, or absent from the series map, are
// skipped. A metadata lookup failure is logged but does not count as an
// extraction error; the record keeps empty name and currency. A malformed
// bar aborts the remaining rows of its symbol only, keeping rows already
// emitted.
func Records(log *logging.Logger, series map[string]model.Series, symbols []string, provErrs []model.ProviderError, lookup MetadataFunc) ([]model.PriceRecord, int) {
	log.Logf(logging.LevelDebug, "Extracting stock data for symbols: %v", symbols)

	records := make([]model.PriceRecord, 0)
	errorCount := 0

	for _, symbol := range symbols {
		if symbolErrored(provErrs, symbol) {
			log.Logf(logging.LevelDebug, "Skipping symbol %s due to previous error reported during download", symbol)
			continue
		}
		s, ok := series[symbol]
		if !ok {
			continue
		}

		name, currency := "", ""
		divisor := one
		if lookup != nil {
			meta, err := lookup(symbol)
			if err != nil {
				log.Logf(logging.LevelError, "Exception reported when fetching info for symbol %s: %v", symbol, err)
			} else {
				name = meta.Name
				if name == "" {
					name = unknownName
				}
				name = strings.ReplaceAll(name, ",", " ")
				if meta.Currency == penceCurrency {
					divisor = hundred
				}
				// Uppercasing relabels GBp to GBP, matching the price now
				// being in pounds.
				currency = strings.ToUpper(meta.Currency)
			}
		}

		for _, bar := range s.Bars {
			record, err := barRecord(symbol, name, currency, divisor, bar)
			if err != nil {
				log.Logf(logging.LevelError, "Exception reported when extracting data for symbol %s: %v", symbol, err)
				errorCount++
				break
			}
			if !record.Price.IsZero() {
				records = append(records, record)
			}
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].Symbol < records[j].Symbol
	})

	return records, errorCount
}

func barRecord(symbol, name, currency string, divisor decimal.Decimal, bar model.Bar) (model.PriceRecord, error) {
	if bar.Date.IsZero() {
		return model.PriceRecord{}, fmt.Errorf("bar has no date")
	}
	price := decimal.Zero
	if !math.IsNaN(bar.Close) && !math.IsInf(bar.Close, 0) {
		price = decimal.NewFromFloat(bar.Close).Div(divisor)
	}
	return model.PriceRecord{
		Symbol:   symbol,
		Date:     bar.Date.Format("2006-01-02"),
		Name:     name,
		Currency: currency,
		Price:    price,
	}, nil
}

func symbolErrored(errs []model.ProviderError, symbol string) bool {
	for _, e := range errs {
		if e.Symbol == symbol {
			return true
		}
	}
	return false
}
