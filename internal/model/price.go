package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar represents a single OHLCV observation for a symbol.
// Close is the adjusted close; it is NaN when the provider returned null.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series holds the downloaded bars for one symbol in chronological order.
// A symbol that the provider answered with an error still gets a Series
// entry with no bars, so "present in the response" and "usable" stay
// distinct conditions.
type Series struct {
	Symbol string
	Bars   []Bar
}

// ProviderError is a per-symbol error surfaced by the download step.
type ProviderError struct {
	Symbol  string
	Message string
}

// SymbolMetadata holds the descriptive attributes from the per-symbol
// quote lookup. Name and Currency are the raw provider values.
type SymbolMetadata struct {
	Name     string
	Currency string
}

// PriceRecord is one normalized output row. Date is preformatted as
// YYYY-MM-DD so record ordering is a plain string comparison.
type PriceRecord struct {
	Symbol   string
	Date     string
	Name     string
	Currency string
	Price    decimal.Decimal
}

// FetchStatus tags the outcome of a download call.
type FetchStatus int

const (
	FetchOK FetchStatus = iota
	FetchEmpty
	FetchMissingSymbol
	FetchMissingColumns
	FetchRateLimited
	FetchInvalidPeriod
	FetchInvalidInterval
	FetchTransportError
)

func (s FetchStatus) String() string {
	switch s {
	case FetchOK:
		return "ok"
	case FetchEmpty:
		return "empty"
	case FetchMissingSymbol:
		return "missing_symbol"
	case FetchMissingColumns:
		return "missing_columns"
	case FetchRateLimited:
		return "rate_limited"
	case FetchInvalidPeriod:
		return "invalid_period"
	case FetchInvalidInterval:
		return "invalid_interval"
	case FetchTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// FetchResult is the full outcome of a download call. Errors carries the
// complete provider error list even when Status is fatal, so callers can
// log it before aborting the run.
type FetchResult struct {
	Status FetchStatus
	Symbol string // offending symbol for MissingSymbol / MissingColumns
	Detail string // transport error detail
	Series map[string]Series
	Errors []ProviderError
}

// OK reports whether the download produced usable data.
func (r FetchResult) OK() bool { return r.Status == FetchOK }
