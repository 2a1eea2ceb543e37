package collector

import (
	"strings"

	"YahooPrices/internal/model"
)

// Fetcher defines the interface for downloading market data.
type Fetcher interface {
	// Download retrieves historical bars for all symbols in one call.
	Download(symbols []string, period, interval string) model.FetchResult
	// Metadata looks up the display name and currency for one symbol.
	Metadata(symbol string) (model.SymbolMetadata, error)
	Name() string
}

// Provider error text markers. These match the provider's wording, so keep
// them in this one place; classification elsewhere goes through
// ClassifyErrors.
const (
	rateLimitPrefix       = "YFRateLimitError"
	invalidIntervalMarker = "Invalid input - interval"
	invalidPeriodMarker   = "YFInvalidPeriodError"
)

// ClassifyErrors inspects the per-symbol provider error list and returns the
// run-fatal status it implies, or FetchOK when every error is merely a
// per-symbol skip. Rate limiting takes precedence over an invalid interval,
// which takes precedence over an invalid period.
func ClassifyErrors(errs []model.ProviderError) model.FetchStatus {
	for _, e := range errs {
		if strings.HasPrefix(e.Message, rateLimitPrefix) {
			return model.FetchRateLimited
		}
	}
	for _, e := range errs {
		if strings.Contains(e.Message, invalidIntervalMarker) {
			return model.FetchInvalidInterval
		}
	}
	for _, e := range errs {
		if strings.Contains(e.Message, invalidPeriodMarker) {
			return model.FetchInvalidPeriod
		}
	}
	return model.FetchOK
}
