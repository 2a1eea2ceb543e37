package collector

import (
	"fmt"
	"time"

	"YahooPrices/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Result  model.FetchResult
	Meta    map[string]model.SymbolMetadata
	MetaErr map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Download(_ []string, _, _ string) model.FetchResult {
	return m.Result
}

func (m *MockFetcher) Metadata(symbol string) (model.SymbolMetadata, error) {
	if err, ok := m.MetaErr[symbol]; ok {
		return model.SymbolMetadata{}, err
	}
	if meta, ok := m.Meta[symbol]; ok {
		return meta, nil
	}
	return model.SymbolMetadata{}, fmt.Errorf("no metadata for symbol %s", symbol)
}

// GenerateBars builds count daily bars ending at end with the given closes.
func GenerateBars(end time.Time, closes ...float64) []model.Bar {
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			Date:   end.AddDate(0, 0, i-len(closes)+1),
			Open:   c * 0.999,
			High:   c * 1.005,
			Low:    c * 0.995,
			Close:  c,
			Volume: 1000000,
		}
	}
	return bars
}
