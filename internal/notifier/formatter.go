package notifier

import (
	"fmt"
	"strings"

	"YahooPrices/internal/model"
)

// FormatDownloadFailure builds the notification body for a run where the
// download reported per-symbol errors. The headline counts distinct failing
// symbols; the detail lines list every reported error.
func FormatDownloadFailure(errs []model.ProviderError) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("There were errors reported with %d stocks during the Yahoo Finance download.\n", distinctSymbols(errs)))
	for _, e := range errs {
		b.WriteString(fmt.Sprintf("Symbol: %s, Error: %s\n", e.Symbol, e.Message))
	}
	return b.String()
}

// FormatExtractFailure builds the notification body for a run where the
// download succeeded but extraction failed for some symbols.
func FormatExtractFailure(count int) string {
	return fmt.Sprintf("There were errors with %d stocks when extracting data from the downloaded data. See logs for details.", count)
}

func distinctSymbols(errs []model.ProviderError) int {
	seen := make(map[string]bool, len(errs))
	for _, e := range errs {
		seen[e.Symbol] = true
	}
	return len(seen)
}
