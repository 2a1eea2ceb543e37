package collector

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"YahooPrices/internal/logging"
	"YahooPrices/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance public API.
type YahooFetcher struct {
	Client  *http.Client
	BaseURL string
	log     *logging.Logger
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy
// support.
func NewYahooFetcher(proxyURL string, log *logging.Logger) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: "https://query1.finance.yahoo.com",
		log:     log,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

var (
	errNoData         = errors.New("no data in chart response")
	errMissingColumns = errors.New("missing OHLCV columns")
)

// transportError marks a network-level failure, which is fatal for the whole
// run rather than a per-symbol condition.
type transportError struct{ err error }

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooQuoteSummary is the response structure from the quoteSummary API.
type yahooQuoteSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				DisplayName string `json:"displayName"`
				LongName    string `json:"longName"`
				Currency    string `json:"currency"`
			} `json:"price"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func toFloat(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// Download fetches historical bars for all symbols. Symbols the provider
// answered with an error are present in the result with an empty series and
// a matching entry in the error list; downstream extraction skips them.
func (f *YahooFetcher) Download(symbols []string, period, interval string) model.FetchResult {
	series := make(map[string]model.Series, len(symbols))
	var provErrs []model.ProviderError
	var missing, badColumns []string
	totalBars := 0

	for _, sym := range symbols {
		bars, err := f.fetchChart(sym, interval, period)
		switch {
		case err == nil:
			series[sym] = model.Series{Symbol: sym, Bars: bars}
			totalBars += len(bars)
		case errors.Is(err, errNoData):
			missing = append(missing, sym)
		case errors.Is(err, errMissingColumns):
			badColumns = append(badColumns, sym)
		default:
			var te *transportError
			if errors.As(err, &te) {
				f.logErrors(provErrs)
				return model.FetchResult{
					Status: model.FetchTransportError,
					Symbol: sym,
					Detail: te.Error(),
					Errors: provErrs,
				}
			}
			provErrs = append(provErrs, model.ProviderError{Symbol: sym, Message: err.Error()})
			series[sym] = model.Series{Symbol: sym}
		}
	}

	f.logErrors(provErrs)

	if status := ClassifyErrors(provErrs); status != model.FetchOK {
		return model.FetchResult{Status: status, Errors: provErrs}
	}
	if len(missing) > 0 {
		return model.FetchResult{Status: model.FetchMissingSymbol, Symbol: missing[0], Errors: provErrs}
	}
	if len(badColumns) > 0 {
		return model.FetchResult{Status: model.FetchMissingColumns, Symbol: badColumns[0], Errors: provErrs}
	}
	if totalBars == 0 {
		return model.FetchResult{Status: model.FetchEmpty, Errors: provErrs}
	}

	return model.FetchResult{Status: model.FetchOK, Series: series, Errors: provErrs}
}

func (f *YahooFetcher) logErrors(errs []model.ProviderError) {
	for _, e := range errs {
		f.log.Logf(logging.LevelWarning, "Symbol: %s, Error: %s", e.Symbol, e.Message)
	}
}

func (f *YahooFetcher) fetchChart(symbol, interval, period string) ([]model.Bar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s&includeAdjustedClose=true",
		f.BaseURL, url.PathEscape(symbol), url.QueryEscape(interval), url.QueryEscape(period))

	body, err := f.get(u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, errors.New(translateChartError(chart.Chart.Error.Description))
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, errNoData
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, errMissingColumns
	}
	quote := result.Indicators.Quote[0]
	n := len(result.Timestamp)
	for _, col := range [][]*float64{quote.Open, quote.High, quote.Low, quote.Close, quote.Volume} {
		if len(col) != n {
			return nil, errMissingColumns
		}
	}

	// Prefer the adjusted close series when the provider supplies one.
	adj := quote.Close
	if len(result.Indicators.AdjClose) > 0 && len(result.Indicators.AdjClose[0].AdjClose) == n {
		adj = result.Indicators.AdjClose[0].AdjClose
	}

	bars := make([]model.Bar, 0, n)
	for i, ts := range result.Timestamp {
		bars = append(bars, model.Bar{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   toFloat(quote.Open[i]),
			High:   toFloat(quote.High[i]),
			Low:    toFloat(quote.Low[i]),
			Close:  toFloat(adj[i]),
			Volume: toFloat(quote.Volume[i]),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// Metadata fetches the display name and currency for one symbol via the
// quoteSummary price module.
func (f *YahooFetcher) Metadata(symbol string) (model.SymbolMetadata, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price",
		f.BaseURL, url.PathEscape(symbol))

	body, err := f.get(u)
	if err != nil {
		return model.SymbolMetadata{}, err
	}

	var qs yahooQuoteSummary
	if err := json.Unmarshal(body, &qs); err != nil {
		return model.SymbolMetadata{}, fmt.Errorf("yahoo decode: %w", err)
	}
	if qs.QuoteSummary.Error != nil {
		return model.SymbolMetadata{}, fmt.Errorf("yahoo api error: %s", qs.QuoteSummary.Error.Description)
	}
	if len(qs.QuoteSummary.Result) == 0 {
		return model.SymbolMetadata{}, fmt.Errorf("no quote summary for symbol %s", symbol)
	}

	price := qs.QuoteSummary.Result[0].Price
	name := price.DisplayName
	if name == "" {
		name = price.LongName
	}
	return model.SymbolMetadata{Name: name, Currency: price.Currency}, nil
}

func (f *YahooFetcher) get(u string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &transportError{err: fmt.Errorf("yahoo fetch: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transportError{err: fmt.Errorf("yahoo read body: %w", err)}
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%s: yahoo returned status 429", rateLimitPrefix)
	}
	if resp.StatusCode != http.StatusOK {
		// Error statuses often still carry a chart error body worth keeping.
		var chart yahooChart
		if json.Unmarshal(body, &chart) == nil && chart.Chart.Error != nil {
			return nil, errors.New(translateChartError(chart.Chart.Error.Description))
		}
		return nil, fmt.Errorf("yahoo: status %d", resp.StatusCode)
	}
	return body, nil
}

// translateChartError maps the provider's error wording onto the message
// forms the classifier recognizes. Interval errors already carry their
// marker; range errors are relabeled as period errors.
func translateChartError(desc string) string {
	if strings.Contains(desc, "Invalid input - range") {
		return invalidPeriodMarker + ": " + desc
	}
	return desc
}
