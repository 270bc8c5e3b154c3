package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/malusev998/currency-bot"
)

const (
	ExchangeRateAPIOpenURL  = "https://open.er-api.com/v6/"
	ExchangeRateAPIKeyedURL = "https://v6.exchangerate-api.com/v6/"

	DefaultTimeout = 10 * time.Second
)

type (
	exchangeRateAPIResponse struct {
		Result             string             `json:"result"`
		ErrorType          string             `json:"error-type,omitempty"`
		TimeLastUpdateUnix *int64             `json:"time_last_update_unix"`
		Rates              map[string]float64 `json:"rates"`
		ConversionRates    map[string]float64 `json:"conversion_rates"`
	}
)

func newHTTPClient(client *http.Client, timeout time.Duration) *http.Client {
	if client != nil {
		return client
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{Timeout: timeout}
}

func getData(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	if err != nil {
		return nil, err
	}

	req.Header.Add("Accept", "application/json")

	return req, nil
}

func joinURL(prefix string, parts ...string) string {
	return strings.TrimRight(prefix, "/") + "/" + strings.Join(parts, "/")
}

// fetchSheet performs the request and validates the exchangerate-api response shape.
func fetchSheet(ctx context.Context, client *http.Client, url, base string) (currency.RateSheet, error) {
	req, err := getData(ctx, url)

	if err != nil {
		return currency.RateSheet{}, fmt.Errorf("%w: %v", currency.ErrNetwork, err)
	}

	res, err := client.Do(req)

	if err != nil {
		return currency.RateSheet{}, fmt.Errorf("%w: %v", currency.ErrNetwork, err)
	}

	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)

	if err != nil {
		return currency.RateSheet{}, fmt.Errorf("%w: %v", currency.ErrNetwork, err)
	}

	var data exchangeRateAPIResponse

	if res.StatusCode != http.StatusOK {
		_ = json.Unmarshal(body, &data)
		return currency.RateSheet{}, handleHTTPStatusCodeError(res.StatusCode, data.ErrorType)
	}

	if err := json.Unmarshal(body, &data); err != nil {
		return currency.RateSheet{}, fmt.Errorf("%w: %v", currency.ErrSchema, err)
	}

	if data.Result != "success" {
		errorType := data.ErrorType

		if errorType == "" {
			errorType = data.Result
		}

		return currency.RateSheet{}, fmt.Errorf("%w: %s", currency.ErrUpstream, errorType)
	}

	rates := data.Rates

	if rates == nil {
		rates = data.ConversionRates
	}

	if data.TimeLastUpdateUnix == nil {
		return currency.RateSheet{}, fmt.Errorf("%w: \"time_last_update_unix\" not found", currency.ErrSchema)
	}

	if rates == nil {
		return currency.RateSheet{}, fmt.Errorf("%w: \"rates\" not found", currency.ErrSchema)
	}

	normalized := make(map[string]float64, len(rates))

	for code, rate := range rates {
		normalized[strings.ToUpper(code)] = rate
	}

	return currency.RateSheet{
		Base:  base,
		Time:  *data.TimeLastUpdateUnix,
		Rates: normalized,
	}, nil
}

func handleHTTPStatusCodeError(status int, errorType string) error {
	if errorType != "" {
		return fmt.Errorf("%w: status %d (%s)", currency.ErrUpstream, status, errorType)
	}

	return fmt.Errorf("%w: status %d", currency.ErrUpstream, status)
}
