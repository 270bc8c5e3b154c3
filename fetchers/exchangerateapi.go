package fetchers

import (
	"context"
	"net/http"
	"strings"

	"github.com/malusev998/currency-bot"
)

type (
	// ExchangeRateAPIFetcher reads the keyless open access endpoint.
	ExchangeRateAPIFetcher struct {
		URL    string
		Client *http.Client
	}

	// ExchangeRateAPIKeyedFetcher reads the authenticated v6 endpoint.
	ExchangeRateAPIKeyedFetcher struct {
		URL    string
		APIKey string
		Client *http.Client
	}
)

func (e ExchangeRateAPIFetcher) Fetch(ctx context.Context, base string) (currency.RateSheet, error) {
	url := e.URL

	if url == "" {
		url = ExchangeRateAPIOpenURL
	}

	base = strings.ToUpper(base)

	return fetchSheet(ctx, newHTTPClient(e.Client, DefaultTimeout), joinURL(url, "latest", base), base)
}

func (e ExchangeRateAPIKeyedFetcher) Fetch(ctx context.Context, base string) (currency.RateSheet, error) {
	if e.APIKey == "" {
		return currency.RateSheet{}, ErrUnAuthorized
	}

	url := e.URL

	if url == "" {
		url = ExchangeRateAPIKeyedURL
	}

	base = strings.ToUpper(base)

	return fetchSheet(ctx, newHTTPClient(e.Client, DefaultTimeout), joinURL(url, e.APIKey, "latest", base), base)
}
