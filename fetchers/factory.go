package fetchers

import (
	"errors"
	"fmt"
	"time"

	"github.com/malusev998/currency-bot"
)

var (
	ErrUnAuthorized    = errors.New("unauthorized, API key is not provided")
	ErrUnknownProvider = errors.New("unknown fetcher provider")
	ErrInvalidConfig   = errors.New("invalid fetcher config")
)

type (
	BaseConfig struct {
		URL     string
		Timeout time.Duration
	}
	ExchangeRateAPIConfig struct {
		BaseConfig
	}
	ExchangeRateAPIKeyedConfig struct {
		BaseConfig
		APIKey string
	}
)

func NewCurrencyFetcher(provider currency.Provider, config interface{}) (currency.Fetcher, error) {
	switch provider {
	case currency.ExchangeRateAPIOpen, currency.EmptyProvider:
		c, ok := config.(ExchangeRateAPIConfig)

		if !ok {
			return nil, fmt.Errorf("%w: %s expects ExchangeRateAPIConfig, got %T", ErrInvalidConfig, provider, config)
		}

		return ExchangeRateAPIFetcher{
			URL:    c.URL,
			Client: newHTTPClient(nil, c.Timeout),
		}, nil
	case currency.ExchangeRateAPIKeyed:
		c, ok := config.(ExchangeRateAPIKeyedConfig)

		if !ok || c.APIKey == "" {
			return nil, ErrUnAuthorized
		}

		return ExchangeRateAPIKeyedFetcher{
			URL:    c.URL,
			APIKey: c.APIKey,
			Client: newHTTPClient(nil, c.Timeout),
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
}
