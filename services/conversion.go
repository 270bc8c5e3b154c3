package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/malusev998/currency-bot"
	"github.com/malusev998/currency-bot/metrics"
)

const resultPlaces = 6

type ConversionService struct {
	Cache   currency.RateCache
	Fetcher currency.Fetcher
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Rates returns the sheet for base from the cache, fetching and storing it when stale.
func (c ConversionService) Rates(ctx context.Context, base string) (currency.RateSheet, error) {
	base = strings.ToUpper(base)
	logger := loggerOrNop(c.Logger).With(zap.String("base", base))

	if sheet, ok := c.Cache.Get(base); ok {
		c.Metrics.CacheLookup(true)
		logger.Debug("rate sheet served from cache")
		return sheet, nil
	}

	c.Metrics.CacheLookup(false)

	started := time.Now()
	sheet, err := c.Fetcher.Fetch(ctx, base)
	c.Metrics.UpstreamFetch(started, err)

	if err != nil {
		return currency.RateSheet{}, err
	}

	sheet.Base = base

	if err := c.Cache.Store(sheet); err != nil {
		logger.Warn("failed to store rate sheet", zap.Error(err))
	}

	logger.Debug("rate sheet fetched", zap.Int64("time", sheet.Time), zap.Int("rates", len(sheet.Rates)))

	return sheet, nil
}

func (c ConversionService) Convert(ctx context.Context, from, to string, value float64) (float64, error) {
	sheet, err := c.Rates(ctx, from)

	if err != nil {
		return 0.0, err
	}

	rate, err := sheet.Rate(to)

	if err != nil {
		return 0.0, fmt.Errorf("%s -> %s: %w", sheet.Base, strings.ToUpper(to), err)
	}

	return convert(decimal.NewFromFloat(value), rate), nil
}

func convert(value decimal.Decimal, rate float64) float64 {
	result, _ := value.Mul(decimal.NewFromFloat(rate)).Round(resultPlaces).Float64()

	return result
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}
