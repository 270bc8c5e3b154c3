package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/malusev998/currency-bot"
	"github.com/malusev998/currency-bot/metrics"
)

// Service refreshes rate sheets regardless of their freshness.
type Service struct {
	Fetcher currency.Fetcher
	Cache   currency.RateCache
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

func (f Service) refreshBase(
	ctx context.Context,
	wg *sync.WaitGroup,
	base string,
	data map[string]currency.RateSheet,
	errorChannel chan<- error,
	mutex sync.Locker,
) {
	defer wg.Done()

	started := time.Now()
	sheet, err := f.Fetcher.Fetch(ctx, base)
	f.Metrics.UpstreamFetch(started, err)

	if err != nil {
		errorChannel <- fmt.Errorf("refreshing %s: %w", base, err)
		return
	}

	sheet.Base = base

	if err := f.Cache.Store(sheet); err != nil {
		errorChannel <- fmt.Errorf("storing %s: %w", base, err)
		return
	}

	mutex.Lock()
	data[base] = sheet
	mutex.Unlock()
}

func (f Service) Refresh(ctx context.Context, bases []string) (map[string]currency.RateSheet, error) {
	var wg sync.WaitGroup
	mutex := &sync.Mutex{}
	logger := loggerOrNop(f.Logger)

	errorChannel := make(chan error, len(bases))
	data := make(map[string]currency.RateSheet, len(bases))

	wg.Add(len(bases))
	for _, base := range bases {
		go f.refreshBase(ctx, &wg, strings.ToUpper(base), data, errorChannel, mutex)
	}

	wg.Wait()
	close(errorChannel)

	var result *multierror.Error

	for err := range errorChannel {
		logger.Warn("rate sheet refresh failed", zap.Error(err))
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	for base, sheet := range data {
		logger.Info("rate sheet refreshed", zap.String("base", base), zap.Int64("time", sheet.Time), zap.Int("rates", len(sheet.Rates)))
	}

	return data, nil
}
