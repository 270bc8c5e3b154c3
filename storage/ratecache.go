package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/malusev998/currency-bot"
)

// FileRateCache keeps one JSON file per base currency.
type FileRateCache struct {
	dir    string
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

func NewRateCache(config RateCacheConfig) (*FileRateCache, error) {
	if config.Dir == "" {
		return nil, ErrEmptyPath
	}

	ttl := config.TTL

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := config.Now

	if now == nil {
		now = time.Now
	}

	return &FileRateCache{
		dir:    config.Dir,
		ttl:    ttl,
		now:    now,
		logger: loggerOrNop(config.Logger),
	}, nil
}

func (c *FileRateCache) path(base string) string {
	return filepath.Join(c.dir, strings.ToUpper(base)+".json")
}

func (c *FileRateCache) Get(base string) (currency.RateSheet, bool) {
	base = strings.ToUpper(base)
	path := c.path(base)

	var sheet currency.RateSheet

	if err := readJSON(path, &sheet); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("ignoring unreadable rate cache",
				zap.String("base", base),
				zap.String("path", path),
				zap.Error(err))
		}

		return currency.RateSheet{}, false
	}

	if sheet.Rates == nil {
		c.logger.Warn("ignoring rate cache without rates", zap.String("base", base))
		return currency.RateSheet{}, false
	}

	age := c.now().Sub(time.Unix(sheet.Time, 0))

	if age >= c.ttl {
		c.logger.Debug("rate cache is stale", zap.String("base", base), zap.Duration("age", age))
		return currency.RateSheet{}, false
	}

	sheet.Base = base

	return sheet, true
}

// Store overwrites the sheet for its base; entries are never merged.
func (c *FileRateCache) Store(sheet currency.RateSheet) error {
	if sheet.Base == "" {
		return ErrEmptyPath
	}

	if err := writeJSON(c.path(sheet.Base), sheet); err != nil {
		return err
	}

	c.logger.Debug("rate cache stored",
		zap.String("base", strings.ToUpper(sheet.Base)),
		zap.Int("rates", len(sheet.Rates)),
		zap.Int64("time", sheet.Time))

	return nil
}
