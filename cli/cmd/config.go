package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/malusev998/currency-bot"
	"github.com/malusev998/currency-bot/bot"
	"github.com/malusev998/currency-bot/fetchers"
	"github.com/malusev998/currency-bot/metrics"
	"github.com/malusev998/currency-bot/resolver"
	"github.com/malusev998/currency-bot/services"
	"github.com/malusev998/currency-bot/storage"
)

type Settings struct {
	CacheDir        string
	CodeTable       string
	AliasesFile     string
	Provider        currency.Provider
	FetcherURL      string
	APIKey          string
	Timeout         time.Duration
	CacheTTL        time.Duration
	DefaultCurrency string
	Cooldown        time.Duration
	MetricsAddr     string
	Bases           []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("fetcher.provider", "open")
	v.SetDefault("fetcher.timeout", fetchers.DefaultTimeout)
	v.SetDefault("cache_ttl", storage.DefaultTTL)
	v.SetDefault("default_currency", bot.DefaultCurrency)
	v.SetDefault("cooldown", bot.DefaultCooldown)
	v.SetDefault("refresh.bases", []string{"USD", "EUR", "CNY"})
}

func settingsFromViper(v *viper.Viper) (Settings, error) {
	provider, err := currency.ConvertToProviderFromString(v.GetString("fetcher.provider"))
	if err != nil {
		return Settings{}, fmt.Errorf("fetcher.provider: %w", err)
	}

	dataDir := v.GetString("data_dir")

	return Settings{
		CacheDir:        stringOr(v, "cache_dir", filepath.Join(dataDir, "cache")),
		CodeTable:       stringOr(v, "code_table", filepath.Join(dataDir, "code.json")),
		AliasesFile:     stringOr(v, "aliases_file", filepath.Join(dataDir, "aliases.json")),
		Provider:        provider,
		FetcherURL:      v.GetString("fetcher.url"),
		APIKey:          v.GetString("fetcher.api_key"),
		Timeout:         v.GetDuration("fetcher.timeout"),
		CacheTTL:        v.GetDuration("cache_ttl"),
		DefaultCurrency: v.GetString("default_currency"),
		Cooldown:        v.GetDuration("cooldown"),
		MetricsAddr:     v.GetString("metrics_addr"),
		Bases:           v.GetStringSlice("refresh.bases"),
	}, nil
}

func stringOr(v *viper.Viper, key, fallback string) string {
	if value := v.GetString(key); value != "" {
		return value
	}

	return fallback
}

func fetcherConfig(settings Settings) interface{} {
	base := fetchers.BaseConfig{URL: settings.FetcherURL, Timeout: settings.Timeout}

	if settings.Provider == currency.ExchangeRateAPIKeyed {
		return fetchers.ExchangeRateAPIKeyedConfig{BaseConfig: base, APIKey: settings.APIKey}
	}

	return fetchers.ExchangeRateAPIConfig{BaseConfig: base}
}

// build wires every component. A missing code table is the one fatal error.
func (c *Config) build(settings Settings) error {
	log := c.Logger

	if log == nil {
		log = zap.NewNop()
		c.Logger = log
	}

	table, err := resolver.LoadCodeTable(settings.CodeTable)
	if err != nil {
		return err
	}

	aliases, err := storage.NewAliasStore(settings.AliasesFile)
	if err != nil {
		return err
	}

	cache, err := storage.NewRateCache(storage.RateCacheConfig{
		BaseConfig: storage.BaseConfig{Logger: log.Named("cache")},
		Dir:        settings.CacheDir,
		TTL:        settings.CacheTTL,
	})
	if err != nil {
		return err
	}

	fetcher, err := fetchers.NewCurrencyFetcher(settings.Provider, fetcherConfig(settings))
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	conversion := services.ConversionService{
		Cache:   cache,
		Fetcher: fetcher,
		Logger:  log.Named("conversion"),
		Metrics: m,
	}
	names := resolver.New(table, aliases)

	c.Bases = settings.Bases
	c.Registry = registry
	c.MetricsAddr = settings.MetricsAddr
	c.Refresher = services.Service{
		Fetcher: fetcher,
		Cache:   cache,
		Logger:  log.Named("refresh"),
		Metrics: m,
	}
	c.Dispatcher = &bot.Dispatcher{
		Quotes: services.QuoteService{
			Resolver:   names,
			Aliases:    aliases,
			Conversion: conversion,
		},
		Definitions: services.DefinitionService{
			Resolver: names,
			Store:    aliases,
			Logger:   log.Named("definitions"),
			Metrics:  m,
		},
		Cooldown:        bot.NewCooldown(settings.Cooldown),
		DefaultCurrency: settings.DefaultCurrency,
		Attribution:     settings.Provider.Attribution(),
		Logger:          log.Named("dispatcher"),
		Metrics:         m,
	}

	log.Debug("currency bot configured",
		zap.String("provider", string(settings.Provider)),
		zap.Int("code_table", table.Len()),
		zap.String("cache_dir", settings.CacheDir),
		zap.String("aliases_file", settings.AliasesFile),
	)

	return nil
}
