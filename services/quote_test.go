package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/malusev998/currency-bot"
	"github.com/malusev998/currency-bot/services"
)

func TestQuoteService_Quote(t *testing.T) {
	t.Parallel()

	t.Run("PredefinedCodes", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		r, store, _ := newResolver(t)
		conversion := &MockConversion{}
		conversion.On("Convert", mock.Anything, "USD", "CNY", 100.0).Return(710.0, nil)

		service := services.QuoteService{Resolver: r, Aliases: store, Conversion: conversion}
		quote, err := service.Quote(context.Background(), "usd", 100, "cny")

		asserts.Nil(err)
		asserts.Equal(services.Quote{
			Amount:   100,
			From:     "USD",
			FromCode: "USD",
			Result:   710,
			To:       "CNY",
			ToCode:   "CNY",
		}, quote)
	})

	t.Run("DisplayNamesShowCodes", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		r, store, _ := newResolver(t)
		conversion := &MockConversion{}
		conversion.On("Convert", mock.Anything, "USD", "CNY", 100.0).Return(710.0, nil)

		service := services.QuoteService{Resolver: r, Aliases: store, Conversion: conversion}
		quote, err := service.Quote(context.Background(), "美元", 100, "人民币")

		asserts.Nil(err)
		asserts.True(quote.ShowFromCode)
		asserts.True(quote.ShowToCode)
		asserts.Equal("美元", quote.From)
	})

	t.Run("UserDefinedIsReplaced", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		r, store, _ := newResolver(t)
		definitions := services.DefinitionService{Resolver: r, Store: store}
		_, err := definitions.Define(money(t, 1, "PTS"), money(t, 10, "USD"))
		asserts.Nil(err)

		cache := &MockRateCache{}
		cache.On("Get", "USD").Return(currency.RateSheet{
			Base:  "USD",
			Rates: map[string]float64{"USD": 1, "CNY": 7.1},
		}, true)

		service := services.QuoteService{
			Resolver:   r,
			Aliases:    store,
			Conversion: services.ConversionService{Cache: cache, Fetcher: &MockFetcher{}},
		}

		quote, err := service.Quote(context.Background(), "PTS", 20, "USD")
		asserts.Nil(err)
		asserts.Equal(200.0, quote.Result)
		asserts.False(quote.ShowFromCode)
		asserts.Equal("PTS", quote.From)

		quote, err = service.Quote(context.Background(), "USD", 200, "pts")
		asserts.Nil(err)
		asserts.Equal(20.0, quote.Result)
		asserts.False(quote.ShowToCode)
	})

	t.Run("Suggestion", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		r, store, _ := newResolver(t)
		conversion := &MockConversion{}

		service := services.QuoteService{Resolver: r, Aliases: store, Conversion: conversion}
		_, err := service.Quote(context.Background(), "美金", 100, "CNY")

		asserts.NotNil(err)
		asserts.True(errors.Is(err, currency.ErrAmbiguousCurrency))

		var suggestionErr *services.SuggestionError
		asserts.True(errors.As(err, &suggestionErr))
		asserts.Len(suggestionErr.Suggestions, 1)
		asserts.Equal("美元", suggestionErr.Suggestions[0].Guess)
		asserts.Equal("USD", suggestionErr.Suggestions[0].Code)
		asserts.Equal(75, suggestionErr.Suggestions[0].Score)
		conversion.AssertNotCalled(t, "Convert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unrecognized", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		r, store, _ := newResolver(t)
		conversion := &MockConversion{}

		service := services.QuoteService{Resolver: r, Aliases: store, Conversion: conversion}
		_, err := service.Quote(context.Background(), "USD", 100, "QQQQQQ")

		asserts.NotNil(err)
		asserts.True(errors.Is(err, currency.ErrUnrecognizedCurrency))
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		t.Parallel()
		r, store, _ := newResolver(t)
		service := services.QuoteService{Resolver: r, Aliases: store, Conversion: &MockConversion{}}

		_, err := service.Quote(context.Background(), "USD", 0, "CNY")
		require.True(t, errors.Is(err, currency.ErrInvalidAmount))
	})
}
