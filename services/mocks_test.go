package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/malusev998/currency-bot"
	"github.com/malusev998/currency-bot/resolver"
	"github.com/malusev998/currency-bot/storage"
)

const testCodeTable = `{
	"美元": "USD",
	"欧元": "EUR",
	"人民币": "CNY",
	"USD": "USD",
	"EUR": "EUR",
	"CNY": "CNY",
	"US Dollar": "USD",
	"Euro": "EUR"
}`

type (
	MockFetcher struct {
		mock.Mock
	}

	MockRateCache struct {
		mock.Mock
	}

	MockConversion struct {
		mock.Mock
	}
)

func (m *MockFetcher) Fetch(ctx context.Context, base string) (currency.RateSheet, error) {
	args := m.Called(ctx, base)

	return args.Get(0).(currency.RateSheet), args.Error(1)
}

func (m *MockRateCache) Get(base string) (currency.RateSheet, bool) {
	args := m.Called(base)

	return args.Get(0).(currency.RateSheet), args.Bool(1)
}

func (m *MockRateCache) Store(sheet currency.RateSheet) error {
	args := m.Called(sheet)

	return args.Error(0)
}

func (m *MockConversion) Convert(ctx context.Context, from, to string, value float64) (float64, error) {
	args := m.Called(ctx, from, to, value)

	return args.Get(0).(float64), args.Error(1)
}

func (m *MockConversion) Rates(ctx context.Context, base string) (currency.RateSheet, error) {
	args := m.Called(ctx, base)

	return args.Get(0).(currency.RateSheet), args.Error(1)
}

func newResolver(t *testing.T) (*resolver.Resolver, *storage.FileAliasStore, string) {
	table, err := resolver.ParseCodeTable(strings.NewReader(testCodeTable))
	require.Nil(t, err)

	path := t.TempDir() + "/aliases.json"
	aliases, err := storage.NewAliasStore(path)
	require.Nil(t, err)

	return resolver.New(table, aliases), aliases, path
}
