package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/malusev998/currency-bot"
)

type httpMock struct {
	requests *int64
}

var sheets = map[string]map[string]float64{
	"USD": {"USD": 1, "CNY": 7.1, "EUR": 0.9},
	"EUR": {"EUR": 1, "USD": 1.1, "CNY": 7.8},
	"CNY": {"CNY": 1, "USD": 0.140845, "EUR": 0.128},
}

func (h httpMock) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	atomic.AddInt64(h.requests, 1)
	rates, ok := sheets[path.Base(request.URL.Path)]

	if !ok {
		writer.WriteHeader(http.StatusNotFound)
		_, _ = writer.Write([]byte(`{"result":"error","error-type":"unsupported-code"}`))
		return
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"result":                "success",
		"time_last_update_unix": time.Now().Unix(),
		"rates":                 rates,
	})

	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(payload)
}

func newTestConfig(t *testing.T, url string) (*Config, Settings) {
	debug := true
	dir := t.TempDir()
	settings := Settings{
		CacheDir:        filepath.Join(dir, "cache"),
		CodeTable:       filepath.Join("..", "..", "data", "code.json"),
		AliasesFile:     filepath.Join(dir, "aliases.json"),
		Provider:        currency.ExchangeRateAPIOpen,
		FetcherURL:      url,
		Timeout:         time.Second,
		CacheTTL:        time.Hour,
		DefaultCurrency: "CNY",
		Cooldown:        time.Millisecond,
		Bases:           []string{"USD", "EUR"},
	}

	config := &Config{Ctx: context.Background(), Logger: zaptest.NewLogger(t), debug: &debug}
	require.Nil(t, config.build(settings))

	return config, settings
}

func TestFetchCommand(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	var requests int64
	server := httptest.NewServer(httpMock{requests: &requests})
	defer server.Close()

	config, settings := newTestConfig(t, server.URL)

	cmd := fetch(config)
	cmd.SetArgs([]string{})
	asserts.Nil(cmd.Execute())

	for _, base := range settings.Bases {
		_, err := os.Stat(filepath.Join(settings.CacheDir, base+".json"))
		asserts.Nil(err)
	}

	asserts.Equal(int64(2), atomic.LoadInt64(&requests))
}

func TestFetchCommand_UpstreamError(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	var requests int64
	server := httptest.NewServer(httpMock{requests: &requests})
	defer server.Close()

	config, _ := newTestConfig(t, server.URL)
	config.Bases = []string{"XYZ"}

	cmd := fetch(config)
	cmd.SetArgs([]string{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()

	asserts.NotNil(err)
	asserts.True(errors.Is(err, currency.ErrUpstream))
}

func TestFetchCommand_StandaloneNeedsPositiveInterval(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	var requests int64
	server := httptest.NewServer(httpMock{requests: &requests})
	defer server.Close()

	config, _ := newTestConfig(t, server.URL)

	for _, after := range []string{"0s", "-1m"} {
		cmd := fetch(config)
		cmd.SetArgs([]string{"--standalone", "--after", after})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetOut(&bytes.Buffer{})

		err := cmd.Execute()

		asserts.NotNil(err)
		asserts.True(errors.Is(err, ErrInvalidInterval), after)
	}

	asserts.Zero(atomic.LoadInt64(&requests))
}

func TestAskCommand(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	var requests int64
	server := httptest.NewServer(httpMock{requests: &requests})
	defer server.Close()

	config, _ := newTestConfig(t, server.URL)
	out := &bytes.Buffer{}

	cmd := ask(config)
	cmd.SetArgs([]string{"how", "much", "100", "USD", "to", "人民币"})
	cmd.SetOut(out)
	asserts.Nil(cmd.Execute())

	asserts.Equal("100USD converts to 710人民币(CNY)\nRates By Exchange Rate API\n", out.String())
	asserts.Equal(int64(1), atomic.LoadInt64(&requests))
}

func TestChatCommand(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	var requests int64
	server := httptest.NewServer(httpMock{requests: &requests})
	defer server.Close()

	config, _ := newTestConfig(t, server.URL)
	out := &bytes.Buffer{}

	cmd := chat(config)
	cmd.SetArgs([]string{"--user", "42"})
	cmd.SetIn(strings.NewReader("hello\ndefine 1PTS 10USD\nhow much does 20 PTS convert to USD\nundefine pts\n"))
	cmd.SetOut(out)
	asserts.Nil(cmd.Execute())

	asserts.Equal(
		"Defined: 1PTS=10USD\n"+
			"20PTS converts to 200USD\nRates By Exchange Rate API\n"+
			"Removed the definition of [PTS]\n",
		out.String(),
	)
}

func TestBuild_MissingCodeTable(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	debug := false
	dir := t.TempDir()

	config := &Config{Ctx: context.Background(), debug: &debug}
	err := config.build(Settings{
		CacheDir:    filepath.Join(dir, "cache"),
		CodeTable:   filepath.Join(dir, "missing.json"),
		AliasesFile: filepath.Join(dir, "aliases.json"),
		Provider:    currency.ExchangeRateAPIOpen,
	})

	asserts.NotNil(err)
	asserts.True(errors.Is(err, currency.ErrCodeTableMissing))
}

func TestSettingsFromViper(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	v := viper.New()
	setDefaults(v)
	v.Set("data_dir", "/var/lib/currency-bot")
	v.Set("aliases_file", "/etc/currency-bot/aliases.json")
	v.Set("fetcher.provider", "keyed")
	v.Set("fetcher.api_key", "secret")

	settings, err := settingsFromViper(v)

	asserts.Nil(err)
	asserts.Equal(filepath.Join("/var/lib/currency-bot", "cache"), settings.CacheDir)
	asserts.Equal(filepath.Join("/var/lib/currency-bot", "code.json"), settings.CodeTable)
	asserts.Equal("/etc/currency-bot/aliases.json", settings.AliasesFile)
	asserts.Equal(currency.ExchangeRateAPIKeyed, settings.Provider)
	asserts.Equal(time.Second, settings.Cooldown)
	asserts.Equal(24*time.Hour, settings.CacheTTL)
	asserts.Equal([]string{"USD", "EUR", "CNY"}, settings.Bases)

	v.Set("fetcher.provider", "freeconv")
	_, err = settingsFromViper(v)
	asserts.NotNil(err)
}
