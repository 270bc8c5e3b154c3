package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/malusev998/currency-bot"
)

const namespace = "currency_bot"

// Metrics holds the bot counters. A nil *Metrics records nothing.
type Metrics struct {
	CommandsTotal        *prometheus.CounterVec
	CacheLookupsTotal    *prometheus.CounterVec
	UpstreamFetchesTotal *prometheus.CounterVec
	UpstreamFetchSeconds prometheus.Histogram
	DefinitionsTotal     *prometheus.CounterVec
}

func New(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		CommandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Messages handled by the dispatcher, by command and outcome",
			},
			[]string{"command", "outcome"},
		),
		CacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_cache_lookups_total",
				Help:      "Rate sheet cache lookups, by result",
			},
			[]string{"result"},
		),
		UpstreamFetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_fetches_total",
				Help:      "Requests to the exchange rate API, by outcome",
			},
			[]string{"outcome"},
		),
		UpstreamFetchSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_fetch_duration_seconds",
				Help:      "Duration of requests to the exchange rate API",
				Buckets:   prometheus.DefBuckets,
			},
		),
		DefinitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "definitions_total",
				Help:      "Define and undefine operations, by action and outcome",
			},
			[]string{"action", "outcome"},
		),
	}
}

func (m *Metrics) Command(command string, err error) {
	if m == nil {
		return
	}

	m.CommandsTotal.WithLabelValues(command, Outcome(err)).Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}

	result := "miss"

	if hit {
		result = "hit"
	}

	m.CacheLookupsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) UpstreamFetch(started time.Time, err error) {
	if m == nil {
		return
	}

	m.UpstreamFetchSeconds.Observe(time.Since(started).Seconds())
	m.UpstreamFetchesTotal.WithLabelValues(Outcome(err)).Inc()
}

func (m *Metrics) Definition(action string, err error) {
	if m == nil {
		return
	}

	m.DefinitionsTotal.WithLabelValues(action, Outcome(err)).Inc()
}

// Outcome maps an error to a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, currency.ErrNetwork):
		return "network_error"
	case errors.Is(err, currency.ErrUpstream):
		return "upstream_error"
	case errors.Is(err, currency.ErrSchema):
		return "schema_error"
	case errors.Is(err, currency.ErrUnrecognizedCurrency):
		return "unrecognized_currency"
	case errors.Is(err, currency.ErrAmbiguousCurrency):
		return "ambiguous_currency"
	case errors.Is(err, currency.ErrUnknownCurrencyCode):
		return "unknown_currency_code"
	case errors.Is(err, currency.ErrDefinitionConflict):
		return "definition_conflict"
	case errors.Is(err, currency.ErrNotFound):
		return "not_found"
	case errors.Is(err, currency.ErrMalformedCommand), errors.Is(err, currency.ErrInvalidAmount):
		return "malformed_command"
	}

	return "error"
}
