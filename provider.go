package currency

import (
	"fmt"
	"strings"
)

type Provider string

const (
	ExchangeRateAPIOpen  Provider = "ExchangeRateAPIOpen"
	ExchangeRateAPIKeyed Provider = "ExchangeRateAPIKeyed"
	EmptyProvider        Provider = ""
)

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(str) {
	case "exchangerateapiopen", "open":
		return ExchangeRateAPIOpen, nil
	case "exchangerateapikeyed", "keyed":
		return ExchangeRateAPIKeyed, nil
	}

	return "", fmt.Errorf("value %s is not valid Provider", str)
}

// Attribution is the credit line appended to every conversion reply.
func (p Provider) Attribution() string {
	return "Rates By Exchange Rate API"
}
