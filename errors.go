package currency

import "errors"

var (
	ErrNetwork              = errors.New("failed to reach the exchange rate server")
	ErrUpstream             = errors.New("exchange rate server returned an error")
	ErrSchema               = errors.New("unexpected exchange rate response")
	ErrUnrecognizedCurrency = errors.New("unrecognized currency")
	ErrAmbiguousCurrency    = errors.New("ambiguous currency")
	ErrUnknownCurrencyCode  = errors.New("unknown currency code")
	ErrDefinitionConflict   = errors.New("definition conflict")
	ErrNotFound             = errors.New("definition not found")
	ErrMalformedCommand     = errors.New("malformed command")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrCodeTableMissing     = errors.New("currency code table is missing")
)
