package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/malusev998/currency-bot"
	"github.com/malusev998/currency-bot/resolver"
)

type (
	NameResolver interface {
		Resolve(name string) (resolver.Match, error)
	}

	QuoteService struct {
		Resolver   NameResolver
		Aliases    currency.AliasStore
		Conversion currency.Conversion
	}

	// Quote is one answered conversion. The Show flags tell whether the
	// resolved code adds anything to the name the user typed.
	Quote struct {
		Amount       float64
		From         string
		FromCode     string
		ShowFromCode bool
		Result       float64
		To           string
		ToCode       string
		ShowToCode   bool
	}

	// SuggestionError lists the names that were only probably recognized.
	SuggestionError struct {
		Suggestions []resolver.Suggestion
	}
)

func (e *SuggestionError) Error() string {
	guesses := make([]string, 0, len(e.Suggestions))

	for _, s := range e.Suggestions {
		guesses = append(guesses, fmt.Sprintf("%s -> %s(%s) %d%%", s.Name, s.Guess, s.Code, s.Score))
	}

	return fmt.Sprintf("%v: %s", currency.ErrAmbiguousCurrency, strings.Join(guesses, ", "))
}

func (e *SuggestionError) Unwrap() error {
	return currency.ErrAmbiguousCurrency
}

func (q QuoteService) Quote(ctx context.Context, fromName string, amount float64, toName string) (Quote, error) {
	if amount <= 0 {
		return Quote{}, fmt.Errorf("%w: %v", currency.ErrInvalidAmount, amount)
	}

	from := strings.ToUpper(strings.TrimSpace(fromName))
	to := strings.ToUpper(strings.TrimSpace(toName))

	aliases, err := q.Aliases.Load()
	if err != nil {
		return Quote{}, err
	}

	value := decimal.NewFromFloat(amount)
	fromTarget, toTarget := from, to

	if alias, ok := aliases[from]; ok {
		value = value.Mul(decimal.NewFromFloat(alias.Multiplier))
		fromTarget = alias.Code
	}

	if alias, ok := aliases[to]; ok {
		value = value.Div(decimal.NewFromFloat(alias.Multiplier))
		toTarget = alias.Code
	}

	suggestions := make([]resolver.Suggestion, 0, 2)

	fromCode, err := q.resolve(fromTarget, from, &suggestions)
	if err != nil {
		return Quote{}, err
	}

	toCode, err := q.resolve(toTarget, to, &suggestions)
	if err != nil {
		return Quote{}, err
	}

	if len(suggestions) > 0 {
		return Quote{}, &SuggestionError{Suggestions: suggestions}
	}

	equivalent, _ := value.Float64()
	result, err := q.Conversion.Convert(ctx, fromCode, toCode, equivalent)

	if err != nil {
		return Quote{}, err
	}

	return Quote{
		Amount:       amount,
		From:         from,
		FromCode:     fromCode,
		ShowFromCode: from == fromTarget && from != fromCode,
		Result:       result,
		To:           to,
		ToCode:       toCode,
		ShowToCode:   to == toTarget && to != toCode,
	}, nil
}

func (q QuoteService) resolve(name, typed string, suggestions *[]resolver.Suggestion) (string, error) {
	match, err := q.Resolver.Resolve(name)

	if err != nil {
		if errors.Is(err, currency.ErrUnrecognizedCurrency) && name != typed {
			return "", fmt.Errorf("%w (defined by %s)", err, typed)
		}

		return "", err
	}

	if match.Suggestion != nil {
		suggestion := *match.Suggestion

		if name != typed {
			suggestion.Alias = typed
		}

		*suggestions = append(*suggestions, suggestion)
	}

	return match.Code, nil
}
