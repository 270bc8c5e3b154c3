package resolver

import (
	"fmt"
	"strings"

	"github.com/malusev998/currency-bot"
)

const (
	ExactScore = 100
	MinScore   = 50
)

type (
	// Suggestion is returned instead of a code when a name is only probably known.
	Suggestion struct {
		Name  string
		Alias string
		Guess string
		Code  string
		Score int
	}

	Match struct {
		Code       string
		Suggestion *Suggestion
	}

	Resolver struct {
		table   *CodeTable
		aliases currency.AliasStore
	}
)

func New(table *CodeTable, aliases currency.AliasStore) *Resolver {
	return &Resolver{table: table, aliases: aliases}
}

func (r *Resolver) Table() *CodeTable {
	return r.table
}

func (r *Resolver) Resolve(name string) (Match, error) {
	if code, ok := r.table.Lookup(strings.ToUpper(name)); ok {
		return Match{Code: code}, nil
	}

	guess, score := r.table.BestMatch(name)

	switch {
	case score >= ExactScore:
		code, _ := r.table.Lookup(guess)
		return Match{Code: code}, nil
	case score < MinScore:
		return Match{}, fmt.Errorf("%w: %s", currency.ErrUnrecognizedCurrency, name)
	}

	code, _ := r.table.Lookup(guess)

	return Match{Suggestion: &Suggestion{
		Name:  name,
		Guess: guess,
		Code:  code,
		Score: score,
	}}, nil
}

// Code returns the code for exact or fully similar names and "" otherwise.
func (r *Resolver) Code(name string) string {
	if code, ok := r.table.Lookup(name); ok {
		return code
	}

	if code, ok := r.table.Lookup(strings.ToUpper(name)); ok {
		return code
	}

	if guess, score := r.table.BestMatch(name); score >= ExactScore {
		code, _ := r.table.Lookup(guess)
		return code
	}

	return ""
}

func (r *Resolver) Classify(name string) (currency.Kind, error) {
	if r.Code(name) != "" {
		return currency.Predefined, nil
	}

	aliases, err := r.aliases.Load()

	if err != nil {
		return currency.Undefined, err
	}

	if _, ok := aliases[name]; ok {
		return currency.UserDefined, nil
	}

	return currency.Undefined, nil
}
