package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/malusev998/currency-bot"
	"github.com/malusev998/currency-bot/metrics"
)

type (
	Classifier interface {
		Classify(name string) (currency.Kind, error)
		Code(name string) string
	}

	DefinitionService struct {
		Resolver Classifier
		Store    currency.AliasStore
		Logger   *zap.Logger
		Metrics  *metrics.Metrics
	}

	// Definition is the peg stored for Name.
	// Previous holds the peg it replaced, Via the peg that was composed into it.
	Definition struct {
		Name     string
		Alias    currency.Alias
		Previous *currency.Alias
		Via      *currency.Alias
		ViaName  string
	}
)

func (d DefinitionService) Define(x, y currency.Money) (definition Definition, err error) {
	defer func() { d.Metrics.Definition("define", err) }()

	xKind, err := d.Resolver.Classify(x.Name)
	if err != nil {
		return Definition{}, err
	}

	yKind, err := d.Resolver.Classify(y.Name)
	if err != nil {
		return Definition{}, err
	}

	if xKind == yKind {
		return Definition{}, conflict(x.Name, y.Name, xKind)
	}

	if xKind > yKind {
		x, y = y, x
		xKind, yKind = yKind, xKind
	}

	amount := decimal.NewFromFloat(y.Amount).Div(decimal.NewFromFloat(x.Amount))
	definition = Definition{Name: x.Name}

	err = d.Store.Update(func(aliases currency.Aliases) error {
		target := y.Name

		switch {
		case xKind == currency.Undefined && yKind == currency.UserDefined:
			peg, ok := aliases[y.Name]

			if !ok {
				return fmt.Errorf("%w: [%s]", currency.ErrNotFound, y.Name)
			}

			amount = amount.Mul(decimal.NewFromFloat(peg.Multiplier))
			target = peg.Code
			definition.Via = &peg
			definition.ViaName = y.Name
		case xKind == currency.UserDefined:
			if peg, ok := aliases[x.Name]; ok {
				definition.Previous = &peg
			}
		}

		code := d.Resolver.Code(target)

		if code == "" {
			code = target
		}

		multiplier, _ := amount.Float64()
		definition.Alias = currency.Alias{Multiplier: multiplier, Code: code}
		aliases[x.Name] = definition.Alias

		return nil
	})

	if err != nil {
		return Definition{}, err
	}

	loggerOrNop(d.Logger).Info("currency defined",
		zap.String("name", definition.Name),
		zap.Float64("multiplier", definition.Alias.Multiplier),
		zap.String("code", definition.Alias.Code),
	)

	return definition, nil
}

func (d DefinitionService) Undefine(name string) (err error) {
	defer func() { d.Metrics.Definition("undefine", err) }()

	name = strings.ToUpper(strings.TrimSpace(name))

	err = d.Store.Update(func(aliases currency.Aliases) error {
		if _, ok := aliases[name]; !ok {
			return fmt.Errorf("%w: [%s]", currency.ErrNotFound, name)
		}

		delete(aliases, name)

		return nil
	})

	if err != nil {
		return err
	}

	loggerOrNop(d.Logger).Info("currency undefined", zap.String("name", name))

	return nil
}

func conflict(x, y string, kind currency.Kind) error {
	switch kind {
	case currency.UserDefined:
		return fmt.Errorf("%w: [%s] and [%s] are both user defined, undefine the one you want to change first",
			currency.ErrDefinitionConflict, x, y)
	case currency.Predefined:
		return fmt.Errorf("%w: [%s] and [%s] are both predefined", currency.ErrDefinitionConflict, x, y)
	}

	return fmt.Errorf("%w: neither [%s] nor [%s] is recognized", currency.ErrDefinitionConflict, x, y)
}
