package currency

import "context"

type (
	Service interface {
		Refresh(ctx context.Context, bases []string) (map[string]RateSheet, error)
	}

	Conversion interface {
		Convert(ctx context.Context, from, to string, value float64) (float64, error)
		Rates(ctx context.Context, base string) (RateSheet, error)
	}
)
