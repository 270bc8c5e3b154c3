package currency

import "context"

type (
	Fetcher interface {
		Fetch(ctx context.Context, base string) (RateSheet, error)
	}

	RateCache interface {
		// Get reports false when the sheet is missing, stale or unreadable.
		Get(base string) (RateSheet, bool)
		Store(sheet RateSheet) error
	}

	AliasStore interface {
		Load() (Aliases, error)
		// Update persists the map only when fn returns nil.
		Update(fn func(aliases Aliases) error) error
	}
)
