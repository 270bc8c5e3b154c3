package bot

import (
	"context"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const DefaultCooldown = time.Second

type (
	Cooldown interface {
		// Remaining is zero when the user may query again.
		Remaining(ctx context.Context, userID string) (time.Duration, error)
		Start(ctx context.Context, userID string) error
	}

	// LimiterCooldown allows one gated query per user per period.
	LimiterCooldown struct {
		limiter *limiter.Limiter
		period  time.Duration
		now     func() time.Time
	}
)

func NewCooldown(period time.Duration) *LimiterCooldown {
	if period <= 0 {
		period = DefaultCooldown
	}

	store := memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          "currency-bot-cooldown",
		CleanUpInterval: 10 * period,
	})

	return &LimiterCooldown{
		limiter: limiter.New(store, limiter.Rate{Period: period, Limit: 1}),
		period:  period,
		now:     time.Now,
	}
}

func (c *LimiterCooldown) Remaining(ctx context.Context, userID string) (time.Duration, error) {
	state, err := c.limiter.Peek(ctx, userID)

	if err != nil {
		return 0, err
	}

	if state.Remaining > 0 {
		return 0, nil
	}

	left := time.Unix(state.Reset, 0).Sub(c.now())

	// Reset has a resolution of one second.
	if left <= 0 || left > c.period {
		left = c.period
	}

	return left, nil
}

func (c *LimiterCooldown) Start(ctx context.Context, userID string) error {
	_, err := c.limiter.Get(ctx, userID)

	return err
}
