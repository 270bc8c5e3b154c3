package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/malusev998/currency-bot"
	"github.com/malusev998/currency-bot/metrics"
	"github.com/malusev998/currency-bot/services"
)

const DefaultCurrency = "人民币"

type (
	Quoter interface {
		Quote(ctx context.Context, fromName string, amount float64, toName string) (services.Quote, error)
	}

	Definer interface {
		Define(x, y currency.Money) (services.Definition, error)
		Undefine(name string) error
	}

	quoteRequest struct {
		from   string
		amount float64
		to     string
	}

	Dispatcher struct {
		Quotes          Quoter
		Definitions     Definer
		Cooldown        Cooldown
		DefaultCurrency string
		Attribution     string
		Logger          *zap.Logger
		Metrics         *metrics.Metrics
	}
)

// Handle answers one chat message. The boolean is false when the message
// is not a command and no reply should be sent.
func (d Dispatcher) Handle(ctx context.Context, userID, text string) (string, bool) {
	command, err := Parse(text)

	if command.Kind == CommandNone {
		return "", false
	}

	logger := d.logger().With(
		zap.String("request_id", uuid.New().String()),
		zap.String("user_id", userID),
		zap.Stringer("command", command.Kind),
	)

	reply, err := d.dispatch(ctx, logger, userID, command, err)
	d.Metrics.Command(command.Kind.String(), err)

	if err != nil {
		logger.Info("command failed", zap.Error(err))
	} else {
		logger.Debug("command answered")
	}

	return reply, true
}

func (d Dispatcher) dispatch(ctx context.Context, logger *zap.Logger, userID string, command Command, parseErr error) (string, error) {
	switch command.Kind {
	case CommandHelp:
		return HelpText, nil
	case CommandDefine:
		if parseErr != nil {
			return formatDefineError(parseErr), parseErr
		}

		definition, err := d.Definitions.Define(command.Define[0], command.Define[1])

		if err != nil {
			return formatDefineError(err), err
		}

		return formatDefinition(definition), nil
	case CommandUndefine:
		if parseErr != nil {
			return formatUndefine(command.Name, parseErr), parseErr
		}

		err := d.Definitions.Undefine(command.Name)

		return formatUndefine(command.Name, err), err
	}

	if command.Kind.Gated() && d.Cooldown != nil {
		left, err := d.Cooldown.Remaining(ctx, userID)

		if err != nil {
			logger.Warn("cooldown check failed", zap.Error(err))
		} else if left > 0 {
			return formatCooldown(left), nil
		}
	}

	if parseErr != nil {
		if errors.Is(parseErr, currency.ErrInvalidAmount) {
			return formatQuoteError(parseErr), parseErr
		}

		return formatUsage(parseErr), parseErr
	}

	if command.Kind.Gated() && d.Cooldown != nil {
		if err := d.Cooldown.Start(ctx, userID); err != nil {
			logger.Warn("cooldown start failed", zap.Error(err))
		}
	}

	if command.Kind == CommandHowMuch {
		return d.quotes(ctx, quoteRequest{from: command.From, amount: command.Amount, to: command.To})
	}

	return d.rate(ctx, command.Args)
}

// rate answers the "<A> [<B>] rate" shape.
func (d Dispatcher) rate(ctx context.Context, args []string) (string, error) {
	defaultCurrency := d.defaultCurrency()

	if len(args) == 2 {
		if amount, err := strconv.ParseFloat(args[0], 64); err == nil {
			return d.quotes(ctx, quoteRequest{from: args[1], amount: amount, to: defaultCurrency})
		}
	}

	from, to := args[0], defaultCurrency

	if len(args) == 2 {
		to = args[1]
	}

	return d.quotes(ctx,
		quoteRequest{from: from, amount: DefaultAmount, to: to},
		quoteRequest{from: to, amount: DefaultAmount, to: from},
	)
}

// quotes answers the requests in order and stops at the first failure.
func (d Dispatcher) quotes(ctx context.Context, requests ...quoteRequest) (string, error) {
	lines := make([]string, 0, len(requests)+1)
	answered := 0

	var err error

	for _, request := range requests {
		quote, quoteErr := d.Quotes.Quote(ctx, request.from, request.amount, request.to)

		if quoteErr != nil {
			lines = append(lines, formatQuoteError(quoteErr))
			err = quoteErr
			break
		}

		lines = append(lines, formatQuote(quote))
		answered++
	}

	if answered > 0 {
		lines = append(lines, d.attribution())
	}

	return strings.Join(lines, "\n"), err
}

func (d Dispatcher) attribution() string {
	if d.Attribution == "" {
		return currency.ExchangeRateAPIOpen.Attribution()
	}

	return d.Attribution
}

func (d Dispatcher) defaultCurrency() string {
	if d.DefaultCurrency == "" {
		return DefaultCurrency
	}

	return d.DefaultCurrency
}

func (d Dispatcher) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}

	return d.Logger
}
