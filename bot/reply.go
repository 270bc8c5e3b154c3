package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/malusev998/currency-bot"
	"github.com/malusev998/currency-bot/services"
)

const HelpText = `Currency commands (replace the angle brackets and their contents):
<currency> rate
<currency1> <currency2> rate
<amount> <currency> rate
[how much [does]] [<amount>] <currency1> converts to <currency2>
how much [<amount>] <currency1> to <currency2>
define <amount><new currency> <amount><existing currency>
undefine <user defined currency>
Chinese keywords are accepted too: 汇率, 可以换多少, 汇率定义, 取消汇率定义`

func formatQuote(q services.Quote) string {
	return fmt.Sprintf("%s%s%s converts to %s%s%s",
		currency.FormatAmount(q.Amount), q.From, codeSuffix(q.ShowFromCode, q.FromCode),
		currency.FormatAmount(q.Result), q.To, codeSuffix(q.ShowToCode, q.ToCode),
	)
}

func codeSuffix(show bool, code string) string {
	if !show {
		return ""
	}

	return "(" + code + ")"
}

func formatSuggestions(err *services.SuggestionError) string {
	lines := make([]string, 0, len(err.Suggestions))

	for _, s := range err.Suggestions {
		name := s.Name

		if s.Alias != "" {
			name = fmt.Sprintf("%s (defined by %s)", s.Name, s.Alias)
		}

		lines = append(lines, fmt.Sprintf("Could not recognize %s; %d%% chance you meant %s(%s)", name, s.Score, s.Guess, s.Code))
	}

	return strings.Join(lines, "\n")
}

// formatQuoteError turns a failed lookup into reply text.
func formatQuoteError(err error) string {
	var suggestionErr *services.SuggestionError

	switch {
	case errors.As(err, &suggestionErr):
		return formatSuggestions(suggestionErr)
	case errors.Is(err, currency.ErrUnrecognizedCurrency):
		return fmt.Sprintf("Could not recognize the currency: %v", err)
	case errors.Is(err, currency.ErrInvalidAmount):
		return fmt.Sprintf("Invalid amount: %v", err)
	}

	return fmt.Sprintf("Rate lookup failed: %v", err)
}

func formatDefinition(d services.Definition) string {
	lines := make([]string, 0, 3)

	if d.Previous != nil {
		lines = append(lines, fmt.Sprintf("Previous definition: 1%s=%s", d.Name, d.Previous))
	}

	if d.Via != nil {
		lines = append(lines, fmt.Sprintf("Converted through: 1%s=%s", d.ViaName, d.Via))
	}

	lines = append(lines, fmt.Sprintf("Defined: 1%s=%s", d.Name, d.Alias))

	return strings.Join(lines, "\n")
}

func formatDefineError(err error) string {
	switch {
	case errors.Is(err, currency.ErrDefinitionConflict):
		return fmt.Sprintf("Definition failed: %v", err)
	case errors.Is(err, currency.ErrMalformedCommand), errors.Is(err, currency.ErrInvalidAmount):
		return "Could not parse the definition\nUsage: define <amount><new currency> <amount><existing currency>"
	}

	return fmt.Sprintf("Definition failed: %v", err)
}

func formatUndefine(name string, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf("Removed the definition of [%s]", name)
	case errors.Is(err, currency.ErrNotFound):
		return fmt.Sprintf("No definition found for [%s]", name)
	case errors.Is(err, currency.ErrMalformedCommand):
		return "Usage: undefine <user defined currency>"
	}

	return fmt.Sprintf("Undefine failed: %v", err)
}

func formatCooldown(left time.Duration) string {
	return fmt.Sprintf("Cooling down, try again in %.2f seconds", left.Seconds())
}

func formatUsage(err error) string {
	return fmt.Sprintf("%v\n%s", err, HelpText)
}
