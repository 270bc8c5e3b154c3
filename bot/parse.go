package bot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/malusev998/currency-bot"
)

const DefaultAmount = 100

type (
	CommandKind int

	Command struct {
		Kind CommandKind
		// Args holds the names before the rate keyword.
		Args   []string
		Amount float64
		From   string
		To     string
		Define [2]currency.Money
		Name   string
	}
)

const (
	CommandNone CommandKind = iota
	CommandHelp
	CommandRate
	CommandHowMuch
	CommandDefine
	CommandUndefine
)

var (
	helpKeywords     = []string{"rate", "rate help", "汇率", "汇率帮助"}
	undefineKeywords = []string{"undefine", "取消汇率定义", "取消定义汇率"}
	defineKeywords   = []string{"define", "汇率定义", "汇率设置"}

	numberRegex     = regexp.MustCompile(`\d+(?:\.\d+)?`)
	fullNumberRegex = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

	howMuchRegexes = []*regexp.Regexp{
		regexp.MustCompile(`^(?P<num>\d+(?:\.\d+)?)?\s*(?P<from>.+?)\s*可以(?:兑换|换)多少\s*(?P<to>.+?)\s*[?？]?$`),
		regexp.MustCompile(`(?i)^(?:how\s+much\s+)?(?:does\s+)?(?:(?P<num>\d+(?:\.\d+)?)\s*)?(?P<from>.+?)\s+converts?\s+to\s+(?P<to>.+?)\s*\??$`),
		// The short "to" form needs the "how much" prefix so chat like "2 things to do" is ignored.
		regexp.MustCompile(`(?i)^how\s+much\s+(?:is\s+)?(?:(?P<num>\d+(?:\.\d+)?)\s*)?(?P<from>.+?)\s+to\s+(?P<to>.+?)\s*\??$`),
	}
)

func (k CommandKind) String() string {
	switch k {
	case CommandHelp:
		return "help"
	case CommandRate:
		return "rate"
	case CommandHowMuch:
		return "how_much"
	case CommandDefine:
		return "define"
	case CommandUndefine:
		return "undefine"
	}

	return "none"
}

// Gated reports whether the command is subject to the per-user cooldown.
func (k CommandKind) Gated() bool {
	return k == CommandRate || k == CommandHowMuch
}

// Parse recognizes the command shape of text. Kind is CommandNone when the
// message is not addressed to the bot. The returned command carries its
// Kind even when err is not nil.
func Parse(text string) (Command, error) {
	text = strings.TrimSpace(text)

	if text == "" {
		return Command{}, nil
	}

	for _, keyword := range helpKeywords {
		if strings.EqualFold(strings.Join(strings.Fields(text), " "), keyword) {
			return Command{Kind: CommandHelp}, nil
		}
	}

	if rest, ok := trimKeyword(text, undefineKeywords); ok {
		return parseUndefine(rest)
	}

	if rest, ok := trimKeyword(text, defineKeywords); ok {
		return parseDefine(rest)
	}

	if args, ok := rateArgs(text); ok {
		command := Command{Kind: CommandRate, Args: args}

		if len(args) < 1 || len(args) > 2 {
			return command, fmt.Errorf("%w: accepts 1 to 2 arguments, got %d: %v",
				currency.ErrMalformedCommand, len(args), args)
		}

		return command, nil
	}

	if command, ok, err := parseHowMuch(text); ok {
		return command, err
	}

	return Command{}, nil
}

// trimKeyword strips a leading keyword. ASCII keywords must be followed by whitespace.
func trimKeyword(text string, keywords []string) (string, bool) {
	for _, keyword := range keywords {
		if !isASCII(keyword) {
			if strings.HasPrefix(text, keyword) {
				return strings.TrimSpace(strings.TrimPrefix(text, keyword)), true
			}

			continue
		}

		fields := strings.Fields(text)

		if len(fields) > 0 && strings.EqualFold(fields[0], keyword) {
			return strings.TrimSpace(text[len(fields[0]):]), true
		}
	}

	return "", false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}

	return true
}

func parseUndefine(rest string) (Command, error) {
	command := Command{Kind: CommandUndefine, Name: strings.ToUpper(rest)}

	if rest == "" {
		return command, fmt.Errorf("%w: missing currency name", currency.ErrMalformedCommand)
	}

	return command, nil
}

// parseDefine splits "<N><NEW> <N><EXISTING>" on the numbers it contains.
func parseDefine(rest string) (Command, error) {
	command := Command{Kind: CommandDefine}
	parts := splitKeepNumbers(rest)

	if len(parts) != 4 || !fullNumberRegex.MatchString(parts[0]) || !fullNumberRegex.MatchString(parts[2]) {
		return command, fmt.Errorf("%w: expected <N><NEW> <N><EXISTING>, got %q", currency.ErrMalformedCommand, rest)
	}

	for i := 0; i < 2; i++ {
		amount, err := strconv.ParseFloat(parts[i*2], 64)

		if err != nil {
			return command, fmt.Errorf("%w: %v", currency.ErrMalformedCommand, err)
		}

		m, err := currency.NewMoney(amount, parts[i*2+1])

		if err != nil {
			return command, err
		}

		command.Define[i] = m
	}

	return command, nil
}

// splitKeepNumbers splits s around every number, keeping the numbers and
// dropping blank pieces and equals signs.
func splitKeepNumbers(s string) []string {
	parts := make([]string, 0, 4)
	last := 0

	appendPart := func(part string) {
		if part = strings.Trim(part, " \t="); part != "" {
			parts = append(parts, part)
		}
	}

	for _, loc := range numberRegex.FindAllStringIndex(s, -1) {
		appendPart(s[last:loc[0]])
		appendPart(s[loc[0]:loc[1]])
		last = loc[1]
	}

	appendPart(s[last:])

	return parts
}

func parseHowMuch(text string) (Command, bool, error) {
	for _, regex := range howMuchRegexes {
		match := regex.FindStringSubmatch(text)

		if match == nil {
			continue
		}

		command := Command{
			Kind:   CommandHowMuch,
			Amount: DefaultAmount,
			From:   strings.TrimSpace(match[regex.SubexpIndex("from")]),
			To:     strings.TrimSpace(match[regex.SubexpIndex("to")]),
		}

		if num := match[regex.SubexpIndex("num")]; num != "" {
			amount, err := strconv.ParseFloat(num, 64)

			if err != nil {
				return command, true, fmt.Errorf("%w: %v", currency.ErrMalformedCommand, err)
			}

			if amount <= 0 {
				return command, true, fmt.Errorf("%w: %v", currency.ErrInvalidAmount, amount)
			}

			command.Amount = amount
		}

		if command.From == "" || command.To == "" {
			return command, true, fmt.Errorf("%w: missing currency name", currency.ErrMalformedCommand)
		}

		return command, true, nil
	}

	return Command{}, false, nil
}

// rateArgs returns the tokens before a trailing rate keyword.
func rateArgs(text string) ([]string, bool) {
	if strings.HasSuffix(text, "汇率") {
		return strings.Fields(strings.TrimSuffix(text, "汇率")), true
	}

	fields := strings.Fields(text)

	if len(fields) > 1 && strings.EqualFold(fields[len(fields)-1], "rate") {
		return fields[:len(fields)-1], true
	}

	return nil, false
}
