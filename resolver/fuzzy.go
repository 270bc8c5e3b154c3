package resolver

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

type normalizedName struct {
	plain  string
	sorted string
}

// normalize folds full-width forms and case, then drops whitespace and punctuation.
func normalize(s string) normalizedName {
	folded := cases.Fold().String(width.Fold.String(s))
	tokens := strings.FieldsFunc(folded, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})

	plain := strings.Join(tokens, "")
	sort.Strings(tokens)

	return normalizedName{plain: plain, sorted: strings.Join(tokens, "")}
}

func (n normalizedName) similarity(other normalizedName) int {
	if n.plain == "" || other.plain == "" {
		return 0
	}

	score := ratio(n.plain, other.plain)

	if sorted := ratio(n.sorted, other.sorted); sorted > score {
		score = sorted
	}

	return score
}

// ratio is 100*(|a|+|b|-lev(a,b))/(|a|+|b|) over runes; only equal strings score 100.
func ratio(a, b string) int {
	if a == b {
		return 100
	}

	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	distance := levenshtein.ComputeDistance(a, b)
	score := int(math.Round(100 * float64(total-distance) / float64(total)))

	if score > 99 {
		score = 99
	}

	return score
}

// Similarity scores two free-text names from 0 to 100.
func Similarity(a, b string) int {
	return normalize(a).similarity(normalize(b))
}
