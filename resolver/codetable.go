package resolver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/malusev998/currency-bot"
)

// CodeTable maps display names to currency codes. Names keep the order of
// the source file, which decides ties between equally similar names.
type CodeTable struct {
	names      []string
	codes      map[string]string
	normalized []normalizedName
}

func LoadCodeTable(path string) (*CodeTable, error) {
	file, err := os.Open(path)

	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", currency.ErrCodeTableMissing, path)
	}

	if err != nil {
		return nil, err
	}

	defer file.Close()

	table, err := ParseCodeTable(file)

	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return table, nil
}

func ParseCodeTable(r io.Reader) (*CodeTable, error) {
	decoder := json.NewDecoder(r)

	if err := expectDelim(decoder, '{'); err != nil {
		return nil, err
	}

	table := &CodeTable{codes: make(map[string]string)}

	for decoder.More() {
		token, err := decoder.Token()

		if err != nil {
			return nil, err
		}

		name, _ := token.(string)

		var code string

		if err := decoder.Decode(&code); err != nil {
			return nil, fmt.Errorf("code for %q: %w", name, err)
		}

		if _, exists := table.codes[name]; !exists {
			table.names = append(table.names, name)
			table.normalized = append(table.normalized, normalize(name))
		}

		table.codes[name] = strings.ToUpper(code)
	}

	if err := expectDelim(decoder, '}'); err != nil {
		return nil, err
	}

	if len(table.names) == 0 {
		return nil, fmt.Errorf("%w: table is empty", currency.ErrCodeTableMissing)
	}

	return table, nil
}

func expectDelim(decoder *json.Decoder, delim json.Delim) error {
	token, err := decoder.Token()

	if err != nil {
		return err
	}

	if d, ok := token.(json.Delim); !ok || d != delim {
		return fmt.Errorf("expected %q, got %v", delim, token)
	}

	return nil
}

func (t *CodeTable) Lookup(name string) (string, bool) {
	code, ok := t.codes[name]
	return code, ok
}

func (t *CodeTable) Names() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)

	return names
}

func (t *CodeTable) Len() int {
	return len(t.names)
}

// BestMatch returns the most similar name; the first one wins on ties.
func (t *CodeTable) BestMatch(query string) (string, int) {
	q := normalize(query)
	best, bestScore := "", -1

	for i, candidate := range t.normalized {
		if score := q.similarity(candidate); score > bestScore {
			best, bestScore = t.names[i], score
		}
	}

	return best, bestScore
}
