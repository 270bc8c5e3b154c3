package currency

import (
	"encoding/json"
	"fmt"
	"strings"
)

type (
	RateSheet struct {
		Base  string             `json:"-"`
		Time  int64              `json:"time"`
		Rates map[string]float64 `json:"rates"`
	}

	// Alias pegs a user defined currency: 1 unit equals Multiplier units of Code.
	Alias struct {
		Multiplier float64
		Code       string
	}

	Aliases map[string]Alias

	Money struct {
		Amount float64
		Name   string
	}

	Kind int
)

const (
	Undefined Kind = iota
	UserDefined
	Predefined
)

func (k Kind) String() string {
	switch k {
	case UserDefined:
		return "user-defined"
	case Predefined:
		return "predefined"
	}

	return "undefined"
}

// Rate returns the rate of code relative to the sheet's base.
func (s RateSheet) Rate(code string) (float64, error) {
	rate, ok := s.Rates[strings.ToUpper(code)]

	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrencyCode, code)
	}

	return rate, nil
}

func (a Alias) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{a.Multiplier, a.Code})
}

func (a *Alias) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if len(raw) != 2 {
		return fmt.Errorf("alias must be [multiplier, code], got %d elements", len(raw))
	}

	if err := json.Unmarshal(raw[0], &a.Multiplier); err != nil {
		return err
	}

	return json.Unmarshal(raw[1], &a.Code)
}

func (a Alias) String() string {
	return fmt.Sprintf("%s%s", FormatAmount(a.Multiplier), a.Code)
}

func NewMoney(amount float64, name string) (Money, error) {
	if amount <= 0 {
		return Money{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	return Money{Amount: amount, Name: strings.ToUpper(name)}, nil
}

func (m Money) String() string {
	return FormatAmount(m.Amount) + m.Name
}
