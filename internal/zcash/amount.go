package zcash

import (
	"bytes"
	"fmt"
	"math"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	// ZatoshisPerZEC is the number of base units in one ZEC.
	ZatoshisPerZEC = 100_000_000
	amountPlaces   = 8
)

//nolint:golint,gochecknoglobals
var (
	maxZatoshis = decimal.NewFromInt(math.MaxInt64)
	minZatoshis = decimal.NewFromInt(math.MinInt64)
)

// Amount is an exact ZEC value. zcashd reports amounts either as JSON numbers
// or as numeric strings; both decode without going through float64.
type Amount struct {
	d decimal.Decimal
}

func NewAmountFromZatoshis(zatoshis int64) Amount {
	return Amount{d: decimal.New(zatoshis, -amountPlaces)}
}

func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	zatoshis := d.Shift(amountPlaces)
	if !zatoshis.IsInteger() {
		return Amount{}, fmt.Errorf("invalid amount %q: more than %d decimal places", s, amountPlaces)
	}
	if zatoshis.GreaterThan(maxZatoshis) || zatoshis.LessThan(minZatoshis) {
		return Amount{}, fmt.Errorf("invalid amount %q: out of int64 zatoshi range", s)
	}
	return Amount{d: d}, nil
}

// Zatoshis is exact for every Amount built by ParseAmount or decoded from
// JSON, since both reject values outside the int64 zatoshi range.
func (a Amount) Zatoshis() int64 {
	return a.d.Shift(amountPlaces).IntPart()
}

func (a Amount) Decimal() decimal.Decimal {
	return a.d
}

func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

func (a Amount) String() string {
	return a.d.StringFixed(amountPlaces)
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a Amount) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: a.String()}, nil
}
