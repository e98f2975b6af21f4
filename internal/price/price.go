// Package price handles price and size values from prediction market APIs
// without losing precision.
package price

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Price is a fixed-point decimal with six fractional digits.
type Price int64

// Size is a share quantity in the same fixed-point representation.
type Size int64

var (
	_ json.Unmarshaler = (*Price)(nil)
	_ json.Unmarshaler = (*Size)(nil)
)

const PriceScale int64 = 1_000_000

func (p *Price) UnmarshalJSON(data []byte) error {
	v, err := parseFixed(data)
	if err != nil {
		return err
	}
	*p = Price(v)
	return nil
}

func (s *Size) UnmarshalJSON(data []byte) error {
	v, err := parseFixed(data)
	if err != nil {
		return err
	}
	*s = Size(v)
	return nil
}

// Parse converts a decimal string such as "0.65" to a Price.
func Parse(s string) (Price, error) {
	v, err := parseFixed([]byte(s))
	return Price(v), err
}

func (p Price) Float64() float64 { return float64(p) / float64(PriceScale) }
func (s Size) Float64() float64  { return float64(s) / float64(PriceScale) }

func (p Price) String() string {
	return formatFixed(int64(p))
}

func (s Size) String() string {
	return formatFixed(int64(s))
}

func formatFixed(v int64) string {
	return strconv.FormatFloat(float64(v)/float64(PriceScale), 'f', -1, 64)
}

// parseFixed accepts a quoted or raw decimal number. Fractional digits beyond
// the scale are truncated.
func parseFixed(data []byte) (int64, error) {
	if len(data) > 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	// Else we assume that it is a raw number.

	if len(data) == 0 {
		return 0, fmt.Errorf("empty number")
	}

	var res int64
	i := 0

	for i < len(data) && data[i] != '.' {
		if data[i] < '0' || data[i] > '9' {
			return 0, fmt.Errorf("invalid decimal %q", data)
		}
		res = res*10 + int64(data[i]-'0')*PriceScale
		i++
	}

	if i < len(data) && data[i] == '.' {
		i++
		mult := PriceScale
		for i < len(data) {
			if data[i] < '0' || data[i] > '9' {
				return 0, fmt.Errorf("invalid decimal %q", data)
			}
			mult /= 10
			res += int64(data[i]-'0') * mult
			i++
		}
	}

	return res, nil
}
