package entity

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// Amount is a decimal quantity from the pricing API. The API renders decimal
// columns as JSON strings ("12.50") while computed values arrive as numbers,
// so both forms are accepted. It always marshals as a JSON number.
type Amount float64

// Float64 returns the amount as a float64.
func (a Amount) Float64() float64 {
	return float64(a)
}

// UnmarshalJSON accepts a JSON number, a numeric string or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "amount: decode string")
		}
		if s == "" {
			*a = 0

			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.Wrapf(err, "amount: parse %q", s)
		}
		*a = Amount(v)

		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.Wrap(err, "amount: decode number")
	}
	*a = Amount(v)

	return nil
}
