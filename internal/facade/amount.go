package facade

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/congo-pay/localwallet/internal/domain"
)

// Bounds on accepted amounts. Arithmetic on a decimal rescales to the
// smaller exponent, so an unbounded exponent makes a single balance update
// arbitrarily expensive.
const (
	maxAmountScale  = 18
	maxAmountDigits = 38
	maxAmountLength = 64
)

// parseAmount coerces a raw request amount into a decimal. Numbers and
// numeric strings within the amount bounds are accepted; anything else is
// an invalid amount.
func parseAmount(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case decimal.Decimal:
		return checkAmount(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Decimal{}, domain.ErrInvalidAmount
		}
		return checkAmount(decimal.NewFromFloat(v))
	case float32:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Decimal{}, domain.ErrInvalidAmount
		}
		return checkAmount(decimal.NewFromFloat32(v))
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case json.Number:
		return parseAmountString(v.String())
	case string:
		return parseAmountString(v)
	default:
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}
}

func parseAmountString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if len(s) > maxAmountLength {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}
	return checkAmount(d)
}

// checkAmount rejects values whose exponent or coefficient is out of bounds.
func checkAmount(d decimal.Decimal) (decimal.Decimal, error) {
	exp := d.Exponent()
	if exp < -maxAmountScale || exp > maxAmountScale || d.NumDigits() > maxAmountDigits {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}
	return d, nil
}
