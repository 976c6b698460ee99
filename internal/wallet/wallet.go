// Package wallet holds the in-game currencies and their fixed-point amounts.
package wallet

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Token - in-game currency symbol
type Token string

const (
	OXY Token = "OXY"
	KO  Token = "KO"
)

// Decimals is the number of fractional digits of one whole token.
const Decimals = 18

var (
	ErrUnknownToken  = errors.New("token must be OXY or KO")
	ErrInvalidAmount = errors.New("invalid amount")
)

var unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

// ParseToken accepts a token symbol in any case.
func ParseToken(s string) (Token, error) {
	switch t := Token(strings.ToUpper(strings.TrimSpace(s))); t {
	case OXY, KO:
		return t, nil
	default:
		return "", ErrUnknownToken
	}
}

// ParseAmount converts a positive decimal amount of whole tokens ("1.5")
// into base units. The conversion is exact.
func ParseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, "/") {
		return nil, ErrInvalidAmount
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, ErrInvalidAmount
	}
	if r.Sign() <= 0 {
		return nil, fmt.Errorf("%w: must be positive", ErrInvalidAmount)
	}
	r.Mul(r, new(big.Rat).SetInt(unit))
	if !r.IsInt() {
		return nil, fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, Decimals)
	}
	return new(big.Int).Set(r.Num()), nil
}

// FormatAmount renders base units as whole tokens without trailing zeros.
func FormatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	q, r := new(big.Int).QuoRem(new(big.Int).Abs(v), unit, new(big.Int))

	out := q.String()
	if r.Sign() != 0 {
		digits := r.String()
		digits = strings.Repeat("0", Decimals-len(digits)) + digits
		out += "." + strings.TrimRight(digits, "0")
	}
	if v.Sign() < 0 {
		out = "-" + out
	}
	return out
}
