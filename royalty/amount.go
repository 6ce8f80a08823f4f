package royalty

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// amountBits is the width of the supported amount range.
const amountBits = 128

// Amount is an unsigned 128-bit quantity of the sale currency.
// The zero value is a valid zero amount.
type Amount struct {
	v uint256.Int
}

// NewAmount returns the amount for v.
func NewAmount(v uint64) Amount {
	var a Amount
	a.v.SetUint64(v)
	return a
}

// ParseAmount parses a base-10 amount. Values wider than 128 bits fail with
// ErrArithmeticOverflow.
func ParseAmount(s string) (Amount, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return AmountFromBig(b)
}

// MustParseAmount is like ParseAmount but panics on error. Intended for
// constants and tests.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AmountFromBig converts b to an Amount.
func AmountFromBig(b *big.Int) (Amount, error) {
	if b == nil || b.Sign() < 0 {
		return Amount{}, fmt.Errorf("%w: negative or nil", ErrInvalidAmount)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return Amount{}, fmt.Errorf("%w: %s exceeds %d bits", ErrArithmeticOverflow, b, amountBits)
	}
	return fromInt(v)
}

func fromInt(v *uint256.Int) (Amount, error) {
	if v.BitLen() > amountBits {
		return Amount{}, fmt.Errorf("%w: %s exceeds %d bits", ErrArithmeticOverflow, v.Dec(), amountBits)
	}
	return Amount{v: *v}, nil
}

// String returns the base-10 form of a.
func (a Amount) String() string { return a.v.Dec() }

// Big returns a as a big.Int.
func (a Amount) Big() *big.Int { return a.v.ToBig() }

// Uint64 returns a as a uint64 and whether it fits.
func (a Amount) Uint64() (uint64, bool) {
	return a.v.Uint64(), a.v.IsUint64()
}

// IsZero reports whether a is zero.
func (a Amount) IsZero() bool { return a.v.IsZero() }

// Cmp compares a and b and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int { return a.v.Cmp(&b.v) }

// Add returns a+b, failing with ErrArithmeticOverflow past 128 bits.
func (a Amount) Add(b Amount) (Amount, error) {
	var sum uint256.Int
	if _, overflow := sum.AddOverflow(&a.v, &b.v); overflow {
		return Amount{}, ErrArithmeticOverflow
	}
	return fromInt(&sum)
}

// Sub returns a-b, failing with ErrArithmeticOverflow when b > a.
func (a Amount) Sub(b Amount) (Amount, error) {
	if a.v.Lt(&b.v) {
		return Amount{}, fmt.Errorf("%w: %s - %s underflows", ErrArithmeticOverflow, a, b)
	}
	var diff uint256.Int
	diff.Sub(&a.v, &b.v)
	return Amount{v: diff}, nil
}

// MarshalJSON encodes a as a decimal string, the usual wire form for
// balances wider than a JSON number can carry.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// basisPointsOf returns floor(share * a / TotalBasisPoints). The product is
// formed in 256 bits, so for 128-bit amounts it cannot overflow.
func basisPointsOf(share uint64, a Amount) (Amount, error) {
	var prod uint256.Int
	if _, overflow := prod.MulOverflow(uint256.NewInt(share), &a.v); overflow {
		return Amount{}, fmt.Errorf("%w: %d * %s", ErrArithmeticOverflow, share, a)
	}
	prod.Div(&prod, uint256.NewInt(TotalBasisPoints))
	return fromInt(&prod)
}
