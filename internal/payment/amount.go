package payment

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a major-unit amount to minor units. The amount must be
// positive and carry at most two decimal places.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	minor := amount.Mul(hundred)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	if !minor.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %s overflows", ErrInvalidAmount, amount)
	}
	return minor.IntPart(), nil
}
