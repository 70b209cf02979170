package domain

import (
	"github.com/shopspring/decimal"

	"pocketbank/internal/errors"
)

// Amount is a monetary balance. Add and Deduct validate their input and keep
// the balance non-negative; every mutation re-rounds to two decimal places.
// Set is the unchecked path used for administrative resets and when
// reconstituting an entity from storage — it rounds but does not validate.
type Amount struct {
	value decimal.Decimal
}

func NewAmount(initial decimal.Decimal) Amount {
	return Amount{value: initial.Round(2)}
}

func ZeroAmount() Amount {
	return Amount{value: decimal.Zero}
}

func (a Amount) Value() decimal.Decimal {
	return a.value
}

// Covers reports whether deducting v would leave the balance non-negative.
func (a Amount) Covers(v decimal.Decimal) bool {
	return a.value.Sub(v).GreaterThanOrEqual(decimal.Zero)
}

func (a *Amount) Add(v decimal.Decimal) error {
	if !v.IsPositive() {
		return errors.ErrInvalidAmount
	}
	a.value = a.value.Add(v).Round(2)
	return nil
}

func (a *Amount) Deduct(v decimal.Decimal) error {
	if !v.IsPositive() {
		return errors.ErrInvalidAmount
	}
	if v.GreaterThan(a.value) {
		return errors.ErrInsufficientFunds
	}
	a.value = a.value.Sub(v).Round(2)
	return nil
}

func (a *Amount) Set(v decimal.Decimal) {
	a.value = v.Round(2)
}

func (a Amount) String() string {
	return a.value.StringFixed(2)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return a.value.MarshalJSON()
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var v decimal.Decimal
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	a.value = v.Round(2)
	return nil
}
