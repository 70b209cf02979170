package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pocketbank/internal/errors"
)

// CardStatus is the card's two-state machine: active or blocked.
type CardStatus string

const (
	CardStatusActive  CardStatus = "active"
	CardStatusBlocked CardStatus = "blocked"
)

// Card is a payment card with its own balance. The card number is its
// storage key. A blocked card rejects every balance mutation; the guard
// lives in Credit/Debit so no caller can bypass it.
type Card struct {
	ID          uuid.UUID  `json:"id"`
	HolderName  string     `json:"holder_name"`
	Number      string     `json:"number"`
	ExpiryMonth int        `json:"expiry_month"`
	ExpiryYear  int        `json:"expiry_year"`
	CVC         string     `json:"cvc"`
	Type        string     `json:"type"`
	Brand       string     `json:"brand"`
	Status      CardStatus `json:"status"`
	Balance     Amount     `json:"balance"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (c *Card) Blocked() bool {
	return c.Status == CardStatusBlocked
}

// Freeze moves the card to blocked. It reports whether a transition
// happened so callers can skip the persist on a no-op.
func (c *Card) Freeze() bool {
	if c.Status == CardStatusBlocked {
		return false
	}
	c.Status = CardStatusBlocked
	return true
}

// Unfreeze moves the card back to active, reporting whether it transitioned.
func (c *Card) Unfreeze() bool {
	if c.Status == CardStatusActive {
		return false
	}
	c.Status = CardStatusActive
	return true
}

func (c *Card) Credit(amount decimal.Decimal) error {
	if c.Blocked() {
		return errors.ErrCardBlocked
	}
	return c.Balance.Add(amount)
}

func (c *Card) Debit(amount decimal.Decimal) error {
	if c.Blocked() {
		return errors.ErrCardBlocked
	}
	return c.Balance.Deduct(amount)
}

type CardRepository interface {
	Get(number string) (*Card, error)
	Save(card *Card) error
	Delete(number string) error
}
