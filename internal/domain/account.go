package domain

import (
	"time"

	"github.com/google/uuid"
)

// BankAccount is a balance holder identified by sort code plus account
// number. The concatenation of the two is its storage key.
type BankAccount struct {
	ID            uuid.UUID `json:"id"`
	SortCode      string    `json:"sort_code"`
	AccountNumber string    `json:"account_number"`
	Balance       Amount    `json:"balance"`
	CreatedAt     time.Time `json:"created_at"`
}

// FullNumber is the combined account identifier used as the storage key.
func (a *BankAccount) FullNumber() string {
	return a.SortCode + a.AccountNumber
}

type BankAccountRepository interface {
	Get(sortCode, accountNumber string) (*BankAccount, error)
	Save(account *BankAccount) error
}
