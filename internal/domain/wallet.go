package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxCardsAllowed is the wallet card capacity.
const MaxCardsAllowed = 3

// BalanceSource names which balance a transfer draws from.
type BalanceSource string

const (
	SourceBank   BalanceSource = "bank"
	SourceWallet BalanceSource = "wallet"
)

// CardRef is the wallet's per-card metadata, kept alongside the cached
// snapshot and used by the two-phase bulk-removal workflow.
type CardRef struct {
	Added             time.Time `json:"added"`
	FlaggedForRemoval bool      `json:"flagged_for_removal"`
	CardID            uuid.UUID `json:"card_id"`
}

// Wallet is the aggregate root: it links one bank account by identity
// (re-fetched on use, never cached), holds up to MaxCardsAllowed cards as
// cached snapshots, and carries its own balance independent of the account.
//
// Cards holds snapshots of the authoritative card records; the snapshots
// are refreshed after every operation that mutates a card through the
// wallet, but a card mutated elsewhere can drift until the next refresh.
// A card number appears in Cards if and only if it appears in CardRefs;
// PutCard and DropCard maintain that together.
type Wallet struct {
	ID                 uuid.UUID          `json:"id"`
	PIN                string             `json:"pin"`
	SortCode           string             `json:"sort_code"`
	AccountNumber      string             `json:"account_number"`
	Cards              map[string]*Card   `json:"cards"`
	CardRefs           map[string]CardRef `json:"card_refs"`
	Balance            Amount             `json:"balance"`
	LastTransfer       decimal.Decimal    `json:"last_transfer"`
	LastAmountReceived decimal.Decimal    `json:"last_amount_received"`
}

func (w *Wallet) CardCount() int {
	return len(w.Cards)
}

func (w *Wallet) HasCard(number string) bool {
	_, ok := w.Cards[number]
	return ok
}

// PutCard stores or refreshes the cached snapshot for card, creating the
// metadata entry on first add.
func (w *Wallet) PutCard(card *Card) {
	if w.Cards == nil {
		w.Cards = make(map[string]*Card)
	}
	if w.CardRefs == nil {
		w.CardRefs = make(map[string]CardRef)
	}
	w.Cards[card.Number] = card
	if _, ok := w.CardRefs[card.Number]; !ok {
		w.CardRefs[card.Number] = CardRef{Added: time.Now(), CardID: card.ID}
	}
}

// DropCard removes the wallet's reference to the card: both the snapshot
// and the metadata entry.
func (w *Wallet) DropCard(number string) {
	delete(w.Cards, number)
	delete(w.CardRefs, number)
}

// CardNumbers returns the numbers of all cards in the wallet, sorted.
func (w *Wallet) CardNumbers() []string {
	numbers := make([]string, 0, len(w.Cards))
	for number := range w.Cards {
		numbers = append(numbers, number)
	}
	sort.Strings(numbers)
	return numbers
}

// FlaggedCardNumbers returns the numbers of all cards marked for removal,
// sorted.
func (w *Wallet) FlaggedCardNumbers() []string {
	var numbers []string
	for number, ref := range w.CardRefs {
		if ref.FlaggedForRemoval {
			numbers = append(numbers, number)
		}
	}
	sort.Strings(numbers)
	return numbers
}

// VerifyPIN compares the stored PIN with the supplied value. Plain string
// equality, matching the behaviour of the system this replaces; hardening
// is out of scope.
func (w *Wallet) VerifyPIN(pin string) bool {
	return w.PIN == pin
}

type WalletRepository interface {
	Get(accountNumber string) (*Wallet, error)
	Save(wallet *Wallet) error
}
