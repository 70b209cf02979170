package service

import (
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"pocketbank/internal/domain"
	"pocketbank/internal/kvstore"
	"pocketbank/internal/repository"
)

type testEnv struct {
	cards      domain.CardRepository
	accounts   domain.BankAccountRepository
	wallets    domain.WalletRepository
	accountSvc *AccountService
	cardSvc    *CardService
	walletSvc  *WalletService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	records := kvstore.NewRecords(kvstore.NewMemoryStore(logger), logger)

	cards := repository.NewCardRepository(records, logger)
	accounts := repository.NewBankAccountRepository(records, logger)
	wallets := repository.NewWalletRepository(records, logger)

	accountSvc := NewAccountService(accounts, cards, logger)
	cardSvc := NewCardService(cards, logger)
	walletSvc := NewWalletService(wallets, cards, accounts, accountSvc, cardSvc, logger)

	return &testEnv{
		cards:      cards,
		accounts:   accounts,
		wallets:    wallets,
		accountSvc: accountSvc,
		cardSvc:    cardSvc,
		walletSvc:  walletSvc,
	}
}

// testCardNumbers are valid-length demo PANs used across the service tests.
var testCardNumbers = []string{
	"4532015112830366",
	"5425233430109903",
	"4916338506082832",
	"6011000990139424",
}

func (e *testEnv) createCard(t *testing.T, number string, balance int64) *domain.Card {
	t.Helper()

	card, err := e.cardSvc.Create(CreateCardParams{
		HolderName:     "Alex Holder",
		Number:         number,
		ExpiryMonth:    8,
		ExpiryYear:     2030,
		CVC:            "123",
		Type:           "debit",
		Brand:          "visa",
		InitialBalance: decimal.NewFromInt(balance),
	})
	require.NoError(t, err)
	return card
}

func (e *testEnv) createAccount(t *testing.T, balance int64) *domain.BankAccount {
	t.Helper()

	account, err := e.accountSvc.CreateAccount("112233", "87654321", decimal.NewFromInt(balance))
	require.NoError(t, err)
	return account
}
