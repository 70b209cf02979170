package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketbank/internal/domain"
	"pocketbank/internal/errors"
)

func TestGetOrCreateWalletIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, 1000)

	wallet, err := env.walletSvc.GetOrCreate(account)
	require.NoError(t, err)
	assert.Len(t, wallet.PIN, 4)
	assert.Equal(t, account.AccountNumber, wallet.AccountNumber)

	again, err := env.walletSvc.GetOrCreate(account)
	require.NoError(t, err)
	assert.Equal(t, wallet.ID, again.ID)
	assert.Equal(t, wallet.PIN, again.PIN)
}

func TestAddCardCapacity(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, 1000)
	wallet, err := env.walletSvc.GetOrCreate(account)
	require.NoError(t, err)

	for _, number := range testCardNumbers[:3] {
		env.createCard(t, number, 100)
		require.NoError(t, env.walletSvc.AddCard(wallet, number))
	}

	env.createCard(t, testCardNumbers[3], 100)
	err = env.walletSvc.AddCard(wallet, testCardNumbers[3])
	assert.ErrorIs(t, err, errors.ErrWalletFull)
	assert.Equal(t, 3, wallet.CardCount())
}

func TestAddCardRejectsDuplicatesAndUnknown(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, 1000)
	wallet, err := env.walletSvc.GetOrCreate(account)
	require.NoError(t, err)

	env.createCard(t, testCardNumbers[0], 100)
	require.NoError(t, env.walletSvc.AddCard(wallet, testCardNumbers[0]))

	assert.ErrorIs(t, env.walletSvc.AddCard(wallet, testCardNumbers[0]), errors.ErrCardAlreadyInWallet)
	assert.ErrorIs(t, env.walletSvc.AddCard(wallet, testCardNumbers[1]), errors.ErrCardNotFound)
}

func TestWalletRoundTripPersistence(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, 1000)
	wallet, err := env.walletSvc.GetOrCreate(account)
	require.NoError(t, err)

	for _, number := range testCardNumbers[:2] {
		env.createCard(t, number, 100)
		require.NoError(t, env.walletSvc.AddCard(wallet, number))
	}

	reloaded, err := env.wallets.Get(account.AccountNumber)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.CardCount())
	assert.Equal(t, wallet.ID, reloaded.ID)

	for _, number := range reloaded.CardNumbers() {
		card, err := env.cardSvc.GetByNumber(number)
		require.NoError(t, err)
		assert.Equal(t, number, card.Number)
	}
}

func TestTransferBetweenWalletCardsScenario(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, 1000)
	wallet, err := env.walletSvc.GetOrCreate(account)
	require.NoError(t, err)

	env.createCard(t, testCardNumbers[0], 500)
	env.createCard(t, testCardNumbers[1], 200)
	require.NoError(t, env.walletSvc.AddCard(wallet, testCardNumbers[0]))
	require.NoError(t, env.walletSvc.AddCard(wallet, testCardNumbers[1]))

	err = env.walletSvc.TransferBetweenWalletCards(wallet, testCardNumbers[0], testCardNumbers[1], decimal.NewFromInt(300))
	require.NoError(t, err)

	source, err := env.cardSvc.GetByNumber(testCardNumbers[0])
	require.NoError(t, err)
	target, err := env.cardSvc.GetByNumber(testCardNumbers[1])
	require.NoError(t, err)
	assert.Equal(t, "200.00", source.Balance.String())
	assert.Equal(t, "500.00", target.Balance.String())

	// The cached snapshots were refreshed as well.
	assert.Equal(t, "200.00", wallet.Cards[testCardNumbers[0]].Balance.String())
	assert.Equal(t, "500.00", wallet.Cards[testCardNumbers[1]].Balance.String())
}

func TestTransferBetweenWalletCardsRequiresTwoCards(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, 1000)
	wallet, err := env.walletSvc.GetOrCreate(account)
	require.NoError(t, err)

	env.createCard(t, testCardNumbers[0], 500)
	require.NoError(t, env.walletSvc.AddCard(wallet, testCardNumbers[0]))

	err = env.walletSvc.TransferBetweenWalletCards(wallet, testCardNumbers[0], testCardNumbers[1], decimal.NewFromInt(10))
	assert.ErrorIs(t, err, errors.ErrNotEnoughCards)
}

func TestTransferToWalletRoutesThroughAccount(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, 1000)
	wallet, err := env.walletSvc.GetOrCreate(account)
	require.NoError(t, err)

	env.createCard(t, testCardNumbers[0], 500)
	require.NoError(t, env.walletSvc.AddCard(wallet, testCardNumbers[0]))

	require.NoError(t, env.walletSvc.TransferToWallet(wallet, testCardNumbers[0], decimal.NewFromInt(200)))

	assert.Equal(t, "200.00", wallet.Balance.String())
	assert.True(t, wallet.LastTransfer.Equal(decimal.NewFromInt(200)))

	card, err := env.cardSvc.GetByNumber(testCardNumbers[0])
	require.NoError(t, err)
	assert.Equal(t, "300.00", card.Balance.String())

	// The account was only an intermediary: net balance unchanged.
	stored, err := env.accountSvc.GetByAccount(account.SortCode, account.AccountNumber)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", stored.Balance.String())
}

func TestWalletBankTransfersAreSymmetric(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, 1000)
	wallet, err := env.walletSvc.GetOrCreate(account)
	require.NoError(t, err)

	require.NoError(t, env.walletSvc.TransferBankToWallet(wallet, decimal.NewFromInt(400)))
	assert.Equal(t, "400.00", wallet.Balance.String())

	require.NoError(t, env.walletSvc.TransferWalletToBank(wallet, decimal.NewFromInt(150)))
	assert.Equal(t, "250.00", wallet.Balance.String())

	stored, err := env.accountSvc.GetByAccount(account.SortCode, account.AccountNumber)
	require.NoError(t, err)
	assert.Equal(t, "750.00", stored.Balance.String())
}

func TestCanTransferIsLenient(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, 1000)
	wallet, err := env.walletSvc.GetOrCreate(account)
	require.NoError(t, err)

	assert.True(t, env.walletSvc.CanTransfer(wallet, domain.SourceBank, decimal.NewFromInt(1000)))
	assert.False(t, env.walletSvc.CanTransfer(wallet, domain.SourceBank, decimal.NewFromInt(1001)))
	assert.False(t, env.walletSvc.CanTransfer(wallet, domain.SourceWallet, decimal.NewFromInt(1)))
	assert.False(t, env.walletSvc.CanTransfer(wallet, domain.BalanceSource("savings"), decimal.NewFromInt(1)))
}

func TestFundCardsChargesOnlyForSavedCards(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, 1000)
	wallet, err := env.walletSvc.GetOrCreate(account)
	require.NoError(t, err)

	for _, number := range testCardNumbers[:3] {
		env.createCard(t, number, 0)
		require.NoError(t, env.walletSvc.AddCard(wallet, number))
	}

	// The middle card is blocked and must be skipped, not charged for.
	blocked, err := env.cardSvc.GetByNumber(testCardNumbers[1])
	require.NoError(t, err)
	require.NoError(t, env.cardSvc.Freeze(blocked))

	result, err := env.walletSvc.FundCards(wallet,
		testCardNumbers[:3],
		decimal.NewFromInt(30),
		decimal.NewFromInt(10),
		domain.SourceBank,
	)
	require.NoError(t, err)
	assert.True(t, result.Saved)
	assert.Len(t, result.CardsSaved, 2)

	stored, err := env.accountSvc.GetByAccount(account.SortCode, account.AccountNumber)
	require.NoError(t, err)
	assert.Equal(t, "980.00", stored.Balance.String())

	skipped, err := env.cardSvc.GetByNumber(testCardNumbers[1])
	require.NoError(t, err)
	assert.Equal(t, "0.00", skipped.Balance.String())
}

func TestFundCardsAllSkippedReportsFailure(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, 1000)
	wallet, err := env.walletSvc.GetOrCreate(account)
	require.NoError(t, err)

	result, err := env.walletSvc.FundCards(wallet,
		[]string{testCardNumbers[0]},
		decimal.NewFromInt(10),
		decimal.NewFromInt(10),
		domain.SourceBank,
	)
	require.NoError(t, err)
	assert.False(t, result.Saved)
	assert.Empty(t, result.CardsSaved)

	stored, err := env.accountSvc.GetByAccount(account.SortCode, account.AccountNumber)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", stored.Balance.String())
}

func TestFundCardsValidation(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, 1000)
	wallet, err := env.walletSvc.GetOrCreate(account)
	require.NoError(t, err)

	_, err = env.walletSvc.FundCards(wallet, nil, decimal.NewFromInt(10), decimal.NewFromInt(10), domain.SourceBank)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = env.walletSvc.FundCards(wallet, testCardNumbers[:1], decimal.Zero, decimal.NewFromInt(10), domain.SourceBank)
	assert.ErrorIs(t, err, errors.ErrInvalidAmount)

	_, err = env.walletSvc.FundCards(wallet, testCardNumbers[:1], decimal.NewFromInt(10), decimal.NewFromInt(10), domain.BalanceSource("savings"))
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestRemoveCardKeepsAuthoritativeRecord(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, 1000)
	wallet, err := env.walletSvc.GetOrCreate(account)
	require.NoError(t, err)

	env.createCard(t, testCardNumbers[0], 100)
	require.NoError(t, env.walletSvc.AddCard(wallet, testCardNumbers[0]))

	require.NoError(t, env.walletSvc.RemoveCard(wallet, testCardNumbers[0], true))
	assert.Equal(t, 0, wallet.CardCount())

	// The card itself still exists.
	_, err = env.cardSvc.GetByNumber(testCardNumbers[0])
	assert.NoError(t, err)
}

func TestRemoveCardCompletelyFailsAtomically(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, 1000)
	wallet, err := env.walletSvc.GetOrCreate(account)
	require.NoError(t, err)

	env.createCard(t, testCardNumbers[0], 100)
	require.NoError(t, env.walletSvc.AddCard(wallet, testCardNumbers[0]))

	// Nonzero balance: the authoritative delete fails, so the wallet
	// reference must survive.
	err = env.walletSvc.RemoveCardCompletely(wallet, testCardNumbers[0])
	assert.ErrorIs(t, err, errors.ErrCardNotEmpty)
	assert.True(t, wallet.HasCard(testCardNumbers[0]))

	card, err := env.cardSvc.GetByNumber(testCardNumbers[0])
	require.NoError(t, err)
	require.NoError(t, env.cardSvc.Debit(card, decimal.NewFromInt(100)))

	require.NoError(t, env.walletSvc.RemoveCardCompletely(wallet, testCardNumbers[0]))
	assert.False(t, wallet.HasCard(testCardNumbers[0]))

	_, err = env.cardSvc.GetByNumber(testCardNumbers[0])
	assert.ErrorIs(t, err, errors.ErrCardNotFound)
}

func TestMarkAndRemoveFlaggedCards(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, 1000)
	wallet, err := env.walletSvc.GetOrCreate(account)
	require.NoError(t, err)

	for _, number := range testCardNumbers[:3] {
		env.createCard(t, number, 0)
		require.NoError(t, env.walletSvc.AddCard(wallet, number))
	}

	require.NoError(t, env.walletSvc.MarkCardForRemoval(wallet, testCardNumbers[0]))
	require.NoError(t, env.walletSvc.MarkCardForRemoval(wallet, testCardNumbers[2]))

	// Marking is a toggle: unmark the first again.
	require.NoError(t, env.walletSvc.MarkCardForRemoval(wallet, testCardNumbers[0]))

	removed, err := env.walletSvc.RemoveMarkedCards(wallet)
	require.NoError(t, err)
	assert.Len(t, removed, 1)
	assert.Equal(t, 2, wallet.CardCount())
	assert.False(t, wallet.HasCard(testCardNumbers[2]))

	// Bulk removal only drops wallet references.
	_, err = env.cardSvc.GetByNumber(testCardNumbers[2])
	assert.NoError(t, err)

	// Nothing left to remove.
	removed, err = env.walletSvc.RemoveMarkedCards(wallet)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestMarkCardForRemovalUnknownCard(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, 1000)
	wallet, err := env.walletSvc.GetOrCreate(account)
	require.NoError(t, err)

	err = env.walletSvc.MarkCardForRemoval(wallet, testCardNumbers[0])
	assert.ErrorIs(t, err, errors.ErrCardNotInWallet)
}
