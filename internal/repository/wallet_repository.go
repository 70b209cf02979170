package repository

import (
	"encoding/json"
	"log/slog"

	"pocketbank/internal/domain"
	"pocketbank/internal/errors"
	"pocketbank/internal/kvstore"
)

type walletRepository struct {
	records *kvstore.Records
	logger  *slog.Logger
}

func NewWalletRepository(records *kvstore.Records, logger *slog.Logger) domain.WalletRepository {
	return &walletRepository{
		records: records,
		logger:  logger,
	}
}

// Wallets are keyed by account number: one wallet per bank account.
func (r *walletRepository) Get(accountNumber string) (*domain.Wallet, error) {
	raw, ok := r.records.LoadSubRecord(kvstore.BucketWallets, accountNumber)
	if !ok {
		return nil, errors.ErrWalletNotFound
	}

	var wallet domain.Wallet
	if err := json.Unmarshal(raw, &wallet); err != nil {
		r.logger.Error("Failed to decode wallet", "account_number", accountNumber, "error", err)
		return nil, errors.ErrWalletNotFound
	}
	if wallet.Cards == nil {
		wallet.Cards = make(map[string]*domain.Card)
	}
	if wallet.CardRefs == nil {
		wallet.CardRefs = make(map[string]domain.CardRef)
	}
	return &wallet, nil
}

func (r *walletRepository) Save(wallet *domain.Wallet) error {
	ok, err := r.records.SaveSubRecord(kvstore.BucketWallets, wallet.AccountNumber, wallet)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrPersistenceFailure
	}
	return nil
}
