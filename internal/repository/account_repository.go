package repository

import (
	"encoding/json"
	"log/slog"

	"pocketbank/internal/domain"
	"pocketbank/internal/errors"
	"pocketbank/internal/kvstore"
)

type bankAccountRepository struct {
	records *kvstore.Records
	logger  *slog.Logger
}

func NewBankAccountRepository(records *kvstore.Records, logger *slog.Logger) domain.BankAccountRepository {
	return &bankAccountRepository{
		records: records,
		logger:  logger,
	}
}

// accountFields is the field selection used when reconstituting an account
// from its stored record; a record missing any of them is treated as
// malformed.
var accountFields = []string{"id", "sort_code", "account_number", "balance", "created_at"}

func (r *bankAccountRepository) Get(sortCode, accountNumber string) (*domain.BankAccount, error) {
	key := sortCode + accountNumber

	raw, ok := r.records.LoadSubRecord(kvstore.BucketBankAccounts, key)
	if !ok {
		r.logger.Warn("Bank account not found", "account", key)
		return nil, errors.ErrAccountNotFound
	}

	selected, err := r.records.LoadSelected(raw, accountFields)
	if err != nil {
		return nil, err
	}
	if len(selected) != len(accountFields) {
		r.logger.Error("Stored bank account record has wrong shape", "account", key)
		return nil, errors.ErrAccountNotFound
	}

	data, err := json.Marshal(selected)
	if err != nil {
		r.logger.Error("Failed to rebuild bank account record", "account", key, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to rebuild bank account").WithDetails(err.Error())
	}

	var account domain.BankAccount
	if err := json.Unmarshal(data, &account); err != nil {
		r.logger.Error("Failed to decode bank account", "account", key, "error", err)
		return nil, errors.ErrAccountNotFound
	}
	return &account, nil
}

func (r *bankAccountRepository) Save(account *domain.BankAccount) error {
	ok, err := r.records.SaveSubRecord(kvstore.BucketBankAccounts, account.FullNumber(), account)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrPersistenceFailure
	}
	return nil
}
