package service

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pocketbank/internal/domain"
	"pocketbank/internal/errors"
	"pocketbank/internal/validation"
)

// AccountService owns bank account creation and the card/account money
// movement operations. Validation and rule failures are returned before any
// in-memory mutation; a persistence failure after a mutation comes back as
// a persistence_failure error so the caller can tell the two apart.
type AccountService struct {
	accounts domain.BankAccountRepository
	cards    domain.CardRepository
	logger   *slog.Logger
}

func NewAccountService(accounts domain.BankAccountRepository, cards domain.CardRepository, logger *slog.Logger) *AccountService {
	return &AccountService{
		accounts: accounts,
		cards:    cards,
		logger:   logger,
	}
}

func (s *AccountService) CreateAccount(sortCode, accountNumber string, initialBalance decimal.Decimal) (*domain.BankAccount, error) {
	s.logger.Info("Creating bank account", "sort_code", sortCode, "account_number", accountNumber)

	if !validation.IsValidSortCode(sortCode) {
		return nil, errors.ErrInvalidSortCode
	}
	if !validation.IsValidAccountNumber(accountNumber) {
		return nil, errors.ErrInvalidAccountNumber
	}
	if initialBalance.IsNegative() {
		return nil, errors.ErrInvalidAmount
	}

	account := &domain.BankAccount{
		ID:            uuid.New(),
		SortCode:      sortCode,
		AccountNumber: accountNumber,
		Balance:       domain.NewAmount(initialBalance),
		CreatedAt:     time.Now(),
	}

	if err := s.accounts.Save(account); err != nil {
		return nil, err
	}

	s.logger.Info("Bank account created", "account", account.FullNumber())
	return account, nil
}

// GetByAccount always re-reads the store; callers must not hold on to stale
// account snapshots across operations.
func (s *AccountService) GetByAccount(sortCode, accountNumber string) (*domain.BankAccount, error) {
	return s.accounts.Get(sortCode, accountNumber)
}

// TransferToAccount moves amount from the card onto the account.
func (s *AccountService) TransferToAccount(account *domain.BankAccount, card *domain.Card, amount decimal.Decimal) error {
	if account == nil || card == nil {
		return errors.NewAppError(errors.InvalidInput, "account and card are required")
	}

	s.logger.Info("Transferring card funds to account",
		"card_number", card.Number,
		"account", account.FullNumber(),
		"amount", amount)

	if card.Blocked() {
		return errors.ErrCardBlocked
	}
	if !amount.IsPositive() {
		return errors.ErrInvalidAmount
	}
	if !card.Balance.Covers(amount) {
		return errors.ErrInsufficientFunds
	}

	if err := card.Debit(amount); err != nil {
		return err
	}
	if err := account.Balance.Add(amount); err != nil {
		return err
	}

	if err := s.cards.Save(card); err != nil {
		s.logger.Error("Card mutated but not persisted", "card_number", card.Number, "error", err)
		return err
	}
	if err := s.accounts.Save(account); err != nil {
		s.logger.Error("Account mutated but not persisted", "account", account.FullNumber(), "error", err)
		return err
	}
	return nil
}

// TransferBetweenCards moves amount from the source card to the target
// card. Both cards must be active; the rule checks all run before either
// balance changes.
func (s *AccountService) TransferBetweenCards(source, target *domain.Card, amount decimal.Decimal) error {
	if source == nil || target == nil {
		return errors.NewAppError(errors.InvalidInput, "source and target cards are required")
	}

	s.logger.Info("Transferring funds between cards",
		"source_card", source.Number,
		"target_card", target.Number,
		"amount", amount)

	if source.Number == target.Number {
		return errors.ErrSameCardTransfer
	}
	if source.Blocked() || target.Blocked() {
		return errors.ErrCardBlocked
	}
	if !amount.IsPositive() {
		return errors.ErrInvalidAmount
	}
	if !source.Balance.Covers(amount) {
		return errors.ErrInsufficientFunds
	}

	if err := source.Debit(amount); err != nil {
		return err
	}
	if err := target.Credit(amount); err != nil {
		return err
	}

	if err := s.cards.Save(source); err != nil {
		s.logger.Error("Source card mutated but not persisted", "card_number", source.Number, "error", err)
		return err
	}
	if err := s.cards.Save(target); err != nil {
		s.logger.Error("Target card mutated but not persisted", "card_number", target.Number, "error", err)
		return err
	}
	return nil
}
