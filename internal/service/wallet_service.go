package service

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pocketbank/internal/domain"
	"pocketbank/internal/errors"
)

// WalletService implements every cross-entity operation: card membership,
// card-to-card transfers, wallet/bank balance movement, the partial-success
// bulk funding loop and the two-phase bulk removal workflow.
//
// The consistency discipline is re-fetch before mutate: the linked bank
// account and the authoritative card records are always re-read from the
// store, and the wallet's cached snapshots are refreshed after any
// operation that mutates a card through the wallet. All writes are
// last-writer-wins; there are no transactions below this layer.
type WalletService struct {
	wallets    domain.WalletRepository
	cards      domain.CardRepository
	accounts   domain.BankAccountRepository
	accountSvc *AccountService
	cardSvc    *CardService
	logger     *slog.Logger
}

func NewWalletService(
	wallets domain.WalletRepository,
	cards domain.CardRepository,
	accounts domain.BankAccountRepository,
	accountSvc *AccountService,
	cardSvc *CardService,
	logger *slog.Logger,
) *WalletService {
	return &WalletService{
		wallets:    wallets,
		cards:      cards,
		accounts:   accounts,
		accountSvc: accountSvc,
		cardSvc:    cardSvc,
		logger:     logger,
	}
}

// GetOrCreate returns the wallet linked to the account, creating it with a
// fresh id and generated PIN on first use. One wallet per bank account,
// keyed by account number.
func (s *WalletService) GetOrCreate(account *domain.BankAccount) (*domain.Wallet, error) {
	if account == nil {
		return nil, errors.NewAppError(errors.InvalidInput, "bank account is required")
	}

	wallet, err := s.wallets.Get(account.AccountNumber)
	if err == nil {
		return wallet, nil
	}
	if !stderrors.Is(err, errors.ErrWalletNotFound) {
		return nil, err
	}

	wallet = &domain.Wallet{
		ID:            uuid.New(),
		PIN:           generatePIN(),
		SortCode:      account.SortCode,
		AccountNumber: account.AccountNumber,
		Cards:         make(map[string]*domain.Card),
		CardRefs:      make(map[string]domain.CardRef),
		Balance:       domain.ZeroAmount(),
	}

	if err := s.wallets.Save(wallet); err != nil {
		return nil, err
	}

	s.logger.Info("Wallet created", "wallet_id", wallet.ID, "account_number", wallet.AccountNumber)
	return wallet, nil
}

func generatePIN() string {
	return fmt.Sprintf("%04d", rand.Intn(10000))
}

// AddCard links an existing card to the wallet. The card must exist in the
// authoritative store; the wallet keeps a snapshot of it.
func (s *WalletService) AddCard(wallet *domain.Wallet, cardNumber string) error {
	if wallet == nil {
		return errors.NewAppError(errors.InvalidInput, "wallet is required")
	}
	number := strings.TrimSpace(cardNumber)

	if wallet.CardCount() >= domain.MaxCardsAllowed {
		return errors.ErrWalletFull
	}
	if wallet.HasCard(number) {
		return errors.ErrCardAlreadyInWallet
	}

	card, err := s.cards.Get(number)
	if err != nil {
		return err
	}

	wallet.PutCard(card)
	if err := s.wallets.Save(wallet); err != nil {
		return err
	}

	s.logger.Info("Card added to wallet", "wallet_id", wallet.ID, "card_number", number)
	return nil
}

// RemoveCard drops the wallet's reference to the card, leaving the
// authoritative card record untouched. With persist false the change stays
// in memory only, for callers batching several removals.
func (s *WalletService) RemoveCard(wallet *domain.Wallet, cardNumber string, persist bool) error {
	number := strings.TrimSpace(cardNumber)
	if !wallet.HasCard(number) {
		return errors.ErrCardNotInWallet
	}

	wallet.DropCard(number)
	if !persist {
		return nil
	}
	return s.wallets.Save(wallet)
}

// RemoveCardCompletely deletes the authoritative card record and then drops
// the wallet's reference. The order matters: if the authoritative delete
// fails (blocked card, nonzero balance), the wallet keeps its reference and
// the error propagates.
func (s *WalletService) RemoveCardCompletely(wallet *domain.Wallet, cardNumber string) error {
	number := strings.TrimSpace(cardNumber)
	if !wallet.HasCard(number) {
		return errors.ErrCardNotInWallet
	}

	if err := s.cardSvc.Delete(number); err != nil {
		return err
	}

	wallet.DropCard(number)
	if err := s.wallets.Save(wallet); err != nil {
		return err
	}

	s.logger.Info("Card removed completely", "wallet_id", wallet.ID, "card_number", number)
	return nil
}

// TransferBetweenWalletCards moves funds between two cards held by the
// wallet. The money movement is delegated to the account service against
// the authoritative card records; the wallet's snapshots are refreshed on
// success.
func (s *WalletService) TransferBetweenWalletCards(wallet *domain.Wallet, sourceNumber, targetNumber string, amount decimal.Decimal) error {
	if wallet.CardCount() < 2 {
		return errors.ErrNotEnoughCards
	}
	sourceNumber = strings.TrimSpace(sourceNumber)
	targetNumber = strings.TrimSpace(targetNumber)
	if !wallet.HasCard(sourceNumber) || !wallet.HasCard(targetNumber) {
		return errors.ErrCardNotInWallet
	}

	source, err := s.cards.Get(sourceNumber)
	if err != nil {
		return err
	}
	target, err := s.cards.Get(targetNumber)
	if err != nil {
		return err
	}

	if err := s.accountSvc.TransferBetweenCards(source, target, amount); err != nil {
		return err
	}

	wallet.PutCard(source)
	wallet.PutCard(target)
	return s.wallets.Save(wallet)
}

// TransferToWallet moves funds from a wallet card onto the wallet's own
// balance, routed through the linked bank account: the card pays the
// account, the account pays the wallet, leaving the account balance net
// unchanged.
func (s *WalletService) TransferToWallet(wallet *domain.Wallet, cardNumber string, amount decimal.Decimal) error {
	number := strings.TrimSpace(cardNumber)
	if !wallet.HasCard(number) {
		return errors.ErrCardNotInWallet
	}

	card, err := s.cards.Get(number)
	if err != nil {
		return err
	}
	account, err := s.accounts.Get(wallet.SortCode, wallet.AccountNumber)
	if err != nil {
		return err
	}

	if err := s.accountSvc.TransferToAccount(account, card, amount); err != nil {
		return err
	}
	if err := account.Balance.Deduct(amount); err != nil {
		return err
	}
	if err := wallet.Balance.Add(amount); err != nil {
		return err
	}

	wallet.LastTransfer = amount
	wallet.LastAmountReceived = amount
	wallet.PutCard(card)

	if err := s.accounts.Save(account); err != nil {
		s.logger.Error("Account mutated but not persisted", "account", account.FullNumber(), "error", err)
		return err
	}
	return s.wallets.Save(wallet)
}

// TransferWalletToBank moves funds from the wallet's own balance onto the
// linked bank account.
func (s *WalletService) TransferWalletToBank(wallet *domain.Wallet, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.ErrInvalidAmount
	}

	account, err := s.accounts.Get(wallet.SortCode, wallet.AccountNumber)
	if err != nil {
		return err
	}

	if err := wallet.Balance.Deduct(amount); err != nil {
		return err
	}
	if err := account.Balance.Add(amount); err != nil {
		return err
	}
	wallet.LastTransfer = amount

	if err := s.accounts.Save(account); err != nil {
		s.logger.Error("Account mutated but not persisted", "account", account.FullNumber(), "error", err)
		return err
	}
	return s.wallets.Save(wallet)
}

// TransferBankToWallet moves funds from the linked bank account onto the
// wallet's own balance.
func (s *WalletService) TransferBankToWallet(wallet *domain.Wallet, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.ErrInvalidAmount
	}

	account, err := s.accounts.Get(wallet.SortCode, wallet.AccountNumber)
	if err != nil {
		return err
	}

	if err := account.Balance.Deduct(amount); err != nil {
		return err
	}
	if err := wallet.Balance.Add(amount); err != nil {
		return err
	}
	wallet.LastAmountReceived = amount

	if err := s.accounts.Save(account); err != nil {
		s.logger.Error("Account mutated but not persisted", "account", account.FullNumber(), "error", err)
		return err
	}
	return s.wallets.Save(wallet)
}

// CanTransfer is the lenient pre-check the UI calls before showing a
// transfer form: it never returns an error, only whether the chosen balance
// covers the amount. An unknown source is logged and reported as false.
func (s *WalletService) CanTransfer(wallet *domain.Wallet, source domain.BalanceSource, amount decimal.Decimal) bool {
	switch source {
	case domain.SourceBank:
		account, err := s.accounts.Get(wallet.SortCode, wallet.AccountNumber)
		if err != nil {
			s.logger.Warn("Cannot resolve linked account", "account_number", wallet.AccountNumber, "error", err)
			return false
		}
		return account.Balance.Covers(amount)
	case domain.SourceWallet:
		return wallet.Balance.Covers(amount)
	default:
		s.logger.Warn("Unknown balance source", "source", string(source))
		return false
	}
}

// BulkFundingResult reports the outcome of FundCards: whether any card was
// funded and saved, and which ones.
type BulkFundingResult struct {
	Saved      bool
	CardsSaved []*domain.Card
}

// FundCards credits amountPerCard to each resolvable, active card in
// cardNumbers, then charges the source balance only for the cards that were
// both funded and saved. Blocked and missing cards are skipped with a log
// line, and a card whose save fails is neither counted nor charged for. A
// caller asking to fund N cards where only M succeed pays for M.
func (s *WalletService) FundCards(wallet *domain.Wallet, cardNumbers []string, totalAmount, amountPerCard decimal.Decimal, source domain.BalanceSource) (*BulkFundingResult, error) {
	if wallet == nil || len(cardNumbers) == 0 {
		return nil, errors.NewAppError(errors.InvalidInput, "wallet and at least one card number are required")
	}
	if !totalAmount.IsPositive() || !amountPerCard.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}
	if source != domain.SourceBank && source != domain.SourceWallet {
		return nil, errors.NewAppErrorf(errors.InvalidInput, "unknown balance source %q", source)
	}

	var funded []*domain.Card
	for _, number := range cardNumbers {
		number = strings.TrimSpace(number)

		card, err := s.cards.Get(number)
		if err != nil {
			s.logger.Warn("Skipping card: not found", "card_number", number)
			continue
		}
		if card.Blocked() {
			s.logger.Warn("Skipping card: blocked", "card_number", number)
			continue
		}
		if err := card.Credit(amountPerCard); err != nil {
			s.logger.Warn("Skipping card: funding rejected", "card_number", number, "error", err)
			continue
		}
		funded = append(funded, card)
	}

	var saved []*domain.Card
	for _, card := range funded {
		if err := s.cards.Save(card); err != nil {
			s.logger.Error("Funded card not persisted, excluding from charge", "card_number", card.Number, "error", err)
			continue
		}
		saved = append(saved, card)
	}

	if len(saved) == 0 {
		s.logger.Warn("No cards funded", "requested", len(cardNumbers))
		return &BulkFundingResult{Saved: false}, nil
	}

	charge := amountPerCard.Mul(decimal.NewFromInt(int64(len(saved))))
	switch source {
	case domain.SourceWallet:
		if err := wallet.Balance.Deduct(charge); err != nil {
			s.logger.Error("Cards funded but source not charged", "charge", charge, "error", err)
			return &BulkFundingResult{Saved: true, CardsSaved: saved}, err
		}
	case domain.SourceBank:
		account, err := s.accounts.Get(wallet.SortCode, wallet.AccountNumber)
		if err != nil {
			s.logger.Error("Cards funded but source not charged", "charge", charge, "error", err)
			return &BulkFundingResult{Saved: true, CardsSaved: saved}, err
		}
		if err := account.Balance.Deduct(charge); err != nil {
			s.logger.Error("Cards funded but source not charged", "charge", charge, "error", err)
			return &BulkFundingResult{Saved: true, CardsSaved: saved}, err
		}
		if err := s.accounts.Save(account); err != nil {
			return &BulkFundingResult{Saved: true, CardsSaved: saved}, err
		}
	}

	for _, card := range saved {
		if wallet.HasCard(card.Number) {
			wallet.PutCard(card)
		}
	}
	if err := s.wallets.Save(wallet); err != nil {
		return &BulkFundingResult{Saved: true, CardsSaved: saved}, err
	}

	s.logger.Info("Bulk funding complete",
		"requested", len(cardNumbers),
		"saved", len(saved),
		"charged", charge)
	return &BulkFundingResult{Saved: true, CardsSaved: saved}, nil
}

// MarkCardForRemoval toggles the card's removal flag and persists the
// wallet immediately; RemoveMarkedCards performs the actual bulk removal.
func (s *WalletService) MarkCardForRemoval(wallet *domain.Wallet, cardNumber string) error {
	number := strings.TrimSpace(cardNumber)
	ref, ok := wallet.CardRefs[number]
	if !ok {
		return errors.ErrCardNotInWallet
	}

	ref.FlaggedForRemoval = !ref.FlaggedForRemoval
	wallet.CardRefs[number] = ref
	return s.wallets.Save(wallet)
}

// RemoveMarkedCards drops every flagged card from the wallet in one pass,
// saving once at the end. The authoritative card records stay in the store.
// It returns the ids of the removed cards for UI reconciliation.
func (s *WalletService) RemoveMarkedCards(wallet *domain.Wallet) ([]uuid.UUID, error) {
	var removed []uuid.UUID
	for _, number := range wallet.FlaggedCardNumbers() {
		removed = append(removed, wallet.CardRefs[number].CardID)
		wallet.DropCard(number)
	}

	if len(removed) == 0 {
		return nil, nil
	}
	if err := s.wallets.Save(wallet); err != nil {
		return nil, err
	}

	s.logger.Info("Removed flagged cards", "wallet_id", wallet.ID, "count", len(removed))
	return removed, nil
}
