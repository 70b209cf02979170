package service

import (
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pocketbank/internal/domain"
	"pocketbank/internal/errors"
	"pocketbank/internal/validation"
)

type CardService struct {
	cards  domain.CardRepository
	logger *slog.Logger
}

func NewCardService(cards domain.CardRepository, logger *slog.Logger) *CardService {
	return &CardService{
		cards:  cards,
		logger: logger,
	}
}

type CreateCardParams struct {
	HolderName     string
	Number         string
	ExpiryMonth    int
	ExpiryYear     int
	CVC            string
	Type           string
	Brand          string
	InitialBalance decimal.Decimal
}

func (s *CardService) Create(p CreateCardParams) (*domain.Card, error) {
	number := strings.TrimSpace(p.Number)
	s.logger.Info("Creating card", "card_number", number, "holder", p.HolderName)

	if strings.TrimSpace(p.HolderName) == "" ||
		strings.TrimSpace(p.CVC) == "" ||
		strings.TrimSpace(p.Type) == "" ||
		strings.TrimSpace(p.Brand) == "" ||
		p.ExpiryMonth < 1 || p.ExpiryMonth > 12 || p.ExpiryYear == 0 {
		return nil, errors.NewAppError(errors.InvalidInput, "all card fields are required")
	}
	if !validation.IsValidCardNumber(number) {
		return nil, errors.ErrInvalidCardNumber
	}
	if p.InitialBalance.IsNegative() {
		return nil, errors.ErrInvalidAmount
	}

	if _, err := s.cards.Get(number); err == nil {
		s.logger.Warn("Duplicate card creation attempt", "card_number", number)
		return nil, errors.ErrDuplicateCard
	} else if !stderrors.Is(err, errors.ErrCardNotFound) {
		return nil, err
	}

	card := &domain.Card{
		ID:          uuid.New(),
		HolderName:  strings.TrimSpace(p.HolderName),
		Number:      number,
		ExpiryMonth: p.ExpiryMonth,
		ExpiryYear:  p.ExpiryYear,
		CVC:         strings.TrimSpace(p.CVC),
		Type:        p.Type,
		Brand:       p.Brand,
		Status:      domain.CardStatusActive,
		Balance:     domain.NewAmount(p.InitialBalance),
		CreatedAt:   time.Now(),
	}

	if err := s.cards.Save(card); err != nil {
		return nil, err
	}

	s.logger.Info("Card created", "card_number", card.Number)
	return card, nil
}

func (s *CardService) GetByNumber(number string) (*domain.Card, error) {
	return s.cards.Get(number)
}

// Credit adds amount to the card and persists it. Blocked cards reject the
// mutation before anything changes.
func (s *CardService) Credit(card *domain.Card, amount decimal.Decimal) error {
	if err := card.Credit(amount); err != nil {
		return err
	}
	return s.cards.Save(card)
}

func (s *CardService) Debit(card *domain.Card, amount decimal.Decimal) error {
	if err := card.Debit(amount); err != nil {
		return err
	}
	return s.cards.Save(card)
}

// Freeze blocks the card. Freezing an already blocked card is a no-op and
// does not write a second time.
func (s *CardService) Freeze(card *domain.Card) error {
	if !card.Freeze() {
		return nil
	}
	s.logger.Info("Card frozen", "card_number", card.Number)
	return s.cards.Save(card)
}

func (s *CardService) Unfreeze(card *domain.Card) error {
	if !card.Unfreeze() {
		return nil
	}
	s.logger.Info("Card unfrozen", "card_number", card.Number)
	return s.cards.Save(card)
}

// Delete removes the authoritative card record. Only an active card with a
// zero balance can be deleted.
func (s *CardService) Delete(number string) error {
	card, err := s.cards.Get(number)
	if err != nil {
		return err
	}
	if card.Blocked() {
		return errors.ErrCardBlocked
	}
	if !card.Balance.Value().IsZero() {
		return errors.ErrCardNotEmpty
	}

	if err := s.cards.Delete(card.Number); err != nil {
		return err
	}
	s.logger.Info("Card deleted", "card_number", card.Number)
	return nil
}
