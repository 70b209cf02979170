package repository

import (
	"encoding/json"
	"log/slog"
	"strings"

	"pocketbank/internal/domain"
	"pocketbank/internal/errors"
	"pocketbank/internal/kvstore"
)

type cardRepository struct {
	records *kvstore.Records
	logger  *slog.Logger
}

func NewCardRepository(records *kvstore.Records, logger *slog.Logger) domain.CardRepository {
	return &cardRepository{
		records: records,
		logger:  logger,
	}
}

func (r *cardRepository) Get(number string) (*domain.Card, error) {
	number = strings.TrimSpace(number)

	raw, ok := r.records.LoadSubRecord(kvstore.BucketCards, number)
	if !ok {
		r.logger.Warn("Card not found", "card_number", number)
		return nil, errors.ErrCardNotFound
	}

	var card domain.Card
	if err := json.Unmarshal(raw, &card); err != nil {
		r.logger.Error("Failed to decode card", "card_number", number, "error", err)
		return nil, errors.ErrCardNotFound
	}
	return &card, nil
}

func (r *cardRepository) Save(card *domain.Card) error {
	ok, err := r.records.SaveSubRecord(kvstore.BucketCards, card.Number, card)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrPersistenceFailure
	}
	return nil
}

func (r *cardRepository) Delete(number string) error {
	if !r.records.RemoveSubRecord(kvstore.BucketCards, strings.TrimSpace(number)) {
		return errors.ErrPersistenceFailure
	}
	return nil
}
