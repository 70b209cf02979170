// Command pocketbank plays the role of the UI layer: it opens a store,
// wires the domain services and walks through a short demo scenario.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"

	"pocketbank/internal/config"
	"pocketbank/internal/domain"
	"pocketbank/internal/kvstore"
	"pocketbank/internal/repository"
	"pocketbank/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Parse()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		slog.Error("Failed to open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}

	records := kvstore.NewRecords(store, logger)
	cards := repository.NewCardRepository(records, logger)
	accounts := repository.NewBankAccountRepository(records, logger)
	wallets := repository.NewWalletRepository(records, logger)

	accountSvc := service.NewAccountService(accounts, cards, logger)
	cardSvc := service.NewCardService(cards, logger)
	walletSvc := service.NewWalletService(wallets, cards, accounts, accountSvc, cardSvc, logger)

	if err := runDemo(accountSvc, cardSvc, walletSvc); err != nil {
		slog.Error("Demo run failed", "error", err)
		os.Exit(1)
	}
}

func openStore(cfg *config.Config, logger *slog.Logger) (kvstore.Store, error) {
	switch cfg.StoreBackend {
	case "memory":
		return kvstore.NewMemoryStore(logger), nil
	case "file":
		return kvstore.NewFileStore(cfg.StorePath, logger)
	case "redis":
		return kvstore.NewRedisStore(cfg.RedisAddr, logger)
	case "postgres":
		return kvstore.NewPostgresStore(cfg.DatabaseURI, logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// runDemo drives the domain API the way the UI would: open an account,
// issue two cards, add them to a wallet, then move money around.
func runDemo(accountSvc *service.AccountService, cardSvc *service.CardService, walletSvc *service.WalletService) error {
	account, err := accountSvc.CreateAccount("112233", "87654321", decimal.NewFromInt(1000))
	if err != nil {
		return err
	}

	first, err := cardSvc.Create(service.CreateCardParams{
		HolderName:     "Alex Holder",
		Number:         "4532015112830366",
		ExpiryMonth:    8,
		ExpiryYear:     2030,
		CVC:            "123",
		Type:           "debit",
		Brand:          "visa",
		InitialBalance: decimal.NewFromInt(500),
	})
	if err != nil {
		return err
	}

	second, err := cardSvc.Create(service.CreateCardParams{
		HolderName:     "Alex Holder",
		Number:         "5425233430109903",
		ExpiryMonth:    3,
		ExpiryYear:     2029,
		CVC:            "456",
		Type:           "credit",
		Brand:          "mastercard",
		InitialBalance: decimal.NewFromInt(200),
	})
	if err != nil {
		return err
	}

	wallet, err := walletSvc.GetOrCreate(account)
	if err != nil {
		return err
	}
	if err := walletSvc.AddCard(wallet, first.Number); err != nil {
		return err
	}
	if err := walletSvc.AddCard(wallet, second.Number); err != nil {
		return err
	}

	if err := walletSvc.TransferBetweenWalletCards(wallet, first.Number, second.Number, decimal.NewFromInt(300)); err != nil {
		return err
	}
	if err := walletSvc.TransferBankToWallet(wallet, decimal.NewFromInt(250)); err != nil {
		return err
	}

	result, err := walletSvc.FundCards(wallet,
		wallet.CardNumbers(),
		decimal.NewFromInt(100),
		decimal.NewFromInt(50),
		domain.SourceWallet,
	)
	if err != nil {
		return err
	}

	account, err = accountSvc.GetByAccount(wallet.SortCode, wallet.AccountNumber)
	if err != nil {
		return err
	}

	slog.Info("Dashboard",
		"account_balance", account.Balance.String(),
		"wallet_balance", wallet.Balance.String(),
		"cards_in_wallet", wallet.CardCount(),
		"cards_funded", len(result.CardsSaved),
	)
	for _, number := range wallet.CardNumbers() {
		card, err := cardSvc.GetByNumber(number)
		if err != nil {
			return err
		}
		slog.Info("Card",
			"number", card.Number,
			"brand", card.Brand,
			"status", string(card.Status),
			"balance", card.Balance.String(),
		)
	}
	return nil
}
