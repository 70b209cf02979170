package errors

import (
	"fmt"
)

type ErrorCode string

const (
	InvalidInput         ErrorCode = "invalid_input"
	InvalidAmount        ErrorCode = "invalid_amount"
	InvalidSortCode      ErrorCode = "invalid_sort_code"
	InvalidAccountNumber ErrorCode = "invalid_account_number"
	InvalidCardNumber    ErrorCode = "invalid_card_number"
	InsufficientFunds    ErrorCode = "insufficient_funds"
	CardBlocked          ErrorCode = "card_blocked"
	CardNotEmpty         ErrorCode = "card_not_empty"
	DuplicateCard        ErrorCode = "duplicate_card"
	WalletFull           ErrorCode = "wallet_full"
	CardAlreadyInWallet  ErrorCode = "card_already_in_wallet"
	CardNotInWallet      ErrorCode = "card_not_in_wallet"
	NotEnoughCards       ErrorCode = "not_enough_cards"
	SameCardTransfer     ErrorCode = "same_card_transfer"
	CardNotFound         ErrorCode = "card_not_found"
	AccountNotFound      ErrorCode = "account_not_found"
	WalletNotFound       ErrorCode = "wallet_not_found"
	PersistenceFailure   ErrorCode = "persistence_failure"
	InternalError        ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches by code so errors.Is works against the predefined sentinels
// even for copies produced by WithDetails.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetails returns a copy carrying the extra details, leaving the
// receiver (usually one of the sentinels below) untouched.
func (e *AppError) WithDetails(details string) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// Predefined errors for common cases
var (
	ErrInvalidInput         = NewAppError(InvalidInput, "invalid input")
	ErrInvalidAmount        = NewAppError(InvalidAmount, "amount must be a positive number")
	ErrInvalidSortCode      = NewAppError(InvalidSortCode, "sort code must be 6 digits")
	ErrInvalidAccountNumber = NewAppError(InvalidAccountNumber, "account number must be 8 digits")
	ErrInvalidCardNumber    = NewAppError(InvalidCardNumber, "card number must be numeric")
	ErrInsufficientFunds    = NewAppError(InsufficientFunds, "insufficient funds")
	ErrCardBlocked          = NewAppError(CardBlocked, "card is blocked")
	ErrCardNotEmpty         = NewAppError(CardNotEmpty, "card balance must be zero")
	ErrDuplicateCard        = NewAppError(DuplicateCard, "card number already exists")
	ErrWalletFull           = NewAppError(WalletFull, "wallet already holds the maximum number of cards")
	ErrCardAlreadyInWallet  = NewAppError(CardAlreadyInWallet, "card is already in the wallet")
	ErrCardNotInWallet      = NewAppError(CardNotInWallet, "card is not in the wallet")
	ErrNotEnoughCards       = NewAppError(NotEnoughCards, "at least two cards are required")
	ErrSameCardTransfer     = NewAppError(SameCardTransfer, "source and target card are the same")
	ErrCardNotFound         = NewAppError(CardNotFound, "card not found")
	ErrAccountNotFound      = NewAppError(AccountNotFound, "bank account not found")
	ErrWalletNotFound       = NewAppError(WalletNotFound, "wallet not found")
	ErrPersistenceFailure   = NewAppError(PersistenceFailure, "failed to persist state")
)
