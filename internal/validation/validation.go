// Package validation contains shape checks for the identifiers used as
// storage keys: sort codes, account numbers and card numbers.
package validation

import "unicode"

const (
	SortCodeLength      = 6
	AccountNumberLength = 8

	minCardNumberLength = 12
	maxCardNumberLength = 19
)

// IsDigits reports whether s is non-empty and consists of decimal digits only.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if !unicode.IsDigit(ch) {
			return false
		}
	}
	return true
}

// IsValidSortCode reports whether s is a 6-digit sort code.
func IsValidSortCode(s string) bool {
	return len(s) == SortCodeLength && IsDigits(s)
}

// IsValidAccountNumber reports whether s is an 8-digit account number.
func IsValidAccountNumber(s string) bool {
	return len(s) == AccountNumberLength && IsDigits(s)
}

// IsValidCardNumber reports whether s looks like a payment card number
// (12 to 19 digits). No checksum is applied; demo card numbers are allowed.
func IsValidCardNumber(s string) bool {
	return len(s) >= minCardNumberLength && len(s) <= maxCardNumberLength && IsDigits(s)
}
