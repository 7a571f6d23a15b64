package util

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

func GenerateOrderID() string {
	return uuid.NewString()
}

func GenerateTransactionID() string {
	return uuid.NewString()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsValidCardNumber accepts plain digit strings of issuer-plausible length.
func IsValidCardNumber(number string) bool {
	if !isDigits(number) {
		return false
	}

	return len(number) >= 13 && len(number) <= 19
}

// IsValidCardExpiry parses an "MM/yy" expiration date and reports whether the
// card is still valid at the given instant. A card expires at the end of its
// expiration month.
func IsValidCardExpiry(expiry string, now time.Time) bool {
	t, err := time.Parse("01/06", expiry)
	if err != nil {
		return false
	}

	endOfMonth := t.AddDate(0, 1, 0)

	return now.Before(endOfMonth)
}

func IsValidCVV(cvv string) bool {
	return isDigits(cvv) && len(cvv) == 3
}

func IsValidCardHolder(holder string) bool {
	return strings.TrimSpace(holder) != ""
}

// MaskCardNumber keeps the last four digits only.
func MaskCardNumber(number string) string {
	if len(number) <= 4 {
		return number
	}

	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}
