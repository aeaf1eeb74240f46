package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

const (
	MinCardLength = 13
	MaxCardLength = 19
	BINLength     = 6

	maskPrefix = "**** **** **** "
)

var separators = strings.NewReplacer(" ", "", "-", "")

// CleanCardNumber removes spaces and hyphens from a card number
func CleanCardNumber(cardNumber string) string {
	return separators.Replace(cardNumber)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// luhnSum computes the Luhn digit sum, doubling every second digit from the right
// when doubleFirst is false, or starting with the rightmost digit when it is true.
func luhnSum(digits string, doubleFirst bool) int {
	sum := 0
	double := doubleFirst
	for i := len(digits) - 1; i >= 0; i-- {
		digit := int(digits[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum
}

// IsValidCardNumber checks the card number length and its Luhn checksum
func IsValidCardNumber(cardNumber string) bool {
	clean := CleanCardNumber(cardNumber)
	if !isDigits(clean) {
		return false
	}
	if len(clean) < MinCardLength || len(clean) > MaxCardLength {
		return false
	}
	return luhnSum(clean, false)%10 == 0
}

// LuhnCheckDigit returns the digit that makes partial+digit pass the Luhn check
func LuhnCheckDigit(partial string) int {
	mod := luhnSum(partial, true) % 10
	if mod == 0 {
		return 0
	}
	return 10 - mod
}

// FormatCardNumber groups the digits of a card number in blocks of four
func FormatCardNumber(cardNumber string) string {
	clean := CleanCardNumber(cardNumber)

	var builder strings.Builder
	for i := 0; i < len(clean); i++ {
		if i > 0 && i%4 == 0 {
			builder.WriteByte(' ')
		}
		builder.WriteByte(clean[i])
	}
	return builder.String()
}

// MaskCardNumber hides everything but the last four digits
func MaskCardNumber(cardNumber string) string {
	clean := CleanCardNumber(cardNumber)
	if len(clean) < 4 {
		return clean
	}
	return maskPrefix + clean[len(clean)-4:]
}

// LastFour returns the last four digits of the cleaned card number
func LastFour(cardNumber string) string {
	clean := CleanCardNumber(cardNumber)
	if len(clean) < 4 {
		return clean
	}
	return clean[len(clean)-4:]
}

// GenerateCardNumber generates a Luhn-valid card number with the specified prefix and length
func GenerateCardNumber(prefix string, length int) (string, error) {
	if !isDigits(prefix) {
		return "", fmt.Errorf("invalid card prefix: %q", prefix)
	}
	if length <= len(prefix) || length < MinCardLength || length > MaxCardLength {
		return "", fmt.Errorf("invalid card number length: %d", length)
	}

	var builder strings.Builder
	builder.WriteString(prefix)
	for builder.Len() < length-1 {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digits: %w", err)
		}
		builder.WriteByte(byte('0' + n.Int64()))
	}

	partial := builder.String()
	return fmt.Sprintf("%s%d", partial, LuhnCheckDigit(partial)), nil
}

// CardFingerprint returns an HMAC of the cleaned card number so that
// a card can be recognized again without storing it
func CardFingerprint(cardNumber, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(CleanCardNumber(cardNumber)))
	return hex.EncodeToString(h.Sum(nil))
}
