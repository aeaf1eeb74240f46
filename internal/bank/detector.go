package bank

import (
	"sort"

	"github.com/Dan9191/deferred-payment/internal/models"
	"github.com/Dan9191/deferred-payment/internal/utils"
)

// binMapping is read-only after init.
var binMapping = map[string]models.Bank{
	"450678": BBVA,
	"491234": BBVA,
	"434107": BBVA,

	"523456": Santander,
	"548901": Santander,
	"542418": Santander,

	"601567": Banamex,
	"456789": Banamex,
	"601100": Banamex,
}

// DetectBank finds the issuing bank from the first six digits of the card.
// The Luhn checksum is not verified here.
func DetectBank(cardNumber string) (models.Bank, bool) {
	clean := utils.CleanCardNumber(cardNumber)
	if len(clean) < utils.BINLength {
		return models.Bank{}, false
	}
	b, ok := binMapping[clean[:utils.BINLength]]
	return b, ok
}

// GetBankName returns the name of the issuing bank
func GetBankName(cardNumber string) (string, bool) {
	b, ok := DetectBank(cardNumber)
	if !ok {
		return "", false
	}
	return b.Name, true
}

// IsCardSupported reports whether the card was issued by a catalog bank
func IsCardSupported(cardNumber string) bool {
	_, ok := DetectBank(cardNumber)
	return ok
}

// BINs returns the sorted BINs assigned to a bank
func BINs(bankID string) []string {
	var bins []string
	for bin, b := range binMapping {
		if b.ID == bankID {
			bins = append(bins, bin)
		}
	}
	sort.Strings(bins)
	return bins
}
