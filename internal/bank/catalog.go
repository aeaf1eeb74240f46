// Package bank holds the closed set of banks offering deferred payments
// and the BIN table used to recognize their cards.
package bank

import (
	"fmt"

	"github.com/Dan9191/deferred-payment/internal/models"
)

var (
	BBVA = models.Bank{
		ID:           "bbva",
		Name:         "Banco BBVA",
		Months:       9,
		InterestRate: 0.08,
	}
	Santander = models.Bank{
		ID:           "santander",
		Name:         "Banco Santander",
		Months:       12,
		InterestRate: 0.10,
	}
	Banamex = models.Bank{
		ID:           "banamex",
		Name:         "Banco Banamex",
		Months:       18,
		InterestRate: 0.13,
	}
)

var catalog = []models.Bank{BBVA, Santander, Banamex}

func init() {
	if err := checkCatalog(catalog, binMapping); err != nil {
		panic(err)
	}
}

// All returns every bank in the catalog
func All() []models.Bank {
	banks := make([]models.Bank, len(catalog))
	copy(banks, catalog)
	return banks
}

// ByID returns the bank with the given identifier
func ByID(id string) (models.Bank, bool) {
	for _, b := range catalog {
		if b.ID == id {
			return b, true
		}
	}
	return models.Bank{}, false
}

func checkCatalog(banks []models.Bank, bins map[string]models.Bank) error {
	known := make(map[string]models.Bank, len(banks))
	for _, b := range banks {
		if b.Months < 1 {
			return fmt.Errorf("bank %s: installment count must be positive, got %d", b.ID, b.Months)
		}
		if b.InterestRate < 0 {
			return fmt.Errorf("bank %s: interest rate must not be negative, got %f", b.ID, b.InterestRate)
		}
		if _, dup := known[b.ID]; dup {
			return fmt.Errorf("bank %s: duplicate id", b.ID)
		}
		known[b.ID] = b
	}
	for bin, b := range bins {
		if len(bin) != 6 {
			return fmt.Errorf("bin %q: must have 6 digits", bin)
		}
		if known[b.ID] != b {
			return fmt.Errorf("bin %s: bank %s is not in the catalog", bin, b.ID)
		}
	}
	return nil
}
