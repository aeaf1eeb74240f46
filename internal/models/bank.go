package models

// Bank represents an issuing bank that offers deferred payments
type Bank struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Months       int     `json:"months"`
	InterestRate float64 `json:"interest_rate"` // flat rate, 0.08 = 8%
}

// CalculateTotal returns the amount payable once the bank's interest is applied
func (b Bank) CalculateTotal(amount float64) float64 {
	return amount * (1 + b.InterestRate)
}

// CalculateMonthlyPayment splits total into equal installments
func (b Bank) CalculateMonthlyPayment(total float64) float64 {
	return total / float64(b.Months)
}

// BankOffer represents a bank together with the BINs of the cards it issues
type BankOffer struct {
	Bank
	BINs []string `json:"bins"`
}
