package models

// CardInfo represents what is known about a card number without charging it
type CardInfo struct {
	Valid     bool   `json:"valid"`
	Supported bool   `json:"supported"`
	Bank      *Bank  `json:"bank,omitempty"`
	Masked    string `json:"masked"`
	Formatted string `json:"formatted"`
}
