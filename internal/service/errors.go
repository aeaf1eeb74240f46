package service

import "errors"

var (
	// ErrInvalidCardNumber means the card failed the length, digit or Luhn checks
	ErrInvalidCardNumber = errors.New("invalid card number")
	// ErrUnsupportedIssuer means the card is valid but no catalog bank issued it
	ErrUnsupportedIssuer = errors.New("unsupported card issuer")

	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyOrder      = errors.New("order has no items")
	ErrUnknownProduct  = errors.New("unknown product")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrOrderNotFound   = errors.New("order not found")
	ErrPlanNotFound    = errors.New("payment plan not found")
)
