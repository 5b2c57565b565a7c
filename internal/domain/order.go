package domain

import (
	"time"

	"github.com/google/uuid"
)

type ShippingDetails struct {
	Address    string
	City       string
	Phone      string
	CardNumber string
	Expiry     string
	CVV        string
}

// Order is the outcome of a simulated checkout. Card data is never kept
// beyond the last four digits.
type Order struct {
	ID        uuid.UUID
	Items     []CartLineItem
	Total     Money
	Address   string
	City      string
	Phone     string
	CardLast4 string
	PlacedAt  time.Time
}
