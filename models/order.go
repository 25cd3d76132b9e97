package models

import "time"

// Order records a confirmed purchase. SessionID is unique across orders and
// is the idempotency key for payment confirmation.
type Order struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"sessionId"`
	CartID      string     `json:"cartId"`
	Items       []CartItem `json:"items"`
	Total       float64    `json:"total"`
	Status      string     `json:"status"`
	ConfirmedAt time.Time  `json:"confirmedAt"`
}
