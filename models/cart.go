package models

import "time"

// CartItem is a line in a cart, carrying a snapshot of the product taken
// at add time. The snapshot is refreshed on every repeated add.
type CartItem struct {
	ProductID int       `json:"productId"`
	Quantity  int       `json:"quantity"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Price     float64   `json:"price"`
	ImageURL  string    `json:"imageUrl"`
	AddedAt   time.Time `json:"addedAt"`
}

// Cart is a shopping cart keyed by a client session identifier.
type Cart struct {
	ID          string     `json:"id"`
	Items       []CartItem `json:"items"`
	Total       float64    `json:"total"`
	TotalItems  int        `json:"totalItems"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

// Recalculate restores the totals invariants after any mutation:
// total = sum(price*quantity) and totalItems = sum(quantity).
func (c *Cart) Recalculate() {
	c.Total = 0
	c.TotalItems = 0
	for _, item := range c.Items {
		c.Total += item.Price * float64(item.Quantity)
		c.TotalItems += item.Quantity
	}
}
