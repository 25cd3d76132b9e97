package models

import "time"

// Specifications holds the nested book attributes block.
type Specifications struct {
	Pages     string `json:"pages"`
	Language  string `json:"language"`
	Publisher string `json:"publisher"`
	Year      string `json:"year"`
	Format    string `json:"format"`
}

// Product represents a book in the catalog.
type Product struct {
	ID             int            `json:"id"`
	Title          string         `json:"title"`
	Author         string         `json:"author"`
	ISBN           string         `json:"isbn"`
	Category       string         `json:"category"`
	Price          float64        `json:"price"`
	DiscountPrice  *float64       `json:"discountPrice"`
	Description    string         `json:"description"`
	ImageURL       string         `json:"imageUrl"`
	Stock          int            `json:"stock"`
	IsActive       bool           `json:"isActive"`
	Featured       bool           `json:"featured"`
	Rating         *float64       `json:"rating"`
	ReviewCount    int            `json:"reviewCount"`
	Tags           []string       `json:"tags"`
	Specifications Specifications `json:"specifications"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	CreatedBy      string         `json:"createdBy"`
}

// UnitPrice returns the effective storefront price, discount price first.
func (p Product) UnitPrice() float64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// ProductInput is the payload accepted when creating a product. Pointer
// fields distinguish "absent" from zero for the required-field check.
type ProductInput struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	ISBN          string   `json:"isbn"`
	Category      string   `json:"category"`
	Price         *float64 `json:"price"`
	DiscountPrice *float64 `json:"discountPrice"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"imageUrl"`
	Stock         *int     `json:"stock"`
	Featured      bool     `json:"featured"`
	Rating        *float64 `json:"rating"`
	ReviewCount   *int     `json:"reviewCount"`
	Tags          []string `json:"tags"`
	Publisher     string   `json:"publisher"`
	Pages         string   `json:"pages"`
	Year          string   `json:"year"`
}
