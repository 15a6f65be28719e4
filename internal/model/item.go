package model

import "github.com/shopspring/decimal"

// Item is a catalog entry. Items are created by the seed command and are
// read-only through the HTTP API.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name" validate:"required"`
	Cost        decimal.Decimal `json:"cost"`
	Description string          `json:"description" validate:"required"`
	ImageURL    string          `json:"imageURL" validate:"required"`
}

// NewItem builds a validated item without an ID.
func NewItem(name string, cost decimal.Decimal, description, imageURL string) (*Item, error) {
	item := &Item{
		Name:        name,
		Cost:        cost,
		Description: description,
		ImageURL:    imageURL,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate checks the required fields.
func (i *Item) Validate() error {
	return check("item", i)
}
