package models

import "time"

// Product is the model for the 'products' table. A product groups the
// purchasable plans underneath it (e.g. "Meal Prep Delivery").
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Plan defines the model for the 'plans' table: a purchasable recurrence
// tier belonging to a Product. Immutable reference data.
type Plan struct {
	ID          int64     `json:"id" db:"id"`
	ProductID   int64     `json:"productId" db:"product_id"`
	Name        string    `json:"name" db:"name"`
	Interval    string    `json:"interval" db:"billing_interval"` // weekly, monthly
	PriceAmount float64   `json:"priceAmount" db:"price_amount"`
	Currency    string    `json:"currency" db:"currency"`
	IsDefault   bool      `json:"isDefault" db:"is_default"`
	SortOrder   int       `json:"sortOrder" db:"sort_order"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	// Populated by joins for list views, not a DB column.
	ProductName string `json:"productName,omitempty" db:"-"`
}
