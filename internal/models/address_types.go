package models

import "time"

// Address is the model for the 'addresses' table: a named shipping
// destination. At most one per user is flagged default; writes that set
// the flag unset it everywhere else in the same transaction.
type Address struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"userId" db:"user_id"`
	FullName   string    `json:"fullName" db:"full_name"`
	Phone      string    `json:"phone" db:"phone"`
	Line1      string    `json:"line1" db:"line1"`
	Line2      *string   `json:"line2,omitempty" db:"line2"`
	City       string    `json:"city" db:"city"`
	Province   string    `json:"province" db:"province"`
	PostalCode *string   `json:"postalCode,omitempty" db:"postal_code"`
	IsDefault  bool      `json:"isDefault" db:"is_default"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
