package models

import "time"

// PaymentMethod is the model for the 'payment_methods' table. Same
// default-uniqueness rule as Address: flagging one default unsets the
// user's others.
type PaymentMethod struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Provider  string    `json:"provider" db:"provider"` // card, eft, cod
	Brand     *string   `json:"brand,omitempty" db:"brand"`
	Last4     *string   `json:"last4,omitempty" db:"last4"`
	IsDefault bool      `json:"isDefault" db:"is_default"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
