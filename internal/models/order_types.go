package models

import "time"

// Order is the model for the 'orders' table. Once paid it is an
// immutable snapshot of a checkout: totals and shipping fields are
// copied by value so later Address or Meal edits never alter it.
type Order struct {
	ID             int64     `json:"id" db:"id"`
	OrderNo        string    `json:"orderNo" db:"order_no"`
	UserID         int64     `json:"userId" db:"user_id"`
	SubscriptionID int64     `json:"subscriptionId" db:"subscription_id"`
	WeekStart      time.Time `json:"weekStart" db:"week_start"`

	Subtotal    float64 `json:"subtotal" db:"subtotal"`
	Discount    float64 `json:"discount" db:"discount"`
	DeliveryFee float64 `json:"deliveryFee" db:"delivery_fee"`
	TotalAmount float64 `json:"totalAmount" db:"total_amount"`

	// Shipping snapshot (copied from the request, not a FK).
	ShippingName       string  `json:"shippingName" db:"shipping_name"`
	ShippingPhone      string  `json:"shippingPhone" db:"shipping_phone"`
	ShippingStreet     string  `json:"shippingStreet" db:"shipping_street"`
	ShippingCity       string  `json:"shippingCity" db:"shipping_city"`
	ShippingProvince   string  `json:"shippingProvince" db:"shipping_province"`
	ShippingPostalCode *string `json:"shippingPostalCode,omitempty" db:"shipping_postal_code"`

	PaymentMethod string     `json:"paymentMethod" db:"payment_method"`
	PaymentStatus string     `json:"paymentStatus" db:"payment_status"` // paid, failed
	Status        string     `json:"status" db:"status"`                // processing, shipped, delivered
	ScheduledDate time.Time  `json:"scheduledDate" db:"scheduled_date"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

// OrderItem is the model for the 'order_items' table: one row per
// distinct meal, with the price captured at the time of purchase.
type OrderItem struct {
	ID           int64     `json:"id" db:"id"`
	OrderID      int64     `json:"orderId" db:"order_id"`
	MealID       int64     `json:"mealId" db:"meal_id"`
	MealName     string    `json:"mealName" db:"meal_name"`
	Quantity     int       `json:"quantity" db:"quantity"`
	PricePerItem float64   `json:"pricePerItem" db:"price_per_item"`
	TotalPrice   float64   `json:"totalPrice" db:"total_price"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
