package models

import (
	"database/sql"
	"time"
)

// Delivery is the model for the 'deliveries' table: one scheduled
// drop-off per paid order.
type Delivery struct {
	ID             int64        `json:"id" db:"id"`
	SubscriptionID int64        `json:"subscriptionId" db:"subscription_id"`
	OrderID        int64        `json:"orderId" db:"order_id"`
	ScheduledDate  time.Time    `json:"scheduledDate" db:"scheduled_date"`
	DeliveredAt    sql.NullTime `json:"-" db:"delivered_at"`
	Status         string       `json:"status" db:"status"` // scheduled, out_for_delivery, delivered
	Notes          *string      `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time    `json:"createdAt" db:"created_at"`
}
