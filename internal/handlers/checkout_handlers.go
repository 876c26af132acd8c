package handlers

import (
	"database/sql"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/fitfuel/fitfuel-golang/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//
// --- Checkout & Order Handlers ---
//

const (
	subscriptionDiscountRate = 0.10
	deliveryFee              = 0.0
)

// round2 rounds a money amount to cents.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ShippingDetailsInput is the shipping snapshot sent with a checkout.
type ShippingDetailsInput struct {
	FullName      string  `json:"full_name" binding:"required"`
	Phone         string  `json:"phone" binding:"required"`
	StreetAddress string  `json:"street_address" binding:"required"`
	City          string  `json:"city" binding:"required"`
	Province      string  `json:"province" binding:"required"`
	PostalCode    *string `json:"postal_code"`
}

// PaymentDetailsInput carries the chosen payment method. The gateway is
// simulated: the sentinel method "declined" is rejected.
type PaymentDetailsInput struct {
	Method string `json:"method" binding:"required"`
}

// CheckoutInput is the body for the checkout endpoint.
type CheckoutInput struct {
	SubscriptionID  int64                `json:"subscription_id" binding:"required"`
	WeekStart       string               `json:"week_start" binding:"required"`
	ShippingDetails ShippingDetailsInput `json:"shipping_details" binding:"required"`
	PaymentDetails  PaymentDetailsInput  `json:"payment_details" binding:"required"`
}

// simulateAuthorization stands in for a payment gateway call. It either
// approves the charge or returns an error, never partially succeeds.
func simulateAuthorization(method string, amount float64) error {
	if method == "declined" {
		return fmt.Errorf("payment of %.2f was declined", amount)
	}
	return nil
}

// Checkout is the handler for POST /v1/meal-workflow/checkout
// It converts one week's selections into an immutable order inside a
// single serializable transaction: lock the subscription, snapshot the
// selected meals at current prices, authorize payment, write the order
// and its items, clear the selections, and schedule the delivery. Any
// failure rolls the whole thing back.
func (h *Handlers) Checkout(c *gin.Context) {
	userID := currentUserID(c)

	// 1. --- Bind & Validate JSON ---
	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	weekStart, err := parseWeekStart(input.WeekStart)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	// 2. --- Begin Serializable Transaction ---
	tx, err := h.DB.BeginTx(c, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to start transaction")
		return
	}
	defer tx.Rollback()

	// 3. --- Lock the Subscription & Check Ownership ---
	var ownerID int64
	err = tx.QueryRow("SELECT user_id FROM meal_subscriptions WHERE id = ? FOR UPDATE", input.SubscriptionID).Scan(&ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Subscription not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if ownerID != userID {
		respondError(c, http.StatusForbidden, "You do not own this subscription")
		return
	}

	// 4. --- Load the Week's Selections at Current Prices ---
	rows, err := tx.Query(`
		SELECT ws.meal_id, m.name, ws.quantity, m.price
		FROM weekly_meal_selections ws
		JOIN meals m ON ws.meal_id = m.id
		WHERE ws.subscription_id = ? AND ws.week_start = ?
		FOR UPDATE`, input.SubscriptionID, weekStart)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load selections")
		return
	}

	var items []models.OrderItem
	subtotal := 0.0
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.MealID, &item.MealName, &item.Quantity, &item.PricePerItem); err != nil {
			rows.Close()
			respondError(c, http.StatusInternalServerError, "Failed to scan selection")
			return
		}
		item.TotalPrice = round2(item.PricePerItem * float64(item.Quantity))
		subtotal += item.TotalPrice
		items = append(items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to read selections")
		return
	}

	if len(items) == 0 {
		respondError(c, http.StatusBadRequest, "No meals selected for this week")
		return
	}

	// 5. --- Compute Totals ---
	subtotal = round2(subtotal)
	discount := round2(subtotal * subscriptionDiscountRate)
	totalAmount := round2(subtotal - discount + deliveryFee)

	// 6. --- Authorize Payment ---
	// Done inside the transaction so a declined charge leaves no trace.
	if err := simulateAuthorization(input.PaymentDetails.Method, totalAmount); err != nil {
		respondError(c, http.StatusBadRequest, "Payment failed: "+err.Error())
		return
	}

	// 7. --- Create the Order ---
	orderNo := "FF-" + uuid.New().String()
	now := time.Now()
	result, err := tx.Exec(`
		INSERT INTO orders
		(order_no, user_id, subscription_id, week_start, subtotal, discount, delivery_fee, total_amount,
		 shipping_name, shipping_phone, shipping_street, shipping_city, shipping_province, shipping_postal_code,
		 payment_method, payment_status, status, scheduled_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'paid', 'processing', ?, ?, ?)`,
		orderNo, userID, input.SubscriptionID, weekStart, subtotal, discount, deliveryFee, totalAmount,
		input.ShippingDetails.FullName, input.ShippingDetails.Phone, input.ShippingDetails.StreetAddress,
		input.ShippingDetails.City, input.ShippingDetails.Province, input.ShippingDetails.PostalCode,
		input.PaymentDetails.Method, weekStart, now, now)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create order")
		return
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get new order ID")
		return
	}

	// 8. --- Snapshot the Items ---
	for i := range items {
		items[i].OrderID = orderID
		_, err = tx.Exec(`
			INSERT INTO order_items (order_id, meal_id, meal_name, quantity, price_per_item, total_price, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			orderID, items[i].MealID, items[i].MealName, items[i].Quantity,
			items[i].PricePerItem, items[i].TotalPrice, now)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to save order items")
			return
		}
	}

	// 9. --- Clear the Selections ---
	// The week is now bought; leaving the rows would let a second
	// checkout buy it again.
	_, err = tx.Exec(
		"DELETE FROM weekly_meal_selections WHERE subscription_id = ? AND week_start = ?",
		input.SubscriptionID, weekStart)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to clear selections")
		return
	}

	// 10. --- Schedule the Delivery ---
	_, err = tx.Exec(`
		INSERT INTO deliveries (subscription_id, order_id, scheduled_date, status, created_at)
		VALUES (?, ?, ?, 'scheduled', ?)`,
		input.SubscriptionID, orderID, weekStart, now)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to schedule delivery")
		return
	}

	// 11. --- Commit ---
	if err := tx.Commit(); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to commit transaction")
		return
	}

	respondOK(c, http.StatusCreated, "Order placed", gin.H{
		"orderId":       orderID,
		"orderNo":       orderNo,
		"weekStart":     input.WeekStart,
		"subtotal":      subtotal,
		"discount":      discount,
		"deliveryFee":   deliveryFee,
		"totalAmount":   totalAmount,
		"paymentStatus": "paid",
		"status":        "processing",
		"items":         items,
	})
}

// GetMyOrders is the handler for GET /v1/orders
func (h *Handlers) GetMyOrders(c *gin.Context) {
	userID := currentUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, order_no, user_id, subscription_id, week_start, subtotal, discount, delivery_fee, total_amount,
		       payment_method, payment_status, status, scheduled_date, created_at
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		err := rows.Scan(
			&o.ID, &o.OrderNo, &o.UserID, &o.SubscriptionID, &o.WeekStart,
			&o.Subtotal, &o.Discount, &o.DeliveryFee, &o.TotalAmount,
			&o.PaymentMethod, &o.PaymentStatus, &o.Status, &o.ScheduledDate, &o.CreatedAt)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan order")
			return
		}
		orders = append(orders, o)
	}

	respondOK(c, http.StatusOK, "Your orders", orders)
}

// GetOrderDetails is the handler for GET /v1/orders/:id
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	userID := currentUserID(c)
	orderID := c.Param("id")

	var o models.Order
	err := h.DB.QueryRow(`
		SELECT id, order_no, user_id, subscription_id, week_start, subtotal, discount, delivery_fee, total_amount,
		       shipping_name, shipping_phone, shipping_street, shipping_city, shipping_province, shipping_postal_code,
		       payment_method, payment_status, status, scheduled_date, created_at, updated_at
		FROM orders WHERE id = ?`, orderID).Scan(
		&o.ID, &o.OrderNo, &o.UserID, &o.SubscriptionID, &o.WeekStart,
		&o.Subtotal, &o.Discount, &o.DeliveryFee, &o.TotalAmount,
		&o.ShippingName, &o.ShippingPhone, &o.ShippingStreet, &o.ShippingCity, &o.ShippingProvince, &o.ShippingPostalCode,
		&o.PaymentMethod, &o.PaymentStatus, &o.Status, &o.ScheduledDate, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Order not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if o.UserID != userID {
		respondError(c, http.StatusForbidden, "You do not own this order")
		return
	}

	rows, err := h.DB.Query(`
		SELECT id, order_id, meal_id, meal_name, quantity, price_per_item, total_price, created_at
		FROM order_items WHERE order_id = ?`, o.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load order items")
		return
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.MealID, &item.MealName,
			&item.Quantity, &item.PricePerItem, &item.TotalPrice, &item.CreatedAt)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan order item")
			return
		}
		items = append(items, item)
	}

	respondOK(c, http.StatusOK, "Order details", gin.H{
		"order": o,
		"items": items,
	})
}

// ProcessDueDeliveries advances scheduled deliveries whose date has
// arrived to out_for_delivery and marks yesterday's runs delivered.
// Called from the hourly background worker, not from a route.
func (h *Handlers) ProcessDueDeliveries() (int64, error) {
	result, err := h.DB.Exec(`
		UPDATE deliveries
		SET status = 'out_for_delivery'
		WHERE status = 'scheduled' AND scheduled_date <= CURDATE()`)
	if err != nil {
		return 0, fmt.Errorf("promoting scheduled deliveries: %w", err)
	}
	promoted, _ := result.RowsAffected()

	_, err = h.DB.Exec(`
		UPDATE deliveries
		SET status = 'delivered', delivered_at = NOW()
		WHERE status = 'out_for_delivery' AND scheduled_date < CURDATE()`)
	if err != nil {
		return promoted, fmt.Errorf("completing deliveries: %w", err)
	}

	_, err = h.DB.Exec(`
		UPDATE orders o
		JOIN deliveries d ON d.order_id = o.id
		SET o.status = 'delivered', o.updated_at = NOW()
		WHERE d.status = 'delivered' AND o.status != 'delivered'`)
	if err != nil {
		return promoted, fmt.Errorf("syncing order statuses: %w", err)
	}

	return promoted, nil
}
