package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- Cart Handlers (one-off meal purchases) ---
//

// getOrCreateCartID finds the user's cart or creates one, inside the
// caller's transaction.
func getOrCreateCartID(tx *sql.Tx, userID int64) (int64, error) {
	var cartID int64
	err := tx.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err == sql.ErrNoRows {
		result, insErr := tx.Exec("INSERT INTO carts (user_id, created_at, updated_at) VALUES (?, NOW(), NOW())", userID)
		if insErr != nil {
			return 0, insErr
		}
		return result.LastInsertId()
	}
	if err != nil {
		return 0, err
	}
	return cartID, nil
}

// AddToCartInput is the body for adding a meal to the cart.
type AddToCartInput struct {
	MealID   int64 `json:"meal_id" binding:"required"`
	Quantity int   `json:"quantity" binding:"required,gt=0"`
}

// AddToCart is the handler for POST /v1/cart/items
// Adding a meal already in the cart increments its quantity.
func (h *Handlers) AddToCart(c *gin.Context) {
	userID := currentUserID(c)

	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to start transaction")
		return
	}
	defer tx.Rollback()

	// 1. --- Verify the Meal Is Purchasable ---
	var mealID int64
	err = tx.QueryRow("SELECT id FROM meals WHERE id = ? AND active = 1", input.MealID).Scan(&mealID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusBadRequest, "Meal not found or not active")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	// 2. --- Find or Create the Cart ---
	cartID, err := getOrCreateCartID(tx, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get cart")
		return
	}

	// 3. --- Upsert the Item ---
	_, err = tx.Exec(`
		INSERT INTO cart_items (cart_id, meal_id, quantity, created_at, updated_at)
		VALUES (?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity), updated_at = NOW()`,
		cartID, input.MealID, input.Quantity)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to add item to cart")
		return
	}

	if err := tx.Commit(); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to commit transaction")
		return
	}

	respondOK(c, http.StatusOK, "Item added to cart", nil)
}

// UpdateCartItemInput sets an absolute quantity; zero removes the item.
type UpdateCartItemInput struct {
	Quantity int `json:"quantity" binding:"gte=0"`
}

// UpdateCartItem is the handler for PATCH /v1/cart/items/:mealId
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	userID := currentUserID(c)
	mealID := c.Param("mealId")

	var input UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var cartID int64
	err := h.DB.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err != nil {
		respondError(c, http.StatusNotFound, "Cart not found")
		return
	}

	if input.Quantity == 0 {
		_, err = h.DB.Exec("DELETE FROM cart_items WHERE cart_id = ? AND meal_id = ?", cartID, mealID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to remove item")
			return
		}
		respondOK(c, http.StatusOK, "Item removed from cart", nil)
		return
	}

	result, err := h.DB.Exec(
		"UPDATE cart_items SET quantity = ?, updated_at = NOW() WHERE cart_id = ? AND meal_id = ?",
		input.Quantity, cartID, mealID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update item")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		respondError(c, http.StatusNotFound, "Item not in cart")
		return
	}

	respondOK(c, http.StatusOK, "Cart updated", nil)
}

// RemoveCartItem is the handler for DELETE /v1/cart/items/:mealId
func (h *Handlers) RemoveCartItem(c *gin.Context) {
	userID := currentUserID(c)
	mealID := c.Param("mealId")

	var cartID int64
	err := h.DB.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err != nil {
		respondError(c, http.StatusNotFound, "Cart not found")
		return
	}

	_, err = h.DB.Exec("DELETE FROM cart_items WHERE cart_id = ? AND meal_id = ?", cartID, mealID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to remove item")
		return
	}

	respondOK(c, http.StatusOK, "Item removed from cart", nil)
}

// ClearCart is the handler for DELETE /v1/cart
func (h *Handlers) ClearCart(c *gin.Context) {
	userID := currentUserID(c)

	var cartID int64
	err := h.DB.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondOK(c, http.StatusOK, "Cart is empty", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	_, err = h.DB.Exec("DELETE FROM cart_items WHERE cart_id = ?", cartID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	respondOK(c, http.StatusOK, "Cart cleared", nil)
}

// GetCart is the handler for GET /v1/cart
// Totals are computed from live meal prices on every read; the cart
// never stores prices itself.
func (h *Handlers) GetCart(c *gin.Context) {
	userID := currentUserID(c)

	var cartID int64
	err := h.DB.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondOK(c, http.StatusOK, "Your cart", gin.H{"items": []gin.H{}, "subtotal": 0.0, "totalItems": 0})
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.DB.Query(`
		SELECT ci.meal_id, m.name, m.price, ci.quantity
		FROM cart_items ci
		JOIN meals m ON ci.meal_id = m.id
		WHERE ci.cart_id = ?
		ORDER BY ci.created_at ASC`, cartID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load cart items")
		return
	}
	defer rows.Close()

	items := []gin.H{}
	subtotal := 0.0
	totalItems := 0
	for rows.Next() {
		var mealID int64
		var name string
		var price float64
		var quantity int
		if err := rows.Scan(&mealID, &name, &price, &quantity); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan cart item")
			return
		}
		lineTotal := round2(price * float64(quantity))
		subtotal += lineTotal
		totalItems += quantity
		items = append(items, gin.H{
			"mealId":    mealID,
			"mealName":  name,
			"price":     price,
			"quantity":  quantity,
			"lineTotal": lineTotal,
		})
	}

	respondOK(c, http.StatusOK, "Your cart", gin.H{
		"items":      items,
		"subtotal":   round2(subtotal),
		"totalItems": totalItems,
	})
}
