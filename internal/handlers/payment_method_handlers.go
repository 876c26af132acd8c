package handlers

import (
	"database/sql"
	"net/http"

	"github.com/fitfuel/fitfuel-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Payment Method Handlers ---
//

// PaymentMethodInput is the body for registering a payment method.
// Card details never reach us; the client sends only the brand and the
// last four digits for display.
type PaymentMethodInput struct {
	Provider  string  `json:"provider" binding:"required,oneof=card eft cod"`
	Brand     *string `json:"brand"`
	Last4     *string `json:"last4" binding:"omitempty,len=4,numeric"`
	IsDefault bool    `json:"isDefault"`
}

// CreatePaymentMethod is the handler for POST /v1/payment-methods
// Mirrors CreateAddress: the first method becomes the default, and
// flagging one default unsets the user's others in the same transaction.
func (h *Handlers) CreatePaymentMethod(c *gin.Context) {
	userID := currentUserID(c)

	var input PaymentMethodInput
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

	var existing int
	if err := tx.QueryRow("SELECT COUNT(*) FROM payment_methods WHERE user_id = ?", userID).Scan(&existing); err != nil {
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}
	isDefault := input.IsDefault || existing == 0

	result, err := tx.Exec(`
		INSERT INTO payment_methods (user_id, provider, brand, last4, is_default, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())`,
		userID, input.Provider, input.Brand, input.Last4, isDefault)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create payment method")
		return
	}
	methodID, _ := result.LastInsertId()

	if isDefault {
		_, err = tx.Exec("UPDATE payment_methods SET is_default = 0 WHERE user_id = ? AND id != ?", userID, methodID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to update default payment method")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to commit transaction")
		return
	}

	respondOK(c, http.StatusCreated, "Payment method added", gin.H{"paymentMethodId": methodID, "isDefault": isDefault})
}

// GetMyPaymentMethods is the handler for GET /v1/payment-methods
func (h *Handlers) GetMyPaymentMethods(c *gin.Context) {
	userID := currentUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, user_id, provider, brand, last4, is_default, created_at
		FROM payment_methods
		WHERE user_id = ?
		ORDER BY is_default DESC, created_at DESC`, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load payment methods")
		return
	}
	defer rows.Close()

	methods := []models.PaymentMethod{}
	for rows.Next() {
		var m models.PaymentMethod
		err := rows.Scan(&m.ID, &m.UserID, &m.Provider, &m.Brand, &m.Last4, &m.IsDefault, &m.CreatedAt)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan payment method")
			return
		}
		methods = append(methods, m)
	}

	respondOK(c, http.StatusOK, "Your payment methods", methods)
}

// SetDefaultPaymentMethod is the handler for PATCH /v1/payment-methods/:id/default
func (h *Handlers) SetDefaultPaymentMethod(c *gin.Context) {
	userID := currentUserID(c)
	methodID := c.Param("id")

	tx, err := h.DB.Begin()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to start transaction")
		return
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow("SELECT id FROM payment_methods WHERE id = ? AND user_id = ?", methodID, userID).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Payment method not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if _, err := tx.Exec("UPDATE payment_methods SET is_default = 0 WHERE user_id = ?", userID); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update payment methods")
		return
	}
	if _, err := tx.Exec("UPDATE payment_methods SET is_default = 1 WHERE id = ?", id); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to set default payment method")
		return
	}

	if err := tx.Commit(); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to commit transaction")
		return
	}

	respondOK(c, http.StatusOK, "Default payment method updated", nil)
}

// DeletePaymentMethod is the handler for DELETE /v1/payment-methods/:id
func (h *Handlers) DeletePaymentMethod(c *gin.Context) {
	userID := currentUserID(c)
	methodID := c.Param("id")

	result, err := h.DB.Exec("DELETE FROM payment_methods WHERE id = ? AND user_id = ?", methodID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete payment method")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		respondError(c, http.StatusNotFound, "Payment method not found")
		return
	}

	respondOK(c, http.StatusOK, "Payment method deleted", nil)
}
