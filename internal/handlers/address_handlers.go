package handlers

import (
	"database/sql"
	"net/http"

	"github.com/fitfuel/fitfuel-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Address Handlers ---
//

// AddressInput is the body for creating or updating an address.
type AddressInput struct {
	FullName   string  `json:"fullName" binding:"required"`
	Phone      string  `json:"phone" binding:"required"`
	Line1      string  `json:"line1" binding:"required"`
	Line2      *string `json:"line2"`
	City       string  `json:"city" binding:"required"`
	Province   string  `json:"province" binding:"required"`
	PostalCode *string `json:"postalCode"`
	IsDefault  bool    `json:"isDefault"`
}

// unsetOtherDefaultAddresses clears the default flag on every address
// the user owns except the one being written.
func unsetOtherDefaultAddresses(tx *sql.Tx, userID, keepID int64) error {
	_, err := tx.Exec("UPDATE addresses SET is_default = 0 WHERE user_id = ? AND id != ?", userID, keepID)
	return err
}

// CreateAddress is the handler for POST /v1/addresses
// A user's first address becomes the default regardless of the flag.
func (h *Handlers) CreateAddress(c *gin.Context) {
	userID := currentUserID(c)

	var input AddressInput
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
	if err := tx.QueryRow("SELECT COUNT(*) FROM addresses WHERE user_id = ?", userID).Scan(&existing); err != nil {
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}
	isDefault := input.IsDefault || existing == 0

	result, err := tx.Exec(`
		INSERT INTO addresses (user_id, full_name, phone, line1, line2, city, province, postal_code, is_default, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`,
		userID, input.FullName, input.Phone, input.Line1, input.Line2,
		input.City, input.Province, input.PostalCode, isDefault)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create address")
		return
	}
	addressID, _ := result.LastInsertId()

	if isDefault {
		if err := unsetOtherDefaultAddresses(tx, userID, addressID); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to update default address")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to commit transaction")
		return
	}

	respondOK(c, http.StatusCreated, "Address created", gin.H{"addressId": addressID, "isDefault": isDefault})
}

// GetMyAddresses is the handler for GET /v1/addresses
func (h *Handlers) GetMyAddresses(c *gin.Context) {
	userID := currentUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, user_id, full_name, phone, line1, line2, city, province, postal_code, is_default, created_at
		FROM addresses
		WHERE user_id = ?
		ORDER BY is_default DESC, created_at DESC`, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load addresses")
		return
	}
	defer rows.Close()

	addresses := []models.Address{}
	for rows.Next() {
		var a models.Address
		err := rows.Scan(&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.Line1, &a.Line2,
			&a.City, &a.Province, &a.PostalCode, &a.IsDefault, &a.CreatedAt)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan address")
			return
		}
		addresses = append(addresses, a)
	}

	respondOK(c, http.StatusOK, "Your addresses", addresses)
}

// UpdateAddress is the handler for PUT /v1/addresses/:id
func (h *Handlers) UpdateAddress(c *gin.Context) {
	userID := currentUserID(c)
	addressID := c.Param("id")

	var input AddressInput
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

	var id int64
	err = tx.QueryRow("SELECT id FROM addresses WHERE id = ? AND user_id = ?", addressID, userID).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Address not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	_, err = tx.Exec(`
		UPDATE addresses
		SET full_name = ?, phone = ?, line1 = ?, line2 = ?, city = ?, province = ?, postal_code = ?, is_default = ?
		WHERE id = ?`,
		input.FullName, input.Phone, input.Line1, input.Line2, input.City,
		input.Province, input.PostalCode, input.IsDefault, id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update address")
		return
	}

	if input.IsDefault {
		if err := unsetOtherDefaultAddresses(tx, userID, id); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to update default address")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to commit transaction")
		return
	}

	respondOK(c, http.StatusOK, "Address updated", nil)
}

// DeleteAddress is the handler for DELETE /v1/addresses/:id
// An address referenced by the active subscription cannot be removed.
func (h *Handlers) DeleteAddress(c *gin.Context) {
	userID := currentUserID(c)
	addressID := c.Param("id")

	var inUse int
	err := h.DB.QueryRow(
		"SELECT COUNT(*) FROM meal_subscriptions WHERE address_id = ? AND status = 'active'",
		addressID).Scan(&inUse)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if inUse > 0 {
		respondError(c, http.StatusBadRequest, "Address is used by an active subscription")
		return
	}

	result, err := h.DB.Exec("DELETE FROM addresses WHERE id = ? AND user_id = ?", addressID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete address")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		respondError(c, http.StatusNotFound, "Address not found")
		return
	}

	respondOK(c, http.StatusOK, "Address deleted", nil)
}
