package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

//
// --- Weekly Meal Selection Handlers ---
//

// SelectMealsInput is the body for the select-meals endpoint.
type SelectMealsInput struct {
	SubscriptionID int64  `json:"subscription_id" binding:"required"`
	WeekStart      string `json:"week_start" binding:"required"` // YYYY-MM-DD, a Monday
	MealID         int64  `json:"meal_id" binding:"required"`
	Quantity       int    `json:"quantity" binding:"gte=0"`
}

// parseWeekStart parses a week key and rejects anything that is not a
// Monday, so a week's totals can never fragment across stray keys.
func parseWeekStart(value string) (time.Time, error) {
	weekStart, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("week_start must be YYYY-MM-DD")
	}
	if weekStart.Weekday() != time.Monday {
		return time.Time{}, fmt.Errorf("week_start must be a Monday")
	}
	return weekStart, nil
}

// SelectMeals is the handler for POST /v1/meal-workflow/select-meals
// It upserts a single (subscription, week, meal) selection while
// enforcing the subscription's weekly quota. The subscription row is
// locked for the duration of the transaction so two concurrent requests
// cannot both pass the quota check and jointly exceed the cap.
func (h *Handlers) SelectMeals(c *gin.Context) {
	userID := currentUserID(c)

	// 1. --- Bind & Validate JSON ---
	var input SelectMealsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	weekStart, err := parseWeekStart(input.WeekStart)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	// 2. --- Begin Transaction & Lock the Subscription ---
	tx, err := h.DB.BeginTx(c, nil)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to start transaction")
		return
	}
	defer tx.Rollback()

	var ownerID int64
	var mealsPerWeek int
	err = tx.QueryRow(
		"SELECT user_id, meals_per_week FROM meal_subscriptions WHERE id = ? FOR UPDATE",
		input.SubscriptionID,
	).Scan(&ownerID, &mealsPerWeek)
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

	// 3. --- Quantity 0 Means "no selection" ---
	if input.Quantity == 0 {
		_, err = tx.Exec(
			"DELETE FROM weekly_meal_selections WHERE subscription_id = ? AND week_start = ? AND meal_id = ?",
			input.SubscriptionID, weekStart, input.MealID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to remove selection")
			return
		}
		if err := tx.Commit(); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to commit transaction")
			return
		}
		respondOK(c, http.StatusOK, "No selection for this meal", nil)
		return
	}

	// 4. --- Re-check the Quota From Persisted Rows ---
	// Summing the actual rows (excluding the meal being written) avoids
	// any drift a cached counter could accumulate.
	var existingSum int
	err = tx.QueryRow(`
		SELECT COALESCE(SUM(quantity), 0)
		FROM weekly_meal_selections
		WHERE subscription_id = ? AND week_start = ? AND meal_id != ?`,
		input.SubscriptionID, weekStart, input.MealID,
	).Scan(&existingSum)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to sum existing selections")
		return
	}

	if existingSum+input.Quantity > mealsPerWeek {
		respondError(c, http.StatusBadRequest, fmt.Sprintf(
			"Weekly meal limit exceeded: %d meals selected, limit is %d",
			existingSum+input.Quantity, mealsPerWeek))
		return
	}

	// 5. --- Verify the Meal & Upsert the Selection ---
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

	_, err = tx.Exec(`
		INSERT INTO weekly_meal_selections (subscription_id, week_start, meal_id, quantity, created_at)
		VALUES (?, ?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE quantity = VALUES(quantity)`,
		input.SubscriptionID, weekStart, input.MealID, input.Quantity)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save selection")
		return
	}

	// 6. --- Commit ---
	if err := tx.Commit(); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to commit transaction")
		return
	}

	respondOK(c, http.StatusOK, "Selection saved", gin.H{
		"subscriptionId": input.SubscriptionID,
		"weekStart":      input.WeekStart,
		"mealId":         input.MealID,
		"quantity":       input.Quantity,
		"totalSelected":  existingSum + input.Quantity,
		"limit":          mealsPerWeek,
	})
}

// GetWeekSelections is the handler for GET /v1/meal-workflow/selections
// Query params: subscription_id, week_start.
func (h *Handlers) GetWeekSelections(c *gin.Context) {
	userID := currentUserID(c)

	subID := c.Query("subscription_id")
	weekStart, err := parseWeekStart(c.Query("week_start"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var ownerID int64
	err = h.DB.QueryRow("SELECT user_id FROM meal_subscriptions WHERE id = ?", subID).Scan(&ownerID)
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

	rows, err := h.DB.Query(`
		SELECT ws.id, ws.subscription_id, ws.week_start, ws.meal_id, ws.quantity, ws.created_at, m.name, m.price
		FROM weekly_meal_selections ws
		JOIN meals m ON ws.meal_id = m.id
		WHERE ws.subscription_id = ? AND ws.week_start = ?
		ORDER BY m.name ASC`, subID, weekStart)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load selections")
		return
	}
	defer rows.Close()

	selections := []gin.H{}
	totalMeals := 0
	for rows.Next() {
		var id, subscriptionID, mealIDVal int64
		var week, createdAt time.Time
		var quantity int
		var mealName string
		var price float64
		if err := rows.Scan(&id, &subscriptionID, &week, &mealIDVal, &quantity, &createdAt, &mealName, &price); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan selection")
			return
		}
		totalMeals += quantity
		selections = append(selections, gin.H{
			"id":       id,
			"mealId":   mealIDVal,
			"mealName": mealName,
			"price":    price,
			"quantity": quantity,
		})
	}

	respondOK(c, http.StatusOK, "Weekly selections", gin.H{
		"weekStart":  weekStart.Format("2006-01-02"),
		"totalMeals": totalMeals,
		"selections": selections,
	})
}
