package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/fitfuel/fitfuel-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Meal Subscription Handlers ---
//

// ConfigureSubscriptionInput is the body for the configure endpoint.
type ConfigureSubscriptionInput struct {
	PlanID            int64  `json:"plan_id" binding:"required"`
	AddressID         int64  `json:"address_id" binding:"required"`
	MealsPerWeek      int    `json:"meals_per_week" binding:"required,gt=0"`
	Portion           string `json:"portion" binding:"required,oneof=regular large"`
	ProteinPreference string `json:"protein_preference" binding:"required"`
	StartDate         string `json:"start_date" binding:"required"` // YYYY-MM-DD
}

// ConfigureSubscription is the handler for POST /v1/meal-workflow/configure
// It upserts the caller's single active subscription: found by
// (user, status='active'), created when absent. Repeated calls are safe.
func (h *Handlers) ConfigureSubscription(c *gin.Context) {
	userID := currentUserID(c)

	// 1. --- Bind & Validate JSON ---
	var input ConfigureSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	startDate, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}

	// 2. --- Validate References ---
	// The plan must exist under an active product; the address must
	// belong to the caller.
	var planID int64
	err = h.DB.QueryRow(`
		SELECT p.id FROM plans p
		JOIN products pr ON p.product_id = pr.id
		WHERE p.id = ? AND pr.active = 1`, input.PlanID).Scan(&planID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusBadRequest, "Plan not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var addressID int64
	err = h.DB.QueryRow("SELECT id FROM addresses WHERE id = ? AND user_id = ?", input.AddressID, userID).Scan(&addressID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusBadRequest, "Address not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	// 3. --- Upsert the Active Subscription ---
	tx, err := h.DB.Begin()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to start transaction")
		return
	}
	defer tx.Rollback()

	now := time.Now()
	var subID int64
	err = tx.QueryRow("SELECT id FROM meal_subscriptions WHERE user_id = ? AND status = 'active' FOR UPDATE", userID).Scan(&subID)

	switch {
	case err == sql.ErrNoRows:
		result, insErr := tx.Exec(`
			INSERT INTO meal_subscriptions
			(user_id, plan_id, address_id, meals_per_week, portion, protein_preference, start_date, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, 'active', ?, ?)`,
			userID, input.PlanID, input.AddressID, input.MealsPerWeek, input.Portion, input.ProteinPreference, startDate, now, now)
		if insErr != nil {
			respondError(c, http.StatusInternalServerError, "Failed to create subscription")
			return
		}
		subID, _ = result.LastInsertId()
	case err != nil:
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	default:
		_, updErr := tx.Exec(`
			UPDATE meal_subscriptions
			SET plan_id = ?, address_id = ?, meals_per_week = ?, portion = ?, protein_preference = ?, start_date = ?, updated_at = ?
			WHERE id = ?`,
			input.PlanID, input.AddressID, input.MealsPerWeek, input.Portion, input.ProteinPreference, startDate, now, subID)
		if updErr != nil {
			respondError(c, http.StatusInternalServerError, "Failed to update subscription")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to commit transaction")
		return
	}

	// 4. --- Return the Subscription ---
	sub, err := h.fetchSubscription(subID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load subscription")
		return
	}

	respondOK(c, http.StatusOK, "Subscription configured", sub)
}

// GetCurrentSubscription is the handler for GET /v1/meal-workflow/current
func (h *Handlers) GetCurrentSubscription(c *gin.Context) {
	userID := currentUserID(c)

	var subID int64
	err := h.DB.QueryRow("SELECT id FROM meal_subscriptions WHERE user_id = ? AND status = 'active'", userID).Scan(&subID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "No active subscription")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	sub, err := h.fetchSubscription(subID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load subscription")
		return
	}

	// Selections for the week in progress.
	weekStart := currentMonday(time.Now())
	selRows, err := h.DB.Query(`
		SELECT ws.id, ws.subscription_id, ws.week_start, ws.meal_id, ws.quantity, ws.created_at, m.name, m.price
		FROM weekly_meal_selections ws
		JOIN meals m ON ws.meal_id = m.id
		WHERE ws.subscription_id = ? AND ws.week_start = ?
		ORDER BY m.name ASC`, subID, weekStart)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load selections")
		return
	}
	defer selRows.Close()

	selections := []models.WeeklyMealSelection{}
	for selRows.Next() {
		var s models.WeeklyMealSelection
		if err := selRows.Scan(&s.ID, &s.SubscriptionID, &s.WeekStart, &s.MealID, &s.Quantity, &s.CreatedAt, &s.MealName, &s.Price); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan selection")
			return
		}
		selections = append(selections, s)
	}

	// Upcoming deliveries, soonest first, capped at five.
	rows, err := h.DB.Query(`
		SELECT id, subscription_id, order_id, scheduled_date, status, created_at
		FROM deliveries
		WHERE subscription_id = ? AND scheduled_date >= CURDATE() AND status IN ('scheduled', 'out_for_delivery')
		ORDER BY scheduled_date ASC
		LIMIT 5`, subID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load deliveries")
		return
	}
	defer rows.Close()

	deliveries := []models.Delivery{}
	for rows.Next() {
		var d models.Delivery
		if err := rows.Scan(&d.ID, &d.SubscriptionID, &d.OrderID, &d.ScheduledDate, &d.Status, &d.CreatedAt); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan delivery")
			return
		}
		deliveries = append(deliveries, d)
	}

	respondOK(c, http.StatusOK, "Current subscription", gin.H{
		"subscription":       sub,
		"weekStart":          weekStart.Format("2006-01-02"),
		"selections":         selections,
		"upcomingDeliveries": deliveries,
	})
}

// currentMonday truncates a moment to the Monday that starts its week.
func currentMonday(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// fetchSubscription loads one subscription row by ID.
func (h *Handlers) fetchSubscription(subID int64) (*models.MealSubscription, error) {
	var sub models.MealSubscription
	query := `
		SELECT id, user_id, plan_id, address_id, meals_per_week, portion, protein_preference, start_date, status, created_at, updated_at
		FROM meal_subscriptions WHERE id = ?`
	err := h.DB.QueryRow(query, subID).Scan(
		&sub.ID, &sub.UserID, &sub.PlanID, &sub.AddressID, &sub.MealsPerWeek,
		&sub.Portion, &sub.ProteinPreference, &sub.StartDate, &sub.Status,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
