package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/fitfuel/fitfuel-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Client Dashboard & Analytics Handlers ---
//

// dayNutrition totals one day of diary entries in SQL.
func (h *Handlers) dayNutrition(userID int64, date time.Time) (calories, protein, carbs, fats float64, err error) {
	err = h.DB.QueryRow(`
		SELECT COALESCE(SUM(COALESCE(f.calories, m.calories) * e.servings), 0),
		       COALESCE(SUM(COALESCE(f.protein, m.protein) * e.servings), 0),
		       COALESCE(SUM(COALESCE(f.carbs, m.carbs) * e.servings), 0),
		       COALESCE(SUM(COALESCE(f.fat, m.fats) * e.servings), 0)
		FROM food_diary_entries e
		LEFT JOIN foods f ON e.food_id = f.id
		LEFT JOIN meals m ON e.meal_id = m.id
		WHERE e.user_id = ? AND e.date = ?`, userID, date).Scan(&calories, &protein, &carbs, &fats)
	return
}

// GetTodayDashboard is the handler for GET /v1/dashboard/today
// Consumed vs target for the day, plus today's workouts.
func (h *Handlers) GetTodayDashboard(c *gin.Context) {
	userID := currentUserID(c)
	today := timeNow().Truncate(24 * time.Hour)

	calories, protein, carbs, fats, err := h.dayNutrition(userID, today)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to total today's diary")
		return
	}

	// Targets come from the active macro plan, zero when none is set.
	var target models.MacroPlan
	err = h.DB.QueryRow(`
		SELECT calorie_target, protein_g, carbs_g, fats_g
		FROM macro_plans WHERE user_id = ? AND active = 1
		ORDER BY created_at DESC LIMIT 1`, userID).Scan(
		&target.CalorieTarget, &target.ProteinG, &target.CarbsG, &target.FatsG)
	if err != nil && err != sql.ErrNoRows {
		respondError(c, http.StatusInternalServerError, "Failed to load macro plan")
		return
	}

	rows, err := h.DB.Query(`
		SELECT id, user_id, name, description, duration_mins, level, calories_burned, date, completed, created_at, updated_at
		FROM workouts WHERE user_id = ? AND date = ?
		ORDER BY created_at ASC`, userID, today)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load workouts")
		return
	}
	defer rows.Close()

	workouts := []models.Workout{}
	var burned int
	for rows.Next() {
		var w models.Workout
		err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.Description, &w.DurationMins,
			&w.Level, &w.CaloriesBurned, &w.Date, &w.Completed, &w.CreatedAt, &w.UpdatedAt)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan workout")
			return
		}
		if w.Completed {
			burned += w.CaloriesBurned
		}
		workouts = append(workouts, w)
	}

	respondOK(c, http.StatusOK, "Today's dashboard", gin.H{
		"date": today.Format("2006-01-02"),
		"nutrition": gin.H{
			"consumed": gin.H{
				"calories": round2(calories),
				"protein":  round2(protein),
				"carbs":    round2(carbs),
				"fats":     round2(fats),
			},
			"target": gin.H{
				"calories": target.CalorieTarget,
				"protein":  target.ProteinG,
				"carbs":    target.CarbsG,
				"fats":     target.FatsG,
			},
		},
		"workouts":       workouts,
		"caloriesBurned": burned,
	})
}

// GetWeeklyAnalytics is the handler for GET /v1/analytics/weekly?week_start=
// Seven daily rows from the given Monday, with weekly averages.
func (h *Handlers) GetWeeklyAnalytics(c *gin.Context) {
	userID := currentUserID(c)

	weekStart, err := parseWeekStart(c.Query("week_start"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	days := make([]gin.H, 0, 7)
	var totalCalories, totalProtein float64
	var totalWorkouts int
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)

		calories, protein, _, _, err := h.dayNutrition(userID, day)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to total diary")
			return
		}

		var workoutsDone int
		err = h.DB.QueryRow(
			"SELECT COUNT(*) FROM workouts WHERE user_id = ? AND date = ? AND completed = 1",
			userID, day).Scan(&workoutsDone)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to count workouts")
			return
		}

		totalCalories += calories
		totalProtein += protein
		totalWorkouts += workoutsDone
		days = append(days, gin.H{
			"date":              day.Format("2006-01-02"),
			"calories":          round2(calories),
			"protein":           round2(protein),
			"workoutsCompleted": workoutsDone,
		})
	}

	respondOK(c, http.StatusOK, "Weekly analytics", gin.H{
		"weekStart": weekStart.Format("2006-01-02"),
		"days":      days,
		"averages": gin.H{
			"calories": round2(totalCalories / 7),
			"protein":  round2(totalProtein / 7),
		},
		"workoutsCompleted": totalWorkouts,
	})
}

// GetUpcomingDeliveries is the handler for GET /v1/deliveries/upcoming
func (h *Handlers) GetUpcomingDeliveries(c *gin.Context) {
	userID := currentUserID(c)

	rows, err := h.DB.Query(`
		SELECT d.id, d.subscription_id, d.order_id, d.scheduled_date, d.status, d.created_at
		FROM deliveries d
		JOIN meal_subscriptions s ON d.subscription_id = s.id
		WHERE s.user_id = ? AND d.status IN ('scheduled', 'out_for_delivery')
		ORDER BY d.scheduled_date ASC`, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load deliveries")
		return
	}
	defer rows.Close()

	deliveries := []models.Delivery{}
	for rows.Next() {
		var d models.Delivery
		err := rows.Scan(&d.ID, &d.SubscriptionID, &d.OrderID, &d.ScheduledDate, &d.Status, &d.CreatedAt)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan delivery")
			return
		}
		deliveries = append(deliveries, d)
	}

	respondOK(c, http.StatusOK, "Upcoming deliveries", deliveries)
}

//
// --- Coach Handlers (role-guarded) ---
//

// GetCoachClients is the handler for GET /v1/coach/clients
func (h *Handlers) GetCoachClients(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT u.id, u.full_name, u.email, p.goal, p.weight, p.target_weight, p.unit_system
		FROM users u
		LEFT JOIN user_profiles p ON u.id = p.user_id
		WHERE u.role = 'client' AND u.status = 'active'
		ORDER BY u.full_name ASC`)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load clients")
		return
	}
	defer rows.Close()

	clients := []gin.H{}
	for rows.Next() {
		var id int64
		var fullName, email string
		var goal, unitSystem sql.NullString
		var weight, targetWeight sql.NullFloat64
		if err := rows.Scan(&id, &fullName, &email, &goal, &weight, &targetWeight, &unitSystem); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan client")
			return
		}
		clients = append(clients, gin.H{
			"id":            id,
			"fullName":      fullName,
			"email":         email,
			"goal":          goal.String,
			"currentWeight": weight.Float64,
			"targetWeight":  targetWeight.Float64,
			"unitSystem":    unitSystem.String,
		})
	}

	respondOK(c, http.StatusOK, "Clients", clients)
}

// GetCoachClientDetail is the handler for GET /v1/coach/clients/:id
// A client snapshot: profile, active macro plan, last 14 days of
// activity counts.
func (h *Handlers) GetCoachClientDetail(c *gin.Context) {
	clientID := c.Param("id")

	var user models.User
	err := h.DB.QueryRow(
		"SELECT id, full_name, email, status FROM users WHERE id = ? AND role = 'client'",
		clientID).Scan(&user.ID, &user.FullName, &user.Email, &user.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Client not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	profile, err := h.fetchProfile(user.ID)
	if err != nil && err != sql.ErrNoRows {
		respondError(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	since := timeNow().AddDate(0, 0, -14)

	var diaryEntries, workoutsCompleted int
	if err := h.DB.QueryRow(
		"SELECT COUNT(*) FROM food_diary_entries WHERE user_id = ? AND date >= ?",
		user.ID, since).Scan(&diaryEntries); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to count diary entries")
		return
	}
	if err := h.DB.QueryRow(
		"SELECT COUNT(*) FROM workout_logs WHERE user_id = ? AND date >= ?",
		user.ID, since).Scan(&workoutsCompleted); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to count workouts")
		return
	}

	detail := gin.H{
		"client": gin.H{
			"id":       user.ID,
			"fullName": user.FullName,
			"email":    user.Email,
			"status":   user.Status,
		},
		"profile": profile,
		"last14Days": gin.H{
			"diaryEntries":      diaryEntries,
			"workoutsCompleted": workoutsCompleted,
		},
	}
	if profile != nil {
		detail["bmi"] = profile.BMI()
	}

	respondOK(c, http.StatusOK, "Client detail", detail)
}

// GetRevenueByDay is the handler for GET /v1/coach/revenue-by-day?from=&to=
// Paid-order revenue grouped by calendar day.
func (h *Handlers) GetRevenueByDay(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "from must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "to must be YYYY-MM-DD")
		return
	}
	if to.Before(from) {
		respondError(c, http.StatusBadRequest, "to must not be before from")
		return
	}

	rows, err := h.DB.Query(`
		SELECT DATE(created_at) AS day, COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM orders
		WHERE payment_status = 'paid' AND DATE(created_at) BETWEEN ? AND ?
		GROUP BY DATE(created_at)
		ORDER BY day ASC`, from, to)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load revenue")
		return
	}
	defer rows.Close()

	daily := []gin.H{}
	var total float64
	for rows.Next() {
		var day time.Time
		var revenue float64
		var orderCount int
		if err := rows.Scan(&day, &revenue, &orderCount); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan revenue row")
			return
		}
		total += revenue
		daily = append(daily, gin.H{
			"date":    day.Format("2006-01-02"),
			"revenue": round2(revenue),
			"orders":  orderCount,
		})
	}

	respondOK(c, http.StatusOK, "Revenue by day", gin.H{
		"from":         from.Format("2006-01-02"),
		"to":           to.Format("2006-01-02"),
		"days":         daily,
		"totalRevenue": round2(total),
	})
}

// GetCoachDashboardStats is the handler for GET /v1/coach/dashboard-stats
func (h *Handlers) GetCoachDashboardStats(c *gin.Context) {
	var stats struct {
		ActiveClients       int     `json:"activeClients"`
		ActiveSubscriptions int     `json:"activeSubscriptions"`
		PaidOrders          int     `json:"paidOrders"`
		TotalRevenue        float64 `json:"totalRevenue"`
	}

	queries := []struct {
		sql  string
		dest interface{}
	}{
		{"SELECT COUNT(*) FROM users WHERE role = 'client' AND status = 'active'", &stats.ActiveClients},
		{"SELECT COUNT(*) FROM meal_subscriptions WHERE status = 'active'", &stats.ActiveSubscriptions},
		{"SELECT COUNT(*) FROM orders WHERE payment_status = 'paid'", &stats.PaidOrders},
		{"SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE payment_status = 'paid'", &stats.TotalRevenue},
	}
	for _, q := range queries {
		if err := h.DB.QueryRow(q.sql).Scan(q.dest); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to load dashboard stats")
			return
		}
	}
	stats.TotalRevenue = round2(stats.TotalRevenue)

	respondOK(c, http.StatusOK, "Dashboard stats", stats)
}
