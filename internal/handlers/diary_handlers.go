package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/fitfuel/fitfuel-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Food Diary Handlers ---
//

// DiaryEntryInput logs either a food or a catalog meal, never both.
type DiaryEntryInput struct {
	FoodID   *int64  `json:"foodId"`
	MealID   *int64  `json:"mealId"`
	Date     string  `json:"date" binding:"required"` // YYYY-MM-DD
	MealTime string  `json:"mealTime" binding:"required,oneof=breakfast lunch dinner snack"`
	Servings float64 `json:"servings" binding:"required,gt=0"`
	Notes    *string `json:"notes"`
}

// CreateDiaryEntry is the handler for POST /v1/food-diary
func (h *Handlers) CreateDiaryEntry(c *gin.Context) {
	userID := currentUserID(c)

	var input DiaryEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if (input.FoodID == nil) == (input.MealID == nil) {
		respondError(c, http.StatusBadRequest, "Provide exactly one of foodId or mealId")
		return
	}

	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	// The logged item must exist; custom foods must belong to the caller.
	if input.FoodID != nil {
		var id int64
		err = h.DB.QueryRow("SELECT id FROM foods WHERE id = ? AND (is_custom = 0 OR created_by = ?)",
			*input.FoodID, userID).Scan(&id)
	} else {
		var id int64
		err = h.DB.QueryRow("SELECT id FROM meals WHERE id = ?", *input.MealID).Scan(&id)
	}
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusBadRequest, "Logged item not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	result, err := h.DB.Exec(`
		INSERT INTO food_diary_entries (user_id, food_id, meal_id, date, meal_time, servings, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW())`,
		userID, input.FoodID, input.MealID, date, input.MealTime, input.Servings, input.Notes)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save diary entry")
		return
	}
	entryID, _ := result.LastInsertId()

	respondOK(c, http.StatusCreated, "Diary entry logged", gin.H{"entryId": entryID})
}

// diaryEntriesForDate loads a day's entries with nutrition joined from
// whichever source each row points at, servings applied.
func (h *Handlers) diaryEntriesForDate(userID int64, date time.Time) ([]models.FoodDiaryEntry, error) {
	rows, err := h.DB.Query(`
		SELECT e.id, e.user_id, e.food_id, e.meal_id, e.date, e.meal_time, e.servings, e.notes, e.created_at,
		       COALESCE(f.name, m.name),
		       COALESCE(f.calories, m.calories) * e.servings,
		       COALESCE(f.protein, m.protein) * e.servings,
		       COALESCE(f.carbs, m.carbs) * e.servings,
		       COALESCE(f.fat, m.fats) * e.servings
		FROM food_diary_entries e
		LEFT JOIN foods f ON e.food_id = f.id
		LEFT JOIN meals m ON e.meal_id = m.id
		WHERE e.user_id = ? AND e.date = ?
		ORDER BY e.created_at ASC`, userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.FoodDiaryEntry{}
	for rows.Next() {
		var e models.FoodDiaryEntry
		err := rows.Scan(&e.ID, &e.UserID, &e.FoodID, &e.MealID, &e.Date, &e.MealTime,
			&e.Servings, &e.Notes, &e.CreatedAt,
			&e.ItemName, &e.TotalCalories, &e.TotalProtein, &e.TotalCarbs, &e.TotalFats)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetDiary is the handler for GET /v1/food-diary?date=
func (h *Handlers) GetDiary(c *gin.Context) {
	userID := currentUserID(c)

	date, err := time.Parse("2006-01-02", c.DefaultQuery("date", timeNow().Format("2006-01-02")))
	if err != nil {
		respondError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	entries, err := h.diaryEntriesForDate(userID, date)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load diary")
		return
	}

	respondOK(c, http.StatusOK, "Food diary", gin.H{
		"date":    date.Format("2006-01-02"),
		"entries": entries,
	})
}

// GetDiarySummary is the handler for GET /v1/food-diary/summary?date=
// Groups the day by meal time and totals the macros.
func (h *Handlers) GetDiarySummary(c *gin.Context) {
	userID := currentUserID(c)

	date, err := time.Parse("2006-01-02", c.DefaultQuery("date", timeNow().Format("2006-01-02")))
	if err != nil {
		respondError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	entries, err := h.diaryEntriesForDate(userID, date)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load diary")
		return
	}

	byMealTime := map[string][]models.FoodDiaryEntry{}
	var calories, protein, carbs, fats float64
	for _, e := range entries {
		byMealTime[e.MealTime] = append(byMealTime[e.MealTime], e)
		calories += e.TotalCalories
		protein += e.TotalProtein
		carbs += e.TotalCarbs
		fats += e.TotalFats
	}

	respondOK(c, http.StatusOK, "Daily summary", gin.H{
		"date":       date.Format("2006-01-02"),
		"byMealTime": byMealTime,
		"totals": gin.H{
			"calories": round2(calories),
			"protein":  round2(protein),
			"carbs":    round2(carbs),
			"fats":     round2(fats),
		},
	})
}

// DeleteDiaryEntry is the handler for DELETE /v1/food-diary/:id
func (h *Handlers) DeleteDiaryEntry(c *gin.Context) {
	userID := currentUserID(c)
	entryID := c.Param("id")

	result, err := h.DB.Exec("DELETE FROM food_diary_entries WHERE id = ? AND user_id = ?", entryID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete diary entry")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		respondError(c, http.StatusNotFound, "Diary entry not found")
		return
	}

	respondOK(c, http.StatusOK, "Diary entry deleted", nil)
}
