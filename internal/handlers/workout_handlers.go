package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/fitfuel/fitfuel-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Workout Handlers ---
//

// WorkoutInput is the body for creating or updating a workout.
type WorkoutInput struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	DurationMins   int    `json:"durationMins" binding:"required,gt=0"`
	Level          string `json:"level" binding:"required,oneof=beginner intermediate advanced"`
	CaloriesBurned int    `json:"caloriesBurned" binding:"gte=0"`
	Date           string `json:"date" binding:"required"` // YYYY-MM-DD
}

// CreateWorkout is the handler for POST /v1/workouts
func (h *Handlers) CreateWorkout(c *gin.Context) {
	userID := currentUserID(c)

	var input WorkoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	result, err := h.DB.Exec(`
		INSERT INTO workouts (user_id, name, description, duration_mins, level, calories_burned, date, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, NOW(), NOW())`,
		userID, input.Name, input.Description, input.DurationMins, input.Level, input.CaloriesBurned, date)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create workout")
		return
	}
	workoutID, _ := result.LastInsertId()

	respondOK(c, http.StatusCreated, "Workout created", gin.H{"workoutId": workoutID})
}

// GetMyWorkouts is the handler for GET /v1/workouts
// Optional filters: date, completed.
func (h *Handlers) GetMyWorkouts(c *gin.Context) {
	userID := currentUserID(c)

	query := `
		SELECT id, user_id, name, description, duration_mins, level, calories_burned, date, completed, created_at, updated_at
		FROM workouts WHERE user_id = ?`
	args := []interface{}{userID}

	if date := c.Query("date"); date != "" {
		query += " AND date = ?"
		args = append(args, date)
	}
	if completed := c.Query("completed"); completed != "" {
		query += " AND completed = ?"
		args = append(args, completed == "true")
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load workouts")
		return
	}
	defer rows.Close()

	workouts := []models.Workout{}
	for rows.Next() {
		var w models.Workout
		err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.Description, &w.DurationMins,
			&w.Level, &w.CaloriesBurned, &w.Date, &w.Completed, &w.CreatedAt, &w.UpdatedAt)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan workout")
			return
		}
		workouts = append(workouts, w)
	}

	respondOK(c, http.StatusOK, "Your workouts", workouts)
}

// UpdateWorkout is the handler for PUT /v1/workouts/:id
func (h *Handlers) UpdateWorkout(c *gin.Context) {
	userID := currentUserID(c)
	workoutID := c.Param("id")

	var input WorkoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	result, err := h.DB.Exec(`
		UPDATE workouts
		SET name = ?, description = ?, duration_mins = ?, level = ?, calories_burned = ?, date = ?, updated_at = NOW()
		WHERE id = ? AND user_id = ?`,
		input.Name, input.Description, input.DurationMins, input.Level,
		input.CaloriesBurned, date, workoutID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update workout")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		respondError(c, http.StatusNotFound, "Workout not found")
		return
	}

	respondOK(c, http.StatusOK, "Workout updated", nil)
}

// DeleteWorkout is the handler for DELETE /v1/workouts/:id
func (h *Handlers) DeleteWorkout(c *gin.Context) {
	userID := currentUserID(c)
	workoutID := c.Param("id")

	result, err := h.DB.Exec("DELETE FROM workouts WHERE id = ? AND user_id = ?", workoutID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete workout")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		respondError(c, http.StatusNotFound, "Workout not found")
		return
	}

	respondOK(c, http.StatusOK, "Workout deleted", nil)
}

// CompleteWorkoutInput records the actuals of a finished session.
type CompleteWorkoutInput struct {
	Satisfaction   *int    `json:"satisfaction" binding:"omitempty,min=1,max=5"`
	Notes          *string `json:"notes"`
	CaloriesBurned *int    `json:"caloriesBurned" binding:"omitempty,gte=0"`
}

// CompleteWorkout is the handler for POST /v1/workouts/:id/complete
// Marks the workout done and writes a log row in one transaction.
func (h *Handlers) CompleteWorkout(c *gin.Context) {
	userID := currentUserID(c)
	workoutID := c.Param("id")

	var input CompleteWorkoutInput
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
	var date time.Time
	var planned int
	err = tx.QueryRow("SELECT id, date, calories_burned FROM workouts WHERE id = ? AND user_id = ? FOR UPDATE",
		workoutID, userID).Scan(&id, &date, &planned)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Workout not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if _, err := tx.Exec("UPDATE workouts SET completed = 1, updated_at = NOW() WHERE id = ?", id); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to mark workout complete")
		return
	}

	// Fall back to the planned burn when no actual was reported.
	burned := input.CaloriesBurned
	if burned == nil {
		burned = &planned
	}

	result, err := tx.Exec(`
		INSERT INTO workout_logs (user_id, workout_id, date, completed, satisfaction, notes, calories_burned, created_at)
		VALUES (?, ?, ?, 1, ?, ?, ?, NOW())`,
		userID, id, date, input.Satisfaction, input.Notes, burned)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to log workout")
		return
	}
	logID, _ := result.LastInsertId()

	if err := tx.Commit(); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to commit transaction")
		return
	}

	respondOK(c, http.StatusOK, "Workout completed", gin.H{"workoutLogId": logID, "caloriesBurned": burned})
}
