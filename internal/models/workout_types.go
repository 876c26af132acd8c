package models

import "time"

// Workout is the model for the 'workouts' table: a scheduled session
// for one user on one date.
type Workout struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"userId" db:"user_id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	DurationMins   int       `json:"durationMins" db:"duration_mins"`
	Level          string    `json:"level" db:"level"` // beginner, intermediate, advanced
	CaloriesBurned int       `json:"caloriesBurned" db:"calories_burned"`
	Date           time.Time `json:"date" db:"date"`
	Completed      bool      `json:"completed" db:"completed"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// WorkoutLog is the model for the 'workout_logs' table: a completion
// record with the actuals.
type WorkoutLog struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"userId" db:"user_id"`
	WorkoutID      int64     `json:"workoutId" db:"workout_id"`
	Date           time.Time `json:"date" db:"date"`
	Completed      bool      `json:"completed" db:"completed"`
	Satisfaction   *int      `json:"satisfaction,omitempty" db:"satisfaction"` // 1-5
	Notes          *string   `json:"notes,omitempty" db:"notes"`
	CaloriesBurned *int      `json:"caloriesBurned,omitempty" db:"calories_burned"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
