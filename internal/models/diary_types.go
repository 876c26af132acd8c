package models

import "time"

// FoodDiaryEntry is the model for the 'food_diary_entries' table.
// Exactly one of FoodID/MealID is set.
type FoodDiaryEntry struct {
	ID       int64     `json:"id" db:"id"`
	UserID   int64     `json:"userId" db:"user_id"`
	FoodID   *int64    `json:"foodId,omitempty" db:"food_id"`
	MealID   *int64    `json:"mealId,omitempty" db:"meal_id"`
	Date     time.Time `json:"date" db:"date"`
	MealTime string    `json:"mealTime" db:"meal_time"` // breakfast, lunch, dinner, snack
	Servings float64   `json:"servings" db:"servings"`
	Notes    *string   `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Joined nutrition numbers for responses (servings applied).
	ItemName      string  `json:"itemName,omitempty" db:"-"`
	TotalCalories float64 `json:"totalCalories" db:"-"`
	TotalProtein  float64 `json:"totalProtein" db:"-"`
	TotalCarbs    float64 `json:"totalCarbs" db:"-"`
	TotalFats     float64 `json:"totalFats" db:"-"`
}
