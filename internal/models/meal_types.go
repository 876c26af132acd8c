package models

import "time"

// Meal is the model for the 'meals' table (the curated weekly menu).
type Meal struct {
	ID            int64   `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	Description   string  `json:"description" db:"description"`
	MealType      string  `json:"mealType" db:"meal_type"` // breakfast, lunch, dinner, snack
	Price         float64 `json:"price" db:"price"`
	Calories      int     `json:"calories" db:"calories"`
	Protein       float64 `json:"protein" db:"protein"`
	Carbs         float64 `json:"carbs" db:"carbs"`
	Fats          float64 `json:"fats" db:"fats"`
	Fiber         float64 `json:"fiber" db:"fiber"`
	IsVegan       bool    `json:"isVegan" db:"is_vegan"`
	IsVegetarian  bool    `json:"isVegetarian" db:"is_vegetarian"`
	IsGlutenFree  bool    `json:"isGlutenFree" db:"is_gluten_free"`
	IsDairyFree   bool    `json:"isDairyFree" db:"is_dairy_free"`
	PrepTimeMins  *int    `json:"prepTimeMins,omitempty" db:"prep_time_mins"`
	Difficulty    string  `json:"difficulty" db:"difficulty"`
	Active        bool    `json:"active" db:"active"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Food is the model for the 'foods' table (diary-loggable items,
// macros per 100 g).
type Food struct {
	ID        int64    `json:"id" db:"id"`
	Name      string   `json:"name" db:"name"`
	Brand     *string  `json:"brand,omitempty" db:"brand"`
	Calories  int      `json:"calories" db:"calories"`
	Protein   float64  `json:"protein" db:"protein"`
	Carbs     float64  `json:"carbs" db:"carbs"`
	Fat       float64  `json:"fat" db:"fat"`
	Fiber     float64  `json:"fiber" db:"fiber"`
	IsCustom  bool     `json:"isCustom" db:"is_custom"`
	CreatedBy *int64   `json:"createdBy,omitempty" db:"created_by"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
