package models

import "time"

// MacroPlan is the model for the 'macro_plans' table. One active plan
// per user; creating a new one deactivates the rest.
type MacroPlan struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int64     `json:"userId" db:"user_id"`
	CalorieTarget int       `json:"calorieTarget" db:"calorie_target"`
	ProteinG      int       `json:"proteinG" db:"protein_g"`
	CarbsG        int       `json:"carbsG" db:"carbs_g"`
	FatsG         int       `json:"fatsG" db:"fats_g"`
	Active        bool      `json:"active" db:"active"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
