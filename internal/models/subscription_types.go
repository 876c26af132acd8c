package models

import "time"

// MealSubscription is the model for the 'meal_subscriptions' table.
// A user has at most one row with status 'active'; the configure
// endpoint upserts against that key.
type MealSubscription struct {
	ID                int64     `json:"id" db:"id"`
	UserID            int64     `json:"userId" db:"user_id"`
	PlanID            int64     `json:"planId" db:"plan_id"`
	AddressID         int64     `json:"addressId" db:"address_id"`
	MealsPerWeek      int       `json:"mealsPerWeek" db:"meals_per_week"`
	Portion           string    `json:"portion" db:"portion"` // regular, large
	ProteinPreference string    `json:"proteinPreference" db:"protein_preference"`
	StartDate         time.Time `json:"startDate" db:"start_date"`
	Status            string    `json:"status" db:"status"` // active, paused, canceled
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// WeeklyMealSelection is the model for the 'weekly_meal_selections'
// table. (subscription_id, week_start, meal_id) is unique; the total
// quantity for a subscription+week never exceeds meals_per_week.
type WeeklyMealSelection struct {
	ID             int64     `json:"id" db:"id"`
	SubscriptionID int64     `json:"subscriptionId" db:"subscription_id"`
	WeekStart      time.Time `json:"weekStart" db:"week_start"`
	MealID         int64     `json:"mealId" db:"meal_id"`
	Quantity       int       `json:"quantity" db:"quantity"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`

	// Joined for responses, not DB columns.
	MealName string  `json:"mealName,omitempty" db:"-"`
	Price    float64 `json:"price,omitempty" db:"-"`
}
