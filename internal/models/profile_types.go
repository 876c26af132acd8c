package models

import (
	"math"
	"time"
)

// UserProfile is the model for the 'user_profiles' table.
// Height/Weight are stored in whatever unit system the user picked;
// calculations convert to metric first.
type UserProfile struct {
	UserID            int64     `json:"userId" db:"user_id"`
	DateOfBirth       time.Time `json:"dateOfBirth" db:"date_of_birth"`
	Gender            string    `json:"gender" db:"gender"` // male, female, other
	Height            float64   `json:"height" db:"height"`
	Weight            float64   `json:"weight" db:"weight"`
	UnitSystem        string    `json:"unitSystem" db:"unit_system"` // metric, imperial
	Goal              string    `json:"goal" db:"goal"`              // e.g. "Lose weight"
	GoalRateLbsPerWeek float64  `json:"goalRateLbsPerWeek" db:"goal_rate_lbs_per_week"`
	TargetWeight      *float64  `json:"targetWeight,omitempty" db:"target_weight"`
	DietaryPreference string    `json:"dietaryPreference" db:"dietary_preference"`
	ActivityLevel     string    `json:"activityLevel" db:"activity_level"` // sedentary..extreme
	WorkoutsPerWeek   int       `json:"workoutsPerWeek" db:"workouts_per_week"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// Age derives the user's age from their date of birth.
func (p *UserProfile) Age(today time.Time) int {
	age := today.Year() - p.DateOfBirth.Year()
	if today.YearDay() < p.DateOfBirth.YearDay() {
		age--
	}
	return age
}

// MetricWeightHeight converts the stored measurements to kg and cm.
func (p *UserProfile) MetricWeightHeight() (weightKg, heightCm float64) {
	if p.UnitSystem == "imperial" {
		return p.Weight * 0.453592, p.Height * 2.54
	}
	return p.Weight, p.Height
}

// BMI returns the body-mass index rounded to one decimal, or 0 for a
// zero height.
func (p *UserProfile) BMI() float64 {
	weightKg, heightCm := p.MetricWeightHeight()
	heightM := heightCm / 100
	if heightM == 0 {
		return 0
	}
	return math.Round(weightKg/(heightM*heightM)*10) / 10
}
