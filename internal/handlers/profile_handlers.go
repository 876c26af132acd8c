package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/fitfuel/fitfuel-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Profile Handlers (onboarding) ---
//

// ProfileInput is the body for the profile upsert.
type ProfileInput struct {
	DateOfBirth        string   `json:"dateOfBirth" binding:"required"` // YYYY-MM-DD
	Gender             string   `json:"gender" binding:"required,oneof=male female other"`
	Height             float64  `json:"height" binding:"required,gt=0"`
	Weight             float64  `json:"weight" binding:"required,gt=0"`
	UnitSystem         string   `json:"unitSystem" binding:"required,oneof=metric imperial"`
	Goal               string   `json:"goal" binding:"required"`
	GoalRateLbsPerWeek float64  `json:"goalRateLbsPerWeek" binding:"gte=0,lte=2"`
	TargetWeight       *float64 `json:"targetWeight"`
	DietaryPreference  string   `json:"dietaryPreference"`
	ActivityLevel      string   `json:"activityLevel" binding:"required,oneof=sedentary light moderate active extreme"`
	WorkoutsPerWeek    int      `json:"workoutsPerWeek" binding:"gte=0,lte=14"`
}

// UpsertProfile is the handler for POST /v1/profile
// Completing onboarding and editing the profile later are the same
// write: one row per user, replaced in full.
func (h *Handlers) UpsertProfile(c *gin.Context) {
	userID := currentUserID(c)

	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	dob, err := time.Parse("2006-01-02", input.DateOfBirth)
	if err != nil {
		respondError(c, http.StatusBadRequest, "dateOfBirth must be YYYY-MM-DD")
		return
	}
	if !dob.Before(time.Now()) {
		respondError(c, http.StatusBadRequest, "dateOfBirth must be in the past")
		return
	}

	_, err = h.DB.Exec(`
		INSERT INTO user_profiles
		(user_id, date_of_birth, gender, height, weight, unit_system, goal, goal_rate_lbs_per_week,
		 target_weight, dietary_preference, activity_level, workouts_per_week, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
		 date_of_birth = VALUES(date_of_birth), gender = VALUES(gender),
		 height = VALUES(height), weight = VALUES(weight), unit_system = VALUES(unit_system),
		 goal = VALUES(goal), goal_rate_lbs_per_week = VALUES(goal_rate_lbs_per_week),
		 target_weight = VALUES(target_weight), dietary_preference = VALUES(dietary_preference),
		 activity_level = VALUES(activity_level), workouts_per_week = VALUES(workouts_per_week),
		 updated_at = NOW()`,
		userID, dob, input.Gender, input.Height, input.Weight, input.UnitSystem,
		input.Goal, input.GoalRateLbsPerWeek, input.TargetWeight,
		input.DietaryPreference, input.ActivityLevel, input.WorkoutsPerWeek)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save profile")
		return
	}

	profile, err := h.fetchProfile(userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	respondOK(c, http.StatusOK, "Profile saved", gin.H{
		"profile": profile,
		"age":     profile.Age(time.Now()),
		"bmi":     profile.BMI(),
	})
}

// GetMyProfile is the handler for GET /v1/profile/me
func (h *Handlers) GetMyProfile(c *gin.Context) {
	userID := currentUserID(c)

	profile, err := h.fetchProfile(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Profile not set up yet")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	respondOK(c, http.StatusOK, "Your profile", gin.H{
		"profile": profile,
		"age":     profile.Age(time.Now()),
		"bmi":     profile.BMI(),
	})
}

func (h *Handlers) fetchProfile(userID int64) (*models.UserProfile, error) {
	var p models.UserProfile
	err := h.DB.QueryRow(`
		SELECT user_id, date_of_birth, gender, height, weight, unit_system, goal, goal_rate_lbs_per_week,
		       target_weight, dietary_preference, activity_level, workouts_per_week, created_at, updated_at
		FROM user_profiles WHERE user_id = ?`, userID).Scan(
		&p.UserID, &p.DateOfBirth, &p.Gender, &p.Height, &p.Weight, &p.UnitSystem,
		&p.Goal, &p.GoalRateLbsPerWeek, &p.TargetWeight, &p.DietaryPreference,
		&p.ActivityLevel, &p.WorkoutsPerWeek, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
