package handlers

import (
	"math"
	"net/http"
	"strings"

	"github.com/fitfuel/fitfuel-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Macro Planner Handlers ---
//

// activityMultipliers maps an activity level to its TDEE factor.
var activityMultipliers = map[string]float64{
	"sedentary": 1.2,
	"light":     1.375,
	"moderate":  1.55,
	"active":    1.725,
	"extreme":   1.9,
}

// MacroTargets is a computed daily target set.
type MacroTargets struct {
	BMR           int `json:"bmr"`
	TDEE          int `json:"tdee"`
	CalorieTarget int `json:"calorieTarget"`
	ProteinG      int `json:"proteinG"`
	CarbsG        int `json:"carbsG"`
	FatsG         int `json:"fatsG"`
}

// CalculateMacroTargets computes daily targets from metric measurements.
// BMR by Mifflin-St Jeor, TDEE by activity multiplier, then the goal
// shifts calories by the daily equivalent of rateLbsPerWeek (3500 kcal
// per pound). Protein is fixed at 2.2 g per kg bodyweight, fat takes 25%
// of calories, carbs get the remainder.
func CalculateMacroTargets(weightKg, heightCm float64, age int, gender, activityLevel, goal string, rateLbsPerWeek float64) MacroTargets {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}

	multiplier, ok := activityMultipliers[activityLevel]
	if !ok {
		multiplier = activityMultipliers["sedentary"]
	}
	tdee := bmr * multiplier

	dailyShift := rateLbsPerWeek * 3500 / 7
	calories := tdee
	goalLower := strings.ToLower(goal)
	switch {
	case strings.Contains(goalLower, "lose"):
		calories = tdee - dailyShift
	case strings.Contains(goalLower, "gain"), strings.Contains(goalLower, "build"):
		calories = tdee + dailyShift
	}

	proteinG := 2.2 * weightKg
	fatsG := calories * 0.25 / 9
	carbsG := (calories - proteinG*4 - fatsG*9) / 4
	if carbsG < 0 {
		carbsG = 0
	}

	return MacroTargets{
		BMR:           int(math.Round(bmr)),
		TDEE:          int(math.Round(tdee)),
		CalorieTarget: int(math.Round(calories)),
		ProteinG:      int(math.Round(proteinG)),
		CarbsG:        int(math.Round(carbsG)),
		FatsG:         int(math.Round(fatsG)),
	}
}

// CalculateMacros is the handler for POST /v1/macro-plans/calculate
// Computes targets from the caller's stored profile without persisting
// anything; the client confirms before saving.
func (h *Handlers) CalculateMacros(c *gin.Context) {
	userID := currentUserID(c)

	profile, err := h.fetchProfile(userID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Complete your profile first")
		return
	}

	weightKg, heightCm := profile.MetricWeightHeight()
	targets := CalculateMacroTargets(
		weightKg, heightCm, profile.Age(timeNow()), profile.Gender,
		profile.ActivityLevel, profile.Goal, profile.GoalRateLbsPerWeek)

	respondOK(c, http.StatusOK, "Calculated macro targets", targets)
}

// SaveMacroPlanInput is the body for persisting a plan.
type SaveMacroPlanInput struct {
	CalorieTarget int `json:"calorieTarget" binding:"required,gt=0"`
	ProteinG      int `json:"proteinG" binding:"required,gt=0"`
	CarbsG        int `json:"carbsG" binding:"gte=0"`
	FatsG         int `json:"fatsG" binding:"required,gt=0"`
}

// SaveMacroPlan is the handler for POST /v1/macro-plans
// Deactivates the user's previous plans so exactly one stays active.
func (h *Handlers) SaveMacroPlan(c *gin.Context) {
	userID := currentUserID(c)

	var input SaveMacroPlanInput
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

	if _, err := tx.Exec("UPDATE macro_plans SET active = 0 WHERE user_id = ? AND active = 1", userID); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to deactivate previous plans")
		return
	}

	result, err := tx.Exec(`
		INSERT INTO macro_plans (user_id, calorie_target, protein_g, carbs_g, fats_g, active, created_at)
		VALUES (?, ?, ?, ?, ?, 1, NOW())`,
		userID, input.CalorieTarget, input.ProteinG, input.CarbsG, input.FatsG)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save macro plan")
		return
	}
	planID, _ := result.LastInsertId()

	if err := tx.Commit(); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to commit transaction")
		return
	}

	respondOK(c, http.StatusCreated, "Macro plan saved", gin.H{"macroPlanId": planID})
}

// GetActiveMacroPlan is the handler for GET /v1/macro-plans/active
func (h *Handlers) GetActiveMacroPlan(c *gin.Context) {
	userID := currentUserID(c)

	var plan models.MacroPlan
	err := h.DB.QueryRow(`
		SELECT id, user_id, calorie_target, protein_g, carbs_g, fats_g, active, created_at
		FROM macro_plans
		WHERE user_id = ? AND active = 1
		ORDER BY created_at DESC LIMIT 1`, userID).Scan(
		&plan.ID, &plan.UserID, &plan.CalorieTarget, &plan.ProteinG,
		&plan.CarbsG, &plan.FatsG, &plan.Active, &plan.CreatedAt)
	if err != nil {
		respondError(c, http.StatusNotFound, "No active macro plan")
		return
	}

	respondOK(c, http.StatusOK, "Active macro plan", plan)
}
