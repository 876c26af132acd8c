package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateMacroTargetsLoseWeight(t *testing.T) {
	// Male, 80 kg, 180 cm, 30 years, moderate activity, losing 1 lb/week.
	got := CalculateMacroTargets(80, 180, 30, "male", "moderate", "Lose weight", 1.0)

	assert.Equal(t, 1780, got.BMR)
	assert.Equal(t, 2759, got.TDEE)
	assert.Equal(t, 2259, got.CalorieTarget) // TDEE minus 500 kcal/day
	assert.Equal(t, 176, got.ProteinG)       // 2.2 g/kg
	assert.Equal(t, 63, got.FatsG)           // 25% of calories at 9 kcal/g
	assert.Equal(t, 248, got.CarbsG)         // remainder at 4 kcal/g
}

func TestCalculateMacroTargetsMaintain(t *testing.T) {
	// Female, 60 kg, 165 cm, 25 years, sedentary, no rate.
	got := CalculateMacroTargets(60, 165, 25, "female", "sedentary", "Maintain weight", 0)

	assert.Equal(t, 1345, got.BMR)
	assert.Equal(t, 1614, got.TDEE)
	assert.Equal(t, 1614, got.CalorieTarget)
	assert.Equal(t, 132, got.ProteinG)
	assert.Equal(t, 45, got.FatsG)
	assert.Equal(t, 171, got.CarbsG)
}

func TestCalculateMacroTargetsGainAddsSurplus(t *testing.T) {
	got := CalculateMacroTargets(70, 175, 22, "male", "active", "Gain muscle", 0.5)

	assert.Equal(t, 2913, got.TDEE)
	assert.Equal(t, 3163, got.CalorieTarget) // TDEE plus 250 kcal/day
}

func TestCalculateMacroTargetsUnknownActivityFallsBackToSedentary(t *testing.T) {
	known := CalculateMacroTargets(80, 180, 30, "male", "sedentary", "Maintain", 0)
	unknown := CalculateMacroTargets(80, 180, 30, "male", "couch", "Maintain", 0)

	assert.Equal(t, known.TDEE, unknown.TDEE)
}

func TestCalculateMacroTargetsCarbsNeverNegative(t *testing.T) {
	// An aggressive cut on a heavy lifter can push the remainder below
	// zero; it must clamp instead.
	got := CalculateMacroTargets(120, 150, 60, "female", "sedentary", "Lose weight", 2.0)

	assert.GreaterOrEqual(t, got.CarbsG, 0)
}
