package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBMIMetric(t *testing.T) {
	p := UserProfile{Weight: 80, Height: 180, UnitSystem: "metric"}
	assert.Equal(t, 24.7, p.BMI())
}

func TestBMIImperialConvertsFirst(t *testing.T) {
	// 176.37 lbs and 70.87 in are roughly 80 kg and 180 cm.
	p := UserProfile{Weight: 176.37, Height: 70.87, UnitSystem: "imperial"}
	assert.Equal(t, 24.7, p.BMI())
}

func TestBMIZeroHeight(t *testing.T) {
	p := UserProfile{Weight: 80, Height: 0, UnitSystem: "metric"}
	assert.Equal(t, 0.0, p.BMI())
}

func TestMetricWeightHeight(t *testing.T) {
	metric := UserProfile{Weight: 80, Height: 180, UnitSystem: "metric"}
	w, h := metric.MetricWeightHeight()
	assert.Equal(t, 80.0, w)
	assert.Equal(t, 180.0, h)

	imperial := UserProfile{Weight: 100, Height: 60, UnitSystem: "imperial"}
	w, h = imperial.MetricWeightHeight()
	assert.InDelta(t, 45.3592, w, 0.0001)
	assert.InDelta(t, 152.4, h, 0.0001)
}

func TestAgeCountsBirthdays(t *testing.T) {
	p := UserProfile{DateOfBirth: time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC)}

	dayBefore := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 29, p.Age(dayBefore))

	birthday := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 30, p.Age(birthday))
}
