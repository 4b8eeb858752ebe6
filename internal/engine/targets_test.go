package engine

import (
	"math"
	"testing"
)

func TestBMR(t *testing.T) {
	// Mifflin-St Jeor, male: 10*70 + 6.25*175 - 5*25 + 5 = 1673.75
	if got := BMR(70, 175, 25, "male"); math.Abs(got-1673.75) > 1e-9 {
		t.Errorf("male BMR = %v, want 1673.75", got)
	}
	// Female variant subtracts 161 instead of adding 5.
	if got := BMR(60, 165, 30, "female"); math.Abs(got-1320.25) > 1e-9 {
		t.Errorf("female BMR = %v, want 1320.25", got)
	}
	// Anything that is not "male" uses the female constant.
	if got, want := BMR(60, 165, 30, "other"), BMR(60, 165, 30, "female"); got != want {
		t.Errorf("non-male gender BMR = %v, want %v", got, want)
	}
}

func TestTDEE(t *testing.T) {
	cases := []struct {
		level string
		mult  float64
	}{
		{"sedentary", 1.20},
		{"lightly_active", 1.375},
		{"moderately_active", 1.55},
		{"very_active", 1.725},
		{"extra_active", 1.90},
		{"couch_potato", 1.20}, // unknown falls back to sedentary
		{"", 1.20},
	}
	for _, tc := range cases {
		if got, want := TDEE(2000, tc.level), 2000*tc.mult; math.Abs(got-want) > 1e-9 {
			t.Errorf("TDEE(2000, %q) = %v, want %v", tc.level, got, want)
		}
	}
}

func TestTargetsForGoalAdjustments(t *testing.T) {
	base := Profile{Age: 30, WeightKg: 80, HeightCm: 180, Gender: "male", ActivityLevel: "moderately_active"}
	tdee := BMR(80, 180, 30, "male") * 1.55

	cases := []struct {
		goal  string
		delta float64
	}{
		{"maintenance", 0},
		{"weight-loss", -500},
		{"weight-gain", +500},
		{"muscle-gain", +250},
		{"unknown-goal", 0},
	}
	for _, tc := range cases {
		p := base
		p.Goal = tc.goal
		got := TargetsFor(p)
		if math.Abs(got.TDEE-tdee) > 1e-9 {
			t.Errorf("goal %q: TDEE = %v, want %v", tc.goal, got.TDEE, tdee)
		}
		if want := tdee + tc.delta; math.Abs(got.Calories-want) > 1e-9 {
			t.Errorf("goal %q: calories = %v, want %v", tc.goal, got.Calories, want)
		}
	}
}

func TestTargetsForMacroIdentity(t *testing.T) {
	// Macro grams must convert back to the calorie target for every goal.
	for _, goal := range []string{"maintenance", "weight-loss", "weight-gain", "muscle-gain"} {
		p := Profile{Age: 28, WeightKg: 65, HeightCm: 170, Gender: "female", Goal: goal, ActivityLevel: "lightly_active"}
		got := TargetsFor(p)
		sum := got.ProteinG*4 + got.FatG*9 + got.CarbG*4
		if math.Abs(sum-got.Calories) > 1e-6 {
			t.Errorf("goal %q: macros sum to %v kcal, want %v", goal, sum, got.Calories)
		}
	}
}

func TestTargetsForMacroSplits(t *testing.T) {
	p := Profile{Age: 30, WeightKg: 80, HeightCm: 180, Gender: "male", Goal: "weight-loss", ActivityLevel: "sedentary"}
	got := TargetsFor(p)
	// weight-loss splits 40/30/30.
	if want := got.Calories * 0.40 / 4; math.Abs(got.ProteinG-want) > 1e-9 {
		t.Errorf("protein = %v, want %v", got.ProteinG, want)
	}
	if want := got.Calories * 0.30 / 9; math.Abs(got.FatG-want) > 1e-9 {
		t.Errorf("fat = %v, want %v", got.FatG, want)
	}
	if want := got.Calories * 0.30 / 4; math.Abs(got.CarbG-want) > 1e-9 {
		t.Errorf("carbs = %v, want %v", got.CarbG, want)
	}
}
