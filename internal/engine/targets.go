package engine

// Targets is the computed daily nutrition target for a profile. Always
// recomputed per request, never cached across users.
type Targets struct {
	BMR      float64
	TDEE     float64
	Calories float64
	ProteinG float64
	FatG     float64
	CarbG    float64
}

// activityMultipliers maps activity level to its TDEE multiplier. This map is
// the single source of truth for valid activity levels.
var activityMultipliers = map[string]float64{
	"sedentary":         1.20,
	"lightly_active":    1.375,
	"moderately_active": 1.55,
	"very_active":       1.725,
	"extra_active":      1.90,
}

// defaultActivityMultiplier is used for unknown activity levels; an
// unrecognized level is treated as sedentary rather than rejected.
const defaultActivityMultiplier = 1.20

// calorieAdjustments is the daily calorie delta applied once per goal.
var calorieAdjustments = map[string]float64{
	"weight-loss": -500,
	"weight-gain": +500,
	"muscle-gain": +250,
	"maintenance": 0,
}

// macroSplit is the protein/fat/carb fraction of daily calories per goal.
type macroSplit struct {
	protein, fat, carb float64
}

var macroSplits = map[string]macroSplit{
	"muscle-gain": {0.35, 0.25, 0.40},
	"weight-loss": {0.40, 0.30, 0.30},
	"weight-gain": {0.30, 0.30, 0.40},
}

var defaultMacroSplit = macroSplit{0.30, 0.30, 0.40}

// Calories per gram of each macro.
const (
	kcalPerGramProtein = 4.0
	kcalPerGramFat     = 9.0
	kcalPerGramCarb    = 4.0
)

// BMR computes the basal metabolic rate via the Mifflin-St Jeor equation.
func BMR(weightKg, heightCm float64, age int, gender string) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == "male" {
		return base + 5
	}
	return base - 161
}

// TDEE scales BMR by the activity multiplier.
func TDEE(bmr float64, activityLevel string) float64 {
	mult, ok := activityMultipliers[activityLevel]
	if !ok {
		mult = defaultActivityMultiplier
	}
	return bmr * mult
}

// TargetsFor derives the full daily target set for a validated profile. Pure
// computation, no side effects.
func TargetsFor(p Profile) Targets {
	bmr := BMR(p.WeightKg, p.HeightCm, p.Age, p.Gender)
	tdee := TDEE(bmr, p.ActivityLevel)
	calories := tdee + calorieAdjustments[p.Goal]

	split, ok := macroSplits[p.Goal]
	if !ok {
		split = defaultMacroSplit
	}

	return Targets{
		BMR:      bmr,
		TDEE:     tdee,
		Calories: calories,
		ProteinG: calories * split.protein / kcalPerGramProtein,
		FatG:     calories * split.fat / kcalPerGramFat,
		CarbG:    calories * split.carb / kcalPerGramCarb,
	}
}
