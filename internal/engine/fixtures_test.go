package engine

import (
	"strings"

	"nutriguide/internal/catalog"
)

// fixtureMeal builds a record the way the loader would, with derived search
// text and lowercased tags.
func fixtureMeal(id int64, name string, calories, protein, carbs, fats float64, tags []string, ingredients ...string) catalog.MealRecord {
	for i, tag := range tags {
		tags[i] = strings.ToLower(tag)
	}
	rec := catalog.MealRecord{
		ID:          id,
		Name:        name,
		Minutes:     20,
		Calories:    calories,
		Protein:     protein,
		Carbs:       carbs,
		Fats:        fats,
		Tags:        tags,
		Ingredients: ingredients,
	}
	rec.SearchText = strings.ToLower(
		rec.Name + " " + strings.Join(ingredients, " ") + " " + strings.Join(tags, " "),
	)
	return rec
}

// fixtureCatalog is a small but varied catalog: breakfasts, lunches, dinners,
// a vegan subset and a peanut-bearing meal for allergy tests.
func fixtureCatalog() *catalog.Catalog {
	return catalog.NewFromRecords([]catalog.MealRecord{
		fixtureMeal(1, "Overnight Oats", 350, 12, 50, 10, []string{"breakfast", "vegetarian"}, "rolled oats", "milk"),
		fixtureMeal(2, "Scrambled Eggs On Toast", 420, 22, 30, 22, []string{"breakfast"}, "eggs", "bread", "butter"),
		fixtureMeal(3, "Peanut Butter Smoothie", 380, 15, 40, 18, []string{"breakfast", "vegan"}, "peanut butter", "banana", "oat milk"),
		fixtureMeal(4, "Chicken Caesar Salad", 450, 35, 15, 25, []string{"salad", "lunch"}, "chicken breast", "romaine", "parmesan"),
		fixtureMeal(5, "Turkey Club Sandwich", 520, 30, 45, 20, []string{"lunch"}, "turkey", "bread", "bacon"),
		fixtureMeal(6, "Lentil Soup", 310, 18, 50, 4, []string{"soup", "vegan"}, "lentils", "carrot", "onion"),
		fixtureMeal(7, "Grilled Salmon With Rice", 610, 40, 55, 22, []string{"dinner"}, "salmon", "rice", "lemon"),
		fixtureMeal(8, "Beef Stir Fry", 580, 38, 40, 28, []string{"dinner"}, "beef", "broccoli", "soy sauce"),
		fixtureMeal(9, "Tofu Buddha Bowl", 490, 24, 60, 16, []string{"dinner", "vegan"}, "tofu", "quinoa", "avocado"),
		fixtureMeal(10, "Zucchini Noodle Alfredo", 420, 16, 12, 34, []string{"dinner", "low-carb"}, "zucchini", "cream", "garlic"),
		fixtureMeal(11, "Blueberry Pancakes", 470, 11, 70, 15, []string{"breakfast"}, "flour", "blueberries", "maple syrup"),
		fixtureMeal(12, "Chickpea Wrap", 440, 17, 55, 14, []string{"lunch", "vegan"}, "chickpeas", "tortilla", "hummus"),
	})
}

// fixtureProfile is a valid baseline profile tests tweak per case.
func fixtureProfile() Profile {
	return Profile{
		Age:           30,
		WeightKg:      80,
		HeightCm:      180,
		Gender:        "male",
		Goal:          "maintenance",
		ActivityLevel: "moderately_active",
		DietType:      "any",
		UserID:        "test-user",
	}
}
