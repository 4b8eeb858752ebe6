package engine

import (
	"fmt"
	"strconv"

	"nutriguide/internal/catalog"
)

// maxDisplayTags bounds how many tags a meal card shows.
const maxDisplayTags = 4

// MealView is the formatted, client-facing shape of a catalog record.
type MealView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Calories    int      `json:"calories"`
	Protein     int      `json:"protein"`
	Carbs       int      `json:"carbs"`
	Fats        int      `json:"fats"`
	Image       string   `json:"image"`
	Time        string   `json:"time"`
	Tags        []string `json:"tags"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
}

// FormatMeal renders a record for the API response.
func FormatMeal(rec catalog.MealRecord) MealView {
	tags := rec.Tags
	if len(tags) > maxDisplayTags {
		tags = tags[:maxDisplayTags]
	}
	ingredients := rec.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	steps := rec.Steps
	if steps == nil {
		steps = []string{}
	}
	if tags == nil {
		tags = []string{}
	}
	return MealView{
		ID:          strconv.FormatInt(rec.ID, 10),
		Name:        rec.Name,
		Calories:    int(rec.Calories),
		Protein:     int(rec.Protein),
		Carbs:       int(rec.Carbs),
		Fats:        int(rec.Fats),
		Image:       ImageFor(rec.Name, rec.Tags),
		Time:        fmt.Sprintf("%d min", rec.Minutes),
		Tags:        tags,
		Ingredients: ingredients,
		Steps:       steps,
	}
}
