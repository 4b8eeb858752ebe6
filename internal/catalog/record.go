package catalog

import "strings"

// MealRecord is a single row of the meal catalog. Records are immutable after
// load; every later stage borrows them from the Catalog by row index.
type MealRecord struct {
	ID          int64
	Name        string
	Minutes     int
	Calories    float64
	Protein     float64
	Carbs       float64
	Fats        float64
	Tags        []string
	Ingredients []string
	Steps       []string

	// SearchText is the lowercased name + ingredients + tags blob used for
	// allergy exclusion, diet matching and lexical retrieval.
	SearchText string
}

// HasTag reports whether the record carries the given tag (case-insensitive).
func (m MealRecord) HasTag(tag string) bool {
	tag = strings.ToLower(tag)
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// titleCase uppercases the first letter of each word, matching how the
// dataset's names are displayed upstream.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
