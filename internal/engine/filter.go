package engine

import (
	"strings"

	"github.com/rs/zerolog"

	"nutriguide/internal/catalog"
)

// dietSynonyms is the canonical remap table applied before diet matching.
// The dataset has no "keto" tag; low-carb is its nearest vocabulary.
var dietSynonyms = map[string]string{
	"keto": "low-carb",
}

// scarcityFallbackSize is how many unfiltered rows are handed downstream when
// filtering empties the set. A documented relaxation, not an error.
const scarcityFallbackSize = 100

// unconstrainedDiets are diet_type values that mean "no diet filter".
var unconstrainedDiets = map[string]struct{}{
	"any":  {},
	"none": {},
	"":     {},
}

// FilterCandidates narrows the catalog to rows matching the profile's diet
// type and excluding its allergy terms. It returns row indices in catalog
// insertion order and never returns an empty set for a non-empty catalog:
// over-strict filters fall back to a fixed-size prefix of the unfiltered
// catalog so downstream stages always have something to rank.
func FilterCandidates(cat *catalog.Catalog, p Profile, log zerolog.Logger) []int {
	if cat.Empty() {
		return nil
	}

	diet := p.DietType
	if mapped, ok := dietSynonyms[diet]; ok {
		diet = mapped
	}
	_, unconstrained := unconstrainedDiets[diet]

	allergies := make([]string, 0, len(p.Allergies))
	for _, a := range p.Allergies {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			allergies = append(allergies, a)
		}
	}

	rows := make([]int, 0, cat.Len())
	for row := 0; row < cat.Len(); row++ {
		rec := cat.Record(row)
		if !unconstrained && !rec.HasTag(diet) && !strings.Contains(rec.SearchText, diet) {
			continue
		}
		if containsAny(rec.SearchText, allergies) {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		n := scarcityFallbackSize
		if n > cat.Len() {
			n = cat.Len()
		}
		rows = rows[:0]
		for row := 0; row < n; row++ {
			rows = append(rows, row)
		}
		log.Warn().
			Str("diet_type", p.DietType).
			Strs("allergies", p.Allergies).
			Int("fallback_rows", n).
			Msg("filters produced zero rows, relaxing to unfiltered prefix")
	}
	return rows
}

// containsAny reports whether text contains any of the terms as a substring.
// Deliberately conservative: with no ingredient ontology, a false positive
// (excluding a safe meal) is preferred over a false negative.
func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
