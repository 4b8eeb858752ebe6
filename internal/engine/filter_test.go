package engine

import (
	"testing"

	"github.com/rs/zerolog"

	"nutriguide/internal/catalog"
)

func TestFilterCandidatesUnconstrained(t *testing.T) {
	cat := fixtureCatalog()
	for _, diet := range []string{"any", "none", ""} {
		p := fixtureProfile()
		p.DietType = diet
		rows := FilterCandidates(cat, p, zerolog.Nop())
		if len(rows) != cat.Len() {
			t.Errorf("diet %q: expected all %d rows, got %d", diet, cat.Len(), len(rows))
		}
	}
}

func TestFilterCandidatesDietTag(t *testing.T) {
	cat := fixtureCatalog()
	p := fixtureProfile()
	p.DietType = "vegan"

	rows := FilterCandidates(cat, p, zerolog.Nop())
	if len(rows) == 0 {
		t.Fatal("expected vegan rows")
	}
	for _, row := range rows {
		rec := cat.Record(row)
		if !rec.HasTag("vegan") {
			t.Errorf("row %d (%s) is not vegan", row, rec.Name)
		}
	}
}

func TestFilterCandidatesKetoSynonym(t *testing.T) {
	cat := fixtureCatalog()
	p := fixtureProfile()
	p.DietType = "keto"

	rows := FilterCandidates(cat, p, zerolog.Nop())
	found := false
	for _, row := range rows {
		if cat.Record(row).HasTag("low-carb") {
			found = true
		}
	}
	if !found {
		t.Error("keto should map to low-carb matches")
	}
}

func TestFilterCandidatesAllergyExclusion(t *testing.T) {
	cat := fixtureCatalog()
	p := fixtureProfile()
	p.DietType = "vegan"
	p.Allergies = []string{"Peanut"}

	rows := FilterCandidates(cat, p, zerolog.Nop())
	if len(rows) == 0 {
		t.Fatal("expected rows after allergy exclusion")
	}
	for _, row := range rows {
		rec := cat.Record(row)
		if rec.ID == 3 {
			t.Errorf("peanut meal %q survived the allergy filter", rec.Name)
		}
	}
}

func TestFilterCandidatesScarcityFallback(t *testing.T) {
	cat := fixtureCatalog()
	p := fixtureProfile()
	p.DietType = "paleo" // matches nothing in the fixture

	rows := FilterCandidates(cat, p, zerolog.Nop())
	if len(rows) == 0 {
		t.Fatal("filter must never return zero rows for a non-empty catalog")
	}
	if len(rows) != cat.Len() {
		t.Errorf("fallback should cover the full small catalog, got %d rows", len(rows))
	}
	for i, row := range rows {
		if row != i {
			t.Fatalf("fallback rows must be the catalog prefix, got %v", rows)
		}
	}
}

func TestFilterCandidatesInsertionOrder(t *testing.T) {
	cat := fixtureCatalog()
	rows := FilterCandidates(cat, fixtureProfile(), zerolog.Nop())
	for i := 1; i < len(rows); i++ {
		if rows[i] <= rows[i-1] {
			t.Fatalf("rows not in insertion order: %v", rows)
		}
	}
}

func TestFilterCandidatesEmptyCatalog(t *testing.T) {
	rows := FilterCandidates(catalog.NewFromRecords(nil), fixtureProfile(), zerolog.Nop())
	if rows != nil {
		t.Errorf("expected nil for empty catalog, got %v", rows)
	}
}
