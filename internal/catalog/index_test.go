package catalog

import (
	"math"
	"testing"
)

func indexTestCatalog() *Catalog {
	return NewFromRecords([]MealRecord{
		{ID: 1, Calories: 300, Protein: 20, Carbs: 30, Fats: 10},
		{ID: 2, Calories: 500, Protein: 35, Carbs: 50, Fats: 18},
		{ID: 3, Calories: 700, Protein: 45, Carbs: 80, Fats: 25},
		{ID: 4, Calories: 500, Protein: 35, Carbs: 50, Fats: 18}, // duplicate of 2
	})
}

func TestNearestOrdersByDistance(t *testing.T) {
	cat := indexTestCatalog()
	ix := cat.NeighborIndex([]int{0, 1, 2, 3})

	query := cat.Normalize(Vector{500, 35, 50, 18})
	got := ix.Nearest(query, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 neighbors, got %d", len(got))
	}
	// Rows 1 and 3 are equidistant at 0; insertion order breaks the tie.
	if got[0].Row != 1 || got[1].Row != 3 {
		t.Errorf("expected rows 1,3 first, got %d,%d", got[0].Row, got[1].Row)
	}
	if got[0].Distance != 0 {
		t.Errorf("expected zero distance for exact match, got %v", got[0].Distance)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Distance < got[i-1].Distance {
			t.Errorf("neighbors out of order at %d: %v < %v", i, got[i].Distance, got[i-1].Distance)
		}
	}
}

func TestNearestDeterministic(t *testing.T) {
	cat := indexTestCatalog()
	ix := cat.NeighborIndex([]int{0, 1, 2, 3})
	query := cat.Normalize(Vector{400, 30, 40, 15})

	first := ix.Nearest(query, 4)
	for run := 0; run < 5; run++ {
		again := ix.Nearest(query, 4)
		for i := range first {
			if first[i].Row != again[i].Row {
				t.Fatalf("run %d: row order changed at %d: %d vs %d", run, i, first[i].Row, again[i].Row)
			}
		}
	}
}

func TestNearestClampsK(t *testing.T) {
	cat := indexTestCatalog()
	ix := cat.NeighborIndex([]int{0, 2})

	if got := ix.Nearest(Vector{}, 10); len(got) != 2 {
		t.Errorf("expected k clamped to 2, got %d", len(got))
	}
	if got := ix.Nearest(Vector{}, 0); got != nil {
		t.Errorf("expected nil for k=0, got %v", got)
	}
	if got := ix.Nearest(Vector{}, -1); got != nil {
		t.Errorf("expected nil for negative k, got %v", got)
	}
}

func TestNearestEmptySubset(t *testing.T) {
	cat := indexTestCatalog()
	if got := cat.NeighborIndex(nil).Nearest(Vector{}, 5); got != nil {
		t.Errorf("expected nil for empty subset, got %v", got)
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := Vector{1, 0, 0, 0}
	b := Vector{0, 1, 0, 0}
	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("orthogonal vectors: expected 0, got %v", got)
	}
	if got := CosineSimilarity(a, Vector{2, 0, 0, 0}); math.Abs(got-1) > 1e-12 {
		t.Errorf("parallel vectors: expected 1, got %v", got)
	}
	if got := CosineSimilarity(a, Vector{-3, 0, 0, 0}); math.Abs(got+1) > 1e-12 {
		t.Errorf("opposite vectors: expected -1, got %v", got)
	}
	if got := CosineSimilarity(a, Vector{}); got != 0 {
		t.Errorf("zero vector: expected 0, got %v", got)
	}
}
