package engine

import (
	"fmt"
	"sort"
	"strings"

	"nutriguide/internal/catalog"
)

// Strategy names a retrieval method. Strategies are interchangeable: each maps
// (target vector, filtered subset) to a ranked candidate list, nearest first.
type Strategy string

const (
	// StrategyKNN ranks by Euclidean distance in the normalized feature space.
	StrategyKNN Strategy = "knn"
	// StrategyCosine ranks by cosine similarity in the same space.
	StrategyCosine Strategy = "cosine"
	// StrategyLexical ranks by TF-IDF text similarity against a query
	// synthesized from the profile's diet and goal keywords.
	StrategyLexical Strategy = "lexical"
)

// maxCandidates caps every strategy's candidate list.
const maxCandidates = 80

// mealsPerDay approximates daily targets as three equal meals when building
// the per-meal query vector.
const mealsPerDay = 3

// perMealVector is the day target scaled down to a single meal, in feature
// column order.
func perMealVector(t Targets) catalog.Vector {
	return catalog.Vector{
		t.Calories / mealsPerDay,
		t.ProteinG / mealsPerDay,
		t.CarbG / mealsPerDay,
		t.FatG / mealsPerDay,
	}
}

// Retrieve runs one strategy over the filtered subset and returns ranked
// catalog rows. The result is deterministic for a fixed dataset, target and
// subset: distance or similarity order with ties broken by insertion order.
func Retrieve(cat *catalog.Catalog, strategy Strategy, t Targets, p Profile, rows []int) ([]int, error) {
	if cat.Empty() || len(rows) == 0 {
		return nil, nil
	}

	k := maxCandidates
	if k > len(rows) {
		k = len(rows)
	}

	switch strategy {
	case StrategyKNN:
		return retrieveKNN(cat, t, rows, k), nil
	case StrategyCosine:
		return retrieveCosine(cat, t, rows, k), nil
	case StrategyLexical:
		return retrieveLexical(cat, p, rows, k), nil
	default:
		return nil, fmt.Errorf("unknown retrieval strategy %q", strategy)
	}
}

func retrieveKNN(cat *catalog.Catalog, t Targets, rows []int, k int) []int {
	query := cat.Normalize(perMealVector(t))
	neighbors := cat.NeighborIndex(rows).Nearest(query, k)
	ranked := make([]int, len(neighbors))
	for i, n := range neighbors {
		ranked[i] = n.Row
	}
	return ranked
}

func retrieveCosine(cat *catalog.Catalog, t Targets, rows []int, k int) []int {
	query := cat.Normalize(perMealVector(t))

	type scored struct {
		row   int
		score float64
	}
	all := make([]scored, len(rows))
	for i, row := range rows {
		all[i] = scored{row: row, score: catalog.CosineSimilarity(query, cat.Feature(row))}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].row < all[j].row
	})

	ranked := make([]int, k)
	for i := 0; i < k; i++ {
		ranked[i] = all[i].row
	}
	return ranked
}

func retrieveLexical(cat *catalog.Catalog, p Profile, rows []int, k int) []int {
	allowed := make(map[int]struct{}, len(rows))
	for _, row := range rows {
		allowed[row] = struct{}{}
	}

	query := lexicalQuery(p)
	hits := cat.Text().Query(query, k, func(doc int) bool {
		_, ok := allowed[doc]
		return ok
	})

	ranked := make([]int, 0, k)
	for _, h := range hits {
		ranked = append(ranked, h.Doc)
	}
	// Text match can come up short of k; pad with the subset head so the
	// strategy still yields a usable candidate list.
	seen := make(map[int]struct{}, len(ranked))
	for _, row := range ranked {
		seen[row] = struct{}{}
	}
	for _, row := range rows {
		if len(ranked) >= k {
			break
		}
		if _, dup := seen[row]; !dup {
			ranked = append(ranked, row)
		}
	}
	return ranked
}

// lexicalQuery synthesizes a search string from the profile's diet and goal.
func lexicalQuery(p Profile) string {
	parts := []string{}
	if _, unconstrained := unconstrainedDiets[p.DietType]; !unconstrained {
		diet := p.DietType
		if mapped, ok := dietSynonyms[diet]; ok {
			diet = mapped
		}
		parts = append(parts, diet)
	}
	switch p.Goal {
	case "weight-loss":
		parts = append(parts, "healthy low calorie light")
	case "muscle-gain":
		parts = append(parts, "protein high protein")
	case "weight-gain":
		parts = append(parts, "hearty main dish")
	default:
		parts = append(parts, "balanced main dish")
	}
	return strings.Join(parts, " ")
}
