package catalog

import (
	"math"
	"sort"
)

// Neighbor is a scored catalog row returned by a nearest-neighbor query.
type Neighbor struct {
	Row      int
	Distance float64
}

// NeighborIndex is a queryable nearest-neighbor structure scoped to a subset
// of catalog rows. The subset is borrowed; the index holds no copies of the
// underlying records.
type NeighborIndex struct {
	cat  *Catalog
	rows []int
}

// NeighborIndex builds a k-nearest lookup over the given catalog rows. The
// feature space is small enough that brute force beats any tree structure.
func (c *Catalog) NeighborIndex(rows []int) *NeighborIndex {
	return &NeighborIndex{cat: c, rows: rows}
}

// Nearest returns up to k rows closest to the query vector by Euclidean
// distance in the normalized space, nearest first. Ties are broken by catalog
// insertion order so results are reproducible for a fixed dataset and target.
func (ix *NeighborIndex) Nearest(query Vector, k int) []Neighbor {
	if ix.cat.Empty() || len(ix.rows) == 0 || k <= 0 {
		return nil
	}

	neighbors := make([]Neighbor, 0, len(ix.rows))
	for _, row := range ix.rows {
		neighbors = append(neighbors, Neighbor{
			Row:      row,
			Distance: euclidean(query, ix.cat.Feature(row)),
		})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		if neighbors[i].Distance != neighbors[j].Distance {
			return neighbors[i].Distance < neighbors[j].Distance
		}
		return neighbors[i].Row < neighbors[j].Row
	})

	if k > len(neighbors) {
		k = len(neighbors)
	}
	return neighbors[:k]
}

func euclidean(a, b Vector) float64 {
	var sum float64
	for d := range a {
		diff := a[d] - b[d]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Zero vectors score 0.
func CosineSimilarity(a, b Vector) float64 {
	var dot, normA, normB float64
	for d := range a {
		dot += a[d] * b[d]
		normA += a[d] * a[d]
		normB += b[d] * b[d]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
