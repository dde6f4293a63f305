package recommendation

import (
	"sort"

	"github.com/shop/backend/internal/domain/catalog"
)

// Jaccard computes the Jaccard similarity between two category sets:
// the size of the intersection divided by the size of the union.
// Two empty sets have similarity 0.0.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0.0
	}

	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection

	return float64(intersection) / float64(union)
}

// Scored pairs a product with its relevance score
type Scored struct {
	Product catalog.Product
	Score   float64
}

// RankByProduct ranks candidates by Jaccard category similarity to the
// reference product. The reference itself is excluded from the result.
// Candidates with equal score keep their input order.
func RankByProduct(reference *catalog.Product, candidates []catalog.Product, limit int) []Scored {
	if limit <= 0 {
		return nil
	}

	refSet := reference.CategorySet()

	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == reference.ID {
			continue
		}
		scored = append(scored, Scored{Product: c, Score: Jaccard(refSet, c.CategorySet())})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return truncate(scored, limit)
}

// RankByPreferences ranks products by how many of their categories appear
// in the user's preference set. Products with equal match count keep their
// input order.
func RankByPreferences(preferences map[string]struct{}, products []catalog.Product, limit int) []Scored {
	if limit <= 0 {
		return nil
	}

	scored := make([]Scored, 0, len(products))
	for _, p := range products {
		matches := 0
		for _, c := range p.Categories {
			if _, ok := preferences[c]; ok {
				matches++
			}
		}
		scored = append(scored, Scored{Product: p, Score: float64(matches)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return truncate(scored, limit)
}

// RankByPopularity ranks products by stock descending, the fallback used
// when a user has no stated preferences.
func RankByPopularity(products []catalog.Product, limit int) []Scored {
	if limit <= 0 {
		return nil
	}

	scored := make([]Scored, 0, len(products))
	for _, p := range products {
		scored = append(scored, Scored{Product: p, Score: float64(p.Stock)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return truncate(scored, limit)
}

func truncate(scored []Scored, limit int) []Scored {
	if len(scored) > limit {
		return scored[:limit]
	}
	return scored
}
