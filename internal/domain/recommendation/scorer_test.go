package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

func makeSet(keys ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

func makeProduct(t *testing.T, name string, stock int, categories ...string) catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, "", valueobject.NewMoneyUSDFromFloat(9.99), stock)
	require.NoError(t, err)
	if len(categories) > 0 {
		require.NoError(t, p.SetCategories(categories))
	}
	return *p
}

func names(scored []Scored) []string {
	out := make([]string, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.Product.Name)
	}
	return out
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a    map[string]struct{}
		b    map[string]struct{}
		want float64
	}{
		{"both empty", makeSet(), makeSet(), 0.0},
		{"one empty", makeSet("Electronics"), makeSet(), 0.0},
		{"identical", makeSet("Electronics", "Audio"), makeSet("Electronics", "Audio"), 1.0},
		{"disjoint", makeSet("Electronics"), makeSet("Kitchen"), 0.0},
		{"partial overlap", makeSet("Electronics", "Laptops"), makeSet("Electronics", "Audio"), 1.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Jaccard(tt.a, tt.b), 1e-9)
			// Jaccard is symmetric
			assert.InDelta(t, tt.want, Jaccard(tt.b, tt.a), 1e-9)
		})
	}
}

func TestRankByProduct(t *testing.T) {
	reference := makeProduct(t, "Laptop", 5, "Electronics", "Laptops")
	headphones := makeProduct(t, "Headphones", 10, "Electronics", "Audio")
	toaster := makeProduct(t, "Toaster", 3, "Kitchen")
	tablet := makeProduct(t, "Tablet", 7, "Electronics", "Laptops")

	t.Run("orders by similarity descending", func(t *testing.T) {
		got := RankByProduct(&reference, []catalog.Product{toaster, headphones, tablet}, 10)

		assert.Equal(t, []string{"Tablet", "Headphones", "Toaster"}, names(got))
		assert.InDelta(t, 1.0, got[0].Score, 1e-9)
		assert.InDelta(t, 1.0/3.0, got[1].Score, 1e-9)
		assert.InDelta(t, 0.0, got[2].Score, 1e-9)
	})

	t.Run("excludes the reference product", func(t *testing.T) {
		got := RankByProduct(&reference, []catalog.Product{reference, headphones}, 10)

		assert.Equal(t, []string{"Headphones"}, names(got))
	})

	t.Run("applies the limit", func(t *testing.T) {
		got := RankByProduct(&reference, []catalog.Product{toaster, headphones, tablet}, 2)

		assert.Len(t, got, 2)
	})

	t.Run("non-positive limit yields nothing", func(t *testing.T) {
		assert.Empty(t, RankByProduct(&reference, []catalog.Product{headphones}, 0))
		assert.Empty(t, RankByProduct(&reference, []catalog.Product{headphones}, -1))
	})

	t.Run("ties keep input order", func(t *testing.T) {
		first := makeProduct(t, "First", 1, "Kitchen")
		second := makeProduct(t, "Second", 1, "Garden")

		got := RankByProduct(&reference, []catalog.Product{first, second}, 10)

		assert.Equal(t, []string{"First", "Second"}, names(got))
	})
}

func TestRankByPreferences(t *testing.T) {
	speaker := makeProduct(t, "Speaker", 4, "Electronics", "Audio")
	novel := makeProduct(t, "Novel", 20, "Books")
	camera := makeProduct(t, "Camera", 2, "Electronics")

	t.Run("orders by match count descending", func(t *testing.T) {
		prefs := makeSet("Electronics", "Audio")

		got := RankByPreferences(prefs, []catalog.Product{novel, camera, speaker}, 10)

		assert.Equal(t, []string{"Speaker", "Camera", "Novel"}, names(got))
		assert.Equal(t, 2.0, got[0].Score)
		assert.Equal(t, 1.0, got[1].Score)
		assert.Equal(t, 0.0, got[2].Score)
	})

	t.Run("no matches keeps input order", func(t *testing.T) {
		prefs := makeSet("Toys")

		got := RankByPreferences(prefs, []catalog.Product{novel, camera}, 10)

		assert.Equal(t, []string{"Novel", "Camera"}, names(got))
	})

	t.Run("non-positive limit yields nothing", func(t *testing.T) {
		assert.Empty(t, RankByPreferences(makeSet("Books"), []catalog.Product{novel}, 0))
	})
}

func TestRankByPopularity(t *testing.T) {
	low := makeProduct(t, "Low", 1)
	high := makeProduct(t, "High", 50)
	mid := makeProduct(t, "Mid", 10)

	t.Run("orders by stock descending", func(t *testing.T) {
		got := RankByPopularity([]catalog.Product{low, high, mid}, 10)

		assert.Equal(t, []string{"High", "Mid", "Low"}, names(got))
	})

	t.Run("applies the limit", func(t *testing.T) {
		got := RankByPopularity([]catalog.Product{low, high, mid}, 1)

		assert.Equal(t, []string{"High"}, names(got))
	})

	t.Run("non-positive limit yields nothing", func(t *testing.T) {
		assert.Empty(t, RankByPopularity([]catalog.Product{high}, 0))
	})
}
