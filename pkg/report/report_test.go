package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsboard/pkg/domain"
)

func sum(m map[string]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

func TestAggregate(t *testing.T) {
	t.Run("authors and general type", func(t *testing.T) {
		articles := []domain.Article{{Author: "A"}, {Author: "B"}, {Author: "A"}}
		res := Aggregate(articles, "")

		assert.Equal(t, map[string]int{"A": 2, "B": 1}, res.AuthorCounts)
		assert.Equal(t, map[string]int{"General": 3}, res.TypeCounts)
		assert.ElementsMatch(t, []domain.AuthorPayout{
			{Author: "A", Articles: 2, PayoutRate: 10},
			{Author: "B", Articles: 1, PayoutRate: 10},
		}, res.Payouts)
	})

	t.Run("empty article uses fallback author", func(t *testing.T) {
		res := Aggregate([]domain.Article{{}}, "")
		assert.Equal(t, map[string]int{"Unknown Author": 1}, res.AuthorCounts)
		assert.Equal(t, map[string]int{"General": 1}, res.TypeCounts)
		require.Len(t, res.Payouts, 1)
		assert.Equal(t, "Unknown Author", res.Payouts[0].Author)
	})

	t.Run("selected type buckets the whole batch", func(t *testing.T) {
		res := Aggregate([]domain.Article{{Author: "A"}, {Title: "x"}}, "blogs")
		assert.Equal(t, map[string]int{"blogs": 2}, res.TypeCounts)
	})

	t.Run("no articles", func(t *testing.T) {
		res := Aggregate(nil, "news")
		assert.Empty(t, res.AuthorCounts)
		assert.Empty(t, res.TypeCounts)
		assert.Empty(t, res.Payouts)
	})

	t.Run("counts sum to number of articles", func(t *testing.T) {
		batches := [][]domain.Article{
			{},
			{{Author: "x"}},
			{{Author: "x"}, {Author: "y"}, {}, {Author: "x"}, {Author: "z"}, {}},
		}
		for _, b := range batches {
			for _, typ := range []string{"", "news"} {
				res := Aggregate(b, typ)
				assert.Equal(t, len(b), sum(res.AuthorCounts))
				assert.Equal(t, len(b), sum(res.TypeCounts))
				payoutTotal := 0
				for _, p := range res.Payouts {
					payoutTotal += p.Articles
				}
				assert.Equal(t, len(b), payoutTotal)
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		articles := []domain.Article{{Author: "A"}, {}, {Author: "C"}}
		assert.Equal(t, Aggregate(articles, "news"), Aggregate(articles, "news"))
	})

	t.Run("payouts sorted by author", func(t *testing.T) {
		res := Aggregate([]domain.Article{{Author: "zed"}, {Author: "amy"}, {Author: "kim"}}, "")
		require.Len(t, res.Payouts, 3)
		assert.Equal(t, "amy", res.Payouts[0].Author)
		assert.Equal(t, "kim", res.Payouts[1].Author)
		assert.Equal(t, "zed", res.Payouts[2].Author)
	})
}

func TestEditPayoutRate(t *testing.T) {
	rows := []domain.AuthorPayout{
		{Author: "A", Articles: 2, PayoutRate: 10},
		{Author: "B", Articles: 1, PayoutRate: 10},
		{Author: "C", Articles: 4, PayoutRate: 10},
	}

	t.Run("edits only the given row", func(t *testing.T) {
		res, err := EditPayoutRate(rows, 1, 25.5)
		require.NoError(t, err)
		require.Len(t, res, 3)
		assert.InDelta(t, 10.0, res[0].PayoutRate, 1e-9)
		assert.InDelta(t, 25.5, res[1].PayoutRate, 1e-9)
		assert.InDelta(t, 10.0, res[2].PayoutRate, 1e-9)
		assert.Equal(t, "B", res[1].Author)
		assert.Equal(t, 1, res[1].Articles)
		assert.InDelta(t, 10.0, rows[1].PayoutRate, 1e-9, "input should stay untouched")
	})

	t.Run("out of range", func(t *testing.T) {
		for _, idx := range []int{-1, 3, 100} {
			_, err := EditPayoutRate(rows, idx, 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrOutOfRange)
		}
		_, err := EditPayoutRate(nil, 0, 1)
		assert.ErrorIs(t, err, domain.ErrOutOfRange)
	})

	t.Run("invalid rate", func(t *testing.T) {
		for _, rate := range []float64{-1, math.NaN(), math.Inf(1)} {
			_, err := EditPayoutRate(rows, 0, rate)
			assert.ErrorIs(t, err, domain.ErrInvalidRate)
		}
	})

	t.Run("zero rate allowed", func(t *testing.T) {
		res, err := EditPayoutRate(rows, 0, 0)
		require.NoError(t, err)
		assert.Zero(t, res[0].PayoutRate)
	})
}

func TestMergePayouts(t *testing.T) {
	previous := []domain.AuthorPayout{
		{Author: "A", Articles: 1, PayoutRate: 42},
		{Author: "gone", Articles: 3, PayoutRate: 7},
	}
	res := MergePayouts(previous, map[string]int{"A": 5, "B": 1}, DefaultPayoutRate)
	assert.Equal(t, []domain.AuthorPayout{
		{Author: "A", Articles: 5, PayoutRate: 42},
		{Author: "B", Articles: 1, PayoutRate: 10},
	}, res)
}

func TestTotal(t *testing.T) {
	rows := []domain.AuthorPayout{{Author: "A", Articles: 2, PayoutRate: 10}, {Author: "B", Articles: 3, PayoutRate: 1.5}}
	assert.InDelta(t, 24.5, Total(rows), 1e-9)
	assert.Zero(t, Total(nil))
}

func TestToExportRows(t *testing.T) {
	articles := []domain.Article{
		{Title: "t1", Author: "a1", Description: "d1", PublishedAt: "2024-01-01T00:00:00Z", URL: "https://e.com/1"},
		{},
		{Title: "only title"},
	}
	rows := ToExportRows(articles)
	require.Len(t, rows, len(articles))
	assert.Equal(t, domain.ExportRow{"t1", "a1", "d1", "2024-01-01T00:00:00Z", "https://e.com/1"}, rows[0])
	assert.Equal(t, domain.ExportRow{"", "", "", "", ""}, rows[1])
	assert.Equal(t, domain.ExportRow{"only title", "", "", "", ""}, rows[2])

	assert.Empty(t, ToExportRows(nil))
}
