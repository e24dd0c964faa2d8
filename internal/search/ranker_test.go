package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/storefront-api/internal/model"
	"github.com/iliyamo/storefront-api/internal/search"
)

func catalog() []model.Product {
	return []model.Product{
		{Title: "Running Shoes", Tags: []string{"sport", "footwear"}},
		{Title: "Leather Jacket", Label: "premium", Description: "Genuine cowhide jacket"},
		{Title: "Coffee Grinder", Reviews: []model.Review{{UserName: "Alice Johnson", Stars: 5}}},
	}
}

func titles(ps []model.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Title)
	}
	return out
}

func TestRank_ExactTitle(t *testing.T) {
	got := search.Rank(catalog(), "Running Shoes")
	require.NotEmpty(t, got)
	assert.Equal(t, "Running Shoes", got[0].Title)
}

func TestRank_OneCharSubstitution(t *testing.T) {
	// "Runninj" is "Running" with one substituted character; it must
	// still find the product through the token-level match.
	got := search.Rank(catalog(), "Runninj")
	require.NotEmpty(t, got)
	assert.Equal(t, "Running Shoes", got[0].Title)
}

func TestRank_UnrelatedQueryEmpty(t *testing.T) {
	got := search.Rank(catalog(), "zzzzqqqq")
	assert.Empty(t, got)
}

func TestRank_MatchesTagAndReviewerName(t *testing.T) {
	byTag := search.Rank(catalog(), "footwear")
	require.Len(t, byTag, 1)
	assert.Equal(t, "Running Shoes", byTag[0].Title)

	byReviewer := search.Rank(catalog(), "johnson")
	require.Len(t, byReviewer, 1)
	assert.Equal(t, "Coffee Grinder", byReviewer[0].Title)
}

func TestRank_OrdersByRelevance(t *testing.T) {
	products := []model.Product{
		{Title: "jackey"},
		{Title: "jacket"},
	}
	got := search.Rank(products, "jacket")
	require.Len(t, got, 2)
	// The exact title outranks the near miss even though it appears
	// later in the snapshot.
	assert.Equal(t, []string{"jacket", "jackey"}, titles(got))
}

func TestRank_EmptyQueryReturnsSnapshot(t *testing.T) {
	ps := catalog()
	got := search.Rank(ps, "  ")
	assert.Equal(t, titles(ps), titles(got))
}

func TestRank_Reproducible(t *testing.T) {
	first := search.Rank(catalog(), "jacket")
	second := search.Rank(catalog(), "jacket")
	assert.Equal(t, titles(first), titles(second))
}
