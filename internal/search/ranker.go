// Package search implements the fuzzy product ranker. It is stateless:
// every call scores a fresh catalog snapshot against the query, so there
// is no index to keep in sync with catalog writes.
package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/iliyamo/storefront-api/internal/model"
)

// MaxDivergence is the similarity threshold: a field matches when its best
// normalized edit distance to the query is at or below this fraction of
// the longer string. 0.3 keeps matches with up to ~30% character-level
// divergence, mirroring the permissiveness the storefront search has
// always had.
const MaxDivergence = 0.3

type scoredProduct struct {
	product model.Product
	score   float64
}

// Rank filters and orders products by approximate relevance to query,
// most relevant first. Products whose best field score does not clear the
// threshold are dropped. Ties keep snapshot order, so ranking is
// reproducible for a given snapshot and query.
func Rank(products []model.Product, query string) []model.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products
	}
	matched := make([]scoredProduct, 0, len(products))
	for _, p := range products {
		if s := scoreProduct(p, q); s > 0 {
			matched = append(matched, scoredProduct{product: p, score: s})
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})
	out := make([]model.Product, 0, len(matched))
	for _, m := range matched {
		out = append(out, m.product)
	}
	return out
}

// scoreProduct returns the best field score for a product. The searched
// field set is fixed: title, label, description, tags and the reviewer
// names denormalized into embedded reviews.
func scoreProduct(p model.Product, q string) float64 {
	best := fieldScore(p.Title, q)
	if s := fieldScore(p.Label, q); s > best {
		best = s
	}
	if s := fieldScore(p.Description, q); s > best {
		best = s
	}
	for _, t := range p.Tags {
		if s := fieldScore(t, q); s > best {
			best = s
		}
	}
	for _, r := range p.Reviews {
		if s := fieldScore(r.UserName, q); s > best {
			best = s
		}
	}
	return best
}

// fieldScore scores one field against the query: the best similarity of
// the whole field and of each whitespace-separated token, so a query can
// hit a single word inside a longer description. Returns 0 when nothing
// clears the threshold.
func fieldScore(field, q string) float64 {
	field = strings.ToLower(strings.TrimSpace(field))
	if field == "" {
		return 0
	}
	best := similarity(field, q)
	for _, tok := range strings.Fields(field) {
		if s := similarity(tok, q); s > best {
			best = s
		}
	}
	return best
}

// similarity converts edit distance to a [0,1] score, 1 meaning an exact
// match. Distance is normalized by the longer of the two strings; scores
// below the threshold collapse to 0.
func similarity(cand, q string) float64 {
	dist := levenshtein.ComputeDistance(cand, q)
	longer := utf8.RuneCountInString(cand)
	if n := utf8.RuneCountInString(q); n > longer {
		longer = n
	}
	if longer == 0 {
		return 0
	}
	nd := float64(dist) / float64(longer)
	if nd > MaxDivergence {
		return 0
	}
	return 1 - nd
}
