package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

// ErrSKUExhausted is returned when every attempt drew an already-taken
// SKU. With a 9000-value suffix space per category prefix this only
// happens when a category is nearly full or the store is misbehaving.
var ErrSKUExhausted = errors.New("sku space exhausted")

// SKUStore is the slice of the product store the generator needs.
type SKUStore interface {
	SKUExists(ctx context.Context, sku string) (bool, error)
}

// SKUGenerator produces human-readable product identifiers of the form
// PRE-1234: the first three characters of the category uppercased, then a
// four-digit draw. Generation is a bounded loop, never recursion, so a
// crowded category terminates with ErrSKUExhausted instead of growing the
// stack. The existence pre-check is optimistic; callers must treat an
// insert-time ErrSKUExists as a collision and call Generate again, since
// a concurrent creation can take the SKU between check and insert.
type SKUGenerator struct {
	store       SKUStore
	maxAttempts int
}

// NewSKUGenerator builds a generator with the given retry cap. A cap of
// zero or less falls back to 10 attempts.
func NewSKUGenerator(store SKUStore, maxAttempts int) *SKUGenerator {
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	return &SKUGenerator{store: store, maxAttempts: maxAttempts}
}

// Generate returns a SKU not currently present in the catalog.
func (g *SKUGenerator) Generate(ctx context.Context, category string) (string, error) {
	prefix := skuPrefix(category)
	for i := 0; i < g.maxAttempts; i++ {
		sku := fmt.Sprintf("%s-%04d", prefix, 1000+rand.IntN(9000))
		taken, err := g.store.SKUExists(ctx, sku)
		if err != nil {
			return "", err
		}
		if !taken {
			return sku, nil
		}
	}
	return "", ErrSKUExhausted
}

// skuPrefix uppercases the first three runes of the category, or the
// whole category when it is shorter.
func skuPrefix(category string) string {
	runes := []rune(strings.ToUpper(strings.TrimSpace(category)))
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}
