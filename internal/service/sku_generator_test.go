package service_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/storefront-api/internal/service"
)

// fakeSKUStore scripts SKUExists responses: the first `collisions` calls
// report taken, the rest report free.
type fakeSKUStore struct {
	collisions int
	calls      int
}

func (f *fakeSKUStore) SKUExists(ctx context.Context, sku string) (bool, error) {
	f.calls++
	return f.calls <= f.collisions, nil
}

func TestGenerate_Pattern(t *testing.T) {
	g := service.NewSKUGenerator(&fakeSKUStore{}, 10)

	sku, err := g.Generate(context.Background(), "Shoes")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^SHO-\d{4}$`), sku)
}

func TestGenerate_ShortCategory(t *testing.T) {
	g := service.NewSKUGenerator(&fakeSKUStore{}, 10)

	sku, err := g.Generate(context.Background(), "tv")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^TV-\d{4}$`), sku)
}

func TestGenerate_RetriesOnCollision(t *testing.T) {
	store := &fakeSKUStore{collisions: 1}
	g := service.NewSKUGenerator(store, 10)

	sku, err := g.Generate(context.Background(), "Shoes")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^SHO-\d{4}$`), sku)
	assert.Equal(t, 2, store.calls, "expected a fresh draw after the forced collision")
}

func TestGenerate_Exhaustion(t *testing.T) {
	store := &fakeSKUStore{collisions: 1 << 30} // every draw is taken
	g := service.NewSKUGenerator(store, 5)

	_, err := g.Generate(context.Background(), "Shoes")
	assert.ErrorIs(t, err, service.ErrSKUExhausted)
	assert.Equal(t, 5, store.calls, "retries must stop at the attempt cap")
}
