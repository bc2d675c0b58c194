package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thriftwear/storefront/domain"
)

func catalogFixture() []*domain.Product {
	return []*domain.Product{
		{ID: "p1", Name: "Vintage Leather Jacket", Category: "Jackets", Description: "Classic vintage leather jacket.", Price: 850000},
		{ID: "p2", Name: "AIRism Midi Dress", Category: "Dress", Description: "Elegant blue midi dress.", Price: 420000},
		{ID: "p3", Name: "Vintage Sun T-Shirt", Category: "T-Shirts (Short Sleeves)", Description: "Vintage sun design.", Price: 180000},
	}
}

func TestSearchMatchesNameDescriptionAndCategory(t *testing.T) {
	products := new(MockProductRepository)
	svc := NewCatalogService(products)
	ctx := context.Background()

	products.On("ListProducts", ctx).Return(catalogFixture(), nil)

	results, err := svc.Search(ctx, "VINTAGE")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "p1", results[0].ID)
	assert.Equal(t, "p3", results[1].ID)

	results, err = svc.Search(ctx, "dress")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p2", results[0].ID)
}

func TestFilterByPriceRangeIsInclusive(t *testing.T) {
	products := new(MockProductRepository)
	svc := NewCatalogService(products)
	ctx := context.Background()

	products.On("ListProducts", ctx).Return(catalogFixture(), nil)

	results, err := svc.FilterByPriceRange(ctx, 180000, 420000)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "p2", results[0].ID)
	assert.Equal(t, "p3", results[1].ID)
}
