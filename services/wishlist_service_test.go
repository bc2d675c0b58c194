package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thriftwear/storefront/domain"
)

func TestWishlistToggleAddsWhenAbsent(t *testing.T) {
	profiles := new(MockProfileRepository)
	svc := NewWishlistService(profiles, new(MockProductRepository))
	ctx := context.Background()

	profiles.On("GetProfile", ctx, "user-1").
		Return(&domain.Profile{ID: "user-1", Wishlist: []string{"prod-2"}}, nil)
	profiles.On("AddToWishlist", ctx, "user-1", "prod-1").Return(nil)

	added, err := svc.Toggle(ctx, "user-1", "prod-1")
	require.NoError(t, err)
	assert.True(t, added)
	profiles.AssertExpectations(t)
}

func TestWishlistToggleRemovesWhenPresent(t *testing.T) {
	profiles := new(MockProfileRepository)
	svc := NewWishlistService(profiles, new(MockProductRepository))
	ctx := context.Background()

	profiles.On("GetProfile", ctx, "user-1").
		Return(&domain.Profile{ID: "user-1", Wishlist: []string{"prod-1"}}, nil)
	profiles.On("RemoveFromWishlist", ctx, "user-1", "prod-1").Return(nil)

	added, err := svc.Toggle(ctx, "user-1", "prod-1")
	require.NoError(t, err)
	assert.False(t, added)
	profiles.AssertExpectations(t)
}

func TestWishlistListSkipsDeletedProducts(t *testing.T) {
	profiles := new(MockProfileRepository)
	products := new(MockProductRepository)
	svc := NewWishlistService(profiles, products)
	ctx := context.Background()

	profiles.On("GetProfile", ctx, "user-1").
		Return(&domain.Profile{ID: "user-1", Wishlist: []string{"prod-1", "prod-gone", "prod-2"}}, nil)
	products.On("GetProduct", ctx, "prod-1").Return(&domain.Product{ID: "prod-1"}, nil)
	products.On("GetProduct", ctx, "prod-gone").Return(nil, domain.ErrProductNotFound)
	products.On("GetProduct", ctx, "prod-2").Return(&domain.Product{ID: "prod-2"}, nil)

	items, err := svc.ListProducts(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "prod-1", items[0].ID)
	assert.Equal(t, "prod-2", items[1].ID)
}
