package services

import (
	"context"
	"errors"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/thriftwear/storefront/domain"
)

// WishlistService manages the product-id set stored on the profile document.
type WishlistService struct {
	profiles domain.ProfileRepository
	products domain.ProductRepository
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(profiles domain.ProfileRepository, products domain.ProductRepository) *WishlistService {
	return &WishlistService{profiles: profiles, products: products}
}

// ListProducts resolves the wishlist ids to products. Ids whose listings
// have since been deleted are skipped.
func (s *WishlistService) ListProducts(ctx context.Context, userID string) ([]*domain.Product, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.Product, 0, len(profile.Wishlist))
	for _, productID := range profile.Wishlist {
		product, err := s.products.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				log.Debug().Str("product_id", productID).Msg("wishlist references a deleted product, skipping")
				continue
			}
			return nil, err
		}
		items = append(items, product)
	}
	return items, nil
}

// Add puts a product on the wishlist.
func (s *WishlistService) Add(ctx context.Context, userID, productID string) error {
	return s.profiles.AddToWishlist(ctx, userID, productID)
}

// Remove takes a product off the wishlist.
func (s *WishlistService) Remove(ctx context.Context, userID, productID string) error {
	return s.profiles.RemoveFromWishlist(ctx, userID, productID)
}

// Toggle adds the product when absent and removes it when present,
// reporting whether it is on the wishlist afterwards.
func (s *WishlistService) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return false, err
	}

	if slices.Contains(profile.Wishlist, productID) {
		return false, s.profiles.RemoveFromWishlist(ctx, userID, productID)
	}
	return true, s.profiles.AddToWishlist(ctx, userID, productID)
}

// Clear empties the wishlist.
func (s *WishlistService) Clear(ctx context.Context, userID string) error {
	return s.profiles.ClearWishlist(ctx, userID)
}
