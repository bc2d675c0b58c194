package services

import (
	"context"
	"errors"

	"github.com/thriftwear/storefront/domain"
)

// CartService manages the single cart document kept per user.
type CartService struct {
	carts domain.CartRepository
}

// NewCartService creates a new CartService.
func NewCartService(carts domain.CartRepository) *CartService {
	return &CartService{carts: carts}
}

// LoadCart returns the user's cart; an absent document reads as empty.
func (s *CartService) LoadCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return &domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
		}
		return nil, err
	}
	return cart, nil
}

// AddItem appends a product to the cart, incrementing quantity when the
// product is already carried.
func (s *CartService) AddItem(ctx context.Context, userID string, product *domain.Product) (*domain.Cart, error) {
	cart, err := s.LoadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].Product.ID == product.ID {
			cart.Items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, domain.CartItem{Product: *product, Quantity: 1})
	}

	if err := s.carts.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops a product from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	cart, err := s.LoadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.Product.ID != productID {
			items = append(items, item)
		}
	}
	cart.Items = items

	if err := s.carts.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets a cart line's quantity; zero or below removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	cart, err := s.LoadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range cart.Items {
		if cart.Items[i].Product.ID == productID {
			cart.Items[i].Quantity = quantity
			break
		}
	}

	if err := s.carts.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart empties the cart.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.carts.SaveCart(ctx, &domain.Cart{UserID: userID, Items: []domain.CartItem{}})
}
