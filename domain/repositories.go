package domain

import (
	"context"
	"time"
)

// ProfileRepository persists user profile documents. Document ids equal
// the owning principal's subject id.
type ProfileRepository interface {
	GetProfile(ctx context.Context, subjectID string) (*Profile, error)
	CreateProfile(ctx context.Context, profile *Profile) error
	// UpdateProfile applies a partial update and refreshes updated_at.
	UpdateProfile(ctx context.Context, subjectID string, fields map[string]any) error
	AddToWishlist(ctx context.Context, subjectID, productID string) error
	RemoveFromWishlist(ctx context.Context, subjectID, productID string) error
	ClearWishlist(ctx context.Context, subjectID string) error
}

// ProductRepository persists catalog listings.
type ProductRepository interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	ListProductsByCategory(ctx context.Context, category string) ([]*Product, error)
	CreateProduct(ctx context.Context, product *Product) error
	UpdateProduct(ctx context.Context, id string, fields map[string]any) error
	DeleteProduct(ctx context.Context, id string) error
}

// CartRepository persists the single cart document kept per user.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*Cart, error)
	SaveCart(ctx context.Context, cart *Cart) error
}

// OrderRepository persists completed checkouts.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrder(ctx context.Context, id string) (*Order, error)
	// ListOrdersByUser returns the user's orders newest first.
	ListOrdersByUser(ctx context.Context, userID string) ([]*Order, error)
	ListOrdersByUserAndStatus(ctx context.Context, userID string, statuses []OrderStatus) ([]*Order, error)
}

// ReviewRepository persists product reviews.
type ReviewRepository interface {
	CreateReview(ctx context.Context, review *Review) error
	GetReview(ctx context.Context, id string) (*Review, error)
	ListReviewsByProduct(ctx context.Context, productID string) ([]*Review, error)
	GetReviewByUserAndProduct(ctx context.Context, userID, productID string) (*Review, error)
	UpdateReview(ctx context.Context, id string, fields map[string]any) error
	DeleteReview(ctx context.Context, id string) error
}

// SessionCache is the local, non-authoritative mirror of the last-known
// merged user. Reads of expired or corrupt entries report absence, not
// failure; correctness never depends on the cache.
type SessionCache interface {
	// Write stores the merged user with the given expiration horizon.
	Write(ctx context.Context, user *User, ttl time.Duration) error
	// Read returns the cached user, or nil when no unexpired entry exists.
	Read(ctx context.Context) (*User, error)
	// Clear removes the cache entry. Clearing an absent entry is not an error.
	Clear(ctx context.Context) error
}
