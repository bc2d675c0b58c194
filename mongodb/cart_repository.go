package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/thriftwear/storefront/domain"
)

// CartRepository implements domain.CartRepository. Carts are keyed by the
// owning user's uid, one document per user.
type CartRepository struct {
	carts *mongo.Collection
}

// NewCartRepository creates a new CartRepository.
func NewCartRepository(db *mongo.Database) domain.CartRepository {
	return &CartRepository{
		carts: db.Collection(CartsCollection),
	}
}

// GetCart retrieves a user's cart.
func (r *CartRepository) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.carts.FindOne(ctx, bson.M{"_id": userID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartNotFound
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Error getting cart from MongoDB")
		return nil, err
	}
	return &cart, nil
}

// SaveCart upserts the whole cart document.
func (r *CartRepository) SaveCart(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.carts.ReplaceOne(ctx, bson.M{"_id": cart.UserID}, cart, opts)
	if err != nil {
		log.Error().Err(err).Str("user_id", cart.UserID).Msg("Error saving cart in MongoDB")
		return err
	}
	return nil
}

// Ensure interface compliance
var _ domain.CartRepository = (*CartRepository)(nil)
