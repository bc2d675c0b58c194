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

// OrderRepository implements domain.OrderRepository.
type OrderRepository struct {
	orders *mongo.Collection
}

// NewOrderRepository creates a new OrderRepository and ensures indexes.
func NewOrderRepository(ctx context.Context, db *mongo.Database) (domain.OrderRepository, error) {
	repo := &OrderRepository{
		orders: db.Collection(OrdersCollection),
	}

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "order_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := repo.orders.Indexes().CreateMany(ctx, indexModels); err != nil {
		log.Warn().Err(err).Msg("Failed to create order indexes")
	}
	return repo, nil
}

// CreateOrder inserts a new order.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	if order.ID == "" {
		order.ID = NewDocumentID()
	}
	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	if _, err := r.orders.InsertOne(ctx, order); err != nil {
		log.Error().Err(err).Str("id", order.ID).Msg("Error creating order in MongoDB")
		return err
	}
	return nil
}

// GetOrder retrieves an order by id.
func (r *OrderRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("Error getting order from MongoDB")
		return nil, err
	}
	return &order, nil
}

// ListOrdersByUser returns a user's orders newest first.
func (r *OrderRepository) ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

// ListOrdersByUserAndStatus returns a user's orders in any of the given
// statuses, newest first.
func (r *OrderRepository) ListOrdersByUserAndStatus(ctx context.Context, userID string, statuses []domain.OrderStatus) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{"user_id": userID, "status": bson.M{"$in": statuses}})
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.orders.Find(ctx, filter, findOptions)
	if err != nil {
		log.Error().Err(err).Msg("Error listing orders from MongoDB")
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []*domain.Order
	if err = cursor.All(ctx, &orders); err != nil {
		log.Error().Err(err).Msg("Error decoding listed orders from MongoDB")
		return nil, err
	}
	return orders, nil
}

// Ensure interface compliance
var _ domain.OrderRepository = (*OrderRepository)(nil)
