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

// ReviewRepository implements domain.ReviewRepository.
type ReviewRepository struct {
	reviews *mongo.Collection
}

// NewReviewRepository creates a new ReviewRepository and ensures indexes.
func NewReviewRepository(ctx context.Context, db *mongo.Database) (domain.ReviewRepository, error) {
	repo := &ReviewRepository{
		reviews: db.Collection(ReviewsCollection),
	}

	indexModels := []mongo.IndexModel{
		{
			// One review per user per product.
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "product_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index(),
		},
	}
	if _, err := repo.reviews.Indexes().CreateMany(ctx, indexModels); err != nil {
		log.Warn().Err(err).Msg("Failed to create review indexes")
	}
	return repo, nil
}

// CreateReview inserts a new review.
func (r *ReviewRepository) CreateReview(ctx context.Context, review *domain.Review) error {
	if review.ID == "" {
		review.ID = NewDocumentID()
	}
	now := time.Now().UTC()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	review.UpdatedAt = now

	if _, err := r.reviews.InsertOne(ctx, review); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.New("user has already reviewed this product")
		}
		log.Error().Err(err).Str("id", review.ID).Msg("Error creating review in MongoDB")
		return err
	}
	return nil
}

// GetReview retrieves a review by id.
func (r *ReviewRepository) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	var review domain.Review
	err := r.reviews.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReviewNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("Error getting review from MongoDB")
		return nil, err
	}
	return &review, nil
}

// ListReviewsByProduct returns a product's reviews newest first.
func (r *ReviewRepository) ListReviewsByProduct(ctx context.Context, productID string) ([]*domain.Review, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.reviews.Find(ctx, bson.M{"product_id": productID}, findOptions)
	if err != nil {
		log.Error().Err(err).Str("product_id", productID).Msg("Error listing reviews from MongoDB")
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []*domain.Review
	if err = cursor.All(ctx, &reviews); err != nil {
		log.Error().Err(err).Msg("Error decoding listed reviews from MongoDB")
		return nil, err
	}
	return reviews, nil
}

// GetReviewByUserAndProduct retrieves a user's review of a product, if any.
func (r *ReviewRepository) GetReviewByUserAndProduct(ctx context.Context, userID, productID string) (*domain.Review, error) {
	var review domain.Review
	err := r.reviews.FindOne(ctx, bson.M{"user_id": userID, "product_id": productID}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReviewNotFound
		}
		log.Error().Err(err).Str("user_id", userID).Str("product_id", productID).
			Msg("Error getting review by user and product from MongoDB")
		return nil, err
	}
	return &review, nil
}

// UpdateReview applies a partial update and refreshes updated_at.
func (r *ReviewRepository) UpdateReview(ctx context.Context, id string, fields map[string]any) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	result, err := r.reviews.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error updating review in MongoDB")
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

// DeleteReview removes a review.
func (r *ReviewRepository) DeleteReview(ctx context.Context, id string) error {
	result, err := r.reviews.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error deleting review from MongoDB")
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

// Ensure interface compliance
var _ domain.ReviewRepository = (*ReviewRepository)(nil)
