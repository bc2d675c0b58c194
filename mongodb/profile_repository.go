package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/thriftwear/storefront/domain"
)

// ProfileRepository implements domain.ProfileRepository. Profile document
// ids equal the owning principal's subject id.
type ProfileRepository struct {
	profiles *mongo.Collection
}

// NewProfileRepository creates a new ProfileRepository and ensures indexes.
func NewProfileRepository(ctx context.Context, db *mongo.Database) (domain.ProfileRepository, error) {
	repo := &ProfileRepository{
		profiles: db.Collection(ProfilesCollection),
	}
	if err := repo.createIndexes(ctx); err != nil {
		// Index creation commonly fails when compatible indexes already
		// exist; not fatal for startup.
		log.Warn().Err(err).Msg("Failed to create profile indexes")
	}
	return repo, nil
}

func (r *ProfileRepository) createIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetCollation(&options.Collation{Locale: "en", Strength: 2}),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := r.profiles.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes for profiles collection: %w", err)
	}
	return nil
}

// GetProfile retrieves a profile by subject id.
func (r *ProfileRepository) GetProfile(ctx context.Context, subjectID string) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.profiles.FindOne(ctx, bson.M{"_id": subjectID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		log.Error().Err(err).Str("id", subjectID).Msg("Error getting profile from MongoDB")
		return nil, err
	}
	return &profile, nil
}

// CreateProfile inserts a new profile document.
func (r *ProfileRepository) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	if profile.Wishlist == nil {
		profile.Wishlist = []string{}
	}

	_, err := r.profiles.InsertOne(ctx, profile)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailInUse
		}
		log.Error().Err(err).Str("id", profile.ID).Msg("Error creating profile in MongoDB")
		return err
	}
	return nil
}

// UpdateProfile applies a partial update and refreshes updated_at.
func (r *ProfileRepository) UpdateProfile(ctx context.Context, subjectID string, fields map[string]any) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	result, err := r.profiles.UpdateOne(ctx, bson.M{"_id": subjectID}, bson.M{"$set": set})
	if err != nil {
		log.Error().Err(err).Str("id", subjectID).Msg("Error updating profile in MongoDB")
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// AddToWishlist appends a product id to the wishlist set.
func (r *ProfileRepository) AddToWishlist(ctx context.Context, subjectID, productID string) error {
	return r.updateWishlist(ctx, subjectID, bson.M{"$addToSet": bson.M{"wishlist": productID}})
}

// RemoveFromWishlist removes a product id from the wishlist set.
func (r *ProfileRepository) RemoveFromWishlist(ctx context.Context, subjectID, productID string) error {
	return r.updateWishlist(ctx, subjectID, bson.M{"$pull": bson.M{"wishlist": productID}})
}

// ClearWishlist empties the wishlist.
func (r *ProfileRepository) ClearWishlist(ctx context.Context, subjectID string) error {
	return r.updateWishlist(ctx, subjectID, bson.M{"$set": bson.M{"wishlist": []string{}}})
}

func (r *ProfileRepository) updateWishlist(ctx context.Context, subjectID string, update bson.M) error {
	if set, ok := update["$set"].(bson.M); ok {
		set["updated_at"] = time.Now().UTC()
	} else {
		update["$set"] = bson.M{"updated_at": time.Now().UTC()}
	}

	result, err := r.profiles.UpdateOne(ctx, bson.M{"_id": subjectID}, update)
	if err != nil {
		log.Error().Err(err).Str("id", subjectID).Msg("Error updating wishlist in MongoDB")
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// Ensure interface compliance
var _ domain.ProfileRepository = (*ProfileRepository)(nil)
