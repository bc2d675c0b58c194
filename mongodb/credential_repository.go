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

// CredentialRepository implements domain.CredentialRepository for the
// built-in identity provider.
type CredentialRepository struct {
	credentials *mongo.Collection
}

// NewCredentialRepository creates a new CredentialRepository and ensures
// the unique email index.
func NewCredentialRepository(ctx context.Context, db *mongo.Database) (domain.CredentialRepository, error) {
	repo := &CredentialRepository{
		credentials: db.Collection(CredentialsCollection),
	}

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetCollation(&options.Collation{Locale: "en", Strength: 2}),
		},
	}
	if _, err := repo.credentials.Indexes().CreateMany(ctx, indexModels); err != nil {
		log.Warn().Err(err).Msg("Failed to create credential indexes")
	}
	return repo, nil
}

// CreateCredential inserts a new account record.
func (r *CredentialRepository) CreateCredential(ctx context.Context, cred *domain.Credential) error {
	if cred.ID == "" {
		cred.ID = NewDocumentID()
	}
	now := time.Now().UTC()
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now

	if _, err := r.credentials.InsertOne(ctx, cred); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailInUse
		}
		log.Error().Err(err).Str("email", cred.Email).Msg("Error creating credential in MongoDB")
		return err
	}
	return nil
}

// GetCredentialByID retrieves an account by subject id.
func (r *CredentialRepository) GetCredentialByID(ctx context.Context, id string) (*domain.Credential, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetCredentialByEmail retrieves an account by email.
func (r *CredentialRepository) GetCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *CredentialRepository) findOne(ctx context.Context, filter bson.M) (*domain.Credential, error) {
	var cred domain.Credential
	err := r.credentials.FindOne(ctx, filter).Decode(&cred)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidCredentials
		}
		log.Error().Err(err).Msg("Error getting credential from MongoDB")
		return nil, err
	}
	return &cred, nil
}

// UpdateCredential replaces an account record.
func (r *CredentialRepository) UpdateCredential(ctx context.Context, cred *domain.Credential) error {
	cred.UpdatedAt = time.Now().UTC()

	result, err := r.credentials.ReplaceOne(ctx, bson.M{"_id": cred.ID}, cred)
	if err != nil {
		log.Error().Err(err).Str("id", cred.ID).Msg("Error updating credential in MongoDB")
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// Ensure interface compliance
var _ domain.CredentialRepository = (*CredentialRepository)(nil)
