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

// ProductRepository implements domain.ProductRepository.
type ProductRepository struct {
	products *mongo.Collection
}

// NewProductRepository creates a new ProductRepository and ensures indexes.
func NewProductRepository(ctx context.Context, db *mongo.Database) (domain.ProductRepository, error) {
	repo := &ProductRepository{
		products: db.Collection(ProductsCollection),
	}

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "uploaded_at", Value: -1}},
			Options: options.Index(),
		},
	}
	if _, err := repo.products.Indexes().CreateMany(ctx, indexModels); err != nil {
		log.Warn().Err(err).Msg("Failed to create product indexes")
	}
	return repo, nil
}

// GetProduct retrieves a single listing by id.
func (r *ProductRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := r.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("Error getting product from MongoDB")
		return nil, err
	}
	return &product, nil
}

// ListProducts returns the whole catalog, newest listings first.
func (r *ProductRepository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return r.find(ctx, bson.M{})
}

// ListProductsByCategory returns the listings in one category.
func (r *ProductRepository) ListProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return r.find(ctx, bson.M{"category": category})
}

func (r *ProductRepository) find(ctx context.Context, filter bson.M) ([]*domain.Product, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: -1}})
	cursor, err := r.products.Find(ctx, filter, findOptions)
	if err != nil {
		log.Error().Err(err).Msg("Error listing products from MongoDB")
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	if err = cursor.All(ctx, &products); err != nil {
		log.Error().Err(err).Msg("Error decoding listed products from MongoDB")
		return nil, err
	}
	return products, nil
}

// CreateProduct inserts a new listing.
func (r *ProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	if product.ID == "" {
		product.ID = NewDocumentID()
	}
	if product.UploadedAt.IsZero() {
		product.UploadedAt = time.Now().UTC()
	}

	if _, err := r.products.InsertOne(ctx, product); err != nil {
		log.Error().Err(err).Str("id", product.ID).Msg("Error creating product in MongoDB")
		return err
	}
	return nil
}

// UpdateProduct applies a partial update to a listing.
func (r *ProductRepository) UpdateProduct(ctx context.Context, id string, fields map[string]any) error {
	result, err := r.products.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error updating product in MongoDB")
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// DeleteProduct removes a listing.
func (r *ProductRepository) DeleteProduct(ctx context.Context, id string) error {
	result, err := r.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error deleting product from MongoDB")
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Ensure interface compliance
var _ domain.ProductRepository = (*ProductRepository)(nil)
