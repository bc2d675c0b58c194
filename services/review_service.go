package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thriftwear/storefront/domain"
)

var (
	// ErrMustPurchaseFirst gates reviews on a completed purchase.
	ErrMustPurchaseFirst = errors.New("you must purchase this product first to leave a review")
	// ErrAlreadyReviewed enforces one review per user per product.
	ErrAlreadyReviewed = errors.New("you have already reviewed this product")
	// ErrNotReviewOwner rejects edits to someone else's review.
	ErrNotReviewOwner = errors.New("review belongs to another user")
)

// CreateReviewInput is the caller-supplied part of a new review.
type CreateReviewInput struct {
	ProductID string
	Rating    int
	Comment   string
	Images    []string
}

// ReviewService manages purchase-gated product reviews and keeps the
// product rating aggregate current.
type ReviewService struct {
	reviews  domain.ReviewRepository
	orders   domain.OrderRepository
	products domain.ProductRepository
	profiles domain.ProfileRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews domain.ReviewRepository, orders domain.OrderRepository, products domain.ProductRepository, profiles domain.ProfileRepository) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		orders:   orders,
		products: products,
		profiles: profiles,
	}
}

// CanUserReview checks the purchase gate: the user must have a shipped or
// delivered order containing the product, and no prior review of it.
// It returns the qualifying order's id.
func (s *ReviewService) CanUserReview(ctx context.Context, userID, productID string) (string, error) {
	orders, err := s.orders.ListOrdersByUserAndStatus(ctx, userID,
		[]domain.OrderStatus{domain.OrderStatusShipped, domain.OrderStatusDelivered})
	if err != nil {
		return "", err
	}

	orderID := ""
	for _, order := range orders {
		if order.ContainsProduct(productID) {
			orderID = order.ID
			break
		}
	}
	if orderID == "" {
		return "", ErrMustPurchaseFirst
	}

	if _, err := s.reviews.GetReviewByUserAndProduct(ctx, userID, productID); err == nil {
		return "", ErrAlreadyReviewed
	} else if !errors.Is(err, domain.ErrReviewNotFound) {
		return "", err
	}

	return orderID, nil
}

// CreateReview validates the purchase gate, denormalizes the reviewer's
// name and photo from the profile document and recomputes the product's
// rating aggregate.
func (s *ReviewService) CreateReview(ctx context.Context, user *domain.User, input CreateReviewInput) (*domain.Review, error) {
	orderID, err := s.CanUserReview(ctx, user.UID, input.ProductID)
	if err != nil {
		return nil, err
	}

	userName := user.Email
	userPhoto := user.PhotoURL
	profile, err := s.profiles.GetProfile(ctx, user.UID)
	if err == nil {
		if profile.FullName != "" {
			userName = profile.FullName
		} else if profile.Username != "" {
			userName = profile.Username
		}
		if profile.Photo != "" {
			userPhoto = profile.Photo
		}
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ProductID: input.ProductID,
		UserID:    user.UID,
		OrderID:   orderID,
		UserName:  userName,
		UserPhoto: userPhoto,
		Rating:    input.Rating,
		Comment:   input.Comment,
		Images:    input.Images,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.CreateReview(ctx, review); err != nil {
		return nil, err
	}

	s.refreshProductRating(ctx, input.ProductID)
	return review, nil
}

// UpdateReview edits the caller's own review and refreshes the aggregate.
func (s *ReviewService) UpdateReview(ctx context.Context, userID, reviewID string, rating int, comment string) error {
	review, err := s.reviews.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return ErrNotReviewOwner
	}

	if err := s.reviews.UpdateReview(ctx, reviewID, map[string]any{
		"rating":  rating,
		"comment": comment,
	}); err != nil {
		return err
	}

	s.refreshProductRating(ctx, review.ProductID)
	return nil
}

// DeleteReview removes the caller's own review and refreshes the aggregate.
func (s *ReviewService) DeleteReview(ctx context.Context, userID, reviewID string) error {
	review, err := s.reviews.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return ErrNotReviewOwner
	}

	if err := s.reviews.DeleteReview(ctx, reviewID); err != nil {
		return err
	}

	s.refreshProductRating(ctx, review.ProductID)
	return nil
}

// ListProductReviews returns a product's reviews newest first.
func (s *ReviewService) ListProductReviews(ctx context.Context, productID string) ([]*domain.Review, error) {
	return s.reviews.ListReviewsByProduct(ctx, productID)
}

// refreshProductRating recomputes the average rating and review count on
// the product document. Failures are logged; the review itself is already
// persisted.
func (s *ReviewService) refreshProductRating(ctx context.Context, productID string) {
	reviews, err := s.reviews.ListReviewsByProduct(ctx, productID)
	if err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("failed to list reviews for rating refresh")
		return
	}

	var rating float64
	if len(reviews) > 0 {
		sum := 0
		for _, review := range reviews {
			sum += review.Rating
		}
		rating = float64(sum) / float64(len(reviews))
	}

	if err := s.products.UpdateProduct(ctx, productID, map[string]any{
		"rating":       rating,
		"review_count": len(reviews),
	}); err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("failed to update product rating aggregate")
	}
}
