package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thriftwear/storefront/domain"
)

func reviewServiceWithMocks() (*ReviewService, *MockReviewRepository, *MockOrderRepository, *MockProductRepository, *MockProfileRepository) {
	reviews := new(MockReviewRepository)
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	profiles := new(MockProfileRepository)
	return NewReviewService(reviews, orders, products, profiles), reviews, orders, products, profiles
}

func shippedOrderWith(productID string) *domain.Order {
	return &domain.Order{
		ID:     "order-1",
		UserID: "user-1",
		Status: domain.OrderStatusShipped,
		Items: []domain.CartItem{
			{Product: domain.Product{ID: productID}, Quantity: 1},
		},
	}
}

func TestCanUserReviewRequiresFulfilledPurchase(t *testing.T) {
	svc, _, orders, _, _ := reviewServiceWithMocks()
	ctx := context.Background()

	orders.On("ListOrdersByUserAndStatus", ctx, "user-1",
		[]domain.OrderStatus{domain.OrderStatusShipped, domain.OrderStatusDelivered}).
		Return([]*domain.Order{}, nil)

	_, err := svc.CanUserReview(ctx, "user-1", "prod-1")
	assert.ErrorIs(t, err, ErrMustPurchaseFirst)
	orders.AssertExpectations(t)
}

func TestCanUserReviewIgnoresOrdersForOtherProducts(t *testing.T) {
	svc, _, orders, _, _ := reviewServiceWithMocks()
	ctx := context.Background()

	orders.On("ListOrdersByUserAndStatus", ctx, "user-1", mock.Anything).
		Return([]*domain.Order{shippedOrderWith("prod-other")}, nil)

	_, err := svc.CanUserReview(ctx, "user-1", "prod-1")
	assert.ErrorIs(t, err, ErrMustPurchaseFirst)
}

func TestCanUserReviewRejectsSecondReview(t *testing.T) {
	svc, reviews, orders, _, _ := reviewServiceWithMocks()
	ctx := context.Background()

	orders.On("ListOrdersByUserAndStatus", ctx, "user-1", mock.Anything).
		Return([]*domain.Order{shippedOrderWith("prod-1")}, nil)
	reviews.On("GetReviewByUserAndProduct", ctx, "user-1", "prod-1").
		Return(&domain.Review{ID: "rev-1"}, nil)

	_, err := svc.CanUserReview(ctx, "user-1", "prod-1")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestCanUserReviewReturnsQualifyingOrder(t *testing.T) {
	svc, reviews, orders, _, _ := reviewServiceWithMocks()
	ctx := context.Background()

	orders.On("ListOrdersByUserAndStatus", ctx, "user-1", mock.Anything).
		Return([]*domain.Order{shippedOrderWith("prod-1")}, nil)
	reviews.On("GetReviewByUserAndProduct", ctx, "user-1", "prod-1").
		Return(nil, domain.ErrReviewNotFound)

	orderID, err := svc.CanUserReview(ctx, "user-1", "prod-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", orderID)
}

func TestCreateReviewDenormalizesProfileAndRefreshesRating(t *testing.T) {
	svc, reviews, orders, products, profiles := reviewServiceWithMocks()
	ctx := context.Background()

	orders.On("ListOrdersByUserAndStatus", ctx, "user-1", mock.Anything).
		Return([]*domain.Order{shippedOrderWith("prod-1")}, nil)
	reviews.On("GetReviewByUserAndProduct", ctx, "user-1", "prod-1").
		Return(nil, domain.ErrReviewNotFound)
	profiles.On("GetProfile", ctx, "user-1").
		Return(&domain.Profile{ID: "user-1", Username: "janed", FullName: "Jane Doe", Photo: "photo.png"}, nil)
	reviews.On("CreateReview", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)
	reviews.On("ListReviewsByProduct", ctx, "prod-1").
		Return([]*domain.Review{{Rating: 5}, {Rating: 4}}, nil)
	products.On("UpdateProduct", ctx, "prod-1", map[string]any{
		"rating":       4.5,
		"review_count": 2,
	}).Return(nil)

	user := &domain.User{UID: "user-1", Email: "jane@example.com"}
	review, err := svc.CreateReview(ctx, user, CreateReviewInput{ProductID: "prod-1", Rating: 5, Comment: "great"})

	require.NoError(t, err)
	assert.Equal(t, "order-1", review.OrderID)
	assert.Equal(t, "Jane Doe", review.UserName)
	assert.Equal(t, "photo.png", review.UserPhoto)
	products.AssertExpectations(t)
}

func TestCreateReviewFallsBackToEmailWithoutProfile(t *testing.T) {
	svc, reviews, orders, products, profiles := reviewServiceWithMocks()
	ctx := context.Background()

	orders.On("ListOrdersByUserAndStatus", ctx, "user-1", mock.Anything).
		Return([]*domain.Order{shippedOrderWith("prod-1")}, nil)
	reviews.On("GetReviewByUserAndProduct", ctx, "user-1", "prod-1").
		Return(nil, domain.ErrReviewNotFound)
	profiles.On("GetProfile", ctx, "user-1").Return(nil, domain.ErrProfileNotFound)
	reviews.On("CreateReview", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)
	reviews.On("ListReviewsByProduct", ctx, "prod-1").Return([]*domain.Review{{Rating: 3}}, nil)
	products.On("UpdateProduct", ctx, "prod-1", mock.Anything).Return(nil)

	user := &domain.User{UID: "user-1", Email: "jane@example.com"}
	review, err := svc.CreateReview(ctx, user, CreateReviewInput{ProductID: "prod-1", Rating: 3})

	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", review.UserName)
}

func TestUpdateReviewRejectsOtherOwners(t *testing.T) {
	svc, reviews, _, _, _ := reviewServiceWithMocks()
	ctx := context.Background()

	reviews.On("GetReview", ctx, "rev-1").
		Return(&domain.Review{ID: "rev-1", UserID: "someone-else", ProductID: "prod-1"}, nil)

	err := svc.UpdateReview(ctx, "user-1", "rev-1", 2, "meh")
	assert.ErrorIs(t, err, ErrNotReviewOwner)
	reviews.AssertNotCalled(t, "UpdateReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteReviewRefreshesAggregateToZero(t *testing.T) {
	svc, reviews, _, products, _ := reviewServiceWithMocks()
	ctx := context.Background()

	reviews.On("GetReview", ctx, "rev-1").
		Return(&domain.Review{ID: "rev-1", UserID: "user-1", ProductID: "prod-1"}, nil)
	reviews.On("DeleteReview", ctx, "rev-1").Return(nil)
	reviews.On("ListReviewsByProduct", ctx, "prod-1").Return([]*domain.Review{}, nil)
	products.On("UpdateProduct", ctx, "prod-1", map[string]any{
		"rating":       float64(0),
		"review_count": 0,
	}).Return(nil)

	require.NoError(t, svc.DeleteReview(ctx, "user-1", "rev-1"))
	products.AssertExpectations(t)
}
