package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thriftwear/storefront/domain"
)

// CreateOrderInput carries everything captured at checkout.
type CreateOrderInput struct {
	Items           []domain.CartItem
	ShippingAddress domain.ShippingAddress
	DeliveryMethod  domain.DeliveryMethod
	PaymentMethod   domain.PaymentMethod
	Subtotal        int64
	ProtectionFee   int64
	ShippingFee     int64
	Total           int64
}

// OrderService manages checkouts and order history.
type OrderService struct {
	orders domain.OrderRepository
	carts  domain.CartRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orders domain.OrderRepository, carts domain.CartRepository) *OrderService {
	return &OrderService{orders: orders, carts: carts}
}

// generateOrderNumber produces a human-readable order reference.
func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%d", time.Now().UnixMilli(), rand.IntN(1000))
}

// CreateOrder records a checkout as a pending order and clears the
// user's cart.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, input CreateOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, errors.New("cannot create an order with no items")
	}

	now := time.Now().UTC()
	order := &domain.Order{
		OrderNumber:     generateOrderNumber(),
		UserID:          userID,
		Items:           input.Items,
		ShippingAddress: input.ShippingAddress,
		DeliveryMethod:  input.DeliveryMethod,
		PaymentMethod:   input.PaymentMethod,
		Subtotal:        input.Subtotal,
		ProtectionFee:   input.ProtectionFee,
		ShippingFee:     input.ShippingFee,
		Total:           input.Total,
		Status:          domain.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	// The order is already placed; a lingering cart is recoverable.
	if err := s.carts.SaveCart(ctx, &domain.Cart{UserID: userID, Items: []domain.CartItem{}}); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to clear cart after checkout")
	}
	return order, nil
}

// GetOrder returns one order.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

// ListUserOrders returns a user's order history, newest first.
func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.orders.ListOrdersByUser(ctx, userID)
}
