package domain

import "time"

// OrderStatus tracks an order through fulfilment.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ShippingAddress is the destination captured at checkout.
type ShippingAddress struct {
	Name    string `bson:"name"    json:"name"`
	Address string `bson:"address" json:"address"`
}

// DeliveryMethod is the courier option selected at checkout.
type DeliveryMethod struct {
	Name          string `bson:"name"           json:"name"`
	Price         int64  `bson:"price"          json:"price"`
	EstimatedTime string `bson:"estimated_time" json:"estimated_time"`
}

// PaymentMethod records how the order was paid, not the payment itself.
type PaymentMethod struct {
	Type  string `bson:"type"  json:"type"`
	Last4 string `bson:"last4" json:"last4"`
}

// Order is a completed checkout.
type Order struct {
	ID              string          `bson:"_id,omitempty"    json:"id"`
	OrderNumber     string          `bson:"order_number"     json:"order_number"`
	UserID          string          `bson:"user_id"          json:"user_id"`
	Items           []CartItem      `bson:"items"            json:"items"`
	ShippingAddress ShippingAddress `bson:"shipping_address" json:"shipping_address"`
	DeliveryMethod  DeliveryMethod  `bson:"delivery_method"  json:"delivery_method"`
	PaymentMethod   PaymentMethod   `bson:"payment_method"   json:"payment_method"`
	Subtotal        int64           `bson:"subtotal"         json:"subtotal"`
	ProtectionFee   int64           `bson:"protection_fee"   json:"protection_fee"`
	ShippingFee     int64           `bson:"shipping_fee"     json:"shipping_fee"`
	Total           int64           `bson:"total"            json:"total"`
	Status          OrderStatus     `bson:"status"           json:"status"`
	CreatedAt       time.Time       `bson:"created_at"       json:"created_at"`
	UpdatedAt       time.Time       `bson:"updated_at"       json:"updated_at"`
}

// ContainsProduct reports whether any order line references the product.
func (o *Order) ContainsProduct(productID string) bool {
	for _, item := range o.Items {
		if item.Product.ID == productID {
			return true
		}
	}
	return false
}
