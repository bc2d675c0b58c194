package domain

import "time"

// CartItem is a product plus the quantity it is carried with.
type CartItem struct {
	Product  `bson:",inline" json:",inline"`
	Quantity int `bson:"quantity" json:"quantity"`
}

// Cart is the single cart document kept per user, keyed by the user's uid.
type Cart struct {
	UserID    string     `bson:"_id,omitempty" json:"user_id"`
	Items     []CartItem `bson:"items"         json:"items"`
	UpdatedAt time.Time  `bson:"updated_at"    json:"updated_at"`
}

// TotalItems sums the quantities across all cart lines.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums price*quantity across all cart lines, excluding shipping.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}
