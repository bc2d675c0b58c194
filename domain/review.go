package domain

import "time"

// Review is a purchase-gated product review. UserName and UserPhoto are
// denormalized from the reviewer's profile at creation time.
type Review struct {
	ID        string    `bson:"_id,omitempty"        json:"id"`
	ProductID string    `bson:"product_id"           json:"product_id"`
	UserID    string    `bson:"user_id"              json:"user_id"`
	OrderID   string    `bson:"order_id"             json:"order_id"`
	UserName  string    `bson:"user_name"            json:"user_name"`
	UserPhoto string    `bson:"user_photo,omitempty" json:"user_photo,omitempty"`
	Rating    int       `bson:"rating"               json:"rating"`
	Comment   string    `bson:"comment"              json:"comment"`
	Images    []string  `bson:"images,omitempty"     json:"images,omitempty"`
	CreatedAt time.Time `bson:"created_at"           json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"           json:"updated_at"`
}
