package domain

import "time"

// Product is a single storefront listing. Price and shipping are stored in
// minor currency units.
type Product struct {
	ID            string    `bson:"_id,omitempty"            json:"id"`
	Name          string    `bson:"name"                     json:"name"`
	Price         int64     `bson:"price"                    json:"price"`
	Image         string    `bson:"image"                    json:"image"`
	Images        []string  `bson:"images,omitempty"         json:"images,omitempty"`
	Size          string    `bson:"size"                     json:"size"`
	Category      string    `bson:"category"                 json:"category"`
	Condition     string    `bson:"condition,omitempty"      json:"condition,omitempty"`
	Color         string    `bson:"color"                    json:"color"`
	Location      string    `bson:"location,omitempty"       json:"location,omitempty"`
	Shipping      int64     `bson:"shipping"                 json:"shipping"`
	Description   string    `bson:"description"              json:"description"`
	Rating        float64   `bson:"rating,omitempty"         json:"rating,omitempty"`
	ReviewCount   int       `bson:"review_count,omitempty"   json:"review_count,omitempty"`
	WishlistCount int       `bson:"wishlist_count,omitempty" json:"wishlist_count,omitempty"`
	UploadedAt    time.Time `bson:"uploaded_at"              json:"uploaded_at"`
}
