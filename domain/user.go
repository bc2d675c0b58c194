package domain

import "time"

// Principal is the identity provider's view of a signed-in entity.
// Its fields are immutable for the lifetime of a login; the authoritative
// copy of anything user-editable lives on the Profile document instead.
type Principal struct {
	SubjectID   string `bson:"subject_id"   json:"subject_id"`
	Email       string `bson:"email"        json:"email"`
	DisplayName string `bson:"display_name" json:"display_name"`
	PhotoURL    string `bson:"photo_url"    json:"photo_url"`
}

// Profile is the application-owned user record, stored separately from the
// identity provider. The document id equals the principal's subject id.
type Profile struct {
	ID        string    `bson:"_id,omitempty"   json:"id,omitempty"`
	Username  string    `bson:"username"        json:"username"`
	FullName  string    `bson:"full_name"       json:"full_name"`
	Email     string    `bson:"email"           json:"email"`
	Photo     string    `bson:"photo,omitempty" json:"photo,omitempty"`
	Wishlist  []string  `bson:"wishlist"        json:"wishlist"`
	CreatedAt time.Time `bson:"created_at"      json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"      json:"updated_at"`
}

// User is the merged, externally visible session value: principal fields
// overridden by profile fields wherever the profile defines them.
type User struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Username    string    `json:"username,omitempty"`
	Wishlist    []string  `json:"wishlist,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// MergeUser builds the merged user from a principal and its profile document.
// profile may be nil, in which case the user degrades to provider-only fields.
func MergeUser(p Principal, profile *Profile) *User {
	user := &User{
		UID:         p.SubjectID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
	}
	if profile == nil {
		return user
	}
	if profile.Email != "" {
		user.Email = profile.Email
	}
	if profile.FullName != "" {
		user.DisplayName = profile.FullName
	}
	if profile.Photo != "" {
		user.PhotoURL = profile.Photo
	}
	user.Username = profile.Username
	user.Wishlist = profile.Wishlist
	user.CreatedAt = profile.CreatedAt
	user.UpdatedAt = profile.UpdatedAt
	return user
}
