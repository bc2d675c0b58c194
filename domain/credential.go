package domain

import (
	"context"
	"time"
)

// Credential is an account record owned by the built-in identity provider.
// It is deliberately separate from Profile: the provider never stores
// application data and the profile document never stores secrets.
type Credential struct {
	ID           string    `bson:"_id,omitempty"       json:"id"`
	Email        string    `bson:"email,unique"        json:"email"`
	PasswordHash string    `bson:"password_hash"       json:"-"`
	DisplayName  string    `bson:"display_name"        json:"display_name"`
	PhotoURL     string    `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Federated    bool      `bson:"federated,omitempty" json:"federated,omitempty"`
	CreatedAt    time.Time `bson:"created_at"          json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"          json:"updated_at"`
	LastLoginAt  time.Time `bson:"last_login_at"       json:"last_login_at"`
}

// Principal converts the stored credential into the provider's public view.
func (c *Credential) Principal() *Principal {
	return &Principal{
		SubjectID:   c.ID,
		Email:       c.Email,
		DisplayName: c.DisplayName,
		PhotoURL:    c.PhotoURL,
	}
}

// CredentialRepository persists identity-provider accounts.
type CredentialRepository interface {
	CreateCredential(ctx context.Context, cred *Credential) error
	GetCredentialByID(ctx context.Context, id string) (*Credential, error)
	GetCredentialByEmail(ctx context.Context, email string) (*Credential, error)
	UpdateCredential(ctx context.Context, cred *Credential) error
}
