package mongodb

import "github.com/google/uuid"

// NewDocumentID generates a new document id.
func NewDocumentID() string {
	return uuid.NewString()
}
