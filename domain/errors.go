package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProductNotFound = errors.New("product not found")
	ErrCartNotFound    = errors.New("cart not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrReviewNotFound  = errors.New("review not found")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailInUse         = errors.New("email already in use")
	ErrWeakPassword       = errors.New("password is too weak")
	ErrNotSignedIn        = errors.New("no user is signed in")
)

// AuthError is a credential operation rejected by the identity provider.
// It is surfaced as a readable reason and never propagated past the
// session manager boundary.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth failed: %s: %v", e.Reason, e.Err)
	}
	return "auth failed: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// NewAuthError wraps a provider failure with a user-readable reason.
func NewAuthError(reason string, err error) *AuthError {
	return &AuthError{Reason: reason, Err: err}
}

// ProfileFetchError is a document-store failure during profile resolution.
// The session manager recovers from it by degrading to provider-only fields.
type ProfileFetchError struct {
	SubjectID string
	Err       error
}

func (e *ProfileFetchError) Error() string {
	return fmt.Sprintf("profile fetch failed for %s: %v", e.SubjectID, e.Err)
}

func (e *ProfileFetchError) Unwrap() error { return e.Err }

// CacheError is a local session cache read or write failure. Session
// correctness never depends on the cache, so callers log and continue.
type CacheError struct {
	Op  string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("session cache %s failed: %v", e.Op, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }
