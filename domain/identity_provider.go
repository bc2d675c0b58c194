package domain

import "context"

// SessionState is a single emission from the identity provider's
// session-change stream. Principal is nil when no entity is signed in.
type SessionState struct {
	Principal *Principal
}

// Unsubscribe detaches an observer registered with ObserveSession.
type Unsubscribe func()

// IdentityProvider abstracts the remote identity service that owns
// credential verification and federated login. Implementations deliver an
// initial session state to each observer, followed by every change.
type IdentityProvider interface {
	// CreateAccount registers a new credential and returns the principal
	// issued for it. Failures (email in use, weak password) are AuthErrors.
	CreateAccount(ctx context.Context, email, password string) (*Principal, error)

	// Authenticate verifies an email/password credential.
	Authenticate(ctx context.Context, email, password string) (*Principal, error)

	// AuthenticateFederated completes a federated login using an
	// authorization code obtained from the external provider.
	AuthenticateFederated(ctx context.Context, code string) (*Principal, error)

	// Reauthenticate re-verifies the current password for a signed-in
	// principal, required before password changes.
	Reauthenticate(ctx context.Context, subjectID, password string) error

	// UpdateDisplayName sets the provider-side display name for a principal.
	UpdateDisplayName(ctx context.Context, subjectID, name string) error

	// UpdatePassword replaces the credential password for a principal.
	UpdatePassword(ctx context.Context, subjectID, newPassword string) error

	// SignOut terminates the provider-side session.
	SignOut(ctx context.Context) error

	// ObserveSession registers an observer for session changes. The
	// observer receives the current state immediately, then every change,
	// at most one in-flight delivery at a time per observer.
	ObserveSession(observer func(SessionState)) Unsubscribe
}
