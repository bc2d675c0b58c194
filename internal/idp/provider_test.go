package idp

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/thriftwear/storefront/domain"
	"github.com/thriftwear/storefront/internal/auth"
)

// memCredentials is an in-memory domain.CredentialRepository.
type memCredentials struct {
	mu    sync.Mutex
	byID  map[string]*domain.Credential
	seq   int
	byEmail map[string]string // email -> id
}

func newMemCredentials() *memCredentials {
	return &memCredentials{byID: map[string]*domain.Credential{}, byEmail: map[string]string{}}
}

func (r *memCredentials) CreateCredential(ctx context.Context, cred *domain.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cred.ID == "" {
		r.seq++
		cred.ID = fmt.Sprintf("cred-%d", r.seq)
	}
	cp := *cred
	r.byID[cred.ID] = &cp
	r.byEmail[cred.Email] = cred.ID
	return nil
}

func (r *memCredentials) GetCredentialByID(ctx context.Context, id string) (*domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cred, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	cp := *cred
	return &cp, nil
}

func (r *memCredentials) GetCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *memCredentials) UpdateCredential(ctx context.Context, cred *domain.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[cred.ID]; !ok {
		return domain.ErrInvalidCredentials
	}
	cp := *cred
	r.byID[cred.ID] = &cp
	return nil
}

func newTestServer() (*Server, *memCredentials) {
	creds := newMemCredentials()
	return NewServer(creds, auth.NewBcryptPasswordHasher(bcrypt.MinCost), nil), creds
}

func TestCreateAccountRejectsWeakPassword(t *testing.T) {
	server, _ := newTestServer()

	_, err := server.CreateAccount(context.Background(), "jane@example.com", "short")
	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestCreateAccountRejectsDuplicateEmail(t *testing.T) {
	server, _ := newTestServer()
	ctx := context.Background()

	_, err := server.CreateAccount(ctx, "jane@example.com", "s3cret42")
	require.NoError(t, err)

	_, err = server.CreateAccount(ctx, "jane@example.com", "another42")
	assert.ErrorIs(t, err, domain.ErrEmailInUse)
}

func TestAuthenticateVerifiesPassword(t *testing.T) {
	server, _ := newTestServer()
	ctx := context.Background()

	created, err := server.CreateAccount(ctx, "jane@example.com", "s3cret42")
	require.NoError(t, err)

	principal, err := server.Authenticate(ctx, "jane@example.com", "s3cret42")
	require.NoError(t, err)
	assert.Equal(t, created.SubjectID, principal.SubjectID)

	_, err = server.Authenticate(ctx, "jane@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = server.Authenticate(ctx, "nobody@example.com", "s3cret42")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestObserverSeesSignInAndSignOut(t *testing.T) {
	server, _ := newTestServer()
	ctx := context.Background()

	var mu sync.Mutex
	var states []domain.SessionState
	unsubscribe := server.ObserveSession(func(state domain.SessionState) {
		mu.Lock()
		states = append(states, state)
		mu.Unlock()
	})
	defer unsubscribe()

	// The current (signed-out) state is delivered immediately.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(states) == 1 && states[0].Principal == nil
	}, time.Second, 5*time.Millisecond)

	_, err := server.CreateAccount(ctx, "jane@example.com", "s3cret42")
	require.NoError(t, err)
	require.NoError(t, server.SignOut(ctx))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(states) == 3
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, states[1].Principal)
	assert.Equal(t, "jane@example.com", states[1].Principal.Email)
	assert.Nil(t, states[2].Principal)
}

func TestUnsubscribeStopsDeliveries(t *testing.T) {
	server, _ := newTestServer()
	ctx := context.Background()

	var mu sync.Mutex
	count := 0
	unsubscribe := server.ObserveSession(func(domain.SessionState) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}, time.Second, 5*time.Millisecond)

	unsubscribe()
	unsubscribe() // safe to call twice

	_, err := server.CreateAccount(ctx, "jane@example.com", "s3cret42")
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count)
}

func TestChangePasswordFlow(t *testing.T) {
	server, _ := newTestServer()
	ctx := context.Background()

	principal, err := server.CreateAccount(ctx, "jane@example.com", "s3cret42")
	require.NoError(t, err)

	require.NoError(t, server.Reauthenticate(ctx, principal.SubjectID, "s3cret42"))
	assert.ErrorIs(t, server.Reauthenticate(ctx, principal.SubjectID, "wrong"), domain.ErrInvalidCredentials)

	assert.ErrorIs(t, server.UpdatePassword(ctx, principal.SubjectID, "tiny"), domain.ErrWeakPassword)
	require.NoError(t, server.UpdatePassword(ctx, principal.SubjectID, "n3wpass42"))

	_, err = server.Authenticate(ctx, "jane@example.com", "s3cret42")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = server.Authenticate(ctx, "jane@example.com", "n3wpass42")
	assert.NoError(t, err)
}

func TestUpdateDisplayNamePatchesCurrentPrincipal(t *testing.T) {
	server, creds := newTestServer()
	ctx := context.Background()

	principal, err := server.CreateAccount(ctx, "jane@example.com", "s3cret42")
	require.NoError(t, err)

	require.NoError(t, server.UpdateDisplayName(ctx, principal.SubjectID, "Jane Doe"))

	stored, err := creds.GetCredentialByID(ctx, principal.SubjectID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", stored.DisplayName)

	var observed *domain.Principal
	var mu sync.Mutex
	unsubscribe := server.ObserveSession(func(state domain.SessionState) {
		mu.Lock()
		observed = state.Principal
		mu.Unlock()
	})
	defer unsubscribe()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return observed != nil && observed.DisplayName == "Jane Doe"
	}, time.Second, 5*time.Millisecond)

	_, err = server.AuthenticateFederated(ctx, "code")
	assert.Error(t, err) // federation not configured
}
