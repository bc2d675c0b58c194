// Package idp is the built-in identity provider: a mongo-backed credential
// store with a session-change stream, standing in for a remote identity
// service behind the domain.IdentityProvider contract.
package idp

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thriftwear/storefront/domain"
	"github.com/thriftwear/storefront/internal/auth"
)

// MinPasswordLength is the weakest password the provider accepts.
const MinPasswordLength = 6

// observerBuffer bounds queued emissions per observer before drops.
const observerBuffer = 16

type observer struct {
	ch   chan domain.SessionState
	done chan struct{}
}

// Server implements domain.IdentityProvider. It tracks a single current
// principal and pushes every transition to all registered observers, each
// observer receiving deliveries sequentially on its own goroutine.
type Server struct {
	credentials domain.CredentialRepository
	hasher      auth.PasswordHasher
	federation  *Federation // nil disables federated sign-in

	mu        sync.Mutex
	current   *domain.Principal
	observers map[int]*observer
	nextID    int
}

// NewServer creates an identity provider over the given credential store.
// federation may be nil when no external provider is configured.
func NewServer(credentials domain.CredentialRepository, hasher auth.PasswordHasher, federation *Federation) *Server {
	return &Server{
		credentials: credentials,
		hasher:      hasher,
		federation:  federation,
		observers:   make(map[int]*observer),
	}
}

// CreateAccount registers a new credential and signs the principal in.
func (s *Server) CreateAccount(ctx context.Context, email, password string) (*domain.Principal, error) {
	if len(password) < MinPasswordLength {
		return nil, domain.NewAuthError("password is too weak", domain.ErrWeakPassword)
	}

	if _, err := s.credentials.GetCredentialByEmail(ctx, email); err == nil {
		return nil, domain.NewAuthError("email already in use", domain.ErrEmailInUse)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, domain.NewAuthError("could not create account", err)
	}

	now := time.Now().UTC()
	cred := &domain.Credential{
		Email:        email,
		PasswordHash: hash,
		LastLoginAt:  now,
	}
	if err := s.credentials.CreateCredential(ctx, cred); err != nil {
		return nil, domain.NewAuthError("could not create account", err)
	}

	principal := cred.Principal()
	s.setCurrent(principal)
	return principal, nil
}

// Authenticate verifies an email/password credential and signs in.
func (s *Server) Authenticate(ctx context.Context, email, password string) (*domain.Principal, error) {
	cred, err := s.credentials.GetCredentialByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewAuthError("invalid email or password", domain.ErrInvalidCredentials)
	}
	if err := s.hasher.Verify(cred.PasswordHash, password); err != nil {
		return nil, domain.NewAuthError("invalid email or password", domain.ErrInvalidCredentials)
	}

	cred.LastLoginAt = time.Now().UTC()
	if err := s.credentials.UpdateCredential(ctx, cred); err != nil {
		log.Warn().Err(err).Str("id", cred.ID).Msg("failed to record last login time")
	}

	principal := cred.Principal()
	s.setCurrent(principal)
	return principal, nil
}

// Reauthenticate re-verifies the current password for a signed-in
// principal without emitting a session change.
func (s *Server) Reauthenticate(ctx context.Context, subjectID, password string) error {
	cred, err := s.credentials.GetCredentialByID(ctx, subjectID)
	if err != nil {
		return domain.NewAuthError("unknown account", domain.ErrInvalidCredentials)
	}
	if err := s.hasher.Verify(cred.PasswordHash, password); err != nil {
		return domain.NewAuthError("current password is incorrect", domain.ErrInvalidCredentials)
	}
	return nil
}

// UpdateDisplayName sets the provider-side display name.
func (s *Server) UpdateDisplayName(ctx context.Context, subjectID, name string) error {
	cred, err := s.credentials.GetCredentialByID(ctx, subjectID)
	if err != nil {
		return err
	}
	cred.DisplayName = name
	if err := s.credentials.UpdateCredential(ctx, cred); err != nil {
		return err
	}

	s.mu.Lock()
	if s.current != nil && s.current.SubjectID == subjectID {
		s.current.DisplayName = name
	}
	s.mu.Unlock()
	return nil
}

// UpdatePassword replaces the credential password.
func (s *Server) UpdatePassword(ctx context.Context, subjectID, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return domain.NewAuthError("password is too weak", domain.ErrWeakPassword)
	}

	cred, err := s.credentials.GetCredentialByID(ctx, subjectID)
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	cred.PasswordHash = hash
	return s.credentials.UpdateCredential(ctx, cred)
}

// SignOut clears the current principal and emits a signed-out state.
func (s *Server) SignOut(_ context.Context) error {
	s.setCurrent(nil)
	return nil
}

// ObserveSession registers an observer. The observer receives the current
// state immediately, then every subsequent change, one delivery at a time.
func (s *Server) ObserveSession(fn func(domain.SessionState)) domain.Unsubscribe {
	obs := &observer{
		ch:   make(chan domain.SessionState, observerBuffer),
		done: make(chan struct{}),
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = obs
	obs.ch <- domain.SessionState{Principal: s.current}
	s.mu.Unlock()

	go func() {
		for {
			select {
			case state := <-obs.ch:
				fn(state)
			case <-obs.done:
				return
			}
		}
	}()

	return func() {
		s.mu.Lock()
		if _, ok := s.observers[id]; ok {
			delete(s.observers, id)
			close(obs.done)
		}
		s.mu.Unlock()
	}
}

// setCurrent installs the new principal and fans the transition out.
func (s *Server) setCurrent(p *domain.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = p
	for _, obs := range s.observers {
		select {
		case obs.ch <- domain.SessionState{Principal: p}:
		default:
			log.Warn().Msg("session observer queue full, dropping emission")
		}
	}
}

var _ domain.IdentityProvider = (*Server)(nil)
