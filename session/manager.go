package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thriftwear/storefront/domain"
)

const (
	// DefaultCacheTTL is the expiration horizon for the local session cache.
	DefaultCacheTTL = 30 * 24 * time.Hour
	// DefaultInitTimeout bounds how long Bootstrap waits for the first
	// provider emission before forcing the initialization barrier open.
	DefaultInitTimeout = 10 * time.Second
)

// Options tunes a Manager. Zero values fall back to the defaults above.
type Options struct {
	CacheTTL    time.Duration
	InitTimeout time.Duration
}

// Manager owns the authenticated-user identity. It mediates between the
// local session cache, the identity provider's session-change stream and
// the remote profile document, exposing the merged user as a snapshot and
// a one-shot initialization barrier that gates route guards.
//
// At most one session is live per Manager. Emission handlers may
// interleave on slow profile fetches; a per-emission sequence number
// ensures the last emission to complete wins and stale completions are
// discarded.
type Manager struct {
	provider domain.IdentityProvider
	profiles domain.ProfileRepository
	cache    domain.SessionCache

	cacheTTL    time.Duration
	initTimeout time.Duration

	mu         sync.RWMutex
	user       *domain.User
	principal  *domain.Principal
	busy       bool
	lastError  error
	nextSeq    uint64 // next emission sequence number, guarded by mu
	appliedSeq uint64 // sequence of the last emission applied, guarded by mu

	initialized   chan struct{}
	initOnce      sync.Once
	bootstrapOnce sync.Once
	initTimer     *time.Timer
	unsubscribe   domain.Unsubscribe
}

// NewManager creates a Manager with injected collaborators. Bootstrap must
// be called before the barrier or the session become meaningful.
func NewManager(provider domain.IdentityProvider, profiles domain.ProfileRepository, cache domain.SessionCache, opts Options) *Manager {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.InitTimeout <= 0 {
		opts.InitTimeout = DefaultInitTimeout
	}
	return &Manager{
		provider:    provider,
		profiles:    profiles,
		cache:       cache,
		cacheTTL:    opts.CacheTTL,
		initTimeout: opts.InitTimeout,
		initialized: make(chan struct{}),
	}
}

// Bootstrap primes the session from the local cache, subscribes to the
// provider's session stream and returns once the initialization barrier
// opens, either on the first emission or on timeout. Calling it more than
// once only waits; the subscription is registered exactly once.
func (m *Manager) Bootstrap(ctx context.Context) error {
	m.bootstrapOnce.Do(func() {
		// Provisional state from the cache, superseded by the first
		// emission: it is applied at sequence zero so any emission wins.
		cached, err := m.cache.Read(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("session cache read failed during bootstrap")
		} else if cached != nil {
			m.mu.Lock()
			if m.appliedSeq == 0 && m.user == nil {
				m.user = cached
			}
			m.mu.Unlock()
			log.Debug().Str("uid", cached.UID).Msg("provisional session restored from cache")
		}

		m.initTimer = time.AfterFunc(m.initTimeout, func() {
			log.Warn().Dur("timeout", m.initTimeout).
				Msg("identity provider did not emit before the bootstrap timeout, forcing initialization")
			m.markInitialized()
		})

		m.unsubscribe = m.provider.ObserveSession(func(state domain.SessionState) {
			m.mu.Lock()
			m.nextSeq++
			seq := m.nextSeq
			m.mu.Unlock()
			go m.handleEmission(seq, state)
		})
	})
	return m.AwaitInitialized(ctx)
}

// AwaitInitialized blocks until the initialization barrier opens. It
// resolves immediately once open and never re-blocks afterwards.
func (m *Manager) AwaitInitialized(ctx context.Context) error {
	select {
	case <-m.initialized:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Initialized reports whether the barrier has opened.
func (m *Manager) Initialized() bool {
	select {
	case <-m.initialized:
		return true
	default:
		return false
	}
}

// CurrentUser returns the merged-user snapshot, or nil when signed out.
// Callers must treat the returned value as read-only.
func (m *Manager) CurrentUser() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// Busy reports whether a credential operation is in flight.
func (m *Manager) Busy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.busy
}

// LastError returns the failure recorded by the most recent credential
// operation, or nil after a success.
func (m *Manager) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastError
}

// Close detaches the provider subscription and stops the bootstrap timer.
func (m *Manager) Close() {
	if m.initTimer != nil {
		m.initTimer.Stop()
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// SignUp registers a new credential, sets the provider display name and
// creates the profile document. The profile write is not atomic with the
// credential creation; when it fails the account still exists and the
// session degrades to provider-only fields. Expected provider failures are
// recorded on LastError rather than returned.
func (m *Manager) SignUp(ctx context.Context, fullName, username, email, password string) bool {
	defer m.setBusy()()

	principal, err := m.provider.CreateAccount(ctx, email, password)
	if err != nil {
		m.recordError(authError("sign up rejected", err))
		return false
	}

	if err := m.provider.UpdateDisplayName(ctx, principal.SubjectID, fullName); err != nil {
		log.Warn().Err(err).Str("uid", principal.SubjectID).Msg("display name update failed after sign up")
	}
	principal.DisplayName = fullName

	now := time.Now().UTC()
	profile := &domain.Profile{
		ID:        principal.SubjectID,
		Username:  username,
		FullName:  fullName,
		Email:     email,
		Wishlist:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.profiles.CreateProfile(ctx, profile); err != nil {
		log.Warn().Err(err).Str("uid", principal.SubjectID).
			Msg("profile document creation failed after sign up, continuing with provider fields only")
		profile = nil
	}

	m.completeSignIn(ctx, principal, profile)
	return true
}

// SignIn authenticates an email/password credential. On failure the
// session and cache are left untouched and the reason lands on LastError.
func (m *Manager) SignIn(ctx context.Context, email, password string) bool {
	defer m.setBusy()()

	principal, err := m.provider.Authenticate(ctx, email, password)
	if err != nil {
		m.recordError(authError("sign in rejected", err))
		return false
	}

	profile := m.fetchProfileDegraded(ctx, principal.SubjectID)
	m.completeSignIn(ctx, principal, profile)
	return true
}

// SignInFederated completes a federated login. On first login, when no
// profile document exists yet, one is created with the username derived
// from the local part of the email. Concurrent first logins resolve by
// last write wins; no locking is attempted.
func (m *Manager) SignInFederated(ctx context.Context, code string) bool {
	defer m.setBusy()()

	principal, err := m.provider.AuthenticateFederated(ctx, code)
	if err != nil {
		m.recordError(authError("federated sign in rejected", err))
		return false
	}

	profile, err := m.profiles.GetProfile(ctx, principal.SubjectID)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			log.Warn().Err(err).Str("uid", principal.SubjectID).
				Msg("profile fetch failed during federated sign in, continuing with provider fields only")
			m.completeSignIn(ctx, principal, nil)
			return true
		}
		now := time.Now().UTC()
		profile = &domain.Profile{
			ID:        principal.SubjectID,
			Username:  usernameFromEmail(principal.Email),
			FullName:  principal.DisplayName,
			Email:     principal.Email,
			Photo:     principal.PhotoURL,
			Wishlist:  []string{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if createErr := m.profiles.CreateProfile(ctx, profile); createErr != nil {
			log.Warn().Err(createErr).Str("uid", principal.SubjectID).
				Msg("profile document creation failed during federated sign in")
			profile = nil
		}
	}

	m.completeSignIn(ctx, principal, profile)
	return true
}

// RefreshProfile re-fetches the profile document for the live session and
// rebuilds the merged user. The provider does not re-emit on profile
// document changes, so this is how edits elsewhere reach the session and
// the cache. No-op when signed out.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	m.mu.RLock()
	principal := m.principal
	m.mu.RUnlock()
	if principal == nil {
		return nil
	}

	profile, err := m.profiles.GetProfile(ctx, principal.SubjectID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		fetchErr := &domain.ProfileFetchError{SubjectID: principal.SubjectID, Err: err}
		log.Warn().Err(err).Str("uid", principal.SubjectID).Msg("profile refresh failed")
		m.recordError(fetchErr)
		return fetchErr
	}

	m.completeSignIn(ctx, principal, profile)
	return nil
}

// Logout signs out at the provider, clears the session and deletes the
// cache entry. The provider's own sign-out emission performs the same
// clear; both paths are idempotent.
func (m *Manager) Logout(ctx context.Context) bool {
	defer m.setBusy()()

	if err := m.provider.SignOut(ctx); err != nil {
		m.recordError(authError("sign out failed", err))
		return false
	}

	m.mu.Lock()
	m.nextSeq++
	seq := m.nextSeq
	m.mu.Unlock()
	m.applySignedOut(context.WithoutCancel(ctx), seq)
	return true
}

// handleEmission resolves one provider emission. Handlers for successive
// emissions may run concurrently; applyUser discards any completion that
// finishes after a newer emission has already been applied.
func (m *Manager) handleEmission(seq uint64, state domain.SessionState) {
	ctx := context.Background()
	defer m.markInitialized()

	if state.Principal == nil {
		m.applySignedOut(ctx, seq)
		return
	}

	profile := m.fetchProfileDegraded(ctx, state.Principal.SubjectID)
	user := domain.MergeUser(*state.Principal, profile)
	if m.applyUser(seq, state.Principal, user) {
		m.writeCache(ctx, user)
	}
}

// completeSignIn applies the merged user for a direct credential operation
// and writes the cache. Direct operations claim an emission sequence so
// they participate in the same last-write-wins ordering as the stream.
func (m *Manager) completeSignIn(ctx context.Context, principal *domain.Principal, profile *domain.Profile) {
	m.mu.Lock()
	m.nextSeq++
	seq := m.nextSeq
	m.mu.Unlock()

	user := domain.MergeUser(*principal, profile)
	if m.applyUser(seq, principal, user) {
		m.writeCache(ctx, user)
	}
}

// applyUser installs the merged user if seq is newer than the last applied
// emission. It reports whether the update won.
func (m *Manager) applyUser(seq uint64, principal *domain.Principal, user *domain.User) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seq <= m.appliedSeq {
		log.Debug().Uint64("seq", seq).Uint64("applied", m.appliedSeq).
			Msg("discarding stale session emission")
		return false
	}
	m.appliedSeq = seq
	m.principal = principal
	m.user = user
	return true
}

func (m *Manager) applySignedOut(ctx context.Context, seq uint64) {
	if !m.applyUser(seq, nil, nil) {
		return
	}
	// Idempotent with the provider's own sign-out emission.
	if err := m.cache.Clear(ctx); err != nil {
		log.Warn().Err(err).Msg("session cache clear failed")
	}
}

func (m *Manager) fetchProfileDegraded(ctx context.Context, subjectID string) *domain.Profile {
	profile, err := m.profiles.GetProfile(ctx, subjectID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			log.Warn().Str("uid", subjectID).
				Msg("no profile document for signed-in principal, serving provider fields only")
		} else {
			log.Warn().Err(err).Str("uid", subjectID).
				Msg("profile fetch failed, serving provider fields only")
		}
		return nil
	}
	return profile
}

func (m *Manager) writeCache(ctx context.Context, user *domain.User) {
	if err := m.cache.Write(ctx, user, m.cacheTTL); err != nil {
		log.Warn().Err(err).Str("uid", user.UID).Msg("session cache write failed")
	}
}

func (m *Manager) markInitialized() {
	m.initOnce.Do(func() {
		if m.initTimer != nil {
			m.initTimer.Stop()
		}
		close(m.initialized)
	})
}

func (m *Manager) setBusy() func() {
	m.mu.Lock()
	m.busy = true
	m.lastError = nil
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.busy = false
		m.mu.Unlock()
	}
}

func (m *Manager) recordError(err error) {
	m.mu.Lock()
	m.lastError = err
	m.mu.Unlock()
	log.Debug().Err(err).Msg("credential operation failed")
}

func authError(reason string, err error) error {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	return domain.NewAuthError(reason, err)
}

func usernameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return email
	}
	return local
}
