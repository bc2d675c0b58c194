package idp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/thriftwear/storefront/domain"
)

// Federation holds the OAuth2 settings for the external identity provider
// backing federated sign-in.
type Federation struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	Scopes       []string
}

// externalUserInfo is the standard OIDC userinfo response shape.
type externalUserInfo struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (f *Federation) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     f.ClientID,
		ClientSecret: f.ClientSecret,
		RedirectURL:  f.RedirectURL,
		Scopes:       f.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  f.AuthURL,
			TokenURL: f.TokenURL,
		},
	}
}

// AuthCodeURL generates the authorization URL for the login redirect.
func (f *Federation) AuthCodeURL(state string) string {
	return f.oauthConfig().AuthCodeURL(state)
}

// AuthenticateFederated exchanges an authorization code with the external
// provider, fetches the userinfo document and signs the matching account
// in, creating it on first login.
func (s *Server) AuthenticateFederated(ctx context.Context, code string) (*domain.Principal, error) {
	if s.federation == nil {
		return nil, domain.NewAuthError("federated sign in is not configured", errors.New("no federation settings"))
	}

	conf := s.federation.oauthConfig()
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, domain.NewAuthError("federated sign in was cancelled or rejected", err)
	}

	info, err := s.fetchUserInfo(ctx, conf, token)
	if err != nil {
		return nil, domain.NewAuthError("could not fetch federated account details", err)
	}
	if info.Email == "" {
		return nil, domain.NewAuthError("federated provider returned no email", errors.New("empty email in userinfo"))
	}

	cred, err := s.credentials.GetCredentialByEmail(ctx, info.Email)
	if err != nil {
		// First federated login for this email: create a password-less
		// account record.
		now := time.Now().UTC()
		cred = &domain.Credential{
			Email:       info.Email,
			DisplayName: info.Name,
			PhotoURL:    info.Picture,
			Federated:   true,
			LastLoginAt: now,
		}
		if createErr := s.credentials.CreateCredential(ctx, cred); createErr != nil {
			return nil, domain.NewAuthError("could not create federated account", createErr)
		}
	} else {
		cred.DisplayName = info.Name
		cred.PhotoURL = info.Picture
		cred.LastLoginAt = time.Now().UTC()
		if updateErr := s.credentials.UpdateCredential(ctx, cred); updateErr != nil {
			return nil, domain.NewAuthError("could not update federated account", updateErr)
		}
	}

	principal := cred.Principal()
	s.setCurrent(principal)
	return principal, nil
}

func (s *Server) fetchUserInfo(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) (*externalUserInfo, error) {
	client := conf.Client(ctx, token)
	resp, err := client.Get(s.federation.UserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request returned status %d", resp.StatusCode)
	}

	var info externalUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding userinfo response: %w", err)
	}
	return &info, nil
}
