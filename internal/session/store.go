// Package session owns the client's authenticated identity and credential.
// All task and profile operations are gated on this state; nothing else in
// the client reads or writes the stored token directly.
package session

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/oauth2"

	"taskdeck/internal/service"
)

// Authenticator is the slice of the backend used for the sign-in and
// sign-up transitions.
type Authenticator interface {
	SignUp(ctx context.Context, creds service.Credentials) error
	SignIn(ctx context.Context, creds service.Credentials) (service.AuthSession, error)
}

// Store holds the current session: anonymous, or an identity plus bearer
// token. It persists across invocations as a JSON file under the config
// dir, and implements oauth2.TokenSource so the API client can be built
// with oauth2.NewClient.
type Store struct {
	mu       sync.Mutex
	path     string // empty means in-memory only
	identity service.Identity
	token    *oauth2.Token
}

// persisted is the on-disk form of an authenticated session.
type persisted struct {
	Token oauth2.Token     `json:"token"`
	User  service.Identity `json:"user"`
}

// New creates a store backed by the given file path. An existing, still
// valid session file is loaded; a missing, corrupt or expired one leaves
// the store anonymous. An empty path keeps the session in memory only.
func New(path string) *Store {
	s := &Store{path: path}
	if path == "" {
		return s
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var p persisted
	if err := json.Unmarshal(data, &p); err != nil || p.Token.AccessToken == "" {
		return s
	}
	if !p.Token.Valid() {
		return s
	}
	s.identity = p.User
	s.token = &p.Token
	return s
}

// Authenticated reports whether a valid session is present.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validLocked()
}

// Identity returns the signed-in user, if any.
func (s *Store) Identity() (service.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validLocked() {
		return service.Identity{}, false
	}
	return s.identity, true
}

// RequireAuth returns the signed-in user, or ErrNotAuthenticated while
// the store is anonymous. Callers must fail fast on the error rather than
// reach the backend.
func (s *Store) RequireAuth() (service.Identity, error) {
	id, ok := s.Identity()
	if !ok {
		return service.Identity{}, service.ErrNotAuthenticated
	}
	return id, nil
}

// Token implements oauth2.TokenSource.
func (s *Store) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validLocked() {
		return nil, service.ErrNotAuthenticated
	}
	return s.token, nil
}

// SignIn exchanges credentials for a session. On failure the store is left
// untouched.
func (s *Store) SignIn(ctx context.Context, auth Authenticator, creds service.Credentials) error {
	if err := validateCredentials(creds); err != nil {
		return err
	}
	as, err := auth.SignIn(ctx, creds)
	if err != nil {
		return err
	}

	tok := &oauth2.Token{
		AccessToken: as.AccessToken,
		TokenType:   as.TokenType,
	}
	if as.ExpiresIn > 0 {
		tok.Expiry = time.Now().Add(time.Duration(as.ExpiresIn) * time.Second)
	} else if exp, ok := tokenExpiry(as.AccessToken); ok {
		tok.Expiry = exp
	}

	s.mu.Lock()
	s.identity = as.User
	s.token = tok
	s.mu.Unlock()

	return s.save()
}

// SignUp registers a new account and, on success, signs in with the same
// credentials. A service-reported failure (duplicate email) leaves the
// store untouched.
func (s *Store) SignUp(ctx context.Context, auth Authenticator, creds service.Credentials) error {
	if err := validateCredentials(creds); err != nil {
		return err
	}
	if err := auth.SignUp(ctx, creds); err != nil {
		return err
	}
	return s.SignIn(ctx, auth, creds)
}

// Logout discards the session unconditionally and removes the session
// file. Safe to call while anonymous.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.identity = service.Identity{}
	s.token = nil
	path := s.path
	s.mu.Unlock()

	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) validLocked() bool {
	return s.token != nil && s.token.Valid()
}

// save writes the session file with mode 0600.
func (s *Store) save() error {
	s.mu.Lock()
	path := s.path
	p := persisted{User: s.identity}
	if s.token != nil {
		p.Token = *s.token
	}
	s.mu.Unlock()

	if path == "" {
		return nil
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func validateCredentials(creds service.Credentials) error {
	if strings.TrimSpace(creds.Email) == "" {
		return service.NewError(service.CodeValidation, "email required")
	}
	if creds.Password == "" {
		return service.NewError(service.CodeValidation, "password required")
	}
	return nil
}

// tokenExpiry reads the exp claim of a JWT without verifying the
// signature. Verification is the backend's job; the client only needs the
// expiry to know when the stored session is stale.
func tokenExpiry(raw string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
