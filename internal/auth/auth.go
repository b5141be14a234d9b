// Package auth turns configured credentials into request headers.
package auth

import (
	"fmt"
	"sync"

	"apca/pkg/core"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderKeyID         = "APCA-API-KEY-ID"
	HeaderSecretKey     = "APCA-API-SECRET-KEY"
)

// Scheme identifies how a request is authenticated.
type Scheme int

const (
	SchemeKeyPair Scheme = iota
	SchemeBearer
)

func (s Scheme) String() string {
	if s == SchemeBearer {
		return "bearer"
	}
	return "key_pair"
}

// Signer holds a private copy of the credentials and produces the auth headers
// for every request. An access token takes precedence over a key pair.
type Signer struct {
	mu    sync.RWMutex
	creds core.Credentials
}

// New creates a signer. It fails with core.ErrMissingCredentials unless creds
// has an access token or both halves of a key pair.
func New(creds *core.Credentials) (*Signer, error) {
	s := &Signer{}
	if err := s.Update(creds); err != nil {
		return nil, err
	}
	return s, nil
}

// Update swaps the credentials used for subsequent requests, e.g. after an
// OAuth token refresh. Invalid credentials leave the current ones in place.
func (s *Signer) Update(creds *core.Credentials) error {
	if !creds.HasToken() && !creds.HasKeyPair() {
		return core.ErrMissingCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = core.Credentials{
		KeyID:       creds.KeyID,
		SecretKey:   creds.SecretKey,
		AccessToken: creds.AccessToken,
	}
	return nil
}

// Scheme reports which auth scheme the headers use.
func (s *Signer) Scheme() Scheme {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.creds.HasToken() {
		return SchemeBearer
	}
	return SchemeKeyPair
}

// Headers returns the auth headers for one request.
func (s *Signer) Headers() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.creds.HasToken() {
		return map[string]string{
			HeaderAuthorization: "Bearer " + s.creds.AccessToken,
		}
	}
	return map[string]string{
		HeaderKeyID:     s.creds.KeyID,
		HeaderSecretKey: s.creds.SecretKey,
	}
}

func (s *Signer) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.creds.HasToken() {
		return fmt.Sprintf("Signer{Scheme:bearer, Token:%s}", maskKey(s.creds.AccessToken))
	}
	return fmt.Sprintf("Signer{Scheme:key_pair, KeyID:%s}", maskKey(s.creds.KeyID))
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
