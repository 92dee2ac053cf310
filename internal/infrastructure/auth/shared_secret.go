package auth

import (
	"crypto/subtle"
	"errors"
)

// Common errors
var (
	ErrMissingSecret = errors.New("missing admin secret")
	ErrWrongSecret   = errors.New("wrong admin secret")
)

// Authorizer checks whether a request-supplied secret grants admin access.
type Authorizer interface {
	Authorize(secret string) error
}

// SharedSecretAuthorizer authorizes requests against a single configured
// admin secret. Comparison is constant-time so the secret cannot be
// probed byte by byte through response timing.
type SharedSecretAuthorizer struct {
	secret []byte
}

// NewSharedSecretAuthorizer creates an authorizer for the given secret.
// An empty secret disables authorization entirely: every request is
// rejected, which forces operators to configure one before mutating
// endpoints can be used.
func NewSharedSecretAuthorizer(secret string) *SharedSecretAuthorizer {
	return &SharedSecretAuthorizer{secret: []byte(secret)}
}

// Authorize implements Authorizer.
func (a *SharedSecretAuthorizer) Authorize(secret string) error {
	if secret == "" {
		return ErrMissingSecret
	}
	if len(a.secret) == 0 {
		return ErrWrongSecret
	}
	if subtle.ConstantTimeCompare(a.secret, []byte(secret)) != 1 {
		return ErrWrongSecret
	}
	return nil
}
