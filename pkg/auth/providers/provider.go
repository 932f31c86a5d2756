package providers

import "context"

// AuthProvider verifies the bearer token of a request and returns the
// identity of the player behind it.
type AuthProvider interface {
	VerifyToken(ctx context.Context, idToken string) (*TokenClaims, error)
}

type TokenClaims struct {
	UID string `json:"uid"`
}
