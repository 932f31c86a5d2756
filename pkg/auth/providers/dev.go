package providers

import (
	"context"
	"fmt"
	"regexp"
)

var _ AuthProvider = &DevAuthProvider{}

var devPlayerIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// DevAuthProvider trusts the bearer token as the player id. It is meant for
// local development only.
type DevAuthProvider struct{}

func NewDevAuthProvider() *DevAuthProvider {
	return &DevAuthProvider{}
}

func (p *DevAuthProvider) VerifyToken(ctx context.Context, idToken string) (*TokenClaims, error) {
	if !devPlayerIDPattern.MatchString(idToken) {
		return nil, fmt.Errorf("invalid development token")
	}
	return &TokenClaims{
		UID: idToken,
	}, nil
}
