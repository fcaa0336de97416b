package quill

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
)

// Default session token validity. Guest sessions get a shorter one.
const (
	DefaultTokenTTL = 7 * 24 * time.Hour
	GuestTokenTTL   = 24 * time.Hour
)

// TokenIssuer mints and parses HS256 session tokens. Claims carry the actor
// id, email and role; the actor itself is re-resolved from the repository on
// every request, so a stale role claim never outlives the actor record.
type TokenIssuer struct {
	auth *jwtauth.JWTAuth
}

// NewTokenIssuer creates a token issuer signing with the given secret.
func NewTokenIssuer(secret []byte) *TokenIssuer {
	return &TokenIssuer{auth: jwtauth.New("HS256", secret, nil)}
}

// JWTAuth exposes the underlying verifier for use with jwtauth middleware.
func (t *TokenIssuer) JWTAuth() *jwtauth.JWTAuth {
	return t.auth
}

// Issue mints a token for the actor with the given validity.
func (t *TokenIssuer) Issue(actor *Actor, ttl time.Duration) (string, error) {
	claims := map[string]interface{}{
		"sub":   actor.ID.String(),
		"email": actor.Email,
		"role":  string(actor.Role),
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, ttl)

	_, tokenString, err := t.auth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("encode token: %w", err)
	}
	return tokenString, nil
}

// ActorIDFromClaims extracts the actor id from a decoded claim set.
func ActorIDFromClaims(claims map[string]interface{}) (uuid.UUID, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return uuid.Nil, fmt.Errorf("token has no subject")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid subject %q: %w", sub, err)
	}
	return id, nil
}
