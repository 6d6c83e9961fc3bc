package auth

import "time"

// UserClaims is what handlers may learn about the caller.
type UserClaims interface {
	Subject() string
	Source() string
}

// TokenClaims come from a validated bearer token.
type TokenClaims struct {
	SubjectValue string
	TokenID      string
	ExpiresAt    time.Time
}

func (c *TokenClaims) Subject() string { return c.SubjectValue }
func (c *TokenClaims) Source() string  { return "JWT" }

// AnonymousClaims are used when auth is disabled.
type AnonymousClaims struct{}

func (AnonymousClaims) Subject() string { return "anonymous" }
func (AnonymousClaims) Source() string  { return "NONE" }
