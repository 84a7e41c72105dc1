package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind discriminates access from refresh credentials. Each kind is also
// signed with its own secret, so the claim is belt-and-braces on top of the
// signature check.
type TokenKind = string

const (
	// KindAccess marks short-lived request-authorizing tokens
	KindAccess TokenKind = "access"
	// KindRefresh marks long-lived tokens used only to mint access tokens
	KindRefresh TokenKind = "refresh"
)

// TokenClaims is the signed payload carried inside both credential kinds.
type TokenClaims struct {
	jwt.RegisteredClaims
	UID   string    `json:"uid,omitempty"`
	Email string    `json:"email,omitempty"`
	Kind  TokenKind `json:"kind,omitempty"`
}

// UserID returns the embedded identity, falling back to the subject claim.
func (c *TokenClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// UserEmail returns the embedded email claim.
func (c *TokenClaims) UserEmail() string {
	return c.Email
}

// Expires returns the expiration instant, zero if unset.
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// Issued returns the issuance instant, zero if unset.
func (c *TokenClaims) Issued() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
