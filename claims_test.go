package auth_test

import (
	"testing"
	"time"

	auth "github.com/forgestack/go-auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestTokenClaims(t *testing.T) {
	t.Run("UserID prefers the uid claim", func(t *testing.T) {
		claims := &auth.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "subject-id"},
			UID:              "uid-id",
		}
		assert.Equal(t, "uid-id", claims.UserID())
	})

	t.Run("UserID falls back to the subject", func(t *testing.T) {
		claims := &auth.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "subject-id"},
		}
		assert.Equal(t, "subject-id", claims.UserID())
	})

	t.Run("timestamps are zero when unset", func(t *testing.T) {
		claims := &auth.TokenClaims{}
		assert.True(t, claims.Expires().IsZero())
		assert.True(t, claims.Issued().IsZero())
	})

	t.Run("timestamps round numeric dates", func(t *testing.T) {
		at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		claims := &auth.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(at),
				ExpiresAt: jwt.NewNumericDate(at.Add(15 * time.Minute)),
			},
		}
		assert.Equal(t, at, claims.Issued().UTC())
		assert.Equal(t, at.Add(15*time.Minute), claims.Expires().UTC())
	})
}
