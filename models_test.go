package auth_test

import (
	"encoding/json"
	"testing"
	"time"

	auth "github.com/forgestack/go-auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPublicProjection(t *testing.T) {
	now := time.Now()
	user := &auth.User{
		ID:           uuid.New(),
		Email:        "a@x.com",
		Name:         "Ada",
		PasswordHash: "$2a$14$secret",
		CreatedAt:    &now,
	}

	t.Run("projection carries the safe fields", func(t *testing.T) {
		pub := user.Public()
		require.NotNil(t, pub)
		assert.Equal(t, user.ID, pub.ID)
		assert.Equal(t, "a@x.com", pub.Email)
		assert.Equal(t, "Ada", pub.Name)
		assert.Equal(t, &now, pub.CreatedAt)
	})

	t.Run("nil user projects to nil", func(t *testing.T) {
		var u *auth.User
		assert.Nil(t, u.Public())
	})

	t.Run("password hash never serializes", func(t *testing.T) {
		raw, err := json.Marshal(user)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "secret")
		assert.NotContains(t, string(raw), "password")

		raw, err = json.Marshal(user.Public())
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "password")
	})
}

func TestUserIdentity(t *testing.T) {
	user := &auth.User{ID: uuid.New(), Email: "a@x.com"}

	identity := user.Identity()
	assert.Equal(t, user.ID.String(), identity.ID())
	assert.Equal(t, "a@x.com", identity.Email())
}
