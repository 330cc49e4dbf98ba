package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"zerowaste/internal/model"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.NoError(t, h.Compare(hash, "s3cret"))
	assert.Error(t, h.Compare(hash, "wrong"))
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	h := NewBcryptHasher(99).(*bcryptHasher)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}

func TestTokens(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	actor := model.Actor{ID: "org-1", Role: model.RoleReceiver}

	t.Run("round trip", func(t *testing.T) {
		tok, err := tokens.Issue(actor)
		require.NoError(t, err)

		got, err := tokens.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, actor, got)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok, err := NewTokens("other", time.Hour).Issue(actor)
		require.NoError(t, err)

		_, err = tokens.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		old := NewTokens("test-secret", time.Minute)
		old.now = func() time.Time { return time.Now().Add(-time.Hour) }
		tok, err := old.Issue(actor)
		require.NoError(t, err)

		_, err = tokens.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
