package models

import (
	"testing"

	"github.com/mbraga/giftdraw/internal/tokens"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAccessTokens(t *testing.T) {
	db := setupTestDB(t)

	t.Run("issue and validate", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		owner := MockAccount(t, tx, "ana", "ana@example.com")
		draw := MockDraw(t, tx, owner, "office")

		accessTokens := NewAccessTokens(tx)
		issued, err := accessTokens.Issue(draw.ID)
		require.NoError(err)
		require.Len(issued.Token, tokens.Length)
		require.False(issued.Consumed)

		at, err := accessTokens.Validate(issued.Token)
		require.NoError(err)
		require.Equal(draw.ID, at.DrawID)
	})

	t.Run("never issued", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		_, err := NewAccessTokens(tx).Validate(tokens.New())
		require.ErrorIs(err, gorm.ErrRecordNotFound)
	})

	t.Run("consume is idempotent and permanent", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		owner := MockAccount(t, tx, "ana", "ana@example.com")
		draw := MockDraw(t, tx, owner, "office")

		accessTokens := NewAccessTokens(tx)
		issued, err := accessTokens.Issue(draw.ID)
		require.NoError(err)

		require.NoError(accessTokens.Consume(issued.ID))
		require.NoError(accessTokens.Consume(issued.ID))

		_, err = accessTokens.Validate(issued.Token)
		require.ErrorIs(err, gorm.ErrRecordNotFound)
	})

	t.Run("consume for draw retires live tokens", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		owner := MockAccount(t, tx, "ana", "ana@example.com")
		draw := MockDraw(t, tx, owner, "office")

		accessTokens := NewAccessTokens(tx)
		old, err := accessTokens.Issue(draw.ID)
		require.NoError(err)

		require.NoError(accessTokens.ConsumeForDraw(draw.ID))
		fresh, err := accessTokens.Issue(draw.ID)
		require.NoError(err)

		_, err = accessTokens.Validate(old.Token)
		require.ErrorIs(err, gorm.ErrRecordNotFound)
		_, err = accessTokens.Validate(fresh.Token)
		require.NoError(err)
	})
}
