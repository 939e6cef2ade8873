package models

import (
	"testing"

	"github.com/mbraga/giftdraw/internal/snowflake"
	"github.com/mbraga/giftdraw/internal/tokens"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestParticipants(t *testing.T) {
	db := setupTestDB(t)

	t.Run("roster order", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		owner := MockAccount(t, tx, "ana", "ana@example.com")
		draw := MockDraw(t, tx, owner, "office", "ana", "bob", "cat")

		roster, err := NewParticipants(tx).ListByDraw(draw.ID)
		require.NoError(err)
		require.Len(roster, 3)
		require.Equal("ana", roster[0].Name)
		require.Equal("cat", roster[2].Name)
		for _, p := range roster {
			require.False(p.Identified)
			require.Nil(p.AssignedToID)
			require.Nil(p.PersonalToken)
		}
	})

	t.Run("replace discards old roster", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		owner := MockAccount(t, tx, "ana", "ana@example.com")
		draw := MockDraw(t, tx, owner, "office", "ana", "bob")

		participants := NewParticipants(tx)
		roster, err := participants.Replace(draw.ID, []string{"dan", "eve", "fay"})
		require.NoError(err)
		require.Len(roster, 3)

		fresh, err := participants.ListByDraw(draw.ID)
		require.NoError(err)
		require.Len(fresh, 3)
		require.Equal("dan", fresh[0].Name)
	})

	t.Run("assign batch", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		owner := MockAccount(t, tx, "ana", "ana@example.com")
		draw := MockDraw(t, tx, owner, "office", "ana", "bob")

		participants := NewParticipants(tx)
		roster, err := participants.ListByDraw(draw.ID)
		require.NoError(err)

		err = participants.Assign(map[snowflake.ID]snowflake.ID{
			roster[0].ID: roster[1].ID,
			roster[1].ID: roster[0].ID,
		})
		require.NoError(err)

		fresh, err := participants.ListByDraw(draw.ID)
		require.NoError(err)
		require.Equal(roster[1].ID, *fresh[0].AssignedToID)
		require.Equal("bob", fresh[0].AssignedTo.Name)
	})

	t.Run("mark identified wins once", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		owner := MockAccount(t, tx, "ana", "ana@example.com")
		draw := MockDraw(t, tx, owner, "office", "ana", "bob")

		participants := NewParticipants(tx)
		roster, err := participants.ListByDraw(draw.ID)
		require.NoError(err)

		token := tokens.New()
		won, err := participants.MarkIdentified(roster[0].ID, token)
		require.NoError(err)
		require.True(won)

		won, err = participants.MarkIdentified(roster[0].ID, tokens.New())
		require.NoError(err)
		require.False(won)

		p, err := participants.Find(roster[0].ID)
		require.NoError(err)
		require.True(p.Identified)
		require.Equal(token, *p.PersonalToken)

		n, err := participants.CountUnidentified(draw.ID)
		require.NoError(err)
		require.EqualValues(1, n)
	})

	t.Run("find by personal token", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		owner := MockAccount(t, tx, "ana", "ana@example.com")
		draw := MockDraw(t, tx, owner, "office", "ana", "bob")

		participants := NewParticipants(tx)
		roster, err := participants.ListByDraw(draw.ID)
		require.NoError(err)
		require.NoError(participants.Assign(map[snowflake.ID]snowflake.ID{
			roster[0].ID: roster[1].ID,
			roster[1].ID: roster[0].ID,
		}))

		token := tokens.New()
		_, err = participants.MarkIdentified(roster[0].ID, token)
		require.NoError(err)

		p, err := participants.FindByPersonalToken(token)
		require.NoError(err)
		require.Equal("ana", p.Name)
		require.Equal("bob", p.AssignedTo.Name)

		_, err = participants.FindByPersonalToken(tokens.New())
		require.ErrorIs(err, gorm.ErrRecordNotFound)
	})

	t.Run("wishlist last write wins", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		owner := MockAccount(t, tx, "ana", "ana@example.com")
		draw := MockDraw(t, tx, owner, "office", "ana", "bob")

		participants := NewParticipants(tx)
		roster, err := participants.ListByDraw(draw.ID)
		require.NoError(err)

		require.NoError(participants.UpdateWishlist(roster[0].ID, "socks"))
		require.NoError(participants.UpdateWishlist(roster[0].ID, "a pony"))

		p, err := participants.Find(roster[0].ID)
		require.NoError(err)
		require.Equal("a pony", p.Wishlist)
	})
}
