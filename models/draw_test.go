package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDraws(t *testing.T) {
	db := setupTestDB(t)

	t.Run("create", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		owner := MockAccount(t, tx, "ana", "ana@example.com")
		draw := MockDraw(t, tx, owner, "office 2024", "ana", "bob")

		var d Draw
		require.NoError(tx.First(&d, "id = ?", draw.ID).Error)
		require.Equal(DrawPending, d.Status)
		require.Equal(owner.ID, d.AccountID)
	})

	t.Run("complete wins once", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		owner := MockAccount(t, tx, "ana", "ana@example.com")
		draw := MockDraw(t, tx, owner, "office 2024")

		draws := NewDraws(tx)
		won, err := draws.Complete(draw.ID)
		require.NoError(err)
		require.True(won)

		won, err = draws.Complete(draw.ID)
		require.NoError(err)
		require.False(won)

		d, err := draws.Find(draw.ID)
		require.NoError(err)
		require.Equal(DrawCompleted, d.Status)
	})

	t.Run("delete cascades", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		owner := MockAccount(t, tx, "ana", "ana@example.com")
		draw := MockDraw(t, tx, owner, "office 2024", "ana", "bob")
		_, err := NewAccessTokens(tx).Issue(draw.ID)
		require.NoError(err)

		require.NoError(NewDraws(tx).Delete(draw.ID))

		var n int64
		require.NoError(tx.Model(&Participant{}).Where("draw_id = ?", draw.ID).Count(&n).Error)
		require.Zero(n)
		require.NoError(tx.Model(&AccessToken{}).Where("draw_id = ?", draw.ID).Count(&n).Error)
		require.Zero(n)
	})

	t.Run("list with counts", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		owner := MockAccount(t, tx, "ana", "ana@example.com")
		MockDraw(t, tx, owner, "office 2024", "ana", "bob", "cat")
		MockDraw(t, tx, owner, "family 2024", "ana", "bob")

		summaries, err := NewDraws(tx).ListByAccount(owner.ID)
		require.NoError(err)
		require.Len(summaries, 2)
		for _, s := range summaries {
			require.NotZero(s.Participants)
			require.Zero(s.Assigned)
			require.Zero(s.Identified)
		}
	})

	t.Run("stats", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		owner := MockAccount(t, tx, "ana", "ana@example.com")
		MockDraw(t, tx, owner, "one")
		done := MockDraw(t, tx, owner, "two")
		_, err := NewDraws(tx).Complete(done.ID)
		require.NoError(err)

		stats, err := NewDraws(tx).Stats(owner.ID)
		require.NoError(err)
		require.EqualValues(2, stats.Total)
		require.EqualValues(1, stats.Pending)
		require.EqualValues(1, stats.Completed)
	})

	t.Run("update", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		owner := MockAccount(t, tx, "ana", "ana@example.com")
		draw := MockDraw(t, tx, owner, "office 2024")

		date := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
		require.NoError(NewDraws(tx).Update(draw.ID, "office 2025", date))

		d, err := NewDraws(tx).Find(draw.ID)
		require.NoError(err)
		require.Equal("office 2025", d.Name)
		require.True(d.Date.Equal(date))
	})
}
