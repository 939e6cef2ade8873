package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MockAccount creates a new organizer account in the database.
func MockAccount(t *testing.T, tx *gorm.DB, name, email string) *Account {
	t.Helper()
	require := require.New(t)

	account, err := NewAccounts(tx).Create(name, email, "hunter22")
	require.NoError(err)
	return account
}

// MockDraw creates a new pending draw with the given roster.
func MockDraw(t *testing.T, tx *gorm.DB, owner *Account, name string, roster ...string) *Draw {
	t.Helper()
	require := require.New(t)

	draw, err := NewDraws(tx).Create(name, time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC), owner.ID)
	require.NoError(err)
	if len(roster) > 0 {
		_, err = NewParticipants(tx).CreateRoster(draw.ID, roster)
		require.NoError(err)
	}
	return draw
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	require := require.New(t)
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger: logger.Default.LogMode(func() logger.LogLevel {
			return logger.Warn
		}()),
	})
	require.NoError(err)

	err = db.AutoMigrate(AllTables()...)
	require.NoError(err)

	// enable foreign key constraints
	err = db.Exec("PRAGMA foreign_keys = ON").Error
	require.NoError(err)

	return db
}
