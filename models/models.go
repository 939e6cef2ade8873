// Package models contains the database schema and the store types
// that operate on it.
package models

// AllTables returns a slice of all tables in the database.
func AllTables() []interface{} {
	return []interface{}{
		&Account{},
		&Draw{},
		&Participant{},
		&AccessToken{},
	}
}
