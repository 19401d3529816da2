package database

import (
	"database/sql"
)

// Queryable is the subset of sqlx behaviour that stores are written
// against. Both *sqlx.DB and *sqlx.Tx satisfy this interface, which
// allows store methods to run against the shared connection or inside
// a transaction without change.
type Queryable interface {
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
	Exec(query string, args ...interface{}) (sql.Result, error)
	NamedExec(query string, arg interface{}) (sql.Result, error)
	Rebind(query string) string
}
