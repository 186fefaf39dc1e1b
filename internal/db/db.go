// Package db provides the relational storage layer behind the recipe
// repositories, selectable between SQLite and Postgres.
package db

import (
	"database/sql"

	"github.com/rs/zerolog"
)

type DB interface {
	InitDB() error

	Get() *sql.DB
	Close() error

	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Exec(query string, args ...interface{}) (sql.Result, error)

	// Rebind rewrites ?-style placeholders into the driver's native
	// form. Callers running statements on a *sql.Tx obtained from Get
	// must pass them through Rebind first.
	Rebind(query string) string
}

var dbLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	dbLogger = l
}
