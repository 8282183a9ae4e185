// Package db owns the local SQLite file holding the repository login and
// unpublished drafts. Content itself lives in the remote repository.
package db

import (
	"database/sql"

	"github.com/rs/zerolog"
)

type Db interface {
	InitDb() error

	Get() *sql.DB
	Close() error

	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
}

var dbLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	dbLogger = l
}
