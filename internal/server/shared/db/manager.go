// Package db wires the Postgres connection, applies migrations and hands out
// the repositories.
package db

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/drivault/internal/server/files"
	"github.com/dmitrijs2005/drivault/internal/server/refreshtokens"
	"github.com/dmitrijs2005/drivault/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	Files() files.Repository
}
