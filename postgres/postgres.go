package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements chat.Store backed by PostgreSQL.
type PGStore struct {
	db *pgxpool.Pool
}

// New creates a PGStore on an existing connection pool. The pool is
// safe for concurrent use by any number of in-flight requests.
func New(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}
