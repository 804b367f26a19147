// Package pgconv holds small pgx conversion helpers shared by the
// repositories and read stores.
package pgconv

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
)

// IsNoRows checks if the error is a "no rows" error from either sql or pgx
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
