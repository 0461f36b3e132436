package utils

import (
	"database/sql"
	"errors"
)

// IsSQLNoRowsError reports whether the error means "no rows".
func IsSQLNoRowsError(err error) bool {
	return err != nil && (errors.Is(err, sql.ErrNoRows) || err.Error() == "sql: no rows in result set")
}
