package store

import (
	"database/sql/driver"
	"strings"

	sqlite "github.com/glebarez/go-sqlite"
)

// SQLite's built-in LOWER folds ASCII only, so "SÃO" would never match a
// "são" pattern built by Contains. Every SQLite connection opened after init
// gets a Unicode-aware lower instead; PostgreSQL and MySQL fold by locale or
// collation already.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("lower", 1, unicodeLower)
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
