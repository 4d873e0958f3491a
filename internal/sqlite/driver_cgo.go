//go:build cgo_sqlite

// CGO engine using mattn/go-sqlite3. Build with -tags cgo_sqlite and
// CGO_ENABLED=1.
package sqlite

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	driverName = "sqlite3"
	driverType = "cgo"
)
