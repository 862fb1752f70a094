package migrations

import "embed"

// FS contains embedded SQLite migrations for the secondary record store.
//
//go:embed *.sql
var FS embed.FS
