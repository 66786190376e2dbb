package migrations

import "embed"

// FS contains embedded SQLite migrations for chain state storage.
//
//go:embed *.sql
var FS embed.FS
