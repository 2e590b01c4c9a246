package migrations

import "embed"

// FS contains the embedded PostgreSQL ledger schema.
//
//go:embed *.sql
var FS embed.FS
