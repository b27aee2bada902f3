package migrations

import "embed"

// FS contains the goose migrations of the identity database.
//
//go:embed *.sql
var FS embed.FS
