package migrations

import "embed"

// FS contains the embedded schema migrations for the automation service.
//
//go:embed *.sql
var FS embed.FS
