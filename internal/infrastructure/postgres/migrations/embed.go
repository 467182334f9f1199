// Package migrations embeds the database schema migrations.
package migrations

import "embed"

// FS holds the up and down migration files.
//
//go:embed *.sql
var FS embed.FS
