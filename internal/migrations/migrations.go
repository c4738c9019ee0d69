// Package migrations embeds the goose SQL migrations for the portal schema.
package migrations

import "embed"

// Migrations holds the embedded *.sql migration files, applied by goose
// at startup.
//
//go:embed *.sql
var Migrations embed.FS
