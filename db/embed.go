// Package db embeds the SQL migrations of the status transition journal.
package db

import "embed"

// Migrations holds migrations/*.sql. Files are applied in name order.
//
//go:embed migrations/*.sql
var Migrations embed.FS
