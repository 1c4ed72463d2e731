// Package migrations embeds the SQL files applied by `hms-server migrate`.
package migrations

import "embed"

// FS holds every NNN_description.sql file of this directory.
//
//go:embed *.sql
var FS embed.FS
