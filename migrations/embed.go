// Package migrations holds the versioned postgres schema applied by cmd/migrate
// and by the server at startup.
package migrations

import "embed"

// FS contains every *.up.sql and *.down.sql file in this directory
//
//go:embed *.sql
var FS embed.FS
