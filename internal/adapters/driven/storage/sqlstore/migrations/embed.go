// Package migrations embeds SQL migration files for the sql token store.
// Statements are limited to the subset shared by SQLite, PostgreSQL and
// MySQL/MariaDB, one statement per file.
package migrations

import "embed"

// FS contains all SQL migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
