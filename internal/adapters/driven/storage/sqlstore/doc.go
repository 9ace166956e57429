// Package sqlstore provides a database/sql implementation of driven.TokenStore.
//
// One table, oauth_tokens, holds a JSON token document per integration name
// with update-or-insert semantics; no history is kept and concurrent writers
// are not serialised. Three drivers are supported:
//
//   - sqlite: modernc.org/sqlite, pure Go, for single-host deployments
//   - pgx: github.com/jackc/pgx/v5/stdlib, for PostgreSQL (DATABASE_URL)
//   - mysql: github.com/go-sql-driver/mysql, for MySQL/MariaDB (CLEARDB_DATABASE_URL)
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory and tracked in schema_migrations.
package sqlstore
