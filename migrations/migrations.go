// Package migrations holds the database schema for the ingestion client.
package migrations

import "embed"

// Files contains the SQL migration files in lexical order.
//
//go:embed *.sql
var Files embed.FS
