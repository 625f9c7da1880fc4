// Package db holds the SQL definitions of the catalog database
package db

import (
	_ "embed"
	"strings"
)

// InitSQL creates the schema registry
//
//go:embed init_pg_db.sql
var InitSQL string

//go:embed network_tables.sql
var networkTablesSQL string

// NetworkTablesSQL returns the DDL of the per-network ingestion tables for schemaName
func NetworkTablesSQL(schemaName string) string {
	return strings.ReplaceAll(networkTablesSQL, "__SCHEMA__", `"`+schemaName+`"`)
}
