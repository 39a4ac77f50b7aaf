package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds every schema and seed migration, registered by the numbered files.
var Migrations = migrate.NewMigrations()
