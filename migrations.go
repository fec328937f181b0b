// Package phishfeatures holds the assets shared by every binary of the module.
package phishfeatures

import "embed"

// Migrations contains the goose SQL migrations of the application schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS
