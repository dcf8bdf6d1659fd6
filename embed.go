// Package driftblog exposes repository-level embedded assets.
package driftblog

import "embed"

// Migrations contains the goose SQL migrations applied during startup and by
// the migrate command.
//
//go:embed migrations/*.sql
var Migrations embed.FS
