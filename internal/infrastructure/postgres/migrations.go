package postgres

import "embed"

// Migrations contiene los scripts goose del esquema (ver cmd/migrate).
//
//go:embed migrations/*.sql
var Migrations embed.FS
