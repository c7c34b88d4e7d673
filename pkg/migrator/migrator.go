// Package migrator aplica las migraciones goose embebidas en el binario.
package migrator

import (
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Direction de la migración.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Run aplica (Up) todas las migraciones pendientes o revierte (Down) la última, leyendo los
// scripts de files en el directorio dir.
func Run(dbURL string, files fs.FS, dir string, direction Direction) error {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("abrir base de datos: %w", err)
	}
	defer db.Close() //nolint:errcheck

	goose.SetBaseFS(files)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	switch direction {
	case Up:
		err = goose.Up(db, dir)
	case Down:
		err = goose.Down(db, dir)
	default:
		return fmt.Errorf("dirección de migración desconocida: %q", direction)
	}
	if err != nil {
		return fmt.Errorf("migrar %s: %w", direction, err)
	}
	return nil
}

// Count cuenta los scripts .sql de dir (útil para verificar el embed).
func Count(files fs.FS, dir string) (int, error) {
	matches, err := fs.Glob(files, dir+"/*.sql")
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}
