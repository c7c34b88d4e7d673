// Comando migrate aplica el esquema de la base de datos: `migrate up` (por defecto) o `migrate down`.
package main

import (
	"os"

	"github.com/jhoicas/Maquinaria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Maquinaria-api/pkg/config"
	"github.com/jhoicas/Maquinaria-api/pkg/logger"
	"github.com/jhoicas/Maquinaria-api/pkg/migrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	direction := migrator.Up
	if len(os.Args) > 1 {
		direction = migrator.Direction(os.Args[1])
	}
	if err := migrator.Run(cfg.DB.ConnectionString(), postgres.Migrations, "migrations", direction); err != nil {
		log.Fatal().Err(err).Str("direction", string(direction)).Msg("migración fallida")
	}
	log.Info().Str("direction", string(direction)).Msg("migraciones aplicadas")
}
