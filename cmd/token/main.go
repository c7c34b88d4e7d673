// token emite un JWT firmado con JWT_SECRET para pruebas locales de la API.
// La autenticación de usuarios vive fuera de este servicio; aquí solo se valida el token.
//
// Uso: go run ./cmd/token <user_id> <rol>
// Roles: admin, jefe_almacen, almacenero, jefe_tecnicos, tecnico, compras.
package main

import (
	"fmt"
	"os"

	httpRouter "github.com/jhoicas/Maquinaria-api/internal/interfaces/http"
	"github.com/jhoicas/Maquinaria-api/pkg/config"
	"github.com/jhoicas/Maquinaria-api/pkg/jwt"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "uso: token <user_id> <rol>")
		os.Exit(2)
	}
	userID, role := os.Args[1], os.Args[2]
	if !httpRouter.IsKnownRole(role) {
		fmt.Fprintf(os.Stderr, "rol desconocido: %s\n", role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	tokens, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configurar JWT: %v\n", err)
		os.Exit(1)
	}
	tok, err := tokens.Generate(userID, role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
