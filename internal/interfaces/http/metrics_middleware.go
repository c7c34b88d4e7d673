package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Maquinaria-api/pkg/metrics"
)

// MetricsMiddleware registra la duración de cada petición por método, ruta y estado.
// Se usa la ruta registrada (/api/items/:id/kardex) y no la URL, para acotar la cardinalidad.
func MetricsMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.ObserveRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
