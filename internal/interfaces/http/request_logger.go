package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Heladeria-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Heladeria-api/pkg/logger"
)

// RequestLogger registra cada request con zerolog y alimenta las métricas HTTP.
// La etiqueta route usa el patrón de Fiber (/api/ventas/:id), no la URL real.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// deja que el ErrorHandler escriba la respuesta antes de leer el status
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(elapsed.Seconds())

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("metodo", c.Method()).
			Str("ruta", c.OriginalURL()).
			Int("status", status).
			Dur("duracion", elapsed).
			Str("rol", GetSession(c).CurrentRole()).
			Msg("request")
		return nil
	}
}
