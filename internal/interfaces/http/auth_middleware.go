package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Heladeria-api/internal/application/auth"
	"github.com/jhoicas/Heladeria-api/internal/application/dto"
	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/internal/domain/access"
	"github.com/jhoicas/Heladeria-api/internal/domain/session"
	"github.com/jhoicas/Heladeria-api/pkg/logger"
)

// LocalSession key de c.Locals con el *session.Session del request.
const LocalSession = "session"

// SessionMiddleware resuelve la sesión del request una sola vez y la deja en c.Locals.
//   - sin Authorization → sesión pública
//   - token inválido o expirado → 401
//   - fallo del proveedor de identidad → la sesión queda "resolving" y Require responde 503
func SessionMiddleware(resolver *auth.SessionResolver, log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		c.Locals(LocalSession, session.Resolving())

		token, ok := bearerToken(c.Get("Authorization"))
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		sess, err := resolver.Resolve(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
			}
			log.Warn().Err(err).Str("ruta", c.Path()).Msg("no se pudo resolver la sesión")
			return c.Next()
		}
		c.Locals(LocalSession, sess)
		return c.Next()
	}
}

// Require permite el paso solo si el rol de la sesión tiene la acción en la tabla de capacidades.
func Require(action access.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := GetSession(c)
		if sess.IsResolving() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "SESSION_LOADING", Message: "la sesión aún se está resolviendo, intente de nuevo"})
		}
		if !access.Can(sess.CurrentRole(), action) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado", Redirect: "/"})
		}
		return c.Next()
	}
}

// GetSession sesión del request; pública si el middleware no corrió.
func GetSession(c *fiber.Ctx) *session.Session {
	if s, ok := c.Locals(LocalSession).(*session.Session); ok && s != nil {
		return s
	}
	return session.Public()
}

// bearerToken header vacío → ("", true). Formato distinto a "Bearer <token>" → false.
func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", true
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
