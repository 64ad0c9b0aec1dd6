// Package session modela la sesión de un request: se resuelve una vez en el
// middleware de acceso y se pasa por referencia a handlers y casos de uso.
package session

import "github.com/jhoicas/Heladeria-api/internal/domain/entity"

// State ciclo de vida de una sesión.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateResolving       State = "resolving"
	StateAuthenticated   State = "authenticated"
)

// Session sesión resuelta para el request actual.
type Session struct {
	State  State
	UserID int64 // 0 si no hay fila en users para el correo autenticado
	Email  string
	Role   string
	Token  string // token bearer original (para logout / cambio de contraseña)
}

// Resolving sesión inicial mientras se consulta el proveedor de identidad.
func Resolving() *Session {
	return &Session{State: StateResolving}
}

// Public sesión sin usuario autenticado.
func Public() *Session {
	return &Session{State: StateUnauthenticated, Role: entity.RolePublic}
}

// Authenticated sesión de un usuario con rol resuelto.
func Authenticated(userID int64, email, role, token string) *Session {
	return &Session{State: StateAuthenticated, UserID: userID, Email: email, Role: role, Token: token}
}

// CurrentRole devuelve el rol efectivo: public si la sesión es nil o no está autenticada.
func (s *Session) CurrentRole() string {
	if s == nil || s.State != StateAuthenticated || s.Role == "" {
		return entity.RolePublic
	}
	return s.Role
}

// IsAuthenticated indica si la sesión tiene un usuario autenticado.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.State == StateAuthenticated
}

// IsResolving indica si la sesión aún no terminó de resolverse.
func (s *Session) IsResolving() bool {
	return s != nil && s.State == StateResolving
}

// HasUser indica si la sesión está ligada a una fila de users.
func (s *Session) HasUser() bool {
	return s.IsAuthenticated() && s.UserID > 0
}
