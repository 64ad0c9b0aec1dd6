package entity

import "time"

// Roles válidos para User. RolePublic no se persiste: es el rol de una sesión sin usuario.
const (
	RoleAdmin    = "admin"
	RoleEmpleado = "empleado"
	RoleCliente  = "cliente"
	RolePublic   = "public"
)

// IsValidRole indica si el rol puede asignarse a un usuario persistido.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEmpleado, RoleCliente:
		return true
	}
	return false
}

// User representa un usuario de la heladería (tabla users).
type User struct {
	ID           int64
	Name         string
	Email        string // único, se usa como llave de login
	PasswordHash string // bcrypt, nunca texto plano después de persistir
	Role         string // admin, empleado, cliente
	AuthID       string // id del usuario en el proveedor de identidad externo (opcional)
	CreatedAt    time.Time
}
