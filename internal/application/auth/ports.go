package auth

import (
	"context"
	"time"
)

// Identity resultado de un inicio de sesión en el proveedor de identidad.
type Identity struct {
	AuthID    string // id del usuario en el proveedor (vacío en modo local)
	Email     string
	Token     string
	ExpiresAt *time.Time
}

// IdentityProvider verifica credenciales y tokens de sesión. Implementaciones:
// local (bcrypt + JWT propio) y Supabase Auth.
type IdentityProvider interface {
	// SignIn valida correo y contraseña y emite un token. ErrUnauthorized si no coinciden.
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	// Verify valida el token y devuelve el correo del usuario. ErrUnauthorized si es inválido o expiró.
	Verify(ctx context.Context, token string) (string, error)
	SignOut(ctx context.Context, token string) error
	// ChangePassword cambia la contraseña del usuario dueño del token.
	ChangePassword(ctx context.Context, token, email, newPassword string) error
}

// TokenRevocations tokens cerrados con logout antes de expirar (solo proveedor local;
// Supabase invalida la sesión de su lado).
type TokenRevocations interface {
	// Revoke marca el token como revocado hasta expiresAt.
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
