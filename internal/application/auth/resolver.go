package auth

import (
	"context"
	"errors"

	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
	"github.com/jhoicas/Heladeria-api/internal/domain/session"
)

// SessionResolver resuelve la sesión de un request a partir del token bearer.
type SessionResolver struct {
	provider IdentityProvider
	users    repository.UserRepository
}

// NewSessionResolver construye el resolver.
func NewSessionResolver(provider IdentityProvider, users repository.UserRepository) *SessionResolver {
	return &SessionResolver{provider: provider, users: users}
}

// Resolve sin token devuelve una sesión pública. Con token válido busca el rol por correo;
// si no hay fila en users la sesión queda como cliente. Token inválido → ErrUnauthorized.
func (r *SessionResolver) Resolve(ctx context.Context, token string) (*session.Session, error) {
	if token == "" {
		return session.Public(), nil
	}
	email, err := r.provider.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	user, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !entity.IsValidRole(user.Role) {
		return session.Authenticated(userID(user), email, entity.RoleCliente, token), nil
	}
	return session.Authenticated(user.ID, user.Email, user.Role, token), nil
}

func userID(u *entity.User) int64 {
	if u == nil {
		return 0
	}
	return u.ID
}
