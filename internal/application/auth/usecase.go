package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/Heladeria-api/internal/application/dto"
	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/internal/domain/access"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/domain/session"
	"github.com/jhoicas/Heladeria-api/pkg/logger"
)

// AuthUseCase casos de uso de autenticación: login, logout, perfil y cambio de contraseña.
type AuthUseCase struct {
	provider IdentityProvider
	resolver *SessionResolver
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(provider IdentityProvider, resolver *SessionResolver, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{provider: provider, resolver: resolver, log: log}
}

// Login verifica credenciales con el proveedor y devuelve token + perfil resuelto.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	identity, err := uc.provider.SignIn(ctx, email, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			uc.log.Info().Str("correo", email).Msg("login rechazado")
		}
		return nil, err
	}
	sess, err := uc.resolver.Resolve(ctx, identity.Token)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("correo", sess.Email).Str("rol", sess.Role).Msg("login")
	return &dto.LoginResponse{
		Token:     identity.Token,
		ExpiresAt: identity.ExpiresAt,
		Profile:   Profile(sess),
	}, nil
}

// Logout cierra la sesión en el proveedor.
func (uc *AuthUseCase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return uc.provider.SignOut(ctx, token)
}

// Me perfil de la sesión actual.
func (uc *AuthUseCase) Me(sess *session.Session) (*dto.ProfileResponse, error) {
	if !sess.IsAuthenticated() {
		return nil, domain.ErrUnauthorized
	}
	out := Profile(sess)
	return &out, nil
}

// ChangePassword cambia la contraseña del usuario de la sesión.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, sess *session.Session, in dto.ChangePasswordRequest) error {
	if !access.Can(sess.CurrentRole(), access.ChangePassword) {
		return domain.ErrForbidden
	}
	if in.Password == "" {
		return domain.ErrInvalidInput
	}
	if err := uc.provider.ChangePassword(ctx, sess.Token, sess.Email, in.Password); err != nil {
		return err
	}
	uc.log.Info().Str("correo", sess.Email).Msg("contraseña actualizada")
	return nil
}

// Profile perfil visible de una sesión, con la letra del rol y las acciones permitidas.
func Profile(sess *session.Session) dto.ProfileResponse {
	role := sess.CurrentRole()
	actions := access.Actions(role)
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, string(a))
	}
	out := dto.ProfileResponse{Role: role, RoleLetter: RoleLetter(role), Actions: names}
	if sess != nil {
		out.ID = sess.UserID
		out.Email = sess.Email
	}
	return out
}

// RoleLetter inicial mostrada en el avatar del perfil.
func RoleLetter(role string) string {
	switch role {
	case entity.RoleCliente:
		return "C"
	case entity.RoleEmpleado:
		return "E"
	case entity.RoleAdmin:
		return "A"
	default:
		return "?"
	}
}
