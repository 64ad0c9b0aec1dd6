package auth

import (
	"context"
	"fmt"

	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
	"github.com/jhoicas/Heladeria-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// LocalProvider valida contra users.password (bcrypt) y emite JWT HS256.
type LocalProvider struct {
	users   repository.UserRepository
	jwtCfg  JWTConfig
	revoked TokenRevocations
}

var _ IdentityProvider = (*LocalProvider)(nil)

// LocalOption configura dependencias opcionales del proveedor local.
type LocalOption func(*LocalProvider)

// WithRevocations habilita el logout real: los tokens cerrados se rechazan hasta que expiren.
func WithRevocations(r TokenRevocations) LocalOption {
	return func(p *LocalProvider) {
		if r != nil {
			p.revoked = r
		}
	}
}

// NewLocalProvider construye el proveedor local.
func NewLocalProvider(users repository.UserRepository, jwtCfg JWTConfig, opts ...LocalOption) *LocalProvider {
	p := &LocalProvider{users: users, jwtCfg: jwtCfg}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	user, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(p.jwtCfg.Secret, user.Email, p.jwtCfg.Issuer, p.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	_, exp, err := jwt.Parse(p.jwtCfg.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("leer token: %w", err)
	}
	return &Identity{Email: user.Email, Token: token, ExpiresAt: &exp}, nil
}

func (p *LocalProvider) Verify(ctx context.Context, token string) (string, error) {
	email, _, err := jwt.Parse(p.jwtCfg.Secret, token)
	if err != nil {
		return "", domain.ErrUnauthorized
	}
	if p.revoked != nil {
		revoked, err := p.revoked.IsRevoked(ctx, token)
		if err != nil {
			return "", fmt.Errorf("consultar revocación: %w", err)
		}
		if revoked {
			return "", domain.ErrUnauthorized
		}
	}
	return email, nil
}

// SignOut sin registro de revocaciones no hace nada: el JWT local no tiene estado en
// servidor y sigue siendo válido hasta expirar.
func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	if p.revoked == nil {
		return nil
	}
	_, exp, err := jwt.Parse(p.jwtCfg.Secret, token)
	if err != nil {
		// token inválido o vencido: no hay nada que revocar
		return nil
	}
	if err := p.revoked.Revoke(ctx, token, exp); err != nil {
		return fmt.Errorf("revocar token: %w", err)
	}
	return nil
}

func (p *LocalProvider) ChangePassword(ctx context.Context, _ string, email, newPassword string) error {
	user, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return p.users.Update(ctx, user)
}
