// Package supabase implementa el proveedor de identidad sobre Supabase Auth.
package supabase

import (
	"context"
	"fmt"
	"strings"
	"time"

	supa "github.com/nedpals/supabase-go"

	"github.com/jhoicas/Heladeria-api/internal/application/auth"
	"github.com/jhoicas/Heladeria-api/internal/domain"
)

// authAPI subconjunto de supa.Auth que usa el proveedor.
type authAPI interface {
	SignIn(ctx context.Context, credentials supa.UserCredentials) (*supa.AuthenticatedDetails, error)
	User(ctx context.Context, userToken string) (*supa.User, error)
	SignOut(ctx context.Context, userToken string) error
	UpdateUser(ctx context.Context, userToken string, updateData map[string]interface{}) (*supa.User, error)
}

var _ auth.IdentityProvider = (*IdentityProvider)(nil)

// IdentityProvider delega login, verificación de token y contraseña en Supabase Auth.
// El rol no viene de Supabase: lo resuelve auth.SessionResolver contra la tabla users.
type IdentityProvider struct {
	api authAPI
	now func() time.Time
}

// NewIdentityProvider crea el cliente con la URL del proyecto y la anon key.
func NewIdentityProvider(url, anonKey string) *IdentityProvider {
	client := supa.CreateClient(url, anonKey)
	return newIdentityProvider(client.Auth)
}

func newIdentityProvider(api authAPI) *IdentityProvider {
	return &IdentityProvider{api: api, now: time.Now}
}

func (p *IdentityProvider) SignIn(ctx context.Context, email, password string) (*auth.Identity, error) {
	details, err := p.api.SignIn(ctx, supa.UserCredentials{Email: email, Password: password})
	if err != nil {
		if isAuthError(err) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("supabase sign in: %w", err)
	}
	if details == nil || details.AccessToken == "" {
		return nil, domain.ErrUnauthorized
	}
	out := &auth.Identity{
		AuthID: details.User.ID,
		Email:  details.User.Email,
		Token:  details.AccessToken,
	}
	if out.Email == "" {
		out.Email = email
	}
	if details.ExpiresIn > 0 {
		exp := p.now().Add(time.Duration(details.ExpiresIn) * time.Second).UTC()
		out.ExpiresAt = &exp
	}
	return out, nil
}

func (p *IdentityProvider) Verify(ctx context.Context, token string) (string, error) {
	user, err := p.api.User(ctx, token)
	if err != nil {
		if isAuthError(err) {
			return "", domain.ErrUnauthorized
		}
		return "", fmt.Errorf("supabase user: %w", err)
	}
	if user == nil || user.Email == "" {
		return "", domain.ErrUnauthorized
	}
	return user.Email, nil
}

func (p *IdentityProvider) SignOut(ctx context.Context, token string) error {
	if err := p.api.SignOut(ctx, token); err != nil {
		return fmt.Errorf("supabase sign out: %w", err)
	}
	return nil
}

func (p *IdentityProvider) ChangePassword(ctx context.Context, token, _ string, newPassword string) error {
	if _, err := p.api.UpdateUser(ctx, token, map[string]interface{}{"password": newPassword}); err != nil {
		if isAuthError(err) {
			return domain.ErrUnauthorized
		}
		return fmt.Errorf("supabase update user: %w", err)
	}
	return nil
}

// isAuthError Supabase responde 400 invalid_grant / "Invalid login credentials" ante
// credenciales incorrectas y 401 con token vencido.
func isAuthError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"invalid_grant", "invalid login credentials", "invalid jwt", "401", "unauthorized", "expired"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
