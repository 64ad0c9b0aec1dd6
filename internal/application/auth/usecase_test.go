package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Heladeria-api/internal/application/auth"
	"github.com/jhoicas/Heladeria-api/internal/application/dto"
	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/domain/session"
	"github.com/jhoicas/Heladeria-api/internal/infrastructure/memory"
	"github.com/jhoicas/Heladeria-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func newAuth(t *testing.T) (*auth.AuthUseCase, *auth.SessionResolver, *memory.UserRepository) {
	t.Helper()
	users := memory.NewUserRepository(memory.NewStore())
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto1"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), &entity.User{
		Name: "Emp", Email: "emp@heladeria.test", PasswordHash: string(hash), Role: entity.RoleEmpleado,
	}))

	provider := auth.NewLocalProvider(users, auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "heladeria-test"})
	resolver := auth.NewSessionResolver(provider, users)
	return auth.NewAuthUseCase(provider, resolver, nil), resolver, users
}

func TestLogin_CredencialesValidas(t *testing.T) {
	uc, _, _ := newAuth(t)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "emp@heladeria.test", Password: "secreto1"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	require.NotNil(t, out.ExpiresAt)
	assert.Equal(t, entity.RoleEmpleado, out.Profile.Role)
	assert.Equal(t, "E", out.Profile.RoleLetter)
	assert.Contains(t, out.Profile.Actions, "list_sales")
	assert.NotContains(t, out.Profile.Actions, "delete_sale")
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc, _, _ := newAuth(t)
	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "emp@heladeria.test", Password: "otro"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@heladeria.test", Password: "otro"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResolve_SinTokenEsPublica(t *testing.T) {
	_, resolver, _ := newAuth(t)
	sess, err := resolver.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, sess.IsAuthenticated())
	assert.Equal(t, entity.RolePublic, sess.CurrentRole())
}

func TestResolve_CorreoSinFilaEsCliente(t *testing.T) {
	_, resolver, _ := newAuth(t)
	token, err := jwt.Generate(testSecret, "nuevo@heladeria.test", "heladeria-test", 5)
	require.NoError(t, err)

	sess, err := resolver.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, sess.IsAuthenticated())
	assert.Equal(t, entity.RoleCliente, sess.CurrentRole())
	assert.Zero(t, sess.UserID)
}

func TestResolve_TokenInvalido(t *testing.T) {
	_, resolver, _ := newAuth(t)
	_, err := resolver.Resolve(context.Background(), "no-es-un-jwt")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestChangePassword_ActualizaHash(t *testing.T) {
	uc, resolver, _ := newAuth(t)
	ctx := context.Background()
	login, err := uc.Login(ctx, dto.LoginRequest{Email: "emp@heladeria.test", Password: "secreto1"})
	require.NoError(t, err)
	sess, err := resolver.Resolve(ctx, login.Token)
	require.NoError(t, err)

	require.NoError(t, uc.ChangePassword(ctx, sess, dto.ChangePasswordRequest{Password: "nuevo-secreto"}))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "emp@heladeria.test", Password: "secreto1"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "emp@heladeria.test", Password: "nuevo-secreto"})
	require.NoError(t, err)
}

func TestChangePassword_SesionPublica(t *testing.T) {
	uc, _, _ := newAuth(t)
	err := uc.ChangePassword(context.Background(), session.Public(), dto.ChangePasswordRequest{Password: "x"})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMe_RequiereSesion(t *testing.T) {
	uc, _, _ := newAuth(t)
	_, err := uc.Me(session.Public())
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	out, err := uc.Me(session.Authenticated(7, "a@b.c", entity.RoleAdmin, "t"))
	require.NoError(t, err)
	assert.Equal(t, "A", out.RoleLetter)
	assert.Equal(t, int64(7), out.ID)
}

func TestRoleLetter(t *testing.T) {
	assert.Equal(t, "C", auth.RoleLetter(entity.RoleCliente))
	assert.Equal(t, "?", auth.RoleLetter("otro"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Logout con registro de revocaciones
// ──────────────────────────────────────────────────────────────────────────────

type memRevocations struct {
	tokens map[string]time.Time
	err    error
}

func (m *memRevocations) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	m.tokens[token] = expiresAt
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, token string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.tokens[token]
	return ok, nil
}

func newRevokingAuth(t *testing.T, rev *memRevocations) (*auth.AuthUseCase, *auth.SessionResolver) {
	t.Helper()
	users := memory.NewUserRepository(memory.NewStore())
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto1"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), &entity.User{
		Name: "Emp", Email: "emp@heladeria.test", PasswordHash: string(hash), Role: entity.RoleEmpleado,
	}))
	provider := auth.NewLocalProvider(users, auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "heladeria-test"}, auth.WithRevocations(rev))
	resolver := auth.NewSessionResolver(provider, users)
	return auth.NewAuthUseCase(provider, resolver, nil), resolver
}

func TestLogout_TokenRevocadoYaNoResuelve(t *testing.T) {
	rev := &memRevocations{tokens: map[string]time.Time{}}
	uc, resolver := newRevokingAuth(t, rev)
	ctx := context.Background()

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "emp@heladeria.test", Password: "secreto1"})
	require.NoError(t, err)
	_, err = resolver.Resolve(ctx, out.Token)
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx, out.Token))
	require.Contains(t, rev.tokens, out.Token)
	assert.WithinDuration(t, *out.ExpiresAt, rev.tokens[out.Token], time.Second, "se revoca solo hasta la expiración del token")

	_, err = resolver.Resolve(ctx, out.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogout_TokenInvalidoNoSeRegistra(t *testing.T) {
	rev := &memRevocations{tokens: map[string]time.Time{}}
	uc, _ := newRevokingAuth(t, rev)

	require.NoError(t, uc.Logout(context.Background(), "no-es-un-jwt"))
	assert.Empty(t, rev.tokens)
}

func TestResolve_FallaDelRegistroNoEsUnauthorized(t *testing.T) {
	rev := &memRevocations{tokens: map[string]time.Time{}, err: errors.New("redis caído")}
	_, resolver := newRevokingAuth(t, rev)
	token, err := jwt.Generate(testSecret, "emp@heladeria.test", "heladeria-test", 5)
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
}
