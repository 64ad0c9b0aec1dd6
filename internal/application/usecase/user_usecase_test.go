package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Heladeria-api/internal/application/dto"
	"github.com/jhoicas/Heladeria-api/internal/application/usecase"
	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_CreaClienteConPasswordHasheado(t *testing.T) {
	users := memory.NewUserRepository(memory.NewStore())
	uc := usecase.NewUserUseCase(users)
	ctx := context.Background()

	out, err := uc.Register(ctx, dto.RegisterRequest{Name: " Ana ", Email: "ana@heladeria.test", Password: "helado123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCliente, out.Role)
	assert.Equal(t, "Ana", out.Name)

	stored, err := users.GetByEmail(ctx, "ana@heladeria.test")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("helado123")))
}

func TestRegister_CorreoRepetido(t *testing.T) {
	uc := usecase.NewUserUseCase(memory.NewUserRepository(memory.NewStore()))
	ctx := context.Background()
	in := dto.RegisterRequest{Name: "Ana", Email: "ana@heladeria.test", Password: "helado123"}

	_, err := uc.Register(ctx, in)
	require.NoError(t, err)
	_, err = uc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_CamposVacios(t *testing.T) {
	uc := usecase.NewUserUseCase(memory.NewUserRepository(memory.NewStore()))
	_, err := uc.Register(context.Background(), dto.RegisterRequest{Email: "ana@heladeria.test", Password: "helado123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// EnsureAdmin
// ──────────────────────────────────────────────────────────────────────────────

func TestEnsureAdmin_CreaSoloUnaVez(t *testing.T) {
	users := memory.NewUserRepository(memory.NewStore())
	uc := usecase.NewUserUseCase(users)
	ctx := context.Background()

	created, err := uc.EnsureAdmin(ctx, "Administrador", "admin@heladeria.test", "helado123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.EnsureAdmin(ctx, "Otro", "admin@heladeria.test", "cambiada1")
	require.NoError(t, err)
	assert.False(t, created, "un segundo arranque no duplica ni modifica al admin")

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.RoleAdmin, list[0].Role)
	assert.Equal(t, "Administrador", list[0].Name)

	stored, err := users.GetByEmail(ctx, "admin@heladeria.test")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("helado123")))
}

func TestEnsureAdmin_NoPromueveUnUsuarioExistente(t *testing.T) {
	users := memory.NewUserRepository(memory.NewStore())
	uc := usecase.NewUserUseCase(users)
	ctx := context.Background()

	_, err := uc.Register(ctx, dto.RegisterRequest{Name: "Ana", Email: "ana@heladeria.test", Password: "helado123"})
	require.NoError(t, err)

	created, err := uc.EnsureAdmin(ctx, "Administrador", "ana@heladeria.test", "helado123")
	require.NoError(t, err)
	assert.False(t, created)

	stored, err := users.GetByEmail(ctx, "ana@heladeria.test")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCliente, stored.Role)
}
