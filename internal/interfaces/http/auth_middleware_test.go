package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Heladeria-api/internal/application/auth"
	"github.com/jhoicas/Heladeria-api/internal/application/dto"
	"github.com/jhoicas/Heladeria-api/internal/domain/access"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Heladeria-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Heladeria-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "heladeria-test"
	testExpMin    = 60
)

// buildGateApp aplicación mínima con SessionMiddleware + Require(action) y un handler
// que devuelve el rol efectivo si pasa los middlewares.
func buildGateApp(t *testing.T, provider auth.IdentityProvider, action access.Action) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	ctx := context.Background()
	for _, u := range []*entity.User{
		{Name: "Admin", Email: "admin@heladeria.test", Role: entity.RoleAdmin},
		{Name: "Empleado", Email: "emp@heladeria.test", Role: entity.RoleEmpleado},
		{Name: "Cliente", Email: "cliente@heladeria.test", Role: entity.RoleCliente},
	} {
		require.NoError(t, users.Create(ctx, u))
	}
	if provider == nil {
		provider = auth.NewLocalProvider(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	}
	resolver := auth.NewSessionResolver(provider, users)

	app := fiber.New()
	app.Get("/protected",
		apphttp.SessionMiddleware(resolver, nil),
		apphttp.Require(action),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"rol": apphttp.GetSession(c).CurrentRole()})
		},
	)
	return app
}

// bearerFor genera un header Authorization para el correo indicado.
func bearerFor(t *testing.T, email string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, email, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doGet(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

// failingProvider simula una caída del proveedor de identidad.
type failingProvider struct{}

func (failingProvider) SignIn(context.Context, string, string) (*auth.Identity, error) {
	return nil, errors.New("proveedor caído")
}
func (failingProvider) Verify(context.Context, string) (string, error) {
	return "", errors.New("proveedor caído")
}
func (failingProvider) SignOut(context.Context, string) error { return nil }
func (failingProvider) ChangePassword(context.Context, string, string, string) error {
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRequire_PublicoPuedeVerCatalogo(t *testing.T) {
	app := buildGateApp(t, nil, access.ViewCatalog)
	resp := doGet(t, app, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequire_PublicoNoPuedeVerCalorias(t *testing.T) {
	app := buildGateApp(t, nil, access.ViewCalories)
	resp := doGet(t, app, "")
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "FORBIDDEN", body.Code)
	assert.Equal(t, "/", body.Redirect)
}

func TestRequire_TablaDeCapacidadesPorRol(t *testing.T) {
	cases := []struct {
		email  string
		action access.Action
		want   int
	}{
		{"cliente@heladeria.test", access.RegisterSale, fiber.StatusOK},
		{"cliente@heladeria.test", access.ListSales, fiber.StatusForbidden},
		{"emp@heladeria.test", access.ListSales, fiber.StatusOK},
		{"emp@heladeria.test", access.DeleteSale, fiber.StatusForbidden},
		{"emp@heladeria.test", access.ManageCatalog, fiber.StatusForbidden},
		{"admin@heladeria.test", access.DeleteSale, fiber.StatusOK},
		{"admin@heladeria.test", access.ViewProfitability, fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.email+"/"+string(tc.action), func(t *testing.T) {
			app := buildGateApp(t, nil, tc.action)
			resp := doGet(t, app, bearerFor(t, tc.email))
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestSessionMiddleware_UsuarioSinFilaEsCliente(t *testing.T) {
	app := buildGateApp(t, nil, access.RegisterSale)
	resp := doGet(t, app, bearerFor(t, "nuevo@heladeria.test"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, entity.RoleCliente, out["rol"])
}

func TestSessionMiddleware_TokenInvalidoDevuelve401(t *testing.T) {
	app := buildGateApp(t, nil, access.ViewCatalog)
	resp := doGet(t, app, "Bearer no-es-un-jwt")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeError(t, resp).Code)
}

func TestSessionMiddleware_FormatoIncorrectoDevuelve401(t *testing.T) {
	app := buildGateApp(t, nil, access.ViewCatalog)
	resp := doGet(t, app, "Token abc")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequire_SesionSinResolverDevuelve503(t *testing.T) {
	app := buildGateApp(t, failingProvider{}, access.ViewCatalog)
	resp := doGet(t, app, "Bearer cualquier-token")
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "SESSION_LOADING", decodeError(t, resp).Code)
}
