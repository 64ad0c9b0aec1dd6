package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Heladeria-api/internal/application/dto"
	"github.com/jhoicas/Heladeria-api/internal/application/usecase"
	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/infrastructure/memory"
)

func newEditor(t *testing.T) (*usecase.EditorUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	repos := memory.NewRepos(store)
	editor := usecase.NewEditorUseCase(
		usecase.NewProductUseCase(repos.Products),
		usecase.NewIngredientUseCase(repos.Ingredients),
		usecase.NewRecipeUseCase(repos.Recipes),
		nil,
	)
	return editor, store
}

func form(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestEditorSave_SinIDInsertaConIDActualiza(t *testing.T) {
	editor, _ := newEditor(t)
	ctx := context.Background()

	out, err := editor.Save(ctx, usecase.TabProducts, dto.EditorSaveRequest{
		Form: form(t, map[string]any{"nombre": "Cono", "precio_publico": "2.50", "tipo": "helado"}),
	})
	require.NoError(t, err)
	require.Equal(t, 1, out.Total)
	items := out.Items.([]dto.ProductResponse)
	id := items[0].ID

	out, err = editor.Save(ctx, usecase.TabProducts, dto.EditorSaveRequest{
		ID:   &id,
		Form: form(t, map[string]any{"nombre": "Cono Doble", "precio_publico": "3.50"}),
	})
	require.NoError(t, err)
	require.Equal(t, 1, out.Total, "la edición no inserta")
	items = out.Items.([]dto.ProductResponse)
	assert.Equal(t, "Cono Doble", items[0].Name)
	assert.True(t, items[0].PublicPrice.Equal(decimal.RequireFromString("3.50")))
}

func TestEditorSave_ValidaEsquemaDeLaPestaña(t *testing.T) {
	editor, _ := newEditor(t)
	ctx := context.Background()

	_, err := editor.Save(ctx, usecase.TabIngredients, dto.EditorSaveRequest{
		Form: form(t, map[string]any{"nombre": "", "inventario": 3}),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = editor.Save(ctx, usecase.TabRecipes, dto.EditorSaveRequest{
		Form: form(t, map[string]any{"producto_id": 0, "ingrediente_id": 1}),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = editor.Save(ctx, "ventas", dto.EditorSaveRequest{Form: form(t, map[string]any{})})
	require.ErrorIs(t, err, domain.ErrInvalidTab)
}

func TestEditorRelaciones_NombresEmbebidosYDuplicado(t *testing.T) {
	editor, store := newEditor(t)
	ctx := context.Background()
	repos := memory.NewRepos(store)
	p := &entity.Product{Name: "Malteada", PublicPrice: decimal.NewFromInt(6)}
	require.NoError(t, repos.Products.Create(ctx, p))
	ing := &entity.Ingredient{Name: "Chocolate", Inventory: 4}
	require.NoError(t, repos.Ingredients.Create(ctx, ing))

	rel := form(t, map[string]any{"producto_id": p.ID, "ingrediente_id": ing.ID})
	out, err := editor.Save(ctx, usecase.TabRecipes, dto.EditorSaveRequest{Form: rel})
	require.NoError(t, err)
	lines := out.Items.([]dto.RecipeResponse)
	require.Len(t, lines, 1)
	assert.Equal(t, "Malteada", lines[0].ProductName)
	assert.Equal(t, "Chocolate", lines[0].IngredientName)

	_, err = editor.Save(ctx, usecase.TabRecipes, dto.EditorSaveRequest{Form: rel})
	require.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestEditorDelete_DevuelveTablaCompleta(t *testing.T) {
	editor, _ := newEditor(t)
	ctx := context.Background()
	for _, name := range []string{"Leche", "Fresa"} {
		_, err := editor.Save(ctx, usecase.TabIngredients, dto.EditorSaveRequest{
			Form: form(t, map[string]any{"nombre": name, "precio": "1", "inventario": 5}),
		})
		require.NoError(t, err)
	}
	list, err := editor.List(ctx, usecase.TabIngredients)
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	first := list.Items.([]dto.IngredientResponse)[0].ID

	out, err := editor.Delete(ctx, usecase.TabIngredients, first)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, "Fresa", out.Items.([]dto.IngredientResponse)[0].Name)

	_, err = editor.Delete(ctx, usecase.TabIngredients, first)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
