package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Heladeria-api/internal/application/dto"
	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/pkg/validation"
)

// Pestañas del editor.
const (
	TabProducts    = "productos"
	TabIngredients = "ingredientes"
	TabRecipes     = "relaciones"
)

// editorTab esquema y operaciones de una pestaña del editor.
type editorTab struct {
	// newForm devuelve un puntero al DTO del formulario de la pestaña.
	newForm func() any
	create  func(ctx context.Context, form any) error
	update  func(ctx context.Context, id int64, form any) error
	delete  func(ctx context.Context, id int64) error
	list    func(ctx context.Context) (any, int, error)
}

// EditorUseCase editor genérico por pestañas sobre productos, ingredientes y relaciones.
// Cada mutación devuelve la tabla completa de la pestaña vuelta a leer.
type EditorUseCase struct {
	tabs      map[string]editorTab
	validator *validation.Validator
}

// NewEditorUseCase registra las tres pestañas.
func NewEditorUseCase(products *ProductUseCase, ingredients *IngredientUseCase, recipes *RecipeUseCase, v *validation.Validator) *EditorUseCase {
	if v == nil {
		v = validation.New()
	}
	return &EditorUseCase{
		validator: v,
		tabs: map[string]editorTab{
			TabProducts: {
				newForm: func() any { return &dto.ProductRequest{} },
				create: func(ctx context.Context, form any) error {
					_, err := products.Create(ctx, *form.(*dto.ProductRequest))
					return err
				},
				update: func(ctx context.Context, id int64, form any) error {
					_, err := products.Update(ctx, id, *form.(*dto.ProductRequest))
					return err
				},
				delete: products.Delete,
				list: func(ctx context.Context) (any, int, error) {
					items, err := products.List(ctx)
					return items, len(items), err
				},
			},
			TabIngredients: {
				newForm: func() any { return &dto.IngredientRequest{} },
				create: func(ctx context.Context, form any) error {
					_, err := ingredients.Create(ctx, *form.(*dto.IngredientRequest))
					return err
				},
				update: func(ctx context.Context, id int64, form any) error {
					_, err := ingredients.Update(ctx, id, *form.(*dto.IngredientRequest))
					return err
				},
				delete: ingredients.Delete,
				list: func(ctx context.Context) (any, int, error) {
					items, err := ingredients.List(ctx)
					return items, len(items), err
				},
			},
			TabRecipes: {
				newForm: func() any { return &dto.RecipeRequest{} },
				create: func(ctx context.Context, form any) error {
					return recipes.Create(ctx, *form.(*dto.RecipeRequest))
				},
				update: func(ctx context.Context, id int64, form any) error {
					return recipes.Update(ctx, id, *form.(*dto.RecipeRequest))
				},
				delete: recipes.Delete,
				list: func(ctx context.Context) (any, int, error) {
					items, err := recipes.List(ctx)
					return items, len(items), err
				},
			},
		},
	}
}

func (uc *EditorUseCase) tab(name string) (editorTab, error) {
	t, ok := uc.tabs[name]
	if !ok {
		return editorTab{}, domain.ErrInvalidTab
	}
	return t, nil
}

// List contenido completo de la pestaña.
func (uc *EditorUseCase) List(ctx context.Context, tabName string) (*dto.EditorTableResponse, error) {
	t, err := uc.tab(tabName)
	if err != nil {
		return nil, err
	}
	return uc.refetch(ctx, tabName, t)
}

// Save inserta si el envío no trae id y actualiza si lo trae. El formulario se valida con
// el esquema de la pestaña.
func (uc *EditorUseCase) Save(ctx context.Context, tabName string, in dto.EditorSaveRequest) (*dto.EditorTableResponse, error) {
	t, err := uc.tab(tabName)
	if err != nil {
		return nil, err
	}
	if len(in.Form) == 0 {
		return nil, fmt.Errorf("%w: form es requerido", domain.ErrInvalidInput)
	}
	form := t.newForm()
	if err := json.Unmarshal(in.Form, form); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := uc.validator.Struct(form); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if in.ID == nil {
		err = t.create(ctx, form)
	} else {
		if *in.ID <= 0 {
			return nil, domain.ErrInvalidInput
		}
		err = t.update(ctx, *in.ID, form)
	}
	if err != nil {
		return nil, err
	}
	return uc.refetch(ctx, tabName, t)
}

// Delete elimina la fila y devuelve la tabla completa.
func (uc *EditorUseCase) Delete(ctx context.Context, tabName string, id int64) (*dto.EditorTableResponse, error) {
	t, err := uc.tab(tabName)
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := t.delete(ctx, id); err != nil {
		return nil, err
	}
	return uc.refetch(ctx, tabName, t)
}

func (uc *EditorUseCase) refetch(ctx context.Context, name string, t editorTab) (*dto.EditorTableResponse, error) {
	items, total, err := t.list(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.EditorTableResponse{Tab: name, Items: items, Total: total}, nil
}

// Tabs nombres de pestaña válidos.
func (uc *EditorUseCase) Tabs() []string {
	return []string{TabProducts, TabIngredients, TabRecipes}
}
