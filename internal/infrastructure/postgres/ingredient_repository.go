package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
)

var _ repository.IngredientRepository = (*IngredientRepo)(nil)

// IngredientRepo implementación de IngredientRepository sobre PostgreSQL (tabla ingredientes).
type IngredientRepo struct {
	q Querier
}

// NewIngredientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIngredientRepository(q Querier) *IngredientRepo {
	return &IngredientRepo{q: q}
}

const ingredientColumns = `id, nombre, precio, calorias, inventario, COALESCE(tipo, ''), COALESCE(sabor, ''), created_at`

func scanIngredient(row pgx.Row) (*entity.Ingredient, error) {
	var i entity.Ingredient
	if err := row.Scan(&i.ID, &i.Name, &i.Cost, &i.Calories, &i.Inventory, &i.Type, &i.Flavor, &i.CreatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *IngredientRepo) Create(ctx context.Context, i *entity.Ingredient) error {
	query := `
		INSERT INTO ingredientes (nombre, precio, calorias, inventario, tipo, sabor)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	if err := r.q.QueryRow(ctx, query, i.Name, i.Cost, i.Calories, i.Inventory, i.Type, i.Flavor).Scan(&i.ID, &i.CreatedAt); err != nil {
		return fmt.Errorf("insert ingrediente: %w", err)
	}
	return nil
}

func (r *IngredientRepo) GetByID(ctx context.Context, id int64) (*entity.Ingredient, error) {
	return r.get(ctx, `SELECT `+ingredientColumns+` FROM ingredientes WHERE id = $1`, id)
}

// GetForUpdate obtiene el ingrediente y bloquea la fila (SELECT FOR UPDATE).
func (r *IngredientRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Ingredient, error) {
	return r.get(ctx, `SELECT `+ingredientColumns+` FROM ingredientes WHERE id = $1 FOR UPDATE`, id)
}

func (r *IngredientRepo) get(ctx context.Context, query string, id int64) (*entity.Ingredient, error) {
	i, err := scanIngredient(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ingrediente: %w", err)
	}
	return i, nil
}

func (r *IngredientRepo) Update(ctx context.Context, i *entity.Ingredient) error {
	query := `
		UPDATE ingredientes SET nombre = $2, precio = $3, calorias = $4, inventario = $5, tipo = $6, sabor = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, i.ID, i.Name, i.Cost, i.Calories, i.Inventory, i.Type, i.Flavor)
	if err != nil {
		return fmt.Errorf("update ingrediente: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetInventory fija el inventario. El CHECK (inventario >= 0) de la tabla es la última barrera.
func (r *IngredientRepo) SetInventory(ctx context.Context, id int64, inventory int) error {
	tag, err := r.q.Exec(ctx, `UPDATE ingredientes SET inventario = $2 WHERE id = $1`, id, inventory)
	if err != nil {
		return fmt.Errorf("set inventario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *IngredientRepo) List(ctx context.Context) ([]*entity.Ingredient, error) {
	rows, err := r.q.Query(ctx, `SELECT `+ingredientColumns+` FROM ingredientes ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list ingredientes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Ingredient
	for rows.Next() {
		i, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingrediente: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

func (r *IngredientRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM ingredientes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete ingrediente: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
