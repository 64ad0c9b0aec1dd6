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

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo implementación de RecipeRepository sobre PostgreSQL (tabla producto_ingrediente).
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

func mapRelationError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isForeignKeyViolation(err):
		return domain.ErrInvalidInput
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (r *RecipeRepo) Create(ctx context.Context, rel *entity.ProductIngredient) error {
	query := `
		INSERT INTO producto_ingrediente (producto_id, ingrediente_id)
		VALUES ($1, $2)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, rel.ProductID, rel.IngredientID).Scan(&rel.ID); err != nil {
		return mapRelationError("insert producto_ingrediente", err)
	}
	return nil
}

func (r *RecipeRepo) GetByID(ctx context.Context, id int64) (*entity.ProductIngredient, error) {
	var rel entity.ProductIngredient
	err := r.q.QueryRow(ctx, `SELECT id, producto_id, ingrediente_id FROM producto_ingrediente WHERE id = $1`, id).
		Scan(&rel.ID, &rel.ProductID, &rel.IngredientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto_ingrediente: %w", err)
	}
	return &rel, nil
}

func (r *RecipeRepo) Update(ctx context.Context, rel *entity.ProductIngredient) error {
	tag, err := r.q.Exec(ctx, `UPDATE producto_ingrediente SET producto_id = $2, ingrediente_id = $3 WHERE id = $1`,
		rel.ID, rel.ProductID, rel.IngredientID)
	if err != nil {
		return mapRelationError("update producto_ingrediente", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RecipeRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM producto_ingrediente WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete producto_ingrediente: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List relaciones con nombres embebidos, por id.
func (r *RecipeRepo) List(ctx context.Context) ([]entity.RecipeLine, error) {
	query := `
		SELECT pi.id, pi.producto_id, p.nombre, pi.ingrediente_id, i.nombre
		FROM producto_ingrediente pi
		JOIN productos p ON p.id = pi.producto_id
		JOIN ingredientes i ON i.id = pi.ingrediente_id
		ORDER BY pi.id ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list producto_ingrediente: %w", err)
	}
	defer rows.Close()
	var list []entity.RecipeLine
	for rows.Next() {
		var l entity.RecipeLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.ProductName, &l.IngredientID, &l.IngredientName); err != nil {
			return nil, fmt.Errorf("scan producto_ingrediente: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *RecipeRepo) IngredientsByProduct(ctx context.Context, productID int64) ([]entity.IngredientStock, error) {
	query := `
		SELECT i.id, i.nombre, i.inventario
		FROM ingredientes i
		WHERE i.id IN (SELECT ingrediente_id FROM producto_ingrediente WHERE producto_id = $1)
		ORDER BY i.id ASC`
	return r.stockList(ctx, query, productID)
}

// IngredientsByProductForUpdate bloquea las filas de ingredientes en orden de id; dos ventas
// concurrentes sobre ingredientes compartidos se serializan sin deadlock.
func (r *RecipeRepo) IngredientsByProductForUpdate(ctx context.Context, productID int64) ([]entity.IngredientStock, error) {
	query := `
		SELECT i.id, i.nombre, i.inventario
		FROM ingredientes i
		WHERE i.id IN (SELECT ingrediente_id FROM producto_ingrediente WHERE producto_id = $1)
		ORDER BY i.id ASC
		FOR UPDATE OF i`
	return r.stockList(ctx, query, productID)
}

func (r *RecipeRepo) stockList(ctx context.Context, query string, productID int64) ([]entity.IngredientStock, error) {
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("ingredientes por producto: %w", err)
	}
	defer rows.Close()
	var list []entity.IngredientStock
	for rows.Next() {
		var s entity.IngredientStock
		if err := rows.Scan(&s.IngredientID, &s.Name, &s.Inventory); err != nil {
			return nil, fmt.Errorf("scan ingrediente: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *RecipeRepo) IngredientsByProducts(ctx context.Context, productIDs []int64) (map[int64][]entity.IngredientStock, error) {
	query := `
		SELECT DISTINCT pi.producto_id, i.id, i.nombre, i.inventario
		FROM producto_ingrediente pi
		JOIN ingredientes i ON i.id = pi.ingrediente_id
		WHERE pi.producto_id = ANY($1)
		ORDER BY pi.producto_id, i.id`
	rows, err := r.q.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("ingredientes por productos: %w", err)
	}
	defer rows.Close()
	out := make(map[int64][]entity.IngredientStock, len(productIDs))
	for rows.Next() {
		var productID int64
		var s entity.IngredientStock
		if err := rows.Scan(&productID, &s.IngredientID, &s.Name, &s.Inventory); err != nil {
			return nil, fmt.Errorf("scan ingrediente: %w", err)
		}
		out[productID] = append(out[productID], s)
	}
	return out, rows.Err()
}
