package memory

import (
	"context"

	"github.com/jhoicas/Heladeria-api/internal/application/sales"
)

var _ sales.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las transacciones del motor de ventas y revierte el estado
// completo si fn falla. Mientras corre, las escrituras fuera de la transacción esperan.
type TxRunner struct {
	s     *Store
	repos sales.TxRepos
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s, repos: NewRepos(s.txView())}
}

// RunSales ejecuta fn; si retorna error (o ctx está cancelado) el almacén vuelve al estado previo.
func (r *TxRunner) RunSales(ctx context.Context, fn func(repos sales.TxRepos) error) error {
	r.s.db.txMu.Lock()
	defer r.s.db.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	before := r.s.snapshot()
	if err := fn(r.repos); err != nil {
		r.s.restore(before)
		return err
	}
	if err := ctx.Err(); err != nil {
		r.s.restore(before)
		return err
	}
	return nil
}

// NewRepos repositorios en memoria sobre el mismo almacén.
func NewRepos(s *Store) sales.TxRepos {
	return sales.TxRepos{
		Products:    NewProductRepository(s),
		Ingredients: NewIngredientRepository(s),
		Recipes:     NewRecipeRepository(s),
		Sales:       NewSaleRepository(s),
		Users:       NewUserRepository(s),
		Movements:   NewInventoryMovementRepository(s),
	}
}
