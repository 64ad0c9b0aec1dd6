// Package memory implementa los repositorios sobre un almacén en memoria.
// Se usa con DB_DRIVER=memory (desarrollo sin PostgreSQL) y como doble de pruebas.
// Las transacciones se serializan y se revierten restaurando una copia del estado; las
// escrituras fuera de transacción esperan a que termine la transacción en curso, así
// la restauración nunca pisa cambios ajenos.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
)

// state tablas del almacén. Los mapas guardan copias, nunca punteros entregados al llamador.
type state struct {
	users       map[int64]entity.User
	products    map[int64]entity.Product
	ingredients map[int64]entity.Ingredient
	recipes     map[int64]entity.ProductIngredient
	sales       map[int64]entity.Sale
	movements   []entity.InventoryMovement
	seq         map[string]int64
}

func newState() state {
	return state{
		users:       map[int64]entity.User{},
		products:    map[int64]entity.Product{},
		ingredients: map[int64]entity.Ingredient{},
		recipes:     map[int64]entity.ProductIngredient{},
		sales:       map[int64]entity.Sale{},
		seq:         map[string]int64{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.ingredients {
		c.ingredients[k] = v
	}
	for k, v := range s.recipes {
		c.recipes[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	c.movements = append([]entity.InventoryMovement(nil), s.movements...)
	for k, v := range s.seq {
		c.seq[k] = v
	}
	return c
}

// db estado compartido entre el almacén y sus vistas transaccionales.
type db struct {
	mu   sync.RWMutex
	txMu sync.Mutex // una transacción a la vez; también lo toman las escrituras sueltas
	data state
}

// Store almacén compartido por todos los repositorios en memoria. inTx marca la vista
// que usa TxRunner: sus escrituras ya corren con txMu tomado.
type Store struct {
	db   *db
	inTx bool
	now  func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{db: &db{data: newState()}, now: func() time.Time { return time.Now().UTC() }}
}

// txView vista del mismo almacén para los repositorios de una transacción.
func (s *Store) txView() *Store {
	return &Store{db: s.db, inTx: true, now: s.now}
}

// nextID siguiente id de la tabla (equivalente a BIGSERIAL). Requiere db.mu tomado.
func (s *Store) nextID(table string) int64 {
	s.db.data.seq[table]++
	return s.db.data.seq[table]
}

func (s *Store) read(fn func(d *state)) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	fn(&s.db.data)
}

func (s *Store) write(fn func(d *state) error) error {
	if !s.inTx {
		s.db.txMu.Lock()
		defer s.db.txMu.Unlock()
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return fn(&s.db.data)
}

func (s *Store) snapshot() state {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return s.db.data.clone()
}

func (s *Store) restore(st state) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.data = st
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// recipeIngredients ingredientes distintos de la receta de un producto, en orden de id.
func (d *state) recipeIngredients(productID int64) []entity.IngredientStock {
	seen := map[int64]struct{}{}
	var ids []int64
	for _, id := range sortedKeys(d.recipes) {
		rel := d.recipes[id]
		if rel.ProductID != productID {
			continue
		}
		if _, ok := seen[rel.IngredientID]; ok {
			continue
		}
		if _, ok := d.ingredients[rel.IngredientID]; !ok {
			continue
		}
		seen[rel.IngredientID] = struct{}{}
		ids = append(ids, rel.IngredientID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]entity.IngredientStock, 0, len(ids))
	for _, id := range ids {
		ing := d.ingredients[id]
		out = append(out, entity.IngredientStock{IngredientID: ing.ID, Name: ing.Name, Inventory: ing.Inventory})
	}
	return out
}
