package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/Heladeria-api/internal/domain"
	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
)

// UserRepository implementa repository.UserRepository en memoria.
type UserRepository struct {
	s *Store
}

// NewUserRepository construye el repositorio de usuarios.
func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	return r.s.write(func(d *state) error {
		for _, existing := range d.users {
			if strings.EqualFold(existing.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		u.ID = r.s.nextID("users")
		if u.CreatedAt.IsZero() {
			u.CreatedAt = r.s.now()
		}
		d.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	r.s.read(func(d *state) {
		if u, ok := d.users[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	r.s.read(func(d *state) {
		for _, id := range sortedKeys(d.users) {
			if u := d.users[id]; strings.EqualFold(u.Email, email) {
				out = &u
				return
			}
		}
	})
	return out, nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	return r.s.write(func(d *state) error {
		current, ok := d.users[u.ID]
		if !ok {
			return domain.ErrUserNotFound
		}
		for id, existing := range d.users {
			if id != u.ID && strings.EqualFold(existing.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		u.CreatedAt = current.CreatedAt
		d.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepository) List(_ context.Context) ([]*entity.User, error) {
	var out []*entity.User
	r.s.read(func(d *state) {
		out = make([]*entity.User, 0, len(d.users))
		for _, id := range sortedKeys(d.users) {
			u := d.users[id]
			out = append(out, &u)
		}
	})
	return out, nil
}

// Delete elimina el usuario; las ventas que lo referencian quedan sin comprador (ON DELETE SET NULL).
func (r *UserRepository) Delete(_ context.Context, id int64) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.users[id]; !ok {
			return domain.ErrUserNotFound
		}
		delete(d.users, id)
		for sid, sale := range d.sales {
			if sale.UserID != nil && *sale.UserID == id {
				sale.UserID = nil
				d.sales[sid] = sale
			}
		}
		return nil
	})
}
