package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/contable-pro/internal/domain/entity"
	"github.com/tu-usuario/contable-pro/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// GetByID obtiene un usuario por ID. Devuelve nil si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var u entity.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, nombre, activo, fecha_creacion
		FROM usuarios WHERE id = $1`, id).Scan(
		&u.ID, &u.Email, &u.Name, &u.Active, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError(fmt.Errorf("get usuario: %w", err))
	}
	return &u, nil
}

// GetByEmail obtiene un usuario por email. Devuelve nil si no existe.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, nombre, activo, fecha_creacion
		FROM usuarios WHERE email = $1`, email).Scan(
		&u.ID, &u.Email, &u.Name, &u.Active, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError(fmt.Errorf("get usuario por email: %w", err))
	}
	return &u, nil
}
