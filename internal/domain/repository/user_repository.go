package repository

import (
	"context"

	"github.com/tu-usuario/contable-pro/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
