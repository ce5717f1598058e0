package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

// UserRepository persistencia de usuarios.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id, hash string, forceChange bool) error
	UpdateProfile(ctx context.Context, u *entity.User) error
	Count(ctx context.Context) (int, error)
}
