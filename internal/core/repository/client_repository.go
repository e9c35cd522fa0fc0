package repository

import (
	"context"

	"github.com/martijn/clientcrud/internal/core/domain"
)

type ClientRepository interface {
	FindAll(ctx context.Context) ([]*domain.Client, error)
	FindByID(ctx context.Context, id int64) (domain.Optional[*domain.Client], error)
	FindByEmail(ctx context.Context, email string) (domain.Optional[*domain.Client], error)
	// Save inserts a client with a zero ID and updates one with an ID set.
	// The returned client carries the persisted ID.
	Save(ctx context.Context, client *domain.Client) (*domain.Client, error)
	DeleteByID(ctx context.Context, id int64) error
}
