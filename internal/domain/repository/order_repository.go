package repository

import (
	"context"

	"marketplace/internal/domain/entity"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByUserID(ctx context.Context, userID string) ([]*entity.Order, error)
	ListAll(ctx context.Context) ([]*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	// Delete removes an order. Only used to back out an order whose stock
	// decrements could not be fully applied; orders are never deleted in
	// normal flow.
	Delete(ctx context.Context, id string) error
}
