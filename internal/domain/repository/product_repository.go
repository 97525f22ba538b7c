package repository

import (
	"context"

	"marketplace/internal/domain/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// List returns a page of products. A non-empty keyword matches the
	// product name case-insensitively as a substring; a non-empty category
	// matches exactly.
	List(ctx context.Context, keyword, category string, limit, offset int) ([]*entity.Product, int64, error)
	ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Product, error)
	TopRated(ctx context.Context, limit int) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error

	// DecrementStock atomically subtracts qty from the product's stock and
	// fails with InsufficientStock if the result would be negative.
	DecrementStock(ctx context.Context, id string, qty int) error
	// IncrementStock restores stock, used to compensate a partially applied
	// order.
	IncrementStock(ctx context.Context, id string, qty int) error

	// AddReview appends a review and recomputes the derived rating and
	// review count in the same atomic update. Fails with Conflict when the
	// reviewer already reviewed this product.
	AddReview(ctx context.Context, productID string, review entity.Review) error
}
