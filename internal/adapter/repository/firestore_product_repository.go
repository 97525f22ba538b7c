package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/repository"
	"marketplace/pkg/errors"
)

type firestoreProductRepository struct {
	client *firestore.Client
}

func NewFirestoreProductRepository(client *firestore.Client) repository.ProductRepository {
	return &firestoreProductRepository{
		client: client,
	}
}

func (r *firestoreProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		doc := r.client.Collection("products").NewDoc()
		product.ID = doc.ID
	}

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := r.client.Collection("products").Doc(product.ID).Set(ctx, product)
	if err != nil {
		return errors.Internal("Failed to create product", err)
	}

	return nil
}

func (r *firestoreProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	doc, err := r.client.Collection("products").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Product", err)
		}
		return nil, errors.Internal("Failed to get product", err)
	}

	var product entity.Product
	if err := doc.DataTo(&product); err != nil {
		return nil, errors.Internal("Failed to parse product data", err)
	}

	return &product, nil
}

func (r *firestoreProductRepository) List(ctx context.Context, keyword, category string, limit, offset int) ([]*entity.Product, int64, error) {
	query := r.client.Collection("products").Query
	if category != "" {
		query = query.Where("category", "==", category)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	// Firestore has no substring matching, so keyword filtering happens in
	// memory over the category-scoped result set.
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list products", err)
	}

	keyword = strings.ToLower(keyword)

	var matched []*entity.Product
	for _, doc := range docs {
		var product entity.Product
		if err := doc.DataTo(&product); err != nil {
			return nil, 0, errors.Internal("Failed to parse product data", err)
		}

		if keyword != "" && !strings.Contains(strings.ToLower(product.Name), keyword) {
			continue
		}
		matched = append(matched, &product)
	}

	total := int64(len(matched))

	start := offset
	end := offset + limit
	if limit <= 0 {
		end = len(matched)
	}
	if start >= len(matched) {
		return []*entity.Product{}, total, nil
	}
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

func (r *firestoreProductRepository) ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Product, error) {
	iter := r.client.Collection("products").
		Where("sellerId", "==", sellerID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)

	var products []*entity.Product
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate seller products", err)
		}

		var product entity.Product
		if err := doc.DataTo(&product); err != nil {
			return nil, errors.Internal("Failed to parse product data", err)
		}
		products = append(products, &product)
	}

	return products, nil
}

func (r *firestoreProductRepository) TopRated(ctx context.Context, limit int) ([]*entity.Product, error) {
	iter := r.client.Collection("products").
		OrderBy("rating", firestore.Desc).
		Limit(limit).
		Documents(ctx)

	var products []*entity.Product
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate top products", err)
		}

		var product entity.Product
		if err := doc.DataTo(&product); err != nil {
			return nil, errors.Internal("Failed to parse product data", err)
		}
		products = append(products, &product)
	}

	return products, nil
}

func (r *firestoreProductRepository) Update(ctx context.Context, product *entity.Product) error {
	product.UpdatedAt = time.Now()

	_, err := r.client.Collection("products").Doc(product.ID).Set(ctx, product)
	if err != nil {
		return errors.Internal("Failed to update product", err)
	}

	return nil
}

func (r *firestoreProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("products").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete product", err)
	}

	return nil
}

// DecrementStock runs as a transaction so two concurrent orders cannot both
// pass the stock check against the same units.
func (r *firestoreProductRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	ref := r.client.Collection("products").Doc(id)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Product", err)
			}
			return errors.Internal("Failed to get product", err)
		}

		var product entity.Product
		if err := doc.DataTo(&product); err != nil {
			return errors.Internal("Failed to parse product data", err)
		}

		if product.Stock < qty {
			return errors.InsufficientStock(product.Name)
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "stock", Value: product.Stock - qty},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
}

func (r *firestoreProductRepository) IncrementStock(ctx context.Context, id string, qty int) error {
	_, err := r.client.Collection("products").Doc(id).Update(ctx, []firestore.Update{
		{Path: "stock", Value: firestore.Increment(qty)},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return errors.Internal("Failed to restore product stock", err)
	}

	return nil
}

// AddReview appends the review and recomputes the derived rating inside one
// transaction so the mean cannot drift from the review list.
func (r *firestoreProductRepository) AddReview(ctx context.Context, productID string, review entity.Review) error {
	ref := r.client.Collection("products").Doc(productID)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Product", err)
			}
			return errors.Internal("Failed to get product", err)
		}

		var product entity.Product
		if err := doc.DataTo(&product); err != nil {
			return errors.Internal("Failed to parse product data", err)
		}

		if product.ReviewedBy(review.UserID) {
			return errors.Conflict("Product already reviewed")
		}

		product.ApplyReview(review)

		return tx.Update(ref, []firestore.Update{
			{Path: "reviews", Value: product.Reviews},
			{Path: "numReviews", Value: product.NumReviews},
			{Path: "rating", Value: product.Rating},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
}
