package usecase

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/repository"
	"marketplace/internal/domain/service"
	"marketplace/pkg/errors"
	"marketplace/pkg/logger"
	"marketplace/pkg/utils"
)

type ProductUseCase struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	assets      service.AssetStore
}

func NewProductUseCase(productRepo repository.ProductRepository, userRepo repository.UserRepository, assets service.AssetStore) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		userRepo:    userRepo,
		assets:      assets,
	}
}

// SellerInfo is the projection of the owning seller attached to product
// reads.
type SellerInfo struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Avatar entity.Avatar `json:"avatar,omitempty"`
	Bio    string        `json:"bio,omitempty"`
}

type ProductDetail struct {
	*entity.Product
	Seller *SellerInfo `json:"seller,omitempty"`
}

type ProductPage struct {
	Products []*ProductDetail `json:"products"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
}

type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Stock       int
}

// ImageUpload is one multipart image forwarded to the asset store.
type ImageUpload struct {
	File        io.Reader
	ContentType string
}

func (uc *ProductUseCase) ListProducts(ctx context.Context, keyword, category string, page int) (*ProductPage, error) {
	if page <= 0 {
		page = 1
	}

	offset := (page - 1) * utils.CatalogPageSize
	products, total, err := uc.productRepo.List(ctx, keyword, category, utils.CatalogPageSize, offset)
	if err != nil {
		return nil, err
	}

	pages := int(total) / utils.CatalogPageSize
	if int(total)%utils.CatalogPageSize > 0 {
		pages++
	}

	details, err := uc.resolveSellers(ctx, products)
	if err != nil {
		return nil, err
	}

	return &ProductPage{Products: details, Page: page, Pages: pages}, nil
}

func (uc *ProductUseCase) GetProduct(ctx context.Context, id string) (*ProductDetail, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details, err := uc.resolveSellers(ctx, []*entity.Product{product})
	if err != nil {
		return nil, err
	}

	return details[0], nil
}

func (uc *ProductUseCase) CreateProduct(ctx context.Context, sellerID string, input ProductInput, images []ImageUpload) (*entity.Product, error) {
	productImages, err := uc.uploadImages(ctx, images)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		SellerID:    sellerID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Stock:       input.Stock,
		Images:      productImages,
		Reviews:     []entity.Review{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct applies the provided fields. When new images are supplied the
// previously stored assets are deleted first; images replace, they do not
// merge.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, id, userID, role string, input ProductInput, images []ImageUpload) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if product.SellerID != userID && role != "admin" {
		return nil, errors.Forbidden("You don't have permission to update this product", nil)
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Price > 0 {
		product.Price = input.Price
	}
	if input.Category != "" {
		product.Category = input.Category
	}
	if input.Stock > 0 {
		product.Stock = input.Stock
	}

	if len(images) > 0 {
		uc.deleteImages(ctx, product.Images)

		productImages, err := uc.uploadImages(ctx, images)
		if err != nil {
			return nil, err
		}
		product.Images = productImages
	}

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (uc *ProductUseCase) DeleteProduct(ctx context.Context, id, userID, role string) error {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if product.SellerID != userID && role != "admin" {
		return errors.Forbidden("You don't have permission to delete this product", nil)
	}

	uc.deleteImages(ctx, product.Images)

	return uc.productRepo.Delete(ctx, id)
}

func (uc *ProductUseCase) AddReview(ctx context.Context, productID, userID string, rating int, comment string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	review := entity.Review{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Name:      user.Name,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}

	return uc.productRepo.AddReview(ctx, productID, review)
}

func (uc *ProductUseCase) TopProducts(ctx context.Context) ([]*ProductDetail, error) {
	products, err := uc.productRepo.TopRated(ctx, 3)
	if err != nil {
		return nil, err
	}

	return uc.resolveSellers(ctx, products)
}

func (uc *ProductUseCase) SellerProducts(ctx context.Context, sellerID string) ([]*ProductDetail, error) {
	products, err := uc.productRepo.ListBySellerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	return uc.resolveSellers(ctx, products)
}

func (uc *ProductUseCase) uploadImages(ctx context.Context, images []ImageUpload) ([]entity.ProductImage, error) {
	productImages := make([]entity.ProductImage, 0, len(images))
	for _, img := range images {
		asset, err := uc.assets.Upload(ctx, img.File, img.ContentType, "products")
		if err != nil {
			return nil, err
		}
		productImages = append(productImages, entity.ProductImage{ID: asset.ID, URL: asset.URL})
	}
	return productImages, nil
}

// deleteImages is cleanup; failures are logged, never propagated.
func (uc *ProductUseCase) deleteImages(ctx context.Context, images []entity.ProductImage) {
	for _, img := range images {
		if err := uc.assets.Delete(ctx, img.ID); err != nil {
			logger.Warn("Failed to delete product image %s: %v", img.ID, err)
		}
	}
}

func (uc *ProductUseCase) resolveSellers(ctx context.Context, products []*entity.Product) ([]*ProductDetail, error) {
	sellers := make(map[string]*SellerInfo)
	details := make([]*ProductDetail, len(products))

	for i, product := range products {
		info, ok := sellers[product.SellerID]
		if !ok {
			seller, err := uc.userRepo.GetByID(ctx, product.SellerID)
			if err == nil {
				info = &SellerInfo{
					ID:     seller.ID,
					Name:   seller.Name,
					Avatar: seller.Avatar,
					Bio:    seller.Bio,
				}
			}
			sellers[product.SellerID] = info
		}
		details[i] = &ProductDetail{Product: product, Seller: info}
	}

	return details, nil
}
