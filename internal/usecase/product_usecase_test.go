package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/pkg/errors"
	"marketplace/pkg/utils"
)

func TestCreateProductUploadsImages(t *testing.T) {
	productRepo := newFakeProductRepo()
	userRepo := newFakeUserRepo()
	assets := &fakeAssetStore{}
	uc := NewProductUseCase(productRepo, userRepo, assets)

	product, err := uc.CreateProduct(context.Background(), "seller-1", ProductInput{
		Name:        "Widget",
		Description: "A widget",
		Price:       19.99,
		Category:    "tools",
		Stock:       5,
	}, []ImageUpload{
		{File: strings.NewReader("img-a"), ContentType: "image/png"},
		{File: strings.NewReader("img-b"), ContentType: "image/jpeg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "seller-1", product.SellerID)
	require.Len(t, product.Images, 2)
	assert.Len(t, assets.uploaded, 2)
	assert.Equal(t, assets.uploaded[0], product.Images[0].ID)
}

func TestUpdateProductOwnership(t *testing.T) {
	productRepo := newFakeProductRepo()
	uc := NewProductUseCase(productRepo, newFakeUserRepo(), &fakeAssetStore{})

	product := seedProduct(t, productRepo, "seller-1", "Widget", 19.99, 5)

	_, err := uc.UpdateProduct(context.Background(), product.ID, "seller-2", "seller", ProductInput{Name: "Stolen"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	// The owner and an admin may both update.
	updated, err := uc.UpdateProduct(context.Background(), product.ID, "seller-1", "seller", ProductInput{Name: "Widget v2"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Widget v2", updated.Name)

	updated, err = uc.UpdateProduct(context.Background(), product.ID, "admin-1", "admin", ProductInput{Price: 24.99}, nil)
	require.NoError(t, err)
	assert.Equal(t, 24.99, updated.Price)
	assert.Equal(t, "Widget v2", updated.Name)
}

func TestUpdateProductReplacesImages(t *testing.T) {
	productRepo := newFakeProductRepo()
	assets := &fakeAssetStore{}
	uc := NewProductUseCase(productRepo, newFakeUserRepo(), assets)

	product, err := uc.CreateProduct(context.Background(), "seller-1", ProductInput{
		Name: "Widget", Description: "A widget", Price: 19.99, Category: "tools", Stock: 5,
	}, []ImageUpload{{File: strings.NewReader("old"), ContentType: "image/png"}})
	require.NoError(t, err)
	oldImageID := product.Images[0].ID

	updated, err := uc.UpdateProduct(context.Background(), product.ID, "seller-1", "seller", ProductInput{}, []ImageUpload{
		{File: strings.NewReader("new"), ContentType: "image/png"},
	})
	require.NoError(t, err)

	// Old assets are removed; images replace, they do not merge.
	assert.Equal(t, []string{oldImageID}, assets.deleted)
	require.Len(t, updated.Images, 1)
	assert.NotEqual(t, oldImageID, updated.Images[0].ID)
}

func TestDeleteProductCleansUpImages(t *testing.T) {
	productRepo := newFakeProductRepo()
	assets := &fakeAssetStore{}
	uc := NewProductUseCase(productRepo, newFakeUserRepo(), assets)

	product, err := uc.CreateProduct(context.Background(), "seller-1", ProductInput{
		Name: "Widget", Description: "A widget", Price: 19.99, Category: "tools", Stock: 5,
	}, []ImageUpload{{File: strings.NewReader("img"), ContentType: "image/png"}})
	require.NoError(t, err)

	err = uc.DeleteProduct(context.Background(), product.ID, "seller-2", "buyer")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	require.NoError(t, uc.DeleteProduct(context.Background(), product.ID, "seller-1", "seller"))
	assert.Equal(t, []string{product.Images[0].ID}, assets.deleted)

	_, err = uc.GetProduct(context.Background(), product.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestAddReviewOncePerUser(t *testing.T) {
	productRepo := newFakeProductRepo()
	userRepo := newFakeUserRepo()
	uc := NewProductUseCase(productRepo, userRepo, &fakeAssetStore{})

	reviewer := seedUser(t, userRepo, "alice")
	other := seedUser(t, userRepo, "bob")
	product := seedProduct(t, productRepo, "seller-1", "Widget", 19.99, 5)

	require.NoError(t, uc.AddReview(context.Background(), product.ID, reviewer.ID, 4, "solid"))
	require.NoError(t, uc.AddReview(context.Background(), product.ID, other.ID, 5, "great"))

	err := uc.AddReview(context.Background(), product.ID, reviewer.ID, 1, "changed my mind")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))

	stored, err := productRepo.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.NumReviews)
	assert.InDelta(t, 4.5, stored.Rating, 1e-9)
	// Reviews carry the reviewer's name at review time.
	assert.Equal(t, "alice", stored.Reviews[0].Name)
}

func TestListProductsPagination(t *testing.T) {
	productRepo := newFakeProductRepo()
	uc := NewProductUseCase(productRepo, newFakeUserRepo(), &fakeAssetStore{})

	for i := 0; i < utils.CatalogPageSize+2; i++ {
		seedProduct(t, productRepo, "seller-1", "Widget", 10, 1)
	}

	page, err := uc.ListProducts(context.Background(), "", "", 1)
	require.NoError(t, err)
	assert.Len(t, page.Products, utils.CatalogPageSize)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Pages)

	page, err = uc.ListProducts(context.Background(), "", "", 2)
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.Equal(t, 2, page.Page)
}

func TestListProductsKeywordFilter(t *testing.T) {
	productRepo := newFakeProductRepo()
	uc := NewProductUseCase(productRepo, newFakeUserRepo(), &fakeAssetStore{})

	seedProduct(t, productRepo, "seller-1", "Red Widget", 10, 1)
	seedProduct(t, productRepo, "seller-1", "Blue Gadget", 10, 1)

	// Keyword match is a case-insensitive substring on the name.
	page, err := uc.ListProducts(context.Background(), "widg", "", 1)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Red Widget", page.Products[0].Name)
}

func TestGetProductResolvesSeller(t *testing.T) {
	productRepo := newFakeProductRepo()
	userRepo := newFakeUserRepo()
	uc := NewProductUseCase(productRepo, userRepo, &fakeAssetStore{})

	seller := seedUser(t, userRepo, "carol")
	product := seedProduct(t, productRepo, seller.ID, "Widget", 10, 1)

	detail, err := uc.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Seller)
	assert.Equal(t, "carol", detail.Seller.Name)
}
