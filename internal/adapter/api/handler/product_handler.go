package handler

import (
	"mime/multipart"

	"github.com/labstack/echo/v4"

	"marketplace/internal/usecase"
	"marketplace/pkg/errors"
	"marketplace/pkg/response"
	"marketplace/pkg/utils"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	result, err := h.productUseCase.ListProducts(
		c.Request().Context(),
		c.QueryParam("keyword"),
		c.QueryParam("category"),
		utils.GetCatalogPage(c),
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.productUseCase.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

type productForm struct {
	Name        string  `form:"name" validate:"required"`
	Description string  `form:"description" validate:"required"`
	Price       float64 `form:"price" validate:"required,gt=0"`
	Category    string  `form:"category" validate:"required"`
	Stock       int     `form:"stock" validate:"gte=0"`
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req productForm
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	images, closers, err := collectImages(c)
	if err != nil {
		return response.Error(c, err)
	}
	defer closeAll(closers)

	product, err := h.productUseCase.CreateProduct(c.Request().Context(), uid, usecase.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
	}, images)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	uid := c.Get("uid").(string)
	role, _ := c.Get("role").(string)

	var req struct {
		Name        string  `form:"name"`
		Description string  `form:"description"`
		Price       float64 `form:"price" validate:"omitempty,gt=0"`
		Category    string  `form:"category"`
		Stock       int     `form:"stock" validate:"gte=0"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	images, closers, err := collectImages(c)
	if err != nil {
		return response.Error(c, err)
	}
	defer closeAll(closers)

	product, err := h.productUseCase.UpdateProduct(c.Request().Context(), c.Param("id"), uid, role, usecase.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
	}, images)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	uid := c.Get("uid").(string)
	role, _ := c.Get("role").(string)

	if err := h.productUseCase.DeleteProduct(c.Request().Context(), c.Param("id"), uid, role); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Product deleted",
	})
}

func (h *ProductHandler) CreateReview(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req struct {
		Rating  int    `json:"rating" validate:"required,min=1,max=5"`
		Comment string `json:"comment" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.productUseCase.AddReview(c.Request().Context(), c.Param("id"), uid, req.Rating, req.Comment); err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{
		"message": "Review added",
	})
}

func (h *ProductHandler) TopProducts(c echo.Context) error {
	products, err := h.productUseCase.TopProducts(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, products)
}

func (h *ProductHandler) SellerProducts(c echo.Context) error {
	products, err := h.productUseCase.SellerProducts(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, products)
}

// collectImages opens every "images" part of a multipart request. Callers must
// close the returned files once the upload completes.
func collectImages(c echo.Context) ([]usecase.ImageUpload, []multipart.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// No multipart body at all is fine; images are optional on update.
		return nil, nil, nil
	}

	headers := form.File["images"]
	images := make([]usecase.ImageUpload, 0, len(headers))
	closers := make([]multipart.File, 0, len(headers))

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			closeAll(closers)
			return nil, nil, errors.BadRequest("Failed to read image file", err)
		}
		closers = append(closers, file)
		images = append(images, usecase.ImageUpload{
			File:        file,
			ContentType: header.Header.Get("Content-Type"),
		})
	}

	return images, closers, nil
}

func closeAll(files []multipart.File) {
	for _, f := range files {
		f.Close()
	}
}
