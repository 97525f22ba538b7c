package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// CatalogPageSize is the fixed page size for public catalog listings.
const CatalogPageSize = 12

// GetCatalogPage extracts the 1-based page number for catalog browsing.
func GetCatalogPage(c echo.Context) int {
	page, _ := strconv.Atoi(c.QueryParam("pageNumber"))
	if page <= 0 {
		page = 1
	}
	return page
}
