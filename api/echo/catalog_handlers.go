package echo

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/thriftwear/storefront/domain"
)

// ListProductsHandler lists the catalog, optionally filtered by category,
// search query or price range.
func (a *StorefrontAPI) ListProductsHandler(c echo.Context) error {
	ctx := c.Request().Context()

	if category := c.QueryParam("category"); category != "" {
		products, err := a.catalog.ListByCategory(ctx, category)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, products)
	}

	if query := c.QueryParam("q"); query != "" {
		products, err := a.catalog.Search(ctx, query)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, products)
	}

	minStr, maxStr := c.QueryParam("min_price"), c.QueryParam("max_price")
	if minStr != "" || maxStr != "" {
		min, _ := strconv.ParseInt(minStr, 10, 64)
		max, err := strconv.ParseInt(maxStr, 10, 64)
		if err != nil || max == 0 {
			max = 1<<63 - 1
		}
		products, err := a.catalog.FilterByPriceRange(ctx, min, max)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, products)
	}

	products, err := a.catalog.ListProducts(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// GetProductHandler returns one listing.
func (a *StorefrontAPI) GetProductHandler(c echo.Context) error {
	product, err := a.catalog.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// AddProductHandler creates a listing.
func (a *StorefrontAPI) AddProductHandler(c echo.Context) error {
	var product domain.Product
	if err := c.Bind(&product); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	id, err := a.catalog.AddProduct(c.Request().Context(), &product)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"id": id})
}

// UpdateProductHandler applies a partial update to a listing.
func (a *StorefrontAPI) UpdateProductHandler(c echo.Context) error {
	var fields map[string]any
	if err := c.Bind(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := a.catalog.UpdateProduct(c.Request().Context(), c.Param("id"), fields); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteProductHandler removes a listing.
func (a *StorefrontAPI) DeleteProductHandler(c echo.Context) error {
	if err := a.catalog.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
