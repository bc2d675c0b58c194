package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thriftwear/storefront/domain"
	"github.com/thriftwear/storefront/services"
)

// GetCartHandler returns the current user's cart with totals.
func (a *StorefrontAPI) GetCartHandler(c echo.Context) error {
	cart, err := a.carts.LoadCart(c.Request().Context(), currentUser(c).UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"cart":        cart,
		"total_items": cart.TotalItems(),
		"total_price": cart.TotalPrice(),
	})
}

type addCartItemRequest struct {
	ProductID string `json:"product_id"`
}

// AddCartItemHandler puts a product in the cart.
func (a *StorefrontAPI) AddCartItemHandler(c echo.Context) error {
	var req addCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	product, err := a.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
		}
		return err
	}

	cart, err := a.carts.AddItem(ctx, currentUser(c).UID, product)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItemHandler sets a cart line's quantity.
func (a *StorefrontAPI) UpdateCartItemHandler(c echo.Context) error {
	var req updateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	cart, err := a.carts.UpdateQuantity(c.Request().Context(), currentUser(c).UID, c.Param("id"), req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// RemoveCartItemHandler drops a product from the cart.
func (a *StorefrontAPI) RemoveCartItemHandler(c echo.Context) error {
	cart, err := a.carts.RemoveItem(c.Request().Context(), currentUser(c).UID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// ClearCartHandler empties the cart.
func (a *StorefrontAPI) ClearCartHandler(c echo.Context) error {
	if err := a.carts.ClearCart(c.Request().Context(), currentUser(c).UID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListWishlistHandler returns the wishlist resolved to products.
func (a *StorefrontAPI) ListWishlistHandler(c echo.Context) error {
	items, err := a.wishlist.ListProducts(c.Request().Context(), currentUser(c).UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// ToggleWishlistHandler flips a product's wishlist membership.
func (a *StorefrontAPI) ToggleWishlistHandler(c echo.Context) error {
	added, err := a.wishlist.Toggle(c.Request().Context(), currentUser(c).UID, c.Param("productId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"in_wishlist": added})
}

// ClearWishlistHandler empties the wishlist.
func (a *StorefrontAPI) ClearWishlistHandler(c echo.Context) error {
	if err := a.wishlist.Clear(c.Request().Context(), currentUser(c).UID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateOrderHandler records a checkout.
func (a *StorefrontAPI) CreateOrderHandler(c echo.Context) error {
	var input services.CreateOrderInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	order, err := a.orders.CreateOrder(c.Request().Context(), currentUser(c).UID, input)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, order)
}

// ListOrdersHandler returns the user's order history, newest first.
func (a *StorefrontAPI) ListOrdersHandler(c echo.Context) error {
	orders, err := a.orders.ListUserOrders(c.Request().Context(), currentUser(c).UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrderHandler returns one of the user's own orders.
func (a *StorefrontAPI) GetOrderHandler(c echo.Context) error {
	order, err := a.orders.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "order not found"})
		}
		return err
	}
	if order.UserID != currentUser(c).UID {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "order belongs to another user"})
	}
	return c.JSON(http.StatusOK, order)
}

// ListReviewsHandler returns a product's reviews.
func (a *StorefrontAPI) ListReviewsHandler(c echo.Context) error {
	reviews, err := a.reviews.ListProductReviews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

// CreateReviewHandler creates a purchase-gated review.
func (a *StorefrontAPI) CreateReviewHandler(c echo.Context) error {
	var input services.CreateReviewInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	review, err := a.reviews.CreateReview(c.Request().Context(), currentUser(c), input)
	if err != nil {
		if errors.Is(err, services.ErrMustPurchaseFirst) || errors.Is(err, services.ErrAlreadyReviewed) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
		}
		return err
	}
	return c.JSON(http.StatusCreated, review)
}

type updateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// UpdateReviewHandler edits the caller's own review.
func (a *StorefrontAPI) UpdateReviewHandler(c echo.Context) error {
	var req updateReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	err := a.reviews.UpdateReview(c.Request().Context(), currentUser(c).UID, c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, services.ErrNotReviewOwner) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
		}
		if errors.Is(err, domain.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "review not found"})
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteReviewHandler removes the caller's own review.
func (a *StorefrontAPI) DeleteReviewHandler(c echo.Context) error {
	err := a.reviews.DeleteReview(c.Request().Context(), currentUser(c).UID, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotReviewOwner) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
		}
		if errors.Is(err, domain.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "review not found"})
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetProfileHandler returns the current user's profile document.
func (a *StorefrontAPI) GetProfileHandler(c echo.Context) error {
	profile, err := a.profiles.GetProfile(c.Request().Context(), currentUser(c).UID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "profile not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfileHandler applies a partial profile update and refreshes the
// live session.
func (a *StorefrontAPI) UpdateProfileHandler(c echo.Context) error {
	var fields map[string]any
	if err := c.Bind(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := a.profiles.UpdateProfile(c.Request().Context(), currentUser(c).UID, fields); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a.sessions.CurrentUser())
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePasswordHandler re-authenticates before replacing the password.
func (a *StorefrontAPI) ChangePasswordHandler(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	err := a.profiles.ChangePassword(c.Request().Context(), currentUser(c).UID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": authErr.Reason})
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
