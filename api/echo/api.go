// Package echo exposes the storefront over HTTP.
package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thriftwear/storefront/domain"
	"github.com/thriftwear/storefront/services"
	"github.com/thriftwear/storefront/session"
)

// StorefrontAPI struct to hold dependencies.
type StorefrontAPI struct {
	sessions *session.Manager
	catalog  *services.CatalogService
	carts    *services.CartService
	wishlist *services.WishlistService
	orders   *services.OrderService
	reviews  *services.ReviewService
	profiles *services.ProfileService
	guard    *SessionGuard
}

// NewStorefrontAPI initializes the storefront API.
func NewStorefrontAPI(
	sessions *session.Manager,
	catalog *services.CatalogService,
	carts *services.CartService,
	wishlist *services.WishlistService,
	orders *services.OrderService,
	reviews *services.ReviewService,
	profiles *services.ProfileService,
) *StorefrontAPI {
	return &StorefrontAPI{
		sessions: sessions,
		catalog:  catalog,
		carts:    carts,
		wishlist: wishlist,
		orders:   orders,
		reviews:  reviews,
		profiles: profiles,
		guard:    NewSessionGuard(sessions),
	}
}

// RegisterRoutes registers the storefront routes.
func (a *StorefrontAPI) RegisterRoutes(e *echo.Echo) {
	e.POST("/auth/signup", a.SignUpHandler, a.guard.RedirectAuthenticated)
	e.POST("/auth/login", a.SignInHandler, a.guard.RedirectAuthenticated)
	e.GET("/auth/federated/callback", a.FederatedCallbackHandler)
	e.POST("/auth/logout", a.LogoutHandler)
	e.GET("/auth/me", a.MeHandler, a.guard.RequireUser)

	e.GET("/products", a.ListProductsHandler)
	e.GET("/products/:id", a.GetProductHandler)
	e.GET("/products/:id/reviews", a.ListReviewsHandler)
	e.POST("/products", a.AddProductHandler, a.guard.RequireUser)
	e.PUT("/products/:id", a.UpdateProductHandler, a.guard.RequireUser)
	e.DELETE("/products/:id", a.DeleteProductHandler, a.guard.RequireUser)

	cart := e.Group("/cart", a.guard.RequireUser)
	cart.GET("", a.GetCartHandler)
	cart.POST("/items", a.AddCartItemHandler)
	cart.PUT("/items/:id", a.UpdateCartItemHandler)
	cart.DELETE("/items/:id", a.RemoveCartItemHandler)
	cart.DELETE("", a.ClearCartHandler)

	wishlist := e.Group("/wishlist", a.guard.RequireUser)
	wishlist.GET("", a.ListWishlistHandler)
	wishlist.POST("/:productId/toggle", a.ToggleWishlistHandler)
	wishlist.DELETE("", a.ClearWishlistHandler)

	orders := e.Group("/orders", a.guard.RequireUser)
	orders.POST("", a.CreateOrderHandler)
	orders.GET("", a.ListOrdersHandler)
	orders.GET("/:id", a.GetOrderHandler)

	reviews := e.Group("/reviews", a.guard.RequireUser)
	reviews.POST("", a.CreateReviewHandler)
	reviews.PUT("/:id", a.UpdateReviewHandler)
	reviews.DELETE("/:id", a.DeleteReviewHandler)

	profile := e.Group("/profile", a.guard.RequireUser)
	profile.GET("", a.GetProfileHandler)
	profile.PUT("", a.UpdateProfileHandler)
	profile.POST("/password", a.ChangePasswordHandler)
}

type signUpRequest struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpHandler registers a new account. Expected provider failures come
// back as 400 with the readable reason from the session manager.
func (a *StorefrontAPI) SignUpHandler(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Email == "" || req.Password == "" || req.Username == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "full_name, username, email and password are required"})
	}

	if !a.sessions.SignUp(c.Request().Context(), req.FullName, req.Username, req.Email, req.Password) {
		return a.authFailure(c)
	}
	return c.JSON(http.StatusCreated, a.sessions.CurrentUser())
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInHandler authenticates an email/password credential.
func (a *StorefrontAPI) SignInHandler(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if !a.sessions.SignIn(c.Request().Context(), req.Email, req.Password) {
		return a.authFailure(c)
	}
	return c.JSON(http.StatusOK, a.sessions.CurrentUser())
}

// FederatedCallbackHandler completes a federated login with the
// authorization code from the external provider's redirect.
func (a *StorefrontAPI) FederatedCallbackHandler(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing authorization code"})
	}

	if !a.sessions.SignInFederated(c.Request().Context(), code) {
		return a.authFailure(c)
	}
	return c.JSON(http.StatusOK, a.sessions.CurrentUser())
}

// LogoutHandler signs the current session out. Logging out twice is fine.
func (a *StorefrontAPI) LogoutHandler(c echo.Context) error {
	if !a.sessions.Logout(c.Request().Context()) {
		return a.authFailure(c)
	}
	return c.NoContent(http.StatusNoContent)
}

// MeHandler returns the merged user for the live session.
func (a *StorefrontAPI) MeHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c))
}

// authFailure translates the session manager's recorded failure into a
// response. AuthErrors are expected and map to 401; anything else is a 502
// from a collaborator.
func (a *StorefrontAPI) authFailure(c echo.Context) error {
	err := a.sessions.LastError()

	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": authErr.Reason})
	}
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "authentication failed"})
}
