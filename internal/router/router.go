// Package router wires HTTP routes to handlers and applies middleware.
// The strict per-request ordering is encoded here: admin catalog writes
// pass JWTAuth then RequireRole before any handler runs, and review
// submission passes JWTAuth, so no catalog mutation is reachable without
// a verified subject.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront-api/internal/handler"
	"github.com/iliyamo/storefront-api/internal/middleware"
	"github.com/iliyamo/storefront-api/internal/model"
)

// RegisterRoutes registers routes that need no authentication or state.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterUsers registers the user endpoints. Registration, login,
// refresh, profile update and wishlist follow the storefront's legacy
// contract and carry their own credential checks in the handlers.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler) {
	e.POST("/user/create", h.Create)
	e.GET("/users", h.List)
	e.POST("/user/login", h.Login)
	e.POST("/user/refresh", h.Refresh)
	e.PUT("/user/update", h.Update)
	e.POST("/user/wishlist", h.Wishlist)
}

// RegisterCatalog registers the product endpoints. The listing endpoint
// is public and wrapped by the response cache; write endpoints require a
// verified admin subject; review submission requires any authenticated
// subject.
func RegisterCatalog(e *echo.Echo, h *handler.ProductHandler, accessSecret string, users middleware.SubjectResolver, cache echo.MiddlewareFunc) {
	e.GET("/products", h.List, cache)

	admin := e.Group("", middleware.JWTAuth(accessSecret, users), middleware.RequireRole(model.RoleAdmin))
	admin.POST("/product/create", h.Create)
	admin.PUT("/product/update", h.Update)
	admin.DELETE("/product/delete", h.Delete)

	authed := e.Group("", middleware.JWTAuth(accessSecret, users))
	authed.POST("/product/:id/review", h.AddReview)
}
