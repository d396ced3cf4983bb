// Package router registers every HTTP route. Public routes (health,
// auth) are open; everything else requires a valid access token, and
// the /v1/admin group additionally requires the ADMIN role. Read-only
// catalog and availability routes run behind the Redis response cache.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Handlers groups every handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Reservations *handler.ReservationHandler
	Availability *handler.AvailabilityHandler
	Tables       *handler.TableHandler
	Menu         *handler.MenuHandler
	Cart         *handler.CartHandler
	Orders       *handler.OrderHandler
	Admin        *handler.AdminHandler
}

// Register mounts all routes on the Echo instance. rdb may be nil, in
// which case caching and rate limiting become pass-throughs.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)

	// Session endpoints. Logout needs only the refresh token, so it
	// stays outside the JWT group.
	auth := e.Group("/v1/auth", limiter)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	api := e.Group("/v1", limiter, middleware.JWTAuth(cfg.JWTSecret))
	api.GET("/me", h.Auth.Me)

	// Reservation lifecycle, owner-scoped.
	api.POST("/reservations", h.Reservations.Create)
	api.GET("/reservations", h.Reservations.List)
	api.GET("/reservations/:id", h.Reservations.Get)
	api.PUT("/reservations/:id", h.Reservations.Update)
	api.DELETE("/reservations/:id", h.Reservations.Delete)

	// Ordering on top of a reservation.
	api.POST("/reservations/:id/order/items", h.Orders.AttachItem)
	api.GET("/reservations/:id/order", h.Orders.Lines)
	api.POST("/reservations/:id/order/from-cart", h.Orders.FromCart)

	// Availability and catalogs. Shared, non-personalized reads go
	// through the response cache.
	api.GET("/availability", h.Availability.Check, cache)
	api.GET("/availability/all", h.Availability.CheckAll, cache)
	api.GET("/tables", h.Tables.List, cache)
	api.GET("/tables/autocomplete", h.Tables.Autocomplete)
	api.GET("/menu", h.Menu.List, cache)
	api.GET("/menu/categories", h.Menu.Categories, cache)
	api.GET("/menu/search", h.Menu.Search)
	api.GET("/menu/:id", h.Menu.Get, cache)

	// The cart is personalized, so it is never cached.
	api.GET("/cart", h.Cart.List)
	api.POST("/cart/items", h.Cart.Add)
	api.DELETE("/cart/items/:id", h.Cart.Remove)

	// Staff-only management.
	admin := api.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/reservations", h.Admin.ListReservations)
	admin.POST("/tables", h.Admin.CreateTable)
	admin.PUT("/tables/:id", h.Admin.UpdateTable)
	admin.POST("/menu", h.Admin.CreateMenuItem)
	admin.PUT("/menu/:id", h.Admin.UpdateMenuItem)
}
