package main

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	authDelivery "github.com/danisworo/shopapi/internal/domain/auth/delivery"
	orderDelivery "github.com/danisworo/shopapi/internal/domain/orders/delivery"
	productDelivery "github.com/danisworo/shopapi/internal/domain/products/delivery"
	userDelivery "github.com/danisworo/shopapi/internal/domain/users/delivery"
	"github.com/danisworo/shopapi/internal/platform/config"
	"github.com/danisworo/shopapi/internal/platform/session"
	"github.com/danisworo/shopapi/pkg/constant"
	"github.com/danisworo/shopapi/pkg/cookie"
	"github.com/danisworo/shopapi/pkg/jwt"
	appMiddleware "github.com/danisworo/shopapi/pkg/middleware"
	"github.com/danisworo/shopapi/pkg/response"
)

type routeDeps struct {
	cfg          *config.Config
	users        *userDelivery.Handler
	auth         *authDelivery.Handler
	products     *productDelivery.Handler
	orders       *orderDelivery.Handler
	tokenService *jwt.TokenService
	sessionStore *session.Store
	cookieCodec  *cookie.Codec
	userSource   appMiddleware.UserFinder
}

func setupRoutes(e *echo.Echo, deps routeDeps) {
	// Middleware
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Gzip())
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Custom error handler
	e.HTTPErrorHandler = response.CustomErrorHandler

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status": "ok",
		})
	})

	jwtAuth := appMiddleware.JWTAuth(deps.tokenService)
	sessionAuth := appMiddleware.SessionAuth(deps.sessionStore, deps.userSource, deps.cfg.Session.CookieName)
	cookieAuth := appMiddleware.CookieAuth(deps.cookieCodec, deps.userSource, deps.cfg.Cookie.Name)
	adminOnly := appMiddleware.Authorize(constant.RoleAdmin)

	api := e.Group("/api")

	// The three authentication strategies live side by side, selected by
	// route prefix. All of them produce the same principal shape.
	auth := api.Group("/auth")
	{
		jwtRoutes := auth.Group("/jwt")
		jwtRoutes.POST("/login", deps.auth.LoginJWT)
		jwtRoutes.POST("/refresh", deps.auth.RefreshToken)
		jwtRoutes.POST("/logout", deps.auth.LogoutJWT)
		jwtRoutes.GET("/me", deps.auth.MeJWT, jwtAuth)

		sessionRoutes := auth.Group("/session")
		sessionRoutes.POST("/login", deps.auth.LoginSession)
		sessionRoutes.POST("/logout", deps.auth.LogoutSession)
		sessionRoutes.GET("/me", deps.auth.MeSession, sessionAuth)

		cookieRoutes := auth.Group("/cookie")
		cookieRoutes.POST("/login", deps.auth.LoginCookie)
		cookieRoutes.POST("/logout", deps.auth.LogoutCookie)
		cookieRoutes.GET("/me", deps.auth.MeCookie, cookieAuth)
	}

	// User routes
	users := api.Group("/users")
	{
		users.POST("/register", deps.users.Register)

		users.GET("", deps.users.ListUsers, jwtAuth, adminOnly)
		users.GET("/:id", deps.users.GetUser, jwtAuth)
		users.PUT("/:id", deps.users.UpdateUser, jwtAuth)
		users.DELETE("/:id", deps.users.DeleteUser, jwtAuth, adminOnly)
		users.PUT("/:id/status", deps.users.SetStatus, jwtAuth, adminOnly)
	}

	// Product routes
	products := api.Group("/products")
	{
		products.GET("", deps.products.ListProducts)
		products.GET("/:id", deps.products.GetProduct)

		products.POST("", deps.products.CreateProduct, jwtAuth,
			appMiddleware.Authorize(constant.RoleAdmin, constant.RoleVendor))
		products.PUT("/:id", deps.products.UpdateProduct, jwtAuth,
			appMiddleware.Authorize(constant.RoleAdmin, constant.RoleVendor))
		products.DELETE("/:id", deps.products.DeleteProduct, jwtAuth, adminOnly)
		products.POST("/:id/reviews", deps.products.AddReview, jwtAuth)
	}

	// Order routes
	orders := api.Group("/orders")
	{
		orders.POST("", deps.orders.CreateOrder, jwtAuth)
		orders.GET("/me", deps.orders.ListMyOrders, jwtAuth)
		orders.GET("/:id", deps.orders.GetOrder, jwtAuth)

		orders.GET("", deps.orders.ListAllOrders, jwtAuth, adminOnly)
		orders.PUT("/:id", deps.orders.UpdateOrderStatus, jwtAuth, adminOnly)
	}
}
