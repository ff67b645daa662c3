package httpserver

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"mayorista-bff/internal/cart"
	"mayorista-bff/internal/cartstore"
	"mayorista-bff/internal/session"
	"mayorista-bff/internal/upstream"
)

// upstreamAPI is the slice of the upstream client the handlers consume.
type upstreamAPI interface {
	Login(ctx context.Context, userName, password string) (*upstream.LoginResult, error)
	Products(ctx context.Context, token, userID string, q upstream.ProductQuery) (*upstream.ProductPage, error)
	FilterLists(ctx context.Context, token string) (json.RawMessage, error)
	BannerInfo(ctx context.Context, token string) (json.RawMessage, error)
	Pedidos(ctx context.Context, token, dni string) (json.RawMessage, error)
	Customer(ctx context.Context, token, userID string) (json.RawMessage, error)
}

// Deps carries everything the router needs.
type Deps struct {
	Sessions *session.Store
	Upstream upstreamAPI
	Carts    *cart.Service
	// CartStore is only pinged by the readiness probe.
	CartStore cartstore.Store

	CookieName     string
	FrontendOrigin string
	// APIBaseURL is where /api/* requests get proxied.
	APIBaseURL string
}

// buildRouter wires the BFF routes: auth, catalog passthrough, the cart
// endpoints and the authenticated /api/* reverse proxy.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	// Cookie auth requires credentialed CORS with an explicit origin.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{deps.FrontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.CartStore))

	auth := router.Group("/auth")
	{
		auth.POST("/login", loginHandler(deps))
		auth.POST("/logout", logoutHandler(deps))
		auth.GET("/me", meHandler(deps))
	}

	authed := router.Group("", requireSession(deps))
	{
		authed.GET("/user", userHandler(deps))
		authed.GET("/productos", productosHandler(deps))
		authed.GET("/productos/listas-filtros", filterListsHandler(deps))
		authed.GET("/productos/banner", bannerHandler(deps))
		authed.GET("/pedidos", pedidosHandler(deps))

		authed.GET("/cart", cartGetHandler(deps))
		authed.POST("/cart/items", cartAddHandler(deps))
		authed.POST("/cart/items/:id/increase", cartIncreaseHandler(deps))
		authed.POST("/cart/items/:id/decrease", cartDecreaseHandler(deps))
		authed.PUT("/cart/items/:id", cartSetQtyHandler(deps))
		authed.DELETE("/cart/items/:id", cartRemoveHandler(deps))
		authed.DELETE("/cart", cartClearHandler(deps))
		authed.POST("/cart/sync", cartSyncHandler(deps))
	}

	proxy, err := newAPIProxy(logger, deps)
	if err != nil {
		return nil, err
	}
	router.Any("/api/*path", proxy)

	return router, nil
}
