package httpserver

import (
	"context"
	"log"
	"net/http"
	"strings"

	"puntoventa/internal/domain"
	"puntoventa/internal/service/cart"
	"puntoventa/internal/service/catalog"
	"puntoventa/internal/service/checkout"
	"puntoventa/internal/service/sales"
	"puntoventa/internal/service/settings"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string)
	AccessTTLSeconds() int
}

type CatalogService interface {
	Refresh(ctx context.Context, activeOnly bool) ([]domain.Product, error)
	FindByID(id string) (*domain.Product, bool)
	Search(term string) []domain.Product
	Create(ctx context.Context, in catalog.CreateInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in catalog.CreateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type CheckoutService interface {
	Commit(ctx context.Context, user *domain.User, lines []domain.CartLine, meta checkout.Meta) (*checkout.Result, error)
}

type SalesService interface {
	List(ctx context.Context, search string) ([]domain.Sale, error)
	Get(ctx context.Context, id string) (*sales.Detail, error)
}

type SettingsService interface {
	Get(ctx context.Context, userID string) (*domain.CompanySettings, error)
	Save(ctx context.Context, userID string, in settings.SaveInput) (*domain.CompanySettings, error)
}

// Deps carries the services the router wires handlers to.
type Deps struct {
	Auth     AuthService
	Catalog  CatalogService
	Carts    *cart.Store
	Checkout CheckoutService
	Sales    SalesService
	Settings SettingsService
}

const userCtxKey = "currentUser"

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/auth/login", loginHandler(deps.Auth))

	api := router.Group("/api", authMiddleware(deps.Auth))
	api.GET("/me", meHandler)
	api.POST("/logout", logoutHandler(deps.Auth))

	api.GET("/products", listProductsHandler(deps.Catalog))
	api.POST("/products", createProductHandler(deps.Catalog))
	api.PUT("/products/:id", updateProductHandler(deps.Catalog))
	api.DELETE("/products/:id", deleteProductHandler(deps.Catalog))

	api.POST("/pos/carts", createCartHandler(deps.Carts))
	api.GET("/pos/carts/:id", getCartHandler(deps.Carts))
	api.DELETE("/pos/carts/:id", clearCartHandler(deps.Carts))
	api.POST("/pos/carts/:id/items", addCartItemHandler(deps.Carts, deps.Catalog))
	api.PUT("/pos/carts/:id/items/:productId", setCartQuantityHandler(deps.Carts))
	api.DELETE("/pos/carts/:id/items/:productId", removeCartItemHandler(deps.Carts))
	api.POST("/pos/carts/:id/checkout", checkoutHandler(deps.Carts, deps.Checkout, deps.Catalog))

	api.GET("/sales", listSalesHandler(deps.Sales))
	api.GET("/sales/export", exportSalesHandler(deps.Sales))
	api.GET("/sales/:id", getSaleHandler(deps.Sales))

	api.GET("/settings", getSettingsHandler(deps.Settings))
	api.PUT("/settings", saveSettingsHandler(deps.Settings))

	return router, nil
}

// authMiddleware resolves the bearer token and stashes the user for handlers.
func authMiddleware(auth AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if header == "" || token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		u, err := auth.LookupByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(userCtxKey, u)
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
