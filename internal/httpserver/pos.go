package httpserver

import (
	"errors"
	"net/http"

	"puntoventa/internal/domain"
	"puntoventa/internal/service/cart"
	"puntoventa/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

func cartView(id string, c *cart.Cart) gin.H {
	return gin.H{
		"id":       id,
		"lines":    c.Lines(),
		"subtotal": c.Subtotal(),
	}
}

func createCartHandler(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, newCart := store.Create()
		c.JSON(http.StatusCreated, cartView(id, newCart))
	}
}

func getCartHandler(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		sessionCart, ok := store.Get(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
			return
		}
		c.JSON(http.StatusOK, cartView(id, sessionCart))
	}
}

func clearCartHandler(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		sessionCart, ok := store.Get(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
			return
		}
		sessionCart.Clear()
		c.JSON(http.StatusOK, cartView(id, sessionCart))
	}
}

type addItemRequest struct {
	ProductID string `json:"productId"`
}

func addCartItemHandler(store *cart.Store, products CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		sessionCart, ok := store.Get(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
			return
		}

		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId required"})
			return
		}

		p, ok := products.FindByID(req.ProductID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		if err := sessionCart.Add(*p); err != nil {
			switch {
			case errors.Is(err, cart.ErrOutOfStock):
				c.JSON(http.StatusConflict, gin.H{"warning": "product is out of stock"})
			case errors.Is(err, cart.ErrInsufficientStock):
				c.JSON(http.StatusConflict, gin.H{"warning": "not enough stock available"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add item"})
			}
			return
		}
		c.JSON(http.StatusOK, cartView(id, sessionCart))
	}
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func setCartQuantityHandler(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		sessionCart, ok := store.Get(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
			return
		}

		var req setQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if err := sessionCart.SetQuantity(c.Param("productId"), req.Quantity); err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "line not found"})
			case errors.Is(err, cart.ErrInsufficientStock):
				c.JSON(http.StatusConflict, gin.H{"warning": "not enough stock available"})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, cartView(id, sessionCart))
	}
}

func removeCartItemHandler(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		sessionCart, ok := store.Get(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
			return
		}
		sessionCart.Remove(c.Param("productId"))
		c.JSON(http.StatusOK, cartView(id, sessionCart))
	}
}

func checkoutHandler(store *cart.Store, svc CheckoutService, products CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		sessionCart, ok := store.Get(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
			return
		}

		var meta checkout.Meta
		if err := c.ShouldBindJSON(&meta); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		result, err := svc.Commit(c.Request.Context(), currentUser(c), sessionCart.Lines(), meta)
		if err != nil {
			writeCheckoutError(c, err)
			return
		}

		// Only a fully committed sale clears the cart. After a partial
		// failure the operator retries with the cart intact.
		sessionCart.Clear()
		if _, err := products.Refresh(c.Request.Context(), true); err != nil {
			// The sale is committed; a stale product cache is not a
			// checkout failure.
			c.JSON(http.StatusCreated, gin.H{"sale": result.Sale, "items": result.Items, "warning": "product list refresh failed"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"sale": result.Sale, "items": result.Items})
	}
}

// writeCheckoutError maps commit failures onto status codes. Failures after
// the sale insert report the failing line so support can reconcile the
// partially recorded sale.
func writeCheckoutError(c *gin.Context, err error) {
	var invoiceErr *checkout.InvoiceNumberError
	var saleErr *checkout.SaleInsertError
	var itemErr *checkout.SaleItemInsertError
	var stockErr *checkout.StockUpdateError

	switch {
	case errors.Is(err, checkout.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case errors.As(err, &invoiceErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not obtain invoice number"})
	case errors.As(err, &saleErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not record sale"})
	case errors.As(err, &itemErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "sale partially recorded: item insert failed",
			"line":      itemErr.Line,
			"productId": itemErr.ProductID,
		})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "sale partially recorded: stock update failed",
			"line":      stockErr.Line,
			"productId": stockErr.ProductID,
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
