package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mayorista-bff/internal/cart"
	"mayorista-bff/internal/domain"
	"mayorista-bff/internal/upstream"
)

// cartResponse is what every cart endpoint answers with: the lines plus the
// derived totals, so the frontend never computes them itself.
type cartResponse struct {
	Items []domain.CartLine `json:"items"`
	Count int               `json:"count"`
	Total float64           `json:"total"`
}

func cartResponseFrom(f *cart.Facade) cartResponse {
	return cartResponse{
		Items: f.Items(),
		Count: f.TotalItemCount(),
		Total: f.TotalAmount(),
	}
}

func cartGetHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := deps.Carts.ForOwner(cartOwner(c))
		c.JSON(http.StatusOK, cartResponseFrom(f))
	}
}

type addItemRequest struct {
	ID    string   `json:"id" binding:"required"`
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
	Stock float64  `json:"stock"`
	Qty   float64  `json:"qty"`
}

// cartAddHandler adds qty units of the posted catalog item. An out-of-stock
// item is a silent no-op, so the response is still 200 with the unchanged
// cart.
func cartAddHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "id es requerido"})
			return
		}
		f := deps.Carts.ForOwner(cartOwner(c))
		f.AddItem(cart.ItemInput{
			ID:    req.ID,
			Name:  req.Name,
			Price: req.Price,
			Stock: req.Stock,
		}, req.Qty)
		c.JSON(http.StatusOK, cartResponseFrom(f))
	}
}

func cartIncreaseHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := deps.Carts.ForOwner(cartOwner(c))
		f.Increase(c.Param("id"))
		c.JSON(http.StatusOK, cartResponseFrom(f))
	}
}

func cartDecreaseHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := deps.Carts.ForOwner(cartOwner(c))
		f.Decrease(c.Param("id"))
		c.JSON(http.StatusOK, cartResponseFrom(f))
	}
}

type setQtyRequest struct {
	Qty float64 `json:"qty"`
}

func cartSetQtyHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setQtyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "qty es requerido"})
			return
		}
		f := deps.Carts.ForOwner(cartOwner(c))
		f.SetQty(c.Param("id"), req.Qty)
		c.JSON(http.StatusOK, cartResponseFrom(f))
	}
}

func cartRemoveHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := deps.Carts.ForOwner(cartOwner(c))
		f.Remove(c.Param("id"))
		c.JSON(http.StatusOK, cartResponseFrom(f))
	}
}

func cartClearHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := deps.Carts.ForOwner(cartOwner(c))
		f.Clear()
		c.JSON(http.StatusOK, cartResponseFrom(f))
	}
}

// cartSyncHandler re-fetches the whole catalog and reconciles the cart
// against it: stale prices refresh, quantities re-clamp, lines for products
// gone out of stock drop out.
func cartSyncHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		page, err := deps.Upstream.Products(c.Request.Context(), sess.AccessToken, sess.UserID, upstream.ProductQuery{
			PageNumber: 1,
			PageSize:   0, // upstream reads 0 as "everything"
		})
		if err != nil {
			upstreamError(c, err)
			return
		}
		f := deps.Carts.ForOwner(cartOwner(c))
		f.SyncFromProducts(page.Products)
		c.JSON(http.StatusOK, cartResponseFrom(f))
	}
}
